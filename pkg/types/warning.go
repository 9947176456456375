package types

// WarningKind identifies a non-fatal condition
type WarningKind string

const (
	// WarningDanglingSymlink is reported when a broken symlink gets linked anyway
	WarningDanglingSymlink WarningKind = "dangling-symlink"

	// WarningPermissions is reported when two colliding files differ in mode
	WarningPermissions WarningKind = "different-permissions"

	// WarningCollisionIgnored is reported when a collision is skipped
	WarningCollisionIgnored WarningKind = "collision-ignored"

	// WarningSingleFileOutput is reported when a store path that is a file is skipped
	WarningSingleFileOutput WarningKind = "single-file-output"
)

// Warning is a non-fatal condition reported during planning
type Warning struct {
	Kind    WarningKind
	Message string
	Paths   []string
}

// String returns the message printed after the "warning: " prefix
func (w Warning) String() string {
	return w.Message
}
