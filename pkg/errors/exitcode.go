package errors

// Exit codes returned by the buildenv CLI
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitConfigError  = 2
	ExitPackageList  = 3
	ExitMergeError   = 4
	ExitFileSystem   = 5
)

// ExitCode maps an error to the process exit code reported by the CLI.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch GetErrorCode(err) {
	case ErrConfigMissing, ErrConfigLoad, ErrInvalidInput:
		return ExitConfigError
	case ErrPackageList, ErrNoPackages:
		return ExitPackageList
	case ErrCollision, ErrStorePathIsFile, ErrNotADirectory:
		return ExitMergeError
	case ErrFileAccess, ErrDirCreate, ErrSymlinkCreate:
		return ExitFileSystem
	default:
		return ExitGeneralError
	}
}
