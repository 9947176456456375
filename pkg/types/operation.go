package types

// OperationType defines the type of file system operation
type OperationType string

const (
	// OperationCreateSymlink creates a symbolic link
	OperationCreateSymlink OperationType = "create_symlink"

	// OperationCreateDir creates a directory
	OperationCreateDir OperationType = "create_dir"
)

// Operation represents a low-level file system operation produced from a plan
type Operation struct {
	// Type is the type of operation
	Type OperationType

	// Source is the symlink target (for symlinks only)
	Source string

	// Target is the path created in the output tree
	Target string

	// RelPath is the plan key the operation was generated from
	RelPath string
}
