package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort    = "Merge package outputs into a single symlink tree"
	MsgRootLong     = `buildenv merges the output directories of several packages into one
environment made of real directories and symlinks. Packages are read from
the pkgs or pkgsPath setting; lower priorities win collisions, and packages
listed in nix-support/propagated-user-env-packages are pulled in
transitively.

Settings come from, lowest precedence first: built-in defaults, a TOML file
(--config or $BUILDENV_CONFIG), the builder environment variables (out,
pathsToLink, pkgs, ...) and command line flags.`
	MsgPlanShort    = "Print the merged plan without writing anything"
	MsgVersionShort = "Print version information"

	// Version output
	MsgVersionFormat = "buildenv version %s\n"
	MsgCommitFormat  = "  commit: %s\n"
	MsgBuiltFormat   = "  built:  %s\n"
)

// Flag descriptions
const (
	MsgFlagVerbose                 = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig                  = "TOML or YAML config file (default $BUILDENV_CONFIG)"
	MsgFlagOut                     = "Output directory of the environment"
	MsgFlagExtraPrefix             = "Prefix inserted below the output directory"
	MsgFlagPathsToLink             = "Relative paths to link, whitespace separated or repeated; \"/\" links everything"
	MsgFlagIgnoreCollisions        = "Warn about collisions instead of failing"
	MsgFlagCheckCollisionContents  = "Accept collisions between files with identical contents"
	MsgFlagIgnoreSingleFileOutputs = "Skip store paths that are regular files"
	MsgFlagPkgs                    = "Inline JSON package list"
	MsgFlagPkgsPath                = "File holding the package list (JSON or YAML)"
	MsgFlagExtraPathsFrom          = "File listing extra package roots, one per line"
	MsgFlagManifest                = "File linked as <out>/manifest"
	MsgFlagStoreDir                = "Store directory whose children are store paths"
	MsgFlagExclude                 = "Glob of relative paths never to link (repeatable)"
	MsgFlagDryRun                  = "Preview changes without executing them"
	MsgFlagFormat                  = "Output format: auto, text, term, json, yaml or toml"
)
