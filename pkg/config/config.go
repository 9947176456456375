package config

import (
	"github.com/arthur-debert/buildenv/pkg/errors"
)

// Configuration keys. They double as the environment variable names the
// builder reads.
const (
	KeyOut                     = "out"
	KeyExtraPrefix             = "extraPrefix"
	KeyPathsToLink             = "pathsToLink"
	KeyIgnoreCollisions        = "ignoreCollisions"
	KeyCheckCollisionContents  = "checkCollisionContents"
	KeyIgnoreSingleFileOutputs = "ignoreSingleFileOutputs"
	KeyPkgs                    = "pkgs"
	KeyPkgsPath                = "pkgsPath"
	KeyExtraPathsFrom          = "extraPathsFrom"
	KeyManifest                = "manifest"
	KeyStoreDir                = "storeDir"
	KeyExcludePaths            = "excludePaths"
)

// DefaultStoreDir is the store whose immediate children count as store paths
const DefaultStoreDir = "/nix/store"

// Config is the complete configuration of a single build
type Config struct {
	// Out is the output root of the environment
	Out string `koanf:"out"`
	// ExtraPrefix is inserted between Out and every linked relative path
	ExtraPrefix string `koanf:"extraPrefix"`
	// PathsToLink restricts what is linked; "/" links everything. nil means
	// unset, while an empty list links nothing.
	PathsToLink []string `koanf:"pathsToLink"`

	IgnoreCollisions        bool `koanf:"ignoreCollisions"`
	CheckCollisionContents  bool `koanf:"checkCollisionContents"`
	IgnoreSingleFileOutputs bool `koanf:"ignoreSingleFileOutputs"`

	// Pkgs is the inline JSON package list
	Pkgs string `koanf:"pkgs"`
	// PkgsPath names a file holding the package list; it wins over Pkgs
	PkgsPath string `koanf:"pkgsPath"`
	// ExtraPathsFrom names a file with one extra package root per line
	ExtraPathsFrom string `koanf:"extraPathsFrom"`
	// Manifest is linked as out/manifest when set
	Manifest string `koanf:"manifest"`
	StoreDir string `koanf:"storeDir"`

	// ExcludePaths are doublestar globs over relative paths that are never linked
	ExcludePaths []string `koanf:"excludePaths"`
}

// Validate checks that the required settings are present
func (c *Config) Validate() error {
	if c.Out == "" {
		return errors.New(errors.ErrConfigMissing, "Missing required environment variable 'out'").
			WithDetail("key", KeyOut)
	}
	if c.PathsToLink == nil {
		return errors.New(errors.ErrConfigMissing, "Missing required environment variable 'pathsToLink'").
			WithDetail("key", KeyPathsToLink)
	}
	return nil
}

// OutputDisplay is the output prefix shown in dangling symlink warnings
func (c *Config) OutputDisplay() string {
	return c.Out + c.ExtraPrefix
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		KeyOut:                     "",
		KeyExtraPrefix:             "",
		KeyIgnoreCollisions:        false,
		KeyCheckCollisionContents:  true,
		KeyIgnoreSingleFileOutputs: false,
		KeyPkgs:                    "",
		KeyPkgsPath:                "",
		KeyExtraPathsFrom:          "",
		KeyManifest:                "",
		KeyStoreDir:                DefaultStoreDir,
		KeyExcludePaths:            []string{},
	}
}
