package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/arthur-debert/buildenv/pkg/errors"
	"github.com/arthur-debert/buildenv/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnv names the environment variable pointing at a TOML config file
const ConfigFileEnv = "BUILDENV_CONFIG"

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// ConfigFile is a TOML (or, with a .yaml/.yml extension, YAML) file
	// loaded over the defaults. When empty, $BUILDENV_CONFIG is used if set.
	ConfigFile string
	// SkipEnv disables the environment variable layer
	SkipEnv bool
	// Overrides are applied last, keyed by the Key* constants
	Overrides map[string]interface{}
}

// envKeys maps builder environment variables onto configuration keys
var envKeys = map[string]string{
	KeyOut:                     KeyOut,
	KeyExtraPrefix:             KeyExtraPrefix,
	KeyPathsToLink:             KeyPathsToLink,
	KeyIgnoreCollisions:        KeyIgnoreCollisions,
	KeyCheckCollisionContents:  KeyCheckCollisionContents,
	KeyIgnoreSingleFileOutputs: KeyIgnoreSingleFileOutputs,
	KeyPkgs:                    KeyPkgs,
	KeyPkgsPath:                KeyPkgsPath,
	KeyExtraPathsFrom:          KeyExtraPathsFrom,
	KeyManifest:                KeyManifest,
	KeyStoreDir:                KeyStoreDir,
	KeyExcludePaths:            KeyExcludePaths,
	"BUILDENV_EXCLUDE":         KeyExcludePaths,
}

// Load builds a Config from, lowest precedence first: defaults, the TOML
// config file, environment variables and overrides.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Config file
	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = os.Getenv(ConfigFileEnv)
	}
	if configFile != "" {
		logger.Debug().Str("file", configFile).Msg("Loading config file")
		if err := k.Load(file.Provider(configFile), parserFor(configFile)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", configFile).
				WithDetail("path", configFile)
		}
	}

	// 3. Environment
	if !opts.SkipEnv {
		err := k.Load(env.Provider("", ".", func(s string) string {
			return envKeys[s]
		}), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
		}
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				stringToFieldsHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}
	// Set but empty stays distinguishable from unset
	if k.Exists(KeyPathsToLink) && cfg.PathsToLink == nil {
		cfg.PathsToLink = []string{}
	}

	logger.Debug().
		Str("out", cfg.Out).
		Strs("pathsToLink", cfg.PathsToLink).
		Bool("ignoreCollisions", cfg.IgnoreCollisions).
		Bool("checkCollisionContents", cfg.CheckCollisionContents).
		Msg("Configuration loaded")

	return &cfg, nil
}

// parserFor picks the config file parser from the file extension
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// stringToFieldsHookFunc splits whitespace separated strings into slices,
// the way the builder's list-valued variables are written.
func stringToFieldsHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Slice {
			return data, nil
		}
		return strings.Fields(data.(string)), nil
	}
}
