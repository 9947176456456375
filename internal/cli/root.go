package cli

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/buildenv/internal/version"
	"github.com/arthur-debert/buildenv/pkg/config"
	"github.com/arthur-debert/buildenv/pkg/core"
	"github.com/arthur-debert/buildenv/pkg/errors"
	"github.com/arthur-debert/buildenv/pkg/logging"
	"github.com/arthur-debert/buildenv/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// buildFlags are the settings shared by the build and plan commands
type buildFlags struct {
	configFile              string
	out                     string
	extraPrefix             string
	pathsToLink             []string
	ignoreCollisions        bool
	checkCollisionContents  bool
	ignoreSingleFileOutputs bool
	pkgs                    string
	pkgsPath                string
	extraPathsFrom          string
	manifest                string
	storeDir                string
	excludes                []string
}

// NewRootCmd creates and returns the root command. Run without a
// subcommand it builds the environment.
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		dryRun    bool
		flags     buildFlags
	)

	rootCmd := &cobra.Command{
		Use:     "buildenv",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd.Flags())
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			format := outputFormat(stderr)

			result, err := core.Build(cfg, core.Options{DryRun: dryRun})
			ui.RenderWarnings(stderr, result.Warnings, format)
			if err != nil {
				return err
			}
			ui.RenderSummary(stderr, result.Links, dryRun, format)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	pf.StringVar(&flags.configFile, "config", "", MsgFlagConfig)
	pf.StringVar(&flags.out, "out", "", MsgFlagOut)
	pf.StringVar(&flags.extraPrefix, "extra-prefix", "", MsgFlagExtraPrefix)
	pf.StringArrayVar(&flags.pathsToLink, "paths-to-link", nil, MsgFlagPathsToLink)
	pf.BoolVar(&flags.ignoreCollisions, "ignore-collisions", false, MsgFlagIgnoreCollisions)
	pf.BoolVar(&flags.checkCollisionContents, "check-collision-contents", true, MsgFlagCheckCollisionContents)
	pf.BoolVar(&flags.ignoreSingleFileOutputs, "ignore-single-file-outputs", false, MsgFlagIgnoreSingleFileOutputs)
	pf.StringVar(&flags.pkgs, "pkgs", "", MsgFlagPkgs)
	pf.StringVar(&flags.pkgsPath, "pkgs-path", "", MsgFlagPkgsPath)
	pf.StringVar(&flags.extraPathsFrom, "extra-paths-from", "", MsgFlagExtraPathsFrom)
	pf.StringVar(&flags.manifest, "manifest", "", MsgFlagManifest)
	pf.StringVar(&flags.storeDir, "store-dir", "", MsgFlagStoreDir)
	pf.StringArrayVar(&flags.excludes, "exclude", nil, MsgFlagExclude)
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)

	rootCmd.AddCommand(newPlanCmd(&flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// load reads the configuration, letting only flags given on the command
// line override the lower layers.
func (f *buildFlags) load(set *pflag.FlagSet) (*config.Config, error) {
	overrides := map[string]interface{}{}
	add := func(flag, key string, value interface{}) {
		if set.Changed(flag) {
			overrides[key] = value
		}
	}
	add("out", config.KeyOut, f.out)
	add("extra-prefix", config.KeyExtraPrefix, f.extraPrefix)
	add("paths-to-link", config.KeyPathsToLink, splitFields(f.pathsToLink))
	add("ignore-collisions", config.KeyIgnoreCollisions, f.ignoreCollisions)
	add("check-collision-contents", config.KeyCheckCollisionContents, f.checkCollisionContents)
	add("ignore-single-file-outputs", config.KeyIgnoreSingleFileOutputs, f.ignoreSingleFileOutputs)
	add("pkgs", config.KeyPkgs, f.pkgs)
	add("pkgs-path", config.KeyPkgsPath, f.pkgsPath)
	add("extra-paths-from", config.KeyExtraPathsFrom, f.extraPathsFrom)
	add("manifest", config.KeyManifest, f.manifest)
	add("store-dir", config.KeyStoreDir, f.storeDir)
	add("exclude", config.KeyExcludePaths, f.excludes)

	return config.Load(config.LoadOptions{
		ConfigFile: f.configFile,
		Overrides:  overrides,
	})
}

// splitFields splits every value on whitespace, the way list settings are
// read from the environment
func splitFields(values []string) []string {
	out := []string{}
	for _, v := range values {
		out = append(out, strings.Fields(v)...)
	}
	return out
}

// outputFormat picks the format for human output written to w
func outputFormat(w io.Writer) ui.Format {
	if file, ok := w.(*os.File); ok {
		return ui.DetectFormat(file)
	}
	return ui.FormatText
}

// Execute runs the command, prints a failure as "Error: <message>" and
// returns the process exit code.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return errors.ExitSuccess
	}
	stderr := cmd.ErrOrStderr()
	ui.RenderError(stderr, err, outputFormat(stderr))
	return errors.ExitCode(err)
}
