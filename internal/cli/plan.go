package cli

import (
	"github.com/arthur-debert/buildenv/pkg/core"
	"github.com/arthur-debert/buildenv/pkg/ui"
	"github.com/spf13/cobra"
)

func newPlanCmd(flags *buildFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: MsgPlanShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ui.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == ui.FormatAuto {
				f = outputFormat(cmd.OutOrStdout())
			}

			cfg, err := flags.load(cmd.Flags())
			if err != nil {
				return err
			}

			result, err := core.PlanOnly(cfg, core.Options{})
			ui.RenderWarnings(cmd.ErrOrStderr(), result.Warnings, outputFormat(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			return ui.RenderPlan(cmd.OutOrStdout(), result.Plan, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)

	return cmd
}
