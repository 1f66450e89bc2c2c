package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"photostrip/internal/fileutil"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <session>",
		Short: "Render a stored session to strip artifacts",
		Long: "Render a stored session (by id or label) to PNG, PDF, GIF, and scan code files.\n" +
			"Files are written to <output_dir>/<session label>/ unless --out is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options()
			if err != nil {
				return err
			}
			kinds, err := flags.kinds()
			if err != nil {
				return err
			}
			service, err := ctx.artifacts()
			if err != nil {
				return err
			}

			session, err := service.Sessions().Load(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			dir := strings.TrimSpace(outDir)
			if dir == "" {
				dir = filepath.Join(cfg.Paths.OutputDir, fileutil.SafeName(session.Label, session.ID))
			}
			return exportSession(cmd.Context(), cmd, service, session, dir, kinds, opts)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory for the written files")
	return cmd
}
