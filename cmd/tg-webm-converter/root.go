package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var opts convertOptions

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "tg-webm-converter",
		Short: "Convert images to Telegram WebM stickers and icons",
		Long: "Convert images to Telegram WebM stickers.\n\n" +
			"Without flags, every supported image in the current directory is\n" +
			"converted to a 512px video sticker. Use --icon to convert one of them\n" +
			"to a 100x100 set icon, or --file/--icon-file for a single input.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, opts)
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.Flags().StringVar(&opts.filePath, "file", "", "Convert a single file to a sticker")
	rootCmd.Flags().StringVar(&opts.iconFilePath, "icon-file", "", "Convert a single file to a set icon")
	rootCmd.Flags().StringVar(&opts.iconPath, "icon", "", "Batch convert; treat this file as the set icon")
	rootCmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "Output directory (default ./webm)")

	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
