package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/7591yj/tg-webm-converter/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment and report tool versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "tg-webm-converter %s\n", version)
			statuses := preflight.CheckTools(cmd.Context(), cfg)
			for _, status := range statuses {
				if status.Available && status.Version != "" {
					fmt.Fprintln(out, status.Version)
				} else {
					fmt.Fprintf(out, "%s unavailable: %s\n", status.Name, status.Detail)
				}
			}
			fmt.Fprintln(out)

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				state := "ok"
				if !result.Passed {
					state = "failed"
				}
				rows = append(rows, []string{result.Name, state, result.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows))

			if !preflight.Ok(results) {
				return errors.New("environment check failed")
			}
			return nil
		},
	}
}
