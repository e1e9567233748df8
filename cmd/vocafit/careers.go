package main

import (
	"fmt"

	"github.com/spf13/cobra"

	service "github.com/okian/vocafit/internal/app"
)

var careersCmd = &cobra.Command{
	Use:   "careers [name]",
	Short: "Print the career catalog as JSON",
	Long:  "Print every career archetype with its per-instrument weights, or a single career when a name is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCareers,
}

var careersNamesOnly bool

func init() {
	careersCmd.Flags().BoolVar(&careersNamesOnly, "names", false, "Print only career names")
	rootCmd.AddCommand(careersCmd)
}

func runCareers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc := service.New(serviceOptions(cfg)...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	if len(args) == 1 {
		career, err := svc.Career(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), career)
	}

	careers, err := svc.Careers(ctx)
	if err != nil {
		return err
	}
	if careersNamesOnly {
		names := make([]string, len(careers))
		for i, c := range careers {
			names[i] = c.Name
		}
		return printJSON(cmd.OutOrStdout(), names)
	}
	return printJSON(cmd.OutOrStdout(), careers)
}
