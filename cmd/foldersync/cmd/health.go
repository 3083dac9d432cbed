package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Report provisioning health and classifier coverage",
	Long: `Fetch the remote mailbox structure and compare it to the recorded
label map. Reports missing folders, overall health, and how much of
the mailbox the downstream classifier can route. Never modifies
anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeStore, err := newEngine()
		if err != nil {
			return err
		}
		defer closeStore()

		report, err := engine.Health(cmd.Context(), userID)
		if err != nil {
			return err
		}

		last, err := engine.LastRun(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if last == nil {
			fmt.Println("No provisioning run recorded.")
		} else {
			status := "ok"
			if !last.Succeeded {
				status = "failed"
			}
			fmt.Printf("Last run: %s (%s), created %d, matched %d, errors %d\n",
				last.RanAt.Format("2006-01-02 15:04"), status,
				last.Created, last.Matched, last.Errored)
		}

		if report.NeedsSync {
			fmt.Println("Local record is empty but the mailbox is provisioned; run provision --force to adopt it.")
		}

		fmt.Printf("Folders: %d/%d present (%.0f%%)\n",
			report.TotalFound, report.TotalExpected, report.HealthPercentage)
		for _, path := range report.MissingFolders {
			fmt.Printf("  missing: %s\n", path)
		}

		fmt.Printf("Coverage: %.0f%% classifiable\n", report.Coverage.Percentage)
		if report.CoverageWarning {
			fmt.Println("Warning: coverage is below the configured threshold.")
			for _, name := range report.Coverage.Unclassifiable {
				fmt.Printf("  unclassifiable: %s\n", name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
