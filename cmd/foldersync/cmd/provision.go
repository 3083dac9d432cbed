package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/foldersync/internal/provision"
	"github.com/nhle/foldersync/internal/reconcile"
)

var provisionForce bool

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Reconcile the mailbox against the compiled taxonomy",
	Long: `Compile the taxonomy for the account's business types and roster,
fetch the current remote structure, and create whatever is missing.
Existing labels and folders are never renamed, recolored, or deleted.

A mailbox whose health meets the reprovision threshold is left alone;
pass --force to reconcile it anyway.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeStore, err := newEngine()
		if err != nil {
			return err
		}
		defer closeStore()

		summary, err := engine.Provision(cmd.Context(), userID, provision.Options{Force: provisionForce})
		if err != nil {
			return err
		}

		if summary.Skipped {
			fmt.Printf("Skipped: %s\n", summary.SkipReason)
			return nil
		}

		printResult(summary.Result)
		return nil
	},
}

func printResult(result *reconcile.Result) {
	fmt.Printf("Created %d, matched %d, failed %d\n",
		len(result.Created), len(result.Matched), len(result.Errors))

	for _, e := range result.Created {
		fmt.Printf("  + %s\n", e.Path)
	}
	for _, e := range result.Errors {
		fmt.Printf("  ! %s: %s", e.Path, e.Err)
		if e.Skipped > 0 {
			fmt.Printf(" (%d descendants skipped)", e.Skipped)
		}
		fmt.Println()
	}

	if !result.Succeeded() {
		fmt.Println("Run finished with category-level failures; rerun once the cause is fixed.")
	}
}

func init() {
	provisionCmd.Flags().BoolVar(&provisionForce, "force", false, "reconcile even when the mailbox looks healthy")
	rootCmd.AddCommand(provisionCmd)
}
