package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/foldersync/internal/model"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the configuration file with current settings",
	Long: `Write the effective configuration (defaults merged with whatever the
config file already sets) to the config path, creating parent
directories as needed. Refuses to overwrite an existing file unless
--force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgPath); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists, use --force to overwrite", cfgPath)
		}

		if err := model.SaveConfig(cfgPath, cfg); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", cfgPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("db_path: %s\n", cfg.DBPath)
		fmt.Printf("gmail.base_url: %s\n", cfg.Gmail.BaseURL)
		fmt.Printf("outlook.base_url: %s\n", cfg.Outlook.BaseURL)
		fmt.Printf("provision.reprovision_threshold: %.0f\n", cfg.Provision.ReprovisionThreshold)
		fmt.Printf("provision.coverage_warn_threshold: %.0f\n", cfg.Provision.CoverageWarnThreshold)
		fmt.Printf("provision.credential_ttl_sec: %d\n", cfg.Provision.CredentialTTLSec)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
