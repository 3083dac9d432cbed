package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/foldersync/internal/credential"
	"github.com/nhle/foldersync/internal/model"
	"github.com/nhle/foldersync/internal/provider"
	"github.com/nhle/foldersync/internal/provider/gmail"
	"github.com/nhle/foldersync/internal/provider/outlook"
	"github.com/nhle/foldersync/internal/provision"
	"github.com/nhle/foldersync/internal/store"
)

var (
	cfgPath      string
	userID       string
	providerName string
	debug        bool

	cfg    *model.AppConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "foldersync",
	Short: "Provision and verify mailbox folder structures",
	Long: `foldersync compiles a folder taxonomy from business-type templates
and your team roster, then reconciles it against a Gmail or Outlook
mailbox: existing labels and folders are matched, missing ones are
created in dependency order, and the resulting name-to-ID map is
persisted for downstream automation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		if debug {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		cfg, err = model.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", model.DefaultConfigPath(), "path to the config file")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "mailbox account to operate on")
	rootCmd.PersistentFlags().StringVarP(&providerName, "provider", "p", "gmail", "mailbox provider (gmail or outlook)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func requireUser() error {
	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DBPath)
}

func buildProvider() (provider.Provider, error) {
	switch provider.Type(providerName) {
	case provider.TypeGmail:
		return gmail.NewAdapter(cfg.Gmail.BaseURL), nil
	case provider.TypeOutlook:
		return outlook.NewAdapter(cfg.Outlook.BaseURL), nil
	}
	return nil, fmt.Errorf("unknown provider %q (expected gmail or outlook)", providerName)
}

func credentialSource() credential.Source {
	ttl := time.Duration(cfg.Provision.CredentialTTLSec) * time.Second
	return credential.NewCache(credential.KeyringSource{}, ttl)
}

// newEngine builds the provisioning engine and returns the store
// cleanup alongside it.
func newEngine() (*provision.Engine, func(), error) {
	if err := requireUser(); err != nil {
		return nil, nil, err
	}

	p, err := buildProvider()
	if err != nil {
		return nil, nil, err
	}

	s, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	engine := provision.NewEngine(s, p, credentialSource(), cfg.Provision, logger)
	return engine, func() { _ = s.Close() }, nil
}
