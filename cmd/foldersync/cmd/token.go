package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/foldersync/internal/credential"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage stored provider credentials",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a bearer token for the account",
	Long: `Read a bearer token from stdin and store it in the system keyring
for the given user and provider. The token is never written to the
config file or the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		if _, err := buildProvider(); err != nil {
			return err
		}

		fmt.Fprint(os.Stderr, "Paste token: ")
		reader := bufio.NewReader(os.Stdin)
		token, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading token: %w", err)
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return fmt.Errorf("token must not be empty")
		}

		if err := credential.Set(userID, providerName, token); err != nil {
			return err
		}
		fmt.Printf("Token stored for %s (%s)\n", userID, providerName)
		return nil
	},
}

var tokenDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored token for the account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		if err := credential.Delete(userID, providerName); err != nil {
			return err
		}
		fmt.Printf("Token removed for %s (%s)\n", userID, providerName)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenDeleteCmd)
	rootCmd.AddCommand(tokenCmd)
}
