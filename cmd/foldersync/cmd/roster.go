package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/foldersync/internal/model"
	"github.com/nhle/foldersync/internal/taxonomy"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage the team roster and business types",
	Long: `Manage the inputs the taxonomy is compiled from: the account's
business types and the named managers and suppliers that fill the
numbered roster slots. Members beyond the numbered slots become
dynamic top-level folders.`,
}

var rosterSetTypesCmd = &cobra.Command{
	Use:   "set-types <type>...",
	Short: "Set the account's business types",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}
		for _, bt := range args {
			if _, ok := taxonomy.LookupTemplate(bt); !ok {
				return fmt.Errorf("unknown business type %q (known: %s)",
					bt, strings.Join(taxonomy.BusinessTypes(), ", "))
			}
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.SetBusinessTypes(context.Background(), userID, args); err != nil {
			return err
		}
		fmt.Printf("Business types set: %s\n", strings.Join(args, ", "))
		return nil
	},
}

var rosterAddCmd = &cobra.Command{
	Use:   "add <manager|supplier> <position> <name>",
	Short: "Add or replace a roster member in a numbered slot",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}

		var kind model.MemberKind
		switch args[0] {
		case "manager":
			kind = model.MemberKindManager
		case "supplier":
			kind = model.MemberKindSupplier
		default:
			return fmt.Errorf("member kind must be manager or supplier, got %q", args[0])
		}

		position, err := strconv.Atoi(args[1])
		if err != nil || position < 1 {
			return fmt.Errorf("position must be a positive number, got %q", args[1])
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		member := model.TeamMember{
			UserID:   userID,
			Name:     args[2],
			Kind:     kind,
			Position: position,
		}
		if err := s.UpsertTeamMember(context.Background(), member); err != nil {
			return err
		}
		fmt.Printf("%s %d: %s\n", kind, position, member.Name)
		return nil
	},
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List business types and roster members",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(); err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		types, err := s.GetBusinessTypes(ctx, userID)
		if err != nil {
			return err
		}
		members, err := s.GetTeamMembers(ctx, userID)
		if err != nil {
			return err
		}

		if len(types) == 0 {
			fmt.Println("No business types configured.")
		} else {
			fmt.Printf("Business types: %s\n", strings.Join(types, ", "))
		}
		for _, m := range members {
			fmt.Printf("%s %d: %s (%s)\n", m.Kind, m.Position, m.Name, m.ID)
		}
		return nil
	},
}

var rosterRemoveCmd = &cobra.Command{
	Use:   "remove <member-id>",
	Short: "Remove a roster member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.DeleteTeamMember(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Removed.")
		return nil
	},
}

func init() {
	rosterCmd.AddCommand(rosterSetTypesCmd)
	rosterCmd.AddCommand(rosterAddCmd)
	rosterCmd.AddCommand(rosterListCmd)
	rosterCmd.AddCommand(rosterRemoveCmd)
	rootCmd.AddCommand(rosterCmd)
}
