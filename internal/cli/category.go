package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/category"
	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/ui"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage entry categories",
	Long: `Categories are registered once and then assigned to entries.
Every assignment links the entry to the category's registry entry, so
members are enumerable from the category side.`,
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Register a new category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		if err := category.Create(s, args[0]); err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{"category": args[0]}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Registered category %s", args[0]))
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		names, err := category.All(s)
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{"categories": names}, &Meta{Count: len(names)})
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var categorySetCmd = &cobra.Command{
	Use:   "set <id> <name>",
	Short: "Assign an entry to a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return handleError(ErrIDInvalid, err)
		}
		name := args[1]

		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		err = withEntry(s, id, func(h *store.Handle) error {
			return category.Set(s, h, name)
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{
				"id":       id.String(),
				"category": name,
			}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Assigned %s to %s", ui.FilePath(id.String()), name))
		return nil
	},
}

var categoryRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Clear an entry's category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return handleError(ErrIDInvalid, err)
		}

		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		err = withEntry(s, id, func(h *store.Handle) error {
			return category.Remove(h.Entry())
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{"id": id.String()}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Cleared category of %s", ui.FilePath(id.String())))
		return nil
	},
}

var categoryGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an entry's category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return handleError(ErrIDInvalid, err)
		}

		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		var name string
		var present bool
		err = withEntry(s, id, func(h *store.Handle) error {
			var err error
			name, present, err = category.GetFrom(h.Entry())
			return err
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			data := map[string]interface{}{"id": id.String()}
			if present {
				data["category"] = name
			}
			outputSuccess(data, nil)
			return nil
		}
		if !present {
			fmt.Println(ui.Hint("(no category)"))
			return nil
		}
		fmt.Println(name)
		return nil
	},
}

var categoryMembersCmd = &cobra.Command{
	Use:   "members <name>",
	Short: "List the entries assigned to a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		members, err := category.Members(s, args[0])
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			out := make([]string, 0, len(members))
			for _, id := range members {
				out = append(out, id.String())
			}
			outputSuccess(map[string]interface{}{"members": out}, &Meta{Count: len(out)})
			return nil
		}
		for _, id := range members {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categoryCreateCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categorySetCmd)
	categoryCmd.AddCommand(categoryGetCmd)
	categoryCmd.AddCommand(categoryRemoveCmd)
	categoryCmd.AddCommand(categoryMembersCmd)
	rootCmd.AddCommand(categoryCmd)
}
