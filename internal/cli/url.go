package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/ui"
	"github.com/magpiedev/magpie/internal/urls"
)

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Attach URLs to entries",
	Long: `Each distinct URL is stored once and shared: attaching the
same URL to two entries links both to one URL entry.`,
}

var urlAddCmd = &cobra.Command{
	Use:   "add <id> <url>",
	Short: "Attach a URL to an entry",
	Args:  cobra.ExactArgs(2),
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

		var urlID string
		err = withEntry(s, id, func(h *store.Handle) error {
			uid, err := urls.Add(s, h, args[1])
			if err != nil {
				return err
			}
			urlID = uid.String()
			return nil
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{
				"id":        id.String(),
				"url":       args[1],
				"url_entry": urlID,
			}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Attached %s to %s", args[1], ui.FilePath(id.String())))
		return nil
	},
}

var urlRemoveCmd = &cobra.Command{
	Use:   "remove <id> <url>",
	Short: "Detach a URL from an entry",
	Args:  cobra.ExactArgs(2),
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
			return urls.Remove(s, h, args[1])
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{
				"id":  id.String(),
				"url": args[1],
			}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Detached %s from %s", args[1], ui.FilePath(id.String())))
		return nil
	},
}

var urlListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "List the URLs attached to an entry",
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

		var attached []string
		err = withEntry(s, id, func(h *store.Handle) error {
			var err error
			attached, err = urls.Of(s, h)
			return err
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{"urls": attached}, &Meta{Count: len(attached)})
			return nil
		}
		for _, u := range attached {
			fmt.Println(u)
		}
		return nil
	},
}

var urlReferrersCmd = &cobra.Command{
	Use:   "referrers <url>",
	Short: "List the entries a URL is attached to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		refs, err := urls.Referrers(s, args[0])
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			out := make([]string, 0, len(refs))
			for _, id := range refs {
				out = append(out, id.String())
			}
			outputSuccess(map[string]interface{}{"referrers": out}, &Meta{Count: len(out)})
			return nil
		}
		for _, id := range refs {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	urlCmd.AddCommand(urlAddCmd)
	urlCmd.AddCommand(urlRemoveCmd)
	urlCmd.AddCommand(urlListCmd)
	urlCmd.AddCommand(urlReferrersCmd)
	rootCmd.AddCommand(urlCmd)
}
