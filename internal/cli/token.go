package cli

import (
	"fmt"
	"strings"

	"bearmcp/internal/token"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the stored Bear API token",
	Long: `Bear hands out one API token per device (Bear → Help → Advanced → API Token).
These commands store it in the OS credential store so data-returning tools
(search, tags, todo, ...) work without a per-call token.`,
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store the Bear API token in the OS credential store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm := token.NewCredentialManager()
		if err := cm.Store(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token stored.")
		return nil
	},
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show whether a token is stored (masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cm := token.NewCredentialManager()
		tok, err := cm.Get()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token stored: %s\n", maskToken(tok))
		return nil
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored token from the OS credential store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cm := token.NewCredentialManager()
		if err := cm.Delete(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token removed.")
		return nil
	},
}

// maskToken keeps just enough of the token visible to recognize it.
func maskToken(tok string) string {
	if len(tok) <= 6 {
		return strings.Repeat("*", len(tok))
	}
	return tok[:3] + strings.Repeat("*", len(tok)-6) + tok[len(tok)-3:]
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenShowCmd)
	tokenCmd.AddCommand(tokenClearCmd)
}
