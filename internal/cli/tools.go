package cli

import (
	"fmt"

	"bearmcp/internal/bear"
	"bearmcp/internal/tui/styles"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools this server exposes",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		for _, tool := range bear.Catalog() {
			mode := "fire-and-forget"
			if tool.Mode == bear.ModeCallback {
				mode = "returns data"
			}
			if tool.RequiresToken {
				mode += ", needs token"
			}

			fmt.Fprintf(out, "%s  %s\n",
				styles.TitleStyle.Render(tool.Name),
				styles.SubtitleStyle.Render("("+tool.Action+"; "+mode+")"),
			)
			fmt.Fprintln(out, wordwrap.String("  "+tool.Description, 76))

			for _, p := range tool.Params {
				required := ""
				if p.Required {
					required = " (required)"
				}
				fmt.Fprintf(out, "    %s%s — %s\n", p.Name, required, p.Description)
			}
			fmt.Fprintln(out)
		}

		return nil
	},
}
