package cli

import (
	"fmt"

	"bearmcp/internal/render"
	"bearmcp/internal/xcall"

	"github.com/spf13/cobra"
)

var showWidth int

var showCmd = &cobra.Command{
	Use:   "show <note-id>",
	Short: "Fetch a note from Bear and render it in the terminal",
	Long: `Opens the note through Bear's open-note action, captures its content via
the x-success callback and renders the markdown body. Bear must be running
(or installed, so the URL open launches it).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		params := xcall.NewParams()
		params.Set("id", args[0])
		params.SetBool("exclude_trashed", true)

		result, err := client.Call(cmd.Context(), "open-note", params)
		if err != nil {
			return err
		}

		body, _ := result["note"].(string)
		if body == "" {
			return fmt.Errorf("note %s returned no content", args[0])
		}

		out, err := render.Note(body, showWidth)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	showCmd.Flags().IntVar(&showWidth, "width", render.DefaultWidth, "wrap width for rendered markdown")
}
