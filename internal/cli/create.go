package cli

import (
	"fmt"
	"os"
	"strings"

	"bearmcp/internal/xcall"

	"github.com/adrg/frontmatter"
	"github.com/spf13/cobra"
)

var createFlags struct {
	title     string
	text      string
	tags      string
	file      string
	pin       bool
	timestamp bool
}

// noteFrontmatter is the YAML frontmatter accepted at the top of a markdown
// file passed via --file.
type noteFrontmatter struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
	Pin   bool     `yaml:"pin"`
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new note in Bear",
	Long: `Creates a note from flags, or from a markdown file whose YAML frontmatter
supplies title, tags and pin. Flags override frontmatter values.

Fire-and-forget: Bear's scheme only confirms that the OS accepted the open
request, not that the note was created.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title := createFlags.title
		text := createFlags.text
		tags := createFlags.tags
		pin := createFlags.pin

		if createFlags.file != "" {
			content, err := os.ReadFile(createFlags.file)
			if err != nil {
				return fmt.Errorf("failed to read note file: %w", err)
			}

			var matter noteFrontmatter
			body, err := frontmatter.Parse(strings.NewReader(string(content)), &matter)
			if err != nil {
				return fmt.Errorf("failed to parse frontmatter in %s: %w", createFlags.file, err)
			}

			if text == "" {
				text = string(body)
			}
			if title == "" {
				title = matter.Title
			}
			if tags == "" {
				tags = strings.Join(matter.Tags, ",")
			}
			pin = pin || matter.Pin
		}

		if title == "" && text == "" {
			return fmt.Errorf("nothing to create: pass --title, --text or --file")
		}

		params := xcall.NewParams()
		if title != "" {
			params.Set("title", title)
		}
		if text != "" {
			params.Set("text", text)
		}
		if tags != "" {
			params.Set("tags", tags)
		}
		params.SetBool("pin", pin)
		params.SetBool("timestamp", createFlags.timestamp)

		if err := newClient().Notify(cmd.Context(), "create", params); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Note created in Bear.")
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createFlags.title, "title", "", "note title")
	createCmd.Flags().StringVar(&createFlags.text, "text", "", "markdown body")
	createCmd.Flags().StringVar(&createFlags.tags, "tags", "", "comma-separated tags")
	createCmd.Flags().StringVar(&createFlags.file, "file", "", "markdown file with optional YAML frontmatter")
	createCmd.Flags().BoolVar(&createFlags.pin, "pin", false, "pin the note")
	createCmd.Flags().BoolVar(&createFlags.timestamp, "timestamp", false, "prepend the current date and time")
}
