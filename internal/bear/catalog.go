package bear

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"bearmcp/internal/xcall"
)

// ErrInvalidParams marks argument failures that must surface before any
// external action is attempted (no URL opened, no listener started).
var ErrInvalidParams = errors.New("invalid parameters")

// Mode selects the execution strategy for a tool.
type Mode int

const (
	// ModeNotify is fire-and-forget: dispatch the URL, acknowledge.
	ModeNotify Mode = iota
	// ModeCallback captures Bear's response through an x-success callback.
	ModeCallback
)

// ParamType is the wire type of a tool parameter.
type ParamType int

const (
	TypeString ParamType = iota
	TypeBool
)

// Param describes one tool argument and how it maps onto a query parameter.
type Param struct {
	Name        string // MCP argument name
	Key         string // query parameter name; empty means same as Name
	Description string
	Type        ParamType
	Required    bool
	Enum        []string
}

// QueryKey returns the outbound query parameter name for this argument.
func (p Param) QueryKey() string {
	if p.Key != "" {
		return p.Key
	}
	return p.Name
}

// Tool is one catalog entry: a tool name, the Bear action it maps to, its
// execution mode, and its flat parameter table. The catalog is configuration
// data; Execute below is the only handler.
type Tool struct {
	Name          string
	Description   string
	Action        string
	Mode          Mode
	RequiresToken bool
	Ack           string // notify-mode acknowledgement text
	Params        []Param
}

// BuildParams converts raw tool arguments into an ordered parameter list per
// the tool's parameter table. Arguments not in the table are ignored; absent
// or empty optional arguments are omitted from the URL entirely.
func (t Tool) BuildParams(args map[string]any) (*xcall.Params, error) {
	params := xcall.NewParams()

	for _, p := range t.Params {
		raw, present := args[p.Name]
		if !present || raw == nil {
			if p.Required {
				return nil, fmt.Errorf("%w: %s requires %q", ErrInvalidParams, t.Name, p.Name)
			}
			continue
		}

		switch p.Type {
		case TypeBool:
			v, ok := raw.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: %s argument %q must be a boolean", ErrInvalidParams, t.Name, p.Name)
			}
			params.SetBool(p.QueryKey(), v)

		default:
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s argument %q must be a string", ErrInvalidParams, t.Name, p.Name)
			}
			if strings.TrimSpace(s) == "" {
				if p.Required {
					return nil, fmt.Errorf("%w: %s requires %q", ErrInvalidParams, t.Name, p.Name)
				}
				continue
			}
			if len(p.Enum) > 0 && !slices.Contains(p.Enum, s) {
				return nil, fmt.Errorf("%w: %s argument %q must be one of %s",
					ErrInvalidParams, t.Name, p.Name, strings.Join(p.Enum, ", "))
			}
			params.Set(p.QueryKey(), s)
		}
	}

	return params, nil
}

// Execute runs the tool: validate arguments, resolve the token if the action
// needs one, then dispatch per the tool's mode. Returns the text payload for
// the caller (JSON for callback tools, the acknowledgement otherwise).
// All validation happens before any side effect.
func (t Tool) Execute(ctx context.Context, c *Client, args map[string]any) (string, error) {
	params, err := t.BuildParams(args)
	if err != nil {
		return "", err
	}

	if t.RequiresToken {
		tok := callToken(args)
		if tok == "" {
			tok = c.AmbientToken()
		}
		if tok == "" {
			return "", fmt.Errorf("%w: %s requires a Bear API token (pass `token` or run `bearmcp token set`)",
				ErrInvalidParams, t.Name)
		}
		params.Set("token", tok)
	}

	switch t.Mode {
	case ModeCallback:
		result, err := c.Call(ctx, t.Action, params)
		if err != nil {
			return "", err
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to serialize %s result: %w", t.Action, err)
		}
		return string(out), nil

	default:
		if err := c.Notify(ctx, t.Action, params); err != nil {
			return "", err
		}
		return t.Ack, nil
	}
}

func callToken(args map[string]any) string {
	if raw, ok := args["token"]; ok {
		if s, ok := raw.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// LookupTool finds a catalog entry by tool name.
func LookupTool(name string) (Tool, bool) {
	for _, t := range Catalog() {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// Catalog enumerates every tool bearmcp exposes, one per Bear x-callback
// action. Descriptions are what MCP clients show to the model.
func Catalog() []Tool {
	idParam := Param{Name: "id", Description: "Note unique identifier"}
	titleParam := Param{Name: "title", Description: "Note title"}
	searchParam := Param{Name: "search", Description: "Optional search term to filter results"}
	contentModes := []string{"prepend", "append", "replace_all", "replace"}

	return []Tool{
		{
			Name:        "bear_open_note",
			Description: "Open a note by identifier or title and return its content",
			Action:      "open-note",
			Mode:        ModeCallback,
			Params: []Param{
				idParam,
				titleParam,
				{Name: "header", Description: "Jump to a specific header inside the note"},
				{Name: "exclude_trashed", Description: "Ignore notes in the trash", Type: TypeBool},
				{Name: "edit", Description: "Place the cursor inside the note editor", Type: TypeBool},
			},
		},
		{
			Name:        "bear_create",
			Description: "Create a new note with optional title, text and tags",
			Action:      "create",
			Mode:        ModeNotify,
			Ack:         "Note created in Bear.",
			Params: []Param{
				{Name: "title", Description: "Title of the new note"},
				{Name: "text", Description: "Markdown body of the new note"},
				{Name: "tags", Description: "Comma-separated list of tags"},
				{Name: "timestamp", Description: "Prepend the current date and time", Type: TypeBool},
				{Name: "pin", Description: "Pin the note to the top of the list", Type: TypeBool},
				{Name: "edit", Description: "Open the note for editing", Type: TypeBool},
			},
		},
		{
			Name:        "bear_add_text",
			Description: "Append, prepend or replace text in an existing note",
			Action:      "add-text",
			Mode:        ModeNotify,
			Ack:         "Text added to note.",
			Params: []Param{
				idParam,
				titleParam,
				{Name: "text", Description: "Text to add", Required: true},
				{Name: "header", Description: "Add the text under this header"},
				{Name: "mode", Description: "How to add the text", Enum: contentModes},
				{Name: "new_line", Description: "Force the text onto a new line", Type: TypeBool},
				{Name: "timestamp", Description: "Prepend the current date and time", Type: TypeBool},
			},
		},
		{
			Name:        "bear_add_file",
			Description: "Attach a file to an existing note",
			Action:      "add-file",
			Mode:        ModeNotify,
			Ack:         "File attached to note.",
			Params: []Param{
				idParam,
				titleParam,
				{Name: "file", Description: "Base64-encoded file content", Required: true},
				{Name: "filename", Description: "File name including extension", Required: true},
				{Name: "header", Description: "Attach the file under this header"},
				{Name: "mode", Description: "How to add the file", Enum: contentModes},
			},
		},
		{
			Name:          "bear_search",
			Description:   "Search notes and return the matches",
			Action:        "search",
			Mode:          ModeCallback,
			RequiresToken: true,
			Params: []Param{
				{Name: "term", Description: "Text to search for"},
				{Name: "tag", Description: "Restrict the search to this tag"},
			},
		},
		{
			Name:          "bear_get_tags",
			Description:   "Return all tags in the Bear database",
			Action:        "tags",
			Mode:          ModeCallback,
			RequiresToken: true,
		},
		{
			Name:          "bear_open_tag",
			Description:   "Return all notes carrying a tag",
			Action:        "open-tag",
			Mode:          ModeCallback,
			RequiresToken: true,
			Params: []Param{
				{Name: "name", Description: "Tag name, or a comma-separated list of tags", Required: true},
			},
		},
		{
			Name:        "bear_trash",
			Description: "Move a note to the trash",
			Action:      "trash",
			Mode:        ModeNotify,
			Ack:         "Note moved to trash.",
			Params: []Param{
				idParam,
				{Name: "search", Description: "Move every note matching this term to the trash"},
			},
		},
		{
			Name:        "bear_archive",
			Description: "Move a note to the archive",
			Action:      "archive",
			Mode:        ModeNotify,
			Ack:         "Note archived.",
			Params: []Param{
				idParam,
				{Name: "search", Description: "Archive every note matching this term"},
			},
		},
		{
			Name:          "bear_get_untagged",
			Description:   "Return all notes without a tag",
			Action:        "untagged",
			Mode:          ModeCallback,
			RequiresToken: true,
			Params:        []Param{searchParam},
		},
		{
			Name:          "bear_get_todo",
			Description:   "Return all notes in the Todo sidebar",
			Action:        "todo",
			Mode:          ModeCallback,
			RequiresToken: true,
			Params:        []Param{searchParam},
		},
		{
			Name:          "bear_get_today",
			Description:   "Return all notes in the Today sidebar",
			Action:        "today",
			Mode:          ModeCallback,
			RequiresToken: true,
			Params:        []Param{searchParam},
		},
		{
			Name:          "bear_get_locked",
			Description:   "Return all locked notes",
			Action:        "locked",
			Mode:          ModeCallback,
			RequiresToken: true,
			Params:        []Param{searchParam},
		},
		{
			Name:        "bear_grab_url",
			Description: "Create a note from the content of a web page",
			Action:      "grab-url",
			Mode:        ModeCallback,
			Params: []Param{
				{Name: "url", Description: "Address of the web page to capture", Required: true},
				{Name: "tags", Description: "Comma-separated list of tags for the new note"},
				{Name: "pin", Description: "Pin the new note", Type: TypeBool},
			},
		},
		{
			Name:        "bear_rename_tag",
			Description: "Rename an existing tag",
			Action:      "rename-tag",
			Mode:        ModeNotify,
			Ack:         "Tag renamed.",
			Params: []Param{
				{Name: "name", Description: "Current tag name", Required: true},
				{Name: "new_name", Description: "New tag name", Required: true},
			},
		},
		{
			Name:        "bear_delete_tag",
			Description: "Delete a tag (notes keep their other tags)",
			Action:      "delete-tag",
			Mode:        ModeNotify,
			Ack:         "Tag deleted.",
			Params: []Param{
				{Name: "name", Description: "Tag name to delete", Required: true},
			},
		},
		{
			Name:        "bear_change_theme",
			Description: "Switch Bear to a different theme",
			Action:      "change-theme",
			Mode:        ModeNotify,
			Ack:         "Theme changed.",
			Params: []Param{
				{Name: "theme", Description: "Theme name as shown in Bear's preferences", Required: true},
			},
		},
	}
}
