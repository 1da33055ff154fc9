package bear

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIsWellFormed(t *testing.T) {
	catalog := Catalog()
	require.NotEmpty(t, catalog)

	names := make(map[string]bool)
	for _, tool := range catalog {
		assert.False(t, names[tool.Name], "duplicate tool name %q", tool.Name)
		names[tool.Name] = true

		assert.True(t, strings.HasPrefix(tool.Name, "bear_"), "tool %q should carry the bear_ prefix", tool.Name)
		assert.NotEmpty(t, tool.Description, "tool %q needs a description", tool.Name)
		assert.NotEmpty(t, tool.Action, "tool %q needs an action", tool.Name)

		if tool.Mode == ModeNotify {
			assert.NotEmpty(t, tool.Ack, "notify tool %q needs an acknowledgement", tool.Name)
		} else {
			assert.Empty(t, tool.Ack, "callback tool %q should not carry an acknowledgement", tool.Name)
		}

		paramNames := make(map[string]bool)
		for _, p := range tool.Params {
			assert.False(t, paramNames[p.Name], "tool %q declares %q twice", tool.Name, p.Name)
			paramNames[p.Name] = true
			assert.NotEmpty(t, p.Description, "tool %q parameter %q needs a description", tool.Name, p.Name)
			if p.Type == TypeBool {
				assert.Empty(t, p.Enum, "boolean parameter %q cannot carry an enum", p.Name)
			}
		}
	}
}

func TestLookupTool(t *testing.T) {
	tool, ok := LookupTool("bear_search")
	require.True(t, ok)
	assert.Equal(t, "search", tool.Action)
	assert.Equal(t, ModeCallback, tool.Mode)
	assert.True(t, tool.RequiresToken)

	_, ok = LookupTool("bear_nonexistent")
	assert.False(t, ok)
}

func TestBuildParamsMapsAndOmits(t *testing.T) {
	tool, ok := LookupTool("bear_create")
	require.True(t, ok)

	params, err := tool.BuildParams(map[string]any{
		"title":     "Groceries",
		"tags":      "home,errands",
		"timestamp": true,
		"pin":       false,
		"unknown":   "dropped",
	})
	require.NoError(t, err)

	encoded := params.Encode()
	assert.Equal(t, "title=Groceries&tags=home%2Cerrands&timestamp=yes", encoded)
	assert.NotContains(t, encoded, "pin", "false flags are omitted")
	assert.NotContains(t, encoded, "unknown", "undeclared arguments are dropped")
}

func TestBuildParamsMissingRequired(t *testing.T) {
	tool, ok := LookupTool("bear_rename_tag")
	require.True(t, ok)

	_, err := tool.BuildParams(map[string]any{"name": "old"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.Contains(t, err.Error(), "new_name")

	// Empty strings count as absent
	_, err = tool.BuildParams(map[string]any{"name": "old", "new_name": "   "})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestBuildParamsEnum(t *testing.T) {
	tool, ok := LookupTool("bear_add_text")
	require.True(t, ok)

	_, err := tool.BuildParams(map[string]any{"text": "hi", "mode": "sideways"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParams)

	params, err := tool.BuildParams(map[string]any{"text": "hi", "mode": "append"})
	require.NoError(t, err)
	assert.Contains(t, params.Encode(), "mode=append")
}

func TestBuildParamsTypeMismatch(t *testing.T) {
	tool, ok := LookupTool("bear_create")
	require.True(t, ok)

	_, err := tool.BuildParams(map[string]any{"timestamp": "yes"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = tool.BuildParams(map[string]any{"title": 42})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

// refusingOpener fails the test if any URL is dispatched.
type refusingOpener struct {
	t *testing.T
}

func (r refusingOpener) Open(ctx context.Context, action, rawURL string) error {
	r.t.Fatalf("no URL must be opened, got %s", rawURL)
	return nil
}

func TestExecuteTokenRequiredFailsBeforeDispatch(t *testing.T) {
	tool, ok := LookupTool("bear_get_tags")
	require.True(t, ok)

	c := newTestClient(refusingOpener{t}, "", time.Second)

	_, err := tool.Execute(context.Background(), c, map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParams)
	assert.Contains(t, err.Error(), "token")
}

func TestExecuteInvalidArgsFailBeforeDispatch(t *testing.T) {
	tool, ok := LookupTool("bear_delete_tag")
	require.True(t, ok)

	c := newTestClient(refusingOpener{t}, "", time.Second)

	_, err := tool.Execute(context.Background(), c, map[string]any{})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestExecuteNotifyReturnsAck(t *testing.T) {
	tool, ok := LookupTool("bear_trash")
	require.True(t, ok)

	opener := &fakeOpener{}
	c := newTestClient(opener, "", time.Second)

	out, err := tool.Execute(context.Background(), c, map[string]any{"id": "ABC-123"})
	require.NoError(t, err)
	assert.Equal(t, "Note moved to trash.", out)
	require.Len(t, opener.urls, 1)
	assert.Equal(t, "bear://x-callback-url/trash?id=ABC-123", opener.urls[0])
}

func TestExecuteCallbackToolUsesAmbientToken(t *testing.T) {
	tool, ok := LookupTool("bear_search")
	require.True(t, ok)

	opener := &fakeOpener{callbackQuery: "notes=%5B%7B%22title%22%3A%22Hit%22%7D%5D"}
	c := newTestClient(opener, "ambient-token", 5*time.Second)

	out, err := tool.Execute(context.Background(), c, map[string]any{"term": "foo"})
	require.NoError(t, err)

	require.Len(t, opener.urls, 1)
	assert.Contains(t, opener.urls[0], "token=ambient-token")
	assert.Contains(t, out, `"Hit"`, "callback result should serialize as JSON")
}

func TestExecuteCallbackToolPrefersCallToken(t *testing.T) {
	tool, ok := LookupTool("bear_get_tags")
	require.True(t, ok)

	opener := &fakeOpener{callbackQuery: "tags=work%2Chome"}
	c := newTestClient(opener, "ambient-token", 5*time.Second)

	out, err := tool.Execute(context.Background(), c, map[string]any{"token": "per-call"})
	require.NoError(t, err)

	assert.Contains(t, opener.urls[0], "token=per-call")
	assert.NotContains(t, opener.urls[0], "ambient-token")
	assert.Contains(t, out, `"work"`)
}

func TestExecutePropagatesDispatchError(t *testing.T) {
	tool, ok := LookupTool("bear_create")
	require.True(t, ok)

	opener := &fakeOpener{err: errors.New("open failed")}
	c := newTestClient(opener, "", time.Second)

	_, err := tool.Execute(context.Background(), c, map[string]any{"title": "x"})
	assert.Error(t, err)
}
