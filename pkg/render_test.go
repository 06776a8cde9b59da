package pkg

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	registry := NewRegistry()
	registry.Set("widget", Document{
		"type":        "object",
		"description": "A widget.",
		"properties": map[string]any{
			"id":    map[string]any{"type": "string", "description": "Widget identifier."},
			"count": map[string]any{"type": "integer", "default": float64(1)},
		},
		"required": []any{"id"},
	})

	t.Run("page carries title, description and property table", func(t *testing.T) {
		markdown, err := Render(registry, "widget", "")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(markdown, "# widget\n"))
		assert.Contains(t, markdown, "A widget.")
		assert.Contains(t, markdown, "**Type:** `object`")
		assert.Contains(t, markdown, "## Properties")
		assert.Contains(t, markdown, "| Property | Type | Required | Default | Description |")
		assert.Contains(t, markdown, "| `id` | string | yes |  | Widget identifier. |")
		assert.Contains(t, markdown, "| `count` | integer |  | `1` |  |")
	})

	t.Run("name override replaces the title", func(t *testing.T) {
		markdown, err := Render(registry, "widget", "gadget")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(markdown, "# gadget\n"))
	})

	t.Run("empty columns are hidden", func(t *testing.T) {
		bare := NewRegistry()
		bare.Set("bare", Document{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{"type": "string"},
			},
		})
		markdown, err := Render(bare, "bare", "")
		require.NoError(t, err)
		assert.Contains(t, markdown, "| Property | Type |")
		assert.NotContains(t, markdown, "Required")
		assert.NotContains(t, markdown, "Description")
	})

	t.Run("defs become subsections", func(t *testing.T) {
		withDefs := NewRegistry()
		withDefs.Set("parent", Document{
			"type": "object",
			"$defs": map[string]any{
				"child": map[string]any{
					"type":        "object",
					"description": "Nested child.",
					"properties":  map[string]any{"name": map[string]any{"type": "string"}},
				},
			},
		})
		markdown, err := Render(withDefs, "parent", "")
		require.NoError(t, err)
		assert.Contains(t, markdown, "## child")
		assert.Contains(t, markdown, "Nested child.")
	})

	t.Run("enum values are listed", func(t *testing.T) {
		enums := NewRegistry()
		enums.Set("color", Document{
			"type": "string",
			"enum": []any{"red", "green"},
		})
		markdown, err := Render(enums, "color", "")
		require.NoError(t, err)
		assert.Contains(t, markdown, "**Allowed values:** `\"red\"`, `\"green\"`")
	})

	t.Run("unknown key fails", func(t *testing.T) {
		_, err := Render(registry, "nope", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSchemaNotFound))
	})

	t.Run("undecodable encoded value fails", func(t *testing.T) {
		broken := NewRegistry()
		broken.Set("broken", Encoded("not json"))
		_, err := Render(broken, "broken", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSchemaInvalid))
	})

	t.Run("uncompilable schema fails", func(t *testing.T) {
		broken := NewRegistry()
		broken.Set("broken", Document{"type": "no-such-type"})
		_, err := Render(broken, "broken", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSchemaInvalid))
	})
}
