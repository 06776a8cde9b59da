package pkg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaShapes(t *testing.T) {
	t.Run("document resolves to itself", func(t *testing.T) {
		doc, err := Document{"type": "string"}.document("base")
		require.NoError(t, err)
		assert.Equal(t, "string", doc["type"])
	})

	t.Run("encoded decodes JSON", func(t *testing.T) {
		doc, err := Encoded(`{"type": "number"}`).document("base")
		require.NoError(t, err)
		assert.Equal(t, "number", doc["type"])
	})

	t.Run("encoded rejects invalid JSON", func(t *testing.T) {
		_, err := Encoded("not json").document("base")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSchemaInvalid))
	})

	t.Run("builder is called with the name", func(t *testing.T) {
		builder := Builder(func(name string) Document {
			return Document{"title": name, "type": "object"}
		})
		doc, err := builder.document("widget")
		require.NoError(t, err)
		assert.Equal(t, "widget", doc["title"])
	})

	t.Run("nil builder fails", func(t *testing.T) {
		_, err := Builder(nil).document("widget")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSchemaInvalid))
	})
}

func TestFingerprint(t *testing.T) {
	t.Run("equal documents match regardless of shape", func(t *testing.T) {
		first, err := fingerprint(Document{"type": "string", "title": "x"}, "a")
		require.NoError(t, err)
		second, err := fingerprint(Encoded(`{"title": "x", "type": "string"}`), "b")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("different documents differ", func(t *testing.T) {
		first, err := fingerprint(Document{"type": "string"}, "a")
		require.NoError(t, err)
		second, err := fingerprint(Document{"type": "number"}, "b")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}
