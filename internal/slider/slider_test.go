package slider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("title field", func(t *testing.T) {
		s, err := Decode(json.RawMessage(`{"id": "sl1", "title": "Monsoon Sale", "image": "/img/sale.png"}`))
		require.NoError(t, err)
		assert.Equal(t, "sl1", s.ID)
		assert.Equal(t, "Monsoon Sale", s.Title)
		assert.Equal(t, "/img/sale.png", s.Image)
	})

	t.Run("name fallback and mongo id", func(t *testing.T) {
		s, err := Decode(json.RawMessage(`{"_id": "64ab", "name": "Winter Sale"}`))
		require.NoError(t, err)
		assert.Equal(t, "64ab", s.ID)
		assert.Equal(t, "Winter Sale", s.Title)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Decode(json.RawMessage(`42`))
		require.Error(t, err)
	})
}
