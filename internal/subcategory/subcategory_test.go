package subcategory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("flat record", func(t *testing.T) {
		sc, err := Decode(json.RawMessage(`{"id": "sc1", "name": "Cookware", "category_id": "c1"}`))
		require.NoError(t, err)
		assert.Equal(t, "sc1", sc.ID)
		assert.Equal(t, "Cookware", sc.Name)
		assert.Equal(t, "c1", sc.CategoryID)
	})

	t.Run("nested category object", func(t *testing.T) {
		sc, err := Decode(json.RawMessage(`{"_id": "64ab", "name": "Cookware", "category": {"_id": "c9"}}`))
		require.NoError(t, err)
		assert.Equal(t, "64ab", sc.ID)
		assert.Equal(t, "c9", sc.CategoryID)
	})

	t.Run("category as id string", func(t *testing.T) {
		sc, err := Decode(json.RawMessage(`{"id": "sc2", "name": "Storage", "category": "c3"}`))
		require.NoError(t, err)
		assert.Equal(t, "c3", sc.CategoryID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Decode(json.RawMessage(`[true]`))
		require.Error(t, err)
	})
}
