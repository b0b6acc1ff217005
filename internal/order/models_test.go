package order

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("nested references", func(t *testing.T) {
		o, err := Decode(json.RawMessage(`{
			"_id": "o1",
			"product": {"_id": "p1", "name": "Steel Bucket"},
			"category": {"id": "c1"},
			"seller": {"id": "s1", "shop_name": "Asha Traders"},
			"quantity": 3,
			"price": 249,
			"orderStatus": "Delivered",
			"orderType": "inquiry"
		}`))
		require.NoError(t, err)
		assert.Equal(t, "o1", o.ID)
		assert.Equal(t, "p1", o.ProductID)
		assert.Equal(t, "Steel Bucket", o.ProductName)
		assert.Equal(t, "c1", o.CategoryID)
		assert.Empty(t, o.CategoryName, "name comes from the lookup maps later")
		assert.Equal(t, "Asha Traders", o.SellerName)
		assert.Equal(t, "249", o.Price)
		assert.Equal(t, "Delivered", o.Status)
		assert.Equal(t, TypeInquiry, o.Type)
	})

	t.Run("id string references and alt field names", func(t *testing.T) {
		o, err := Decode(json.RawMessage(`{
			"id": "o2",
			"product": "p9",
			"category_id": "c2",
			"status": "Pending",
			"type": "Order"
		}`))
		require.NoError(t, err)
		assert.Equal(t, "p9", o.ProductID)
		assert.Equal(t, "c2", o.CategoryID)
		assert.Equal(t, "Pending", o.Status)
		assert.Equal(t, TypeOrder, o.Type)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Decode(json.RawMessage(`"just a string"`))
		require.Error(t, err)
	})
}

func TestNextOrderType(t *testing.T) {
	assert.Equal(t, TypeOrder, NextOrderType("inquiry"))
	assert.Equal(t, TypeInquiry, NextOrderType("Order"))
	assert.Equal(t, TypeInquiry, NextOrderType(""))
	assert.Equal(t, TypeInquiry, NextOrderType("something else"))
}
