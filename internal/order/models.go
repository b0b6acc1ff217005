package order

import (
	"encoding/json"
	"strings"

	dErrors "mercato/pkg/domain-errors"
)

// Order type vocabulary. The backend mixes a lowercase "inquiry" with a
// capitalized "Order"; the strings are preserved exactly because the toggle
// endpoint echoes them back.
const (
	TypeInquiry = "inquiry"
	TypeOrder   = "Order"
)

// Order is one marketplace order row with its reference names joined in.
type Order struct {
	ID              string `json:"id"`
	BuyerID         string `json:"buyer_id,omitempty"`
	BuyerName       string `json:"buyer_name,omitempty"`
	ProductID       string `json:"product_id,omitempty"`
	ProductName     string `json:"product_name,omitempty"`
	CategoryID      string `json:"category_id,omitempty"`
	CategoryName    string `json:"category_name"`
	SubCategoryID   string `json:"subcategory_id,omitempty"`
	SubCategoryName string `json:"subcategory_name"`
	SellerID        string `json:"seller_id,omitempty"`
	SellerName      string `json:"seller_name"`
	Quantity        int    `json:"quantity,omitempty"`
	Price           string `json:"price,omitempty"`
	Status          string `json:"order_status"`
	Type            string `json:"order_type"`
}

type orderCore struct {
	ID       string          `json:"id"`
	AltID    string          `json:"_id"`
	Buyer    json.RawMessage `json:"buyer"`
	BuyerID  string          `json:"buyer_id"`
	Product  json.RawMessage `json:"product"`
	Category json.RawMessage `json:"category"`
	SubCat   json.RawMessage `json:"subcategory"`
	Seller   json.RawMessage `json:"seller"`

	ProductID     string `json:"product_id"`
	CategoryID    string `json:"category_id"`
	SubCategoryID string `json:"subcategory_id"`
	SellerID      string `json:"seller_id"`

	Quantity int    `json:"quantity"`
	Price    any    `json:"price"`
	Status   string `json:"orderStatus"`
	AltSt    string `json:"status"`
	Type     string `json:"orderType"`
	AltTy    string `json:"type"`
}

// Decode parses one order record. Foreign references arrive in three
// shapes across backend versions: a bare id string, a nested object, or a
// *_id field; all collapse to the id, with an embedded name kept when the
// nested object carries one.
func Decode(raw json.RawMessage) (Order, error) {
	var core orderCore
	if err := json.Unmarshal(raw, &core); err != nil {
		return Order{}, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "undecodable order record")
	}

	id := core.ID
	if id == "" {
		id = core.AltID
	}

	o := Order{
		ID:       id,
		Quantity: core.Quantity,
		Price:    stringify(core.Price),
		Status:   first(core.Status, core.AltSt),
		Type:     core.Type,
	}
	if o.Type == "" {
		o.Type = core.AltTy
	}

	o.BuyerID, o.BuyerName = refParts(core.Buyer, core.BuyerID)
	o.ProductID, o.ProductName = refParts(core.Product, core.ProductID)
	o.CategoryID, o.CategoryName = refParts(core.Category, core.CategoryID)
	o.SubCategoryID, o.SubCategoryName = refParts(core.SubCat, core.SubCategoryID)
	o.SellerID, o.SellerName = refParts(core.Seller, core.SellerID)
	return o, nil
}

// NextOrderType returns the value an order-type toggle moves to. Only an
// inquiry promotes to an order; anything else, including a missing type,
// demotes to an inquiry.
func NextOrderType(current string) string {
	if strings.EqualFold(strings.TrimSpace(current), TypeInquiry) {
		return TypeOrder
	}
	return TypeInquiry
}

// refParts collapses one foreign reference field to (id, embeddedName).
func refParts(raw json.RawMessage, fallbackID string) (string, string) {
	if len(raw) == 0 || string(raw) == "null" {
		return fallbackID, ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return first(asString, fallbackID), ""
	}

	var nested struct {
		ID       string `json:"id"`
		AltID    string `json:"_id"`
		Name     string `json:"name"`
		ShopName string `json:"shop_name"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		id := first(nested.ID, nested.AltID, fallbackID)
		return id, first(nested.Name, nested.ShopName)
	}
	return fallbackID, ""
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	data, _ := json.Marshal(v)
	return string(data)
}
