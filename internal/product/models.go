package product

import (
	"encoding/json"
	"strings"

	dErrors "mercato/pkg/domain-errors"
)

// Toggleable highlight values. The backend stores these as literal strings,
// not booleans.
const (
	HighlightYes = "Yes"
	HighlightNo  = "No"
)

// Toggleable status values.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Product is one marketplace product as presented to the admin dashboard.
type Product struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price,omitempty"`
	Image         string `json:"image,omitempty"`
	CategoryID    string `json:"category_id,omitempty"`
	SubCategoryID string `json:"subcategory_id,omitempty"`
	SellerID      string `json:"seller_id,omitempty"`
	Highlight     string `json:"highlight"`
	Status        string `json:"status"`
}

type productCore struct {
	ID            string `json:"id"`
	AltID         string `json:"_id"`
	Name          string `json:"name"`
	Price         any    `json:"price"`
	Image         string `json:"image"`
	CategoryID    string `json:"category_id"`
	SubCategoryID string `json:"subcategory_id"`
	SellerID      string `json:"seller_id"`
	Highlight     string `json:"highlight"`
	Status        string `json:"status"`
}

// Decode parses one product record, tolerating both flat objects and a
// {"product": {...}} wrapper. Blank toggle fields are canonicalized so
// every cached product has a definite highlight and status.
func Decode(raw json.RawMessage) (Product, error) {
	var core productCore
	if err := json.Unmarshal(raw, &core); err != nil {
		return Product{}, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "undecodable product record")
	}
	if core.ID == "" && core.AltID == "" && core.Name == "" {
		var wrapped struct {
			Product *productCore `json:"product"`
		}
		if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Product != nil {
			core = *wrapped.Product
		}
	}

	id := core.ID
	if id == "" {
		id = core.AltID
	}
	return Product{
		ID:            id,
		Name:          core.Name,
		Price:         stringify(core.Price),
		Image:         core.Image,
		CategoryID:    core.CategoryID,
		SubCategoryID: core.SubCategoryID,
		SellerID:      core.SellerID,
		Highlight:     NormalizeHighlight(core.Highlight),
		Status:        NormalizeStatus(core.Status),
	}, nil
}

// NormalizeHighlight canonicalizes the highlight vocabulary. Blank means
// not highlighted.
func NormalizeHighlight(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes":
		return HighlightYes
	case "no", "":
		return HighlightNo
	}
	return v
}

// NormalizeStatus canonicalizes the status vocabulary. Blank means active,
// matching how the dashboard has always rendered missing statuses.
func NormalizeStatus(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "active", "":
		return StatusActive
	case "inactive":
		return StatusInactive
	}
	return v
}

// NextHighlight returns the value a highlight toggle moves to.
func NextHighlight(current string) string {
	if NormalizeHighlight(current) == HighlightYes {
		return HighlightNo
	}
	return HighlightYes
}

// NextStatus returns the value a status toggle moves to.
func NextStatus(current string) string {
	if NormalizeStatus(current) == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

// stringify tolerates prices arriving as either JSON numbers or strings.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		data, _ := json.Marshal(t)
		return string(data)
	}
	data, _ := json.Marshal(v)
	return string(data)
}
