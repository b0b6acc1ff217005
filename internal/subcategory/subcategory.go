// Package subcategory manages the category subdivisions products hang off.
package subcategory

import (
	"encoding/json"
	"log/slog"

	"mercato/internal/crud"
	"mercato/internal/platform/metrics"
	"mercato/internal/upstream"
	dErrors "mercato/pkg/domain-errors"
)

// Resource describes the subcategory endpoints.
var Resource = upstream.Resource{
	Name:           "subcategory",
	Plural:         "subcategories",
	CollectionPath: "/subcategories",
	ItemPath:       "/subcategory",
}

// SubCategory is one category subdivision.
type SubCategory struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
	Image      string `json:"image,omitempty"`
}

// Decode parses one subcategory record, tolerating a nested category
// object in place of the id field.
func Decode(raw json.RawMessage) (SubCategory, error) {
	var core struct {
		ID         string          `json:"id"`
		AltID      string          `json:"_id"`
		Name       string          `json:"name"`
		CategoryID string          `json:"category_id"`
		Category   json.RawMessage `json:"category"`
		Image      string          `json:"image"`
	}
	if err := json.Unmarshal(raw, &core); err != nil {
		return SubCategory{}, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "undecodable subcategory record")
	}

	sc := SubCategory{ID: core.ID, Name: core.Name, CategoryID: core.CategoryID, Image: core.Image}
	if sc.ID == "" {
		sc.ID = core.AltID
	}
	if sc.CategoryID == "" {
		sc.CategoryID = categoryID(core.Category)
	}
	return sc, nil
}

// categoryID tolerates the category reference arriving as either a bare id
// string or a nested object.
func categoryID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var nested struct {
		ID    string `json:"id"`
		AltID string `json:"_id"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		if nested.ID != "" {
			return nested.ID
		}
		return nested.AltID
	}
	return ""
}

// NewService creates the subcategory CRUD service.
func NewService(client *upstream.Client, logger *slog.Logger, m *metrics.Metrics) *crud.Service[SubCategory] {
	return crud.NewService(crud.Config[SubCategory]{
		Resource:   Resource,
		Required:   []string{"name", "category_id"},
		Fields:     []string{"name", "category_id"},
		FileFields: []string{"image"},
		Decode:     Decode,
	}, client, logger, m)
}

// NewHandler creates the subcategory HTTP handler.
func NewHandler(service *crud.Service[SubCategory], logger *slog.Logger) *crud.Handler[SubCategory] {
	return crud.NewHandler(service, logger)
}
