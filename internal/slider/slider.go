// Package slider manages the promotional home-screen sliders.
package slider

import (
	"encoding/json"
	"log/slog"

	"mercato/internal/crud"
	"mercato/internal/platform/metrics"
	"mercato/internal/upstream"
	dErrors "mercato/pkg/domain-errors"
)

// Resource describes the slider endpoints.
var Resource = upstream.Resource{
	Name:           "slider",
	Plural:         "sliders",
	CollectionPath: "/sliders",
	ItemPath:       "/slider",
}

// Slider is one promotional banner.
type Slider struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
	Link  string `json:"link,omitempty"`
}

// Decode parses one slider record.
func Decode(raw json.RawMessage) (Slider, error) {
	var core struct {
		ID    string `json:"id"`
		AltID string `json:"_id"`
		Title string `json:"title"`
		Name  string `json:"name"`
		Image string `json:"image"`
		Link  string `json:"link"`
	}
	if err := json.Unmarshal(raw, &core); err != nil {
		return Slider{}, dErrors.Wrap(err, dErrors.CodeMalformedResponse, "undecodable slider record")
	}

	s := Slider{ID: core.ID, Title: core.Title, Image: core.Image, Link: core.Link}
	if s.ID == "" {
		s.ID = core.AltID
	}
	if s.Title == "" {
		s.Title = core.Name
	}
	return s, nil
}

// NewService creates the slider CRUD service.
func NewService(client *upstream.Client, logger *slog.Logger, m *metrics.Metrics) *crud.Service[Slider] {
	return crud.NewService(crud.Config[Slider]{
		Resource:   Resource,
		Required:   []string{"title"},
		Fields:     []string{"title", "link"},
		FileFields: []string{"image"},
		Decode:     Decode,
	}, client, logger, m)
}

// NewHandler creates the slider HTTP handler.
func NewHandler(service *crud.Service[Slider], logger *slog.Logger) *crud.Handler[Slider] {
	return crud.NewHandler(service, logger)
}
