// Package upstream is the single HTTP client for the marketplace backend.
// Every resource store goes through it: it owns the envelope normalization,
// the error taxonomy, the uniform timeout policy, and the multipart encoding
// that the backend's write endpoints expect.
package upstream

// Resource describes one backend entity type. The backend uses plural paths
// for collection reads and singular paths for item writes (GET /buyers but
// POST /buyer), so both are carried explicitly.
type Resource struct {
	// Name labels metrics, spans, and log lines.
	Name string
	// Plural is the envelope key some endpoints wrap collections in.
	Plural string
	// CollectionPath serves full-collection GETs.
	CollectionPath string
	// ItemPath is the singular base for item reads and writes.
	ItemPath string
}

func (r Resource) itemPath(id string) string {
	return r.ItemPath + "/" + id
}
