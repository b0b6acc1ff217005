package middleware

import (
	"context"
	"net/http"

	"github.com/mssola/useragent"
)

// ClientMeta describes the admin client making a request, parsed once from
// the User-Agent header so audit logs can name the browser instead of the
// raw UA string.
type ClientMeta struct {
	Browser string
	OS      string
	Mobile  bool
}

type clientMetaKey struct{}

// ClientMetadata parses the User-Agent header into the request context.
// It should run before Logger so request logs carry the parsed fields.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("User-Agent")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		ua := useragent.New(raw)
		name, version := ua.Browser()
		meta := ClientMeta{
			Browser: name,
			OS:      ua.OS(),
			Mobile:  ua.Mobile(),
		}
		if version != "" {
			meta.Browser = name + "/" + version
		}

		ctx := context.WithValue(r.Context(), clientMetaKey{}, meta)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientMetadata retrieves parsed client metadata from the context.
func GetClientMetadata(ctx context.Context) ClientMeta {
	if meta, ok := ctx.Value(clientMetaKey{}).(ClientMeta); ok {
		return meta
	}
	return ClientMeta{}
}
