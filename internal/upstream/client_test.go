package upstream

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "mercato/pkg/domain-errors"
)

var testResource = Resource{
	Name:           "buyer",
	Plural:         "buyers",
	CollectionPath: "/buyers",
	ItemPath:       "/buyer",
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, testLogger())
}

func TestFetchCollection(t *testing.T) {
	t.Run("plural envelope", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/buyers", r.URL.Path)
			w.Write([]byte(`{"buyers":[{"id":"1"},{"id":"2"}]}`))
		})

		records, err := c.FetchCollection(context.Background(), testResource)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("malformed body yields empty list and typed error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`"not a collection"`))
		})

		records, err := c.FetchCollection(context.Background(), testResource)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedResponse))
		assert.Empty(t, records)
		assert.NotNil(t, records)
	})

	t.Run("404 maps to not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := c.FetchCollection(context.Background(), testResource)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("structured field errors relayed verbatim", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errors":[{"field":"email","message":"already registered"}]}`))
		})

		err := c.Delete(context.Background(), testResource, "b1")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamRejected))
		fields := dErrors.FieldsOf(err)
		require.Len(t, fields, 1)
		assert.Equal(t, "email", fields[0].Field)
		assert.Equal(t, "already registered", fields[0].Message)
	})

	t.Run("message body surfaced", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message":"duplicate mobile"}`))
		})

		err := c.Delete(context.Background(), testResource, "b1")
		require.Error(t, err)
		assert.Equal(t, "duplicate mobile", err.Error())
	})

	t.Run("unparseable error body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`<html>nope</html>`))
		})

		err := c.Delete(context.Background(), testResource, "b1")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamRejected))
		assert.Contains(t, err.Error(), "400")
	})

	t.Run("5xx maps to unavailable", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		err := c.Delete(context.Background(), testResource, "b1")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamUnavailable))
	})

	t.Run("transport failure maps to unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing listening anymore

		c := New(srv.URL, testLogger())
		err := c.Delete(context.Background(), testResource, "b1")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamUnavailable))
	})

	t.Run("timeout maps to upstream timeout", func(t *testing.T) {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		t.Cleanup(slow.Close)

		c := New(slow.URL, testLogger(), WithTimeout(20*time.Millisecond), WithDoer(&http.Client{}))
		err := c.Delete(context.Background(), testResource, "b1")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamTimeout))
	})
}

func TestCreateSendsMultipart(t *testing.T) {
	var gotContentType string
	var gotData string
	var gotImage []byte
	var fileFields []string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/buyer", r.URL.Path)
		gotContentType = r.Header.Get("Content-Type")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotData = r.FormValue("data")
		for field := range r.MultipartForm.File {
			fileFields = append(fileFields, field)
		}
		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		gotImage, _ = io.ReadAll(file)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"b1"}`))
	})

	form := NewForm()
	require.NoError(t, form.SetJSON("data", map[string]string{"name": "Asha"}))
	form.AttachFile("image", "avatar.png", []byte{0x89, 0x50})
	form.AttachFile("aadhar_front", "front.jpg", nil) // no new file chosen

	require.NoError(t, c.Create(context.Background(), testResource, form))

	assert.Contains(t, gotContentType, "multipart/form-data")
	assert.JSONEq(t, `{"name":"Asha"}`, gotData)
	assert.Equal(t, []byte{0x89, 0x50}, gotImage)
	assert.Equal(t, []string{"image"}, fileFields, "empty file parts must not be sent")
}

func TestPatchJSON(t *testing.T) {
	var gotBody []byte
	var gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	})

	err := c.PatchJSON(context.Background(), Resource{Name: "product", Plural: "products", CollectionPath: "/products", ItemPath: "/product"}, "p1", map[string]string{"highlight": "Yes"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.JSONEq(t, `{"highlight":"Yes"}`, string(gotBody))
}

func TestPing(t *testing.T) {
	t.Run("any response means reachable", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		assert.NoError(t, c.Ping(context.Background()))
	})

	t.Run("dead host is down", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()
		c := New(srv.URL, testLogger())
		assert.Error(t, c.Ping(context.Background()))
	})
}
