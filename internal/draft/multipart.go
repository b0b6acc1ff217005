package draft

import (
	"io"
	"net/http"
	"slices"
	"strings"

	dErrors "mercato/pkg/domain-errors"
)

// maxFormMemory is how much of a parsed multipart form stays in memory;
// larger file parts spill to temp files.
const maxFormMemory = 8 << 20

// FromRequest builds a draft from an incoming multipart form submission,
// staging the named fields and file parts. Fields absent from the form stay
// unset. A plain urlencoded form works too; only file parts require
// multipart.
func FromRequest(r *http.Request, mode Mode, fields, fileFields []string) (*Draft, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid multipart form")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid form body")
		}
	}

	d := New(mode)
	d.SetPasswordRule(slices.Contains(fields, "password"))
	for _, name := range fields {
		if vs, ok := r.Form[name]; ok && len(vs) > 0 {
			d.SetField(name, vs[0])
		} else if r.MultipartForm != nil {
			if vs, ok := r.MultipartForm.Value[name]; ok && len(vs) > 0 {
				d.SetField(name, vs[0])
			}
		}
	}

	if r.MultipartForm == nil {
		return d, nil
	}

	for _, field := range fileFields {
		headers, ok := r.MultipartForm.File[field]
		if !ok || len(headers) == 0 {
			continue
		}
		header := headers[0]
		file, err := header.Open()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable file part "+field)
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable file part "+field)
		}
		d.SetFile(field, header.Filename, content)
	}
	return d, nil
}
