package upstream

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
)

// Form builds the multipart payload the backend's write endpoints expect:
// one "data" part carrying the JSON-encoded record plus optional file parts
// for images and KYC documents.
type Form struct {
	fields []formField
	files  []filePart
}

type formField struct {
	name  string
	value string
}

type filePart struct {
	field    string
	filename string
	content  []byte
}

// NewForm creates an empty multipart form.
func NewForm() *Form {
	return &Form{}
}

// SetJSON adds a field holding the JSON encoding of v. Writes use this for
// the record body under the "data" key.
func (f *Form) SetJSON(name string, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.fields = append(f.fields, formField{name: name, value: string(encoded)})
	return nil
}

// AttachFile adds a file part. Empty content is silently skipped: an edit
// that did not choose a new file must not overwrite the stored one with
// empty bytes.
func (f *Form) AttachFile(field, filename string, content []byte) {
	if len(content) == 0 {
		return
	}
	f.files = append(f.files, filePart{field: field, filename: filename, content: content})
}

// Encode renders the form as a multipart body and returns the matching
// Content-Type header value.
func (f *Form) Encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
