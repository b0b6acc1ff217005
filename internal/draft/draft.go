// Package draft stages create/edit submissions before they are dispatched to
// the backend. A draft lives for one request: it collects fields and file
// attachments, validates them, and is discarded after the multipart form is
// built.
package draft

import (
	"sort"
	"strings"

	dErrors "mercato/pkg/domain-errors"
	"mercato/pkg/validation"
)

// Mode distinguishes create from edit semantics. The only behavioral
// difference is the password field: required on create, "leave unchanged"
// when blank on edit.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// File is a named binary attachment destined for one multipart file part.
type File struct {
	Filename string
	Content  []byte
}

// Draft is a record-shaped staging area plus a parallel map of field
// validation errors.
type Draft struct {
	mode        Mode
	hasPassword bool
	fields      map[string]string
	files       map[string]File
	errors      map[string]string
}

// New creates an empty draft in the given mode. The password rule is on by
// default; resources without a password field switch it off.
func New(mode Mode) *Draft {
	return &Draft{
		mode:        mode,
		hasPassword: true,
		fields:      make(map[string]string),
		files:       make(map[string]File),
		errors:      make(map[string]string),
	}
}

// SetPasswordRule controls whether the draft carries a password field at
// all. When disabled, Validate skips both the create-mode requirement and
// the edit-mode strip.
func (d *Draft) SetPasswordRule(enabled bool) {
	d.hasPassword = enabled
}

// Mode returns the draft's mode.
func (d *Draft) Mode() Mode {
	return d.mode
}

// SetField stages a field value, trimmed.
func (d *Draft) SetField(name, value string) {
	d.fields[name] = strings.TrimSpace(value)
}

// Field returns a staged field value.
func (d *Draft) Field(name string) string {
	return d.fields[name]
}

// Fields returns the staged field map.
func (d *Draft) Fields() map[string]string {
	return d.fields
}

// SetFile stages a file attachment. Empty content means "no new file chosen"
// and is dropped so an edit cannot blank out a stored upload.
func (d *Draft) SetFile(field, filename string, content []byte) {
	if len(content) == 0 {
		return
	}
	d.files[field] = File{Filename: filename, Content: content}
}

// Files returns the staged attachments.
func (d *Draft) Files() map[string]File {
	return d.files
}

// Validate checks the statically required fields plus the identity-field
// format rules. It returns whether the draft may be dispatched and fills the
// field error map either way.
func (d *Draft) Validate(required ...string) bool {
	d.errors = make(map[string]string)

	for _, name := range required {
		if d.fields[name] == "" {
			d.errors[name] = name + " is required"
		}
	}

	if mobile := d.fields["mobile"]; mobile != "" && !validation.MobileValid(mobile) {
		d.errors["mobile"] = "mobile must be exactly 10 digits"
	}
	if email := d.fields["email"]; email != "" && !validation.EmailValid(email) {
		d.errors["email"] = "email must be a valid email"
	}

	// Password is required on create; on edit a blank password means "leave
	// unchanged" and the field is stripped so it never reaches the backend.
	if d.hasPassword {
		if d.mode == ModeCreate {
			if d.fields["password"] == "" {
				d.errors["password"] = "password is required"
			}
		} else if d.fields["password"] == "" {
			delete(d.fields, "password")
		}
	}

	return len(d.errors) == 0
}

// Errors returns the field error map from the last Validate call.
func (d *Draft) Errors() map[string]string {
	return d.errors
}

// Err converts the field error map into a single domain error, or nil when
// the draft is valid. Fields are ordered for stable output.
func (d *Draft) Err() error {
	if len(d.errors) == 0 {
		return nil
	}
	names := make([]string, 0, len(d.errors))
	for name := range d.errors {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]dErrors.FieldError, 0, len(names))
	for _, name := range names {
		fields = append(fields, dErrors.FieldError{Field: name, Message: d.errors[name]})
	}
	return dErrors.NewFields(dErrors.CodeValidation, fields[0].Message, fields)
}
