package upstream

import (
	"bytes"
	"encoding/json"

	dErrors "mercato/pkg/domain-errors"
)

// DecodeCollection normalizes the backend's inconsistent response envelopes
// into a flat record list. The shapes are tried in order:
//
//	(a) bare array                  -> as-is
//	(b) {"data": [...]}             -> inner array
//	(c) {"<plural>": [...]}         -> inner array
//	(d) single non-array object    -> one-element list
//	(e) anything else              -> empty list plus a malformed-response error
//
// The returned slice is never nil, and this function never panics; callers
// above the store boundary only ever see a flat list or a typed error.
func DecodeCollection(data []byte, plural string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []json.RawMessage{}, malformed("empty response body")
	}

	switch trimmed[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return []json.RawMessage{}, malformed("unparseable array response")
		}
		if records == nil {
			records = []json.RawMessage{}
		}
		return records, nil

	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return []json.RawMessage{}, malformed("unparseable object response")
		}
		if records, ok := arrayField(envelope, "data"); ok {
			return records, nil
		}
		if records, ok := arrayField(envelope, plural); ok {
			return records, nil
		}
		// Single record, e.g. a detail endpoint answering a collection call.
		return []json.RawMessage{json.RawMessage(trimmed)}, nil

	default:
		return []json.RawMessage{}, malformed("unrecognized response shape")
	}
}

func arrayField(envelope map[string]json.RawMessage, key string) ([]json.RawMessage, bool) {
	raw, ok := envelope[key]
	if !ok {
		return nil, false
	}
	inner := bytes.TrimSpace(raw)
	if len(inner) == 0 || inner[0] != '[' {
		return nil, false
	}
	var records []json.RawMessage
	if err := json.Unmarshal(inner, &records); err != nil {
		return nil, false
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, true
}

func malformed(msg string) error {
	return dErrors.New(dErrors.CodeMalformedResponse, msg)
}

// RecordID extracts the stable record key, tolerating both "id" and the
// backend's Mongo-style "_id".
func RecordID(raw json.RawMessage) string {
	var probe struct {
		ID      string `json:"id"`
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	if probe.ID != "" {
		return probe.ID
	}
	return probe.MongoID
}
