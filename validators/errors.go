package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoParams is returned by list parsers when none of the recognized keys is present.
var ErrNoParams = errors.New("data not provided")

// ValidationError maps field names to one or more human readable messages.
// Fields keep the order in which they were checked.
type ValidationError struct {
	fields   []string
	messages map[string][]string
}

// Add records msg against field.
func (e *ValidationError) Add(field, msg string) {
	if e.messages == nil {
		e.messages = make(map[string][]string)
	}
	if _, ok := e.messages[field]; !ok {
		e.fields = append(e.fields, field)
	}
	e.messages[field] = append(e.messages[field], msg)
}

// Fields returns the failing fields in check order.
func (e *ValidationError) Fields() []string {
	return append([]string(nil), e.fields...)
}

// Messages returns the messages recorded for field.
func (e *ValidationError) Messages(field string) []string {
	return append([]string(nil), e.messages[field]...)
}

// Has reports whether field failed.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.messages[field]
	return ok
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, f+": "+strings.Join(e.messages[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// MarshalJSON renders {"field": ["msg", ...], ...} preserving field order.
func (e *ValidationError) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range e.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.messages[f])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// err returns nil when nothing was recorded so callers can `return p, v.err()`.
func (e *ValidationError) err() error {
	if len(e.fields) == 0 {
		return nil
	}
	return e
}
