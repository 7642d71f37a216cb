// Package user holds the user record shape shared by the collection client,
// the widget and the reference server.
package user

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a server-assigned identifier. Servers may send either a JSON number
// or a JSON string; ID keeps the distinction so it round-trips unchanged and
// so that 2 and "2" are different ids.
type ID struct {
	value   string
	numeric bool
}

// IntID returns a numeric id.
func IntID(n int64) ID {
	return ID{value: strconv.FormatInt(n, 10), numeric: true}
}

// StringID returns a string id.
func StringID(s string) ID {
	return ID{value: s}
}

func (id ID) String() string { return id.value }

func (id ID) IsZero() bool { return id.value == "" }

func (id ID) Numeric() bool { return id.numeric }

func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ID{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = ID{value: n.String(), numeric: true}
	return nil
}

// Fields are the four values a form submits.
type Fields struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Record is one user in the collection. Attributes other than the known
// fields are kept in Extra and written back on marshal.
type Record struct {
	ID         ID
	FirstName  string
	LastName   string
	Email      string
	Department string
	Extra      map[string]json.RawMessage
}

const (
	keyID         = "id"
	keyFirstName  = "firstName"
	keyLastName   = "lastName"
	keyEmail      = "email"
	keyDepartment = "department"
)

// Fields returns the form-editable part of r.
func (r Record) Fields() Fields {
	return Fields{FirstName: r.FirstName, LastName: r.LastName, Email: r.Email, Department: r.Department}
}

// Merge returns a copy of r with f written over its form-editable fields.
// The id and any extra attributes are preserved.
func (r Record) Merge(f Fields) Record {
	out := r.Clone()
	out.FirstName = f.FirstName
	out.LastName = f.LastName
	out.Email = f.Email
	out.Department = f.Department
	return out
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	if r.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// New builds a record from submitted fields and a server-assigned id.
func New(id ID, f Fields) Record {
	return Record{ID: id, FirstName: f.FirstName, LastName: f.LastName, Email: f.Email, Department: f.Department}
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+5)
	for k, v := range r.Extra {
		out[k] = v
	}
	if !r.ID.IsZero() {
		out[keyID] = r.ID
	}
	out[keyEmail] = r.Email
	setIfPresent(out, keyFirstName, r.FirstName)
	setIfPresent(out, keyLastName, r.LastName)
	setIfPresent(out, keyDepartment, r.Department)
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var rec Record
	if v, ok := raw[keyID]; ok {
		if err := rec.ID.UnmarshalJSON(v); err != nil {
			return err
		}
		delete(raw, keyID)
	}
	rec.FirstName = takeString(raw, keyFirstName)
	rec.LastName = takeString(raw, keyLastName)
	rec.Email = takeString(raw, keyEmail)
	rec.Department = takeString(raw, keyDepartment)
	if len(raw) > 0 {
		rec.Extra = raw
	}
	*r = rec
	return nil
}

func setIfPresent(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

// takeString removes key from raw and returns its string value. Null or
// non-string values count as absent.
func takeString(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	delete(raw, key)
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}
