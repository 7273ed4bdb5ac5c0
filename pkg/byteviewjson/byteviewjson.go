// Package byteviewjson adapts byteview.Value to encoding/json, the external
// serialization collaborator the byteview package itself deliberately leaves
// unimplemented. JSON has no native byte-string type, so a Value round-trips
// as a base64 string field exactly like a plain []byte does when marshaled
// by encoding/json - this package exists only to give Values the same
// marshaling ergonomics without requiring callers to convert through Bytes()
// and FromBytes() by hand at every call site.
package byteviewjson

import (
	"encoding/base64"
	"encoding/json"

	"github.com/watt-toolkit/byteview/pkg/byteview"
)

// JSON wraps a byteview.Value so it can be used directly as a struct field
// type with encoding/json, marshaling to and from a base64 string the same
// way encoding/json treats a bare []byte field.
//
// The zero JSON wraps the zero Value (an empty, inline Value) and marshals
// to an empty JSON string.
type JSON struct {
	Value byteview.Value
}

// Wrap returns a JSON wrapping v. The wrapper takes ownership of v: Release
// belongs to whoever holds the JSON value, exactly as if v had been stored
// in any other field.
func Wrap(v byteview.Value) JSON {
	return JSON{Value: v}
}

// MarshalJSON implements json.Marshaler.
func (j JSON) MarshalJSON() ([]byte, error) {
	b := j.Value.Bytes()
	return json.Marshal(base64.StdEncoding.EncodeToString(b))
}

// UnmarshalJSON implements json.Unmarshaler. It allocates a fresh Value
// owned by the receiver; callers must Release j.Value (or the JSON holding
// it) once done, per byteview's ownership contract.
func (j *JSON) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}

	v, err := byteview.FromBytes(raw)
	if err != nil {
		return err
	}
	j.Value = v
	return nil
}

// Release releases the wrapped Value. Convenience so callers holding a JSON
// don't need to reach into .Value.
func (j JSON) Release() {
	j.Value.Release()
}
