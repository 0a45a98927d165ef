package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the response wrapper every endpoint uses. The login endpoint
// puts its payload in User instead of Data.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Msg     string          `json:"msg,omitempty"`
	User    json.RawMessage `json:"user,omitempty"`
}

// HasData reports whether the envelope carried a non-null data field.
func (e *Envelope) HasData() bool {
	return hasPayload(e.Data)
}

// Decode unmarshals the data field into out.
func (e *Envelope) Decode(out any) error {
	if !e.HasData() {
		return fmt.Errorf("decode response: empty data")
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// DecodeUser unmarshals the user field into out.
func (e *Envelope) DecodeUser(out any) error {
	if !hasPayload(e.User) {
		return fmt.Errorf("decode response: empty user")
	}
	if err := json.Unmarshal(e.User, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// DataIsList reports whether data holds a JSON array.
func (e *Envelope) DataIsList() bool {
	b := bytes.TrimSpace(e.Data)
	return len(b) > 0 && b[0] == '['
}

func hasPayload(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && !bytes.Equal(b, []byte("null"))
}
