// Package message defines the clipt IPC protocol.
//
// Requests and responses are newline-delimited JSON, one message per line.
// Clipboard payloads are always base64-encoded so binary representations
// (PNG, PDF) are safe inside JSON strings. On TCP transports the whole line
// is additionally sealed with NaCl secretbox; a failed open is both the
// authentication failure and the integrity failure, so no separate auth
// handshake exists.
package message

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Op identifies the requested clipboard operation.
type Op string

const (
	OpPaste     Op = "PASTE"
	OpCopy      Op = "COPY"
	OpListTypes Op = "LIST_TYPES"
	OpStatus    Op = "STATUS"
)

// Item is one clipboard representation in a COPY request. Type is a portable
// alias unless System is set, in which case it is a verbatim native
// identifier of the serving host's platform.
type Item struct {
	Type   string `json:"type"`
	System bool   `json:"system,omitempty"`
	Data   string `json:"data"` // base64-encoded
}

// NewItem builds an Item from raw bytes.
func NewItem(typ string, system bool, data []byte) Item {
	return Item{
		Type:   typ,
		System: system,
		Data:   base64.StdEncoding.EncodeToString(data),
	}
}

// Decode returns the raw payload bytes.
func (it Item) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(it.Data)
}

// TypeEntry is one line of a LIST_TYPES response.
type TypeEntry struct {
	ID    string `json:"id"`
	Alias string `json:"alias,omitempty"`
}

// Request is the client→server envelope.
type Request struct {
	Op Op `json:"op"`

	// PASTE: optional specifier; absent means the default representation.
	Type   string `json:"type,omitempty"`
	System bool   `json:"system,omitempty"`

	// COPY
	Items []Item `json:"items,omitempty"`
}

// Response is the server→client envelope.
type Response struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  int    `json:"code,omitempty"` // exit-code mapping of Error

	// PASTE
	Data string `json:"data,omitempty"` // base64-encoded

	// LIST_TYPES. Degraded means the serving backend cannot enumerate,
	// which is not the same as an empty clipboard.
	Types    []TypeEntry `json:"types,omitempty"`
	Degraded bool        `json:"degraded,omitempty"`

	// STATUS
	Backend  string `json:"backend,omitempty"`
	Platform string `json:"platform,omitempty"`
	Version  string `json:"version,omitempty"`
}

// EncodeRequest serialises a request without a trailing newline.
func EncodeRequest(r *Request) ([]byte, error) { return json.Marshal(r) }

// DecodeRequest deserialises a request from raw JSON bytes.
func DecodeRequest(b []byte) (*Request, error) {
	var r Request
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("request decode: %w", err)
	}
	if r.Op == "" {
		return nil, fmt.Errorf("request decode: missing op")
	}
	return &r, nil
}

// EncodeResponse serialises a response without a trailing newline.
func EncodeResponse(r *Response) ([]byte, error) { return json.Marshal(r) }

// DecodeResponse deserialises a response from raw JSON bytes.
func DecodeResponse(b []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("response decode: %w", err)
	}
	return &r, nil
}

// PasteData returns the decoded paste payload of a response.
func (r *Response) PasteData() ([]byte, error) {
	return base64.StdEncoding.DecodeString(r.Data)
}
