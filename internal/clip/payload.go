package clip

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// The detached Wayland selection owner is a re-exec of this binary, so the
// clipboard items travel to it over stdin. Base64 inside JSON keeps binary
// representations intact.

type selectionPayload struct {
	Items map[string]string `json:"items"` // native id → base64 data
}

// EncodeSelection serialises items for the __serve-selection child.
func EncodeSelection(items map[string][]byte) ([]byte, error) {
	p := selectionPayload{Items: make(map[string]string, len(items))}
	for id, data := range items {
		p.Items[id] = base64.StdEncoding.EncodeToString(data)
	}
	return json.Marshal(p)
}

// DecodeSelection is the inverse of EncodeSelection.
func DecodeSelection(raw []byte) (map[string][]byte, error) {
	var p selectionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("selection payload: %w", err)
	}
	items := make(map[string][]byte, len(p.Items))
	for id, b64 := range p.Items {
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("selection payload %q: %w", id, err)
		}
		items[id] = data
	}
	return items, nil
}
