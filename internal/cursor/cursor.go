// Package cursor encodes pagination continuation keys as opaque
// URL-safe tokens. A token is base64(JSON) of the last-seen sort key
// plus a version tag; callers must not interpret its contents.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every decode failure. Callers treat it as a
// bad request, never as something to retry.
var ErrInvalid = errors.New("invalid cursor")

const version = 1

// Key is a continuation position: the sort value and tiebreak id of the
// last item of the previous page.
type Key struct {
	Version int    `json:"v"`
	Sort    int64  `json:"s"`
	ID      string `json:"k"`
}

func Encode(k Key) string {
	k.Version = version
	payload, _ := json.Marshal(k)
	return base64.RawURLEncoding.EncodeToString(payload)
}

func Decode(token string) (Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	// Sort is decoded through a pointer so an absent field is
	// distinguishable from a legitimate zero sort value.
	var wire struct {
		Version int    `json:"v"`
		Sort    *int64 `json:"s"`
		ID      string `json:"k"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if wire.Version != version {
		return Key{}, fmt.Errorf("%w: unsupported version %d", ErrInvalid, wire.Version)
	}
	if wire.ID == "" || wire.Sort == nil {
		return Key{}, fmt.Errorf("%w: missing key fields", ErrInvalid)
	}
	return Key{Version: wire.Version, Sort: *wire.Sort, ID: wire.ID}, nil
}
