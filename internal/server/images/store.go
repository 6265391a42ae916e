// Package images moves meal photos between log records and object storage.
//
// Clients send photos inline as data URLs. With object storage configured
// the server keeps only a key in the database and re-inlines the photo when
// records are read; without it the data URL stays in the row.
package images

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
)

var (
	ErrNotStored = errors.New("image storage is not configured")
	ErrNotFound  = errors.New("image not found")
)

type Store interface {
	// Offload stores image for userID and returns its key. An empty key
	// means the image stays inline.
	Offload(ctx context.Context, userID, image string) (string, error)
	// Load returns the image stored under key as a data URL.
	Load(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
}

// InlineStore keeps every image in the database.
type InlineStore struct{}

func (InlineStore) Offload(context.Context, string, string) (string, error) { return "", nil }

func (InlineStore) Load(context.Context, string) (string, error) { return "", ErrNotStored }

func (InlineStore) Remove(context.Context, string) error { return nil }

// ParseDataURL splits a base64 data URL into its media type and payload.
func ParseDataURL(s string) (mime string, data []byte, ok bool) {
	rest, found := strings.CutPrefix(s, "data:")
	if !found {
		return "", nil, false
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", nil, false
	}
	mime, found = strings.CutSuffix(meta, ";base64")
	if !found {
		return "", nil, false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, false
	}
	if mime == "" {
		mime = "application/octet-stream"
	}
	return mime, data, true
}

// DataURL is the inverse of ParseDataURL.
func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
