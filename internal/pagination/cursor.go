// Package pagination implements opaque keyset cursors for list endpoints.
//
// A cursor encodes the (created_at, id) position of the last item on a page.
// Stores turn it into a keyset WHERE clause, which stays stable while new
// entries are appended at the head, unlike offset pagination.
package pagination

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var errMalformed = errors.New("invalid cursor")

// Cursor is a decoded position in a (created_at, id) ordered listing.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Encode packs a position into an opaque URL-safe string.
func Encode(createdAt time.Time, id string) string {
	raw := strconv.FormatInt(createdAt.UnixNano(), 10) + "|" + id
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// Decode unpacks a cursor produced by Encode. An empty string decodes to a
// nil cursor, meaning start from the newest entry.
func Decode(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, errMalformed
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil, errMalformed
	}
	nanos, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, errMalformed
	}
	return &Cursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: id}, nil
}

// ComputePage trims a limit+1 fetch down to one page. key extracts the
// (created_at, id) position of an item; when a next page exists, the
// returned cursor points at the last item kept.
func ComputePage[T any](items []T, limit int, key func(T) (time.Time, string)) ([]T, string, bool) {
	if len(items) <= limit {
		return items, "", false
	}
	items = items[:limit]
	createdAt, id := key(items[len(items)-1])
	return items, Encode(createdAt, id), true
}
