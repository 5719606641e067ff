package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size order feeds fall back to.
	DefaultLimit = 25
	// MaxLimit caps any single page of orders.
	MaxLimit = 100

	cursorSeparator = "|"
)

// Params carries the limit and opaque cursor a caller passed in. Order feeds
// are keyset-paged on (created_at, id) descending; offset paging is never
// used because orders keep arriving while the admin is reading.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor pins the last row of the previous page.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// NormalizeLimit clamps a requested limit into [1, MaxLimit], falling back to
// DefaultLimit when the caller sent nothing.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Encode renders the cursor as an opaque token safe to put in a query string.
func (c Cursor) Encode() string {
	payload := c.CreatedAt.UTC().Format(time.RFC3339Nano) + cursorSeparator + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes a token produced by Encode. An empty token means the
// first page and returns nil without error.
func ParseCursor(token string) (*Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		// Older clients may still hold padded cursors.
		decoded, err = base64.StdEncoding.DecodeString(token)
	}
	if err != nil {
		return nil, fmt.Errorf("undecodable page cursor: %w", err)
	}

	createdRaw, idRaw, found := strings.Cut(string(decoded), cursorSeparator)
	if !found {
		return nil, fmt.Errorf("malformed page cursor")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("page cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(idRaw)
	if err != nil {
		return nil, fmt.Errorf("page cursor id: %w", err)
	}

	return &Cursor{CreatedAt: createdAt, ID: id}, nil
}
