package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-3, DefaultLimit},
		{1, 1},
		{MaxLimit, MaxLimit},
		{MaxLimit + 50, MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC),
		ID:        uuid.New(),
	}

	got, err := ParseCursor(want.Encode())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got == nil || !got.CreatedAt.Equal(want.CreatedAt) || got.ID != want.ID {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestParseCursorEmptyMeansFirstPage(t *testing.T) {
	got, err := ParseCursor("  ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != nil {
		t.Fatalf("blank token must mean first page, got %+v", got)
	}
}

func TestParseCursorAcceptsPaddedTokens(t *testing.T) {
	cursor := Cursor{CreatedAt: time.Now().UTC(), ID: uuid.New()}
	payload := cursor.CreatedAt.Format(time.RFC3339Nano) + cursorSeparator + cursor.ID.String()
	padded := base64.StdEncoding.EncodeToString([]byte(payload))

	got, err := ParseCursor(padded)
	if err != nil {
		t.Fatalf("parse padded: %v", err)
	}
	if got.ID != cursor.ID {
		t.Fatalf("padded token id mismatch: got %s, want %s", got.ID, cursor.ID)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	for _, token := range []string{
		"%%%not-base64%%%",
		base64.RawURLEncoding.EncodeToString([]byte("no separator here")),
		base64.RawURLEncoding.EncodeToString([]byte("not-a-time|" + uuid.NewString())),
		base64.RawURLEncoding.EncodeToString([]byte(time.Now().UTC().Format(time.RFC3339Nano) + "|not-a-uuid")),
	} {
		if _, err := ParseCursor(token); err == nil {
			t.Fatalf("token %q must be rejected", token)
		}
	}
}
