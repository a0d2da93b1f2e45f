package common

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// MaxPageLimit caps the per-source record count for a single crawl request.
const MaxPageLimit = 100

// DefaultPageLimit applies when a crawl request omits the limit.
const DefaultPageLimit = 20

// Cursor encodes per-source offsets into one opaque token so a follow-up
// request resumes every aggregated source at the right position.
type Cursor map[string]int

// EncodeCursor serializes a cursor to its opaque wire form. An empty cursor
// encodes to the empty string.
func EncodeCursor(c Cursor) string {
	if len(c) == 0 {
		return ""
	}
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses an opaque cursor token. An empty token yields an empty
// cursor, which starts every source at offset zero.
func DecodeCursor(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}
	for name, offset := range c {
		if offset < 0 {
			return nil, fmt.Errorf("malformed cursor: negative offset for %q", name)
		}
	}
	return c, nil
}

// Offset returns the stored offset for a source, zero when absent.
func (c Cursor) Offset(source string) int {
	return c[source]
}

// ContentParams carries the query parameters of a crawl request.
type ContentParams struct {
	Sources         []string
	CursorToken     string
	Limit           int
	IncludeMetadata bool
}

// ExtractContentParams extracts crawl parameters from the request query,
// clamping the limit to MaxPageLimit.
func ExtractContentParams(r *http.Request) ContentParams {
	params := ContentParams{Limit: DefaultPageLimit}

	if raw := r.URL.Query().Get("sources"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				params.Sources = append(params.Sources, trimmed)
			}
		}
	}

	params.CursorToken = r.URL.Query().Get("cursor")

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			if n > MaxPageLimit {
				n = MaxPageLimit
			}
			params.Limit = n
		}
	}

	if raw := r.URL.Query().Get("includeMetadata"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			params.IncludeMetadata = b
		}
	}

	return params
}
