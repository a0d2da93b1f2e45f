package common

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	original := Cursor{"articles": 40, "products": 15}

	token := EncodeCursor(original)
	require.NotEmpty(t, token)

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestCursor_EmptyToken(t *testing.T) {
	decoded, err := DecodeCursor("")

	require.NoError(t, err)
	assert.Empty(t, decoded)
	assert.Equal(t, 0, decoded.Offset("anything"))
}

func TestCursor_EmptyCursorEncodesToEmptyString(t *testing.T) {
	assert.Equal(t, "", EncodeCursor(Cursor{}))
	assert.Equal(t, "", EncodeCursor(nil))
}

func TestCursor_MalformedToken(t *testing.T) {
	_, err := DecodeCursor("!!! not base64 !!!")
	assert.Error(t, err)

	notJSON := base64.RawURLEncoding.EncodeToString([]byte("plain text"))
	_, err = DecodeCursor(notJSON)
	assert.Error(t, err)
}

func TestCursor_RejectsNegativeOffsets(t *testing.T) {
	token := base64.RawURLEncoding.EncodeToString([]byte(`{"articles":-5}`))

	_, err := DecodeCursor(token)

	assert.Error(t, err)
}

func TestCursor_OffsetDefaultsToZero(t *testing.T) {
	c := Cursor{"articles": 7}

	assert.Equal(t, 7, c.Offset("articles"))
	assert.Equal(t, 0, c.Offset("unknown"))
}

func TestExtractContentParams_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/ixp/crawler_content", nil)

	params := ExtractContentParams(r)

	assert.Empty(t, params.Sources)
	assert.Empty(t, params.CursorToken)
	assert.Equal(t, DefaultPageLimit, params.Limit)
	assert.False(t, params.IncludeMetadata)
}

func TestExtractContentParams_ParsesQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/ixp/crawler_content?sources=articles,%20products&limit=30&cursor=abc&includeMetadata=true", nil)

	params := ExtractContentParams(r)

	assert.Equal(t, []string{"articles", "products"}, params.Sources)
	assert.Equal(t, "abc", params.CursorToken)
	assert.Equal(t, 30, params.Limit)
	assert.True(t, params.IncludeMetadata)
}

func TestExtractContentParams_ClampsLimit(t *testing.T) {
	over := httptest.NewRequest("GET", "/ixp/crawler_content?limit=9999", nil)
	assert.Equal(t, MaxPageLimit, ExtractContentParams(over).Limit)

	invalid := httptest.NewRequest("GET", "/ixp/crawler_content?limit=-3", nil)
	assert.Equal(t, DefaultPageLimit, ExtractContentParams(invalid).Limit)
}
