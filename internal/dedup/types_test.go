package dedup

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_JSONKeepsUnknownFields(t *testing.T) {
	raw := `{"text":"hello","url":"https://example.org","tokens":12}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "hello", doc.Text)
	assert.Equal(t, 0.0, doc.Weight)
	assert.Equal(t, "https://example.org", doc.Meta["url"])
	assert.Equal(t, 12.0, doc.Meta["tokens"])

	out, err := json.Marshal(doc.WithWeight(0.5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hello","url":"https://example.org","tokens":12,"weight":0.5}`, string(out))

	// unset weight is omitted
	out, err = json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestFromMap(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]any
		textKey string
		want    Document
		wantErr bool
	}{
		{
			name:  "default key",
			input: map[string]any{"text": "a", "weight": 0.7},
			want:  Document{Text: "a", Weight: 0.7},
		},
		{
			name:    "custom text key",
			input:   map[string]any{"content": "a", "text": "meta"},
			textKey: "content",
			want:    Document{Text: "a", Meta: map[string]any{"text": "meta"}},
		},
		{
			name:  "missing text is empty",
			input: map[string]any{"id": "x"},
			want:  Document{Meta: map[string]any{"id": "x"}},
		},
		{
			name:  "null text is empty",
			input: map[string]any{"text": nil},
			want:  Document{},
		},
		{
			name:    "non-string text",
			input:   map[string]any{"text": 5.0},
			wantErr: true,
		},
		{
			name:    "non-numeric weight",
			input:   map[string]any{"text": "a", "weight": "heavy"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromMap(tt.input, tt.textKey)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocument_MapCustomKey(t *testing.T) {
	doc := Document{Text: "body", Weight: 1, Meta: map[string]any{"id": "7"}}

	assert.Equal(t, map[string]any{"content": "body", "weight": 1.0, "id": "7"}, doc.Map("content"))
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "kept", DecisionKept.String())
	assert.Equal(t, "duplicate", DecisionDuplicate.String())
	assert.Equal(t, "skipped", DecisionSkipped.String())
}

func TestBackendByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "xxhash", false},
		{"XXHash", "xxhash", false},
		{"xxh64", "xxhash", false},
		{"fnv", "fnv", false},
		{" fnv64a ", "fnv", false},
		{"sha1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := BackendByName(tt.name)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrMissingBackend))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Name())
		})
	}
}

func TestHasher(t *testing.T) {
	h, err := NewHasher(XXHash)
	require.NoError(t, err)

	assert.Equal(t, h.Hash("same text"), h.Hash("same text"))
	assert.NotEqual(t, h.Hash("same text"), h.Hash("same text "))
	assert.Len(t, h.Hash("x").String(), 16)
	assert.Equal(t, "xxhash", h.Backend())

	// empty input of the reference xxh64 implementation
	assert.Equal(t, "ef46db3751d8e999", h.Hash("").String())

	// both backends agree on bytes and strings
	for _, b := range []Backend{XXHash, FNV} {
		assert.Equal(t, b.Sum64([]byte("abc")), b.Sum64String("abc"))
	}

	_, err = NewHasher(nil)
	assert.True(t, errors.Is(err, ErrMissingBackend))
}

func TestConfigError(t *testing.T) {
	err := invalid("threshold", 1.5, "must be within [0, 1]")

	assert.Equal(t, "dedup: invalid threshold 1.5: must be within [0, 1]", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}
