package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/rensou/internal/session"
)

func newDictionary(entries ...session.Entry) *session.Dictionary {
	var dictionary session.Dictionary
	for _, entry := range entries {
		dictionary.Set(entry.Word, entry.Concepts)
	}
	return &dictionary
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		value   string
		want    Format
		wantErr bool
	}{
		{value: "json", want: FormatJSON},
		{value: "YAML", want: FormatYAML},
		{value: "yml", want: FormatYAML},
		{value: "md", want: FormatMarkdown},
		{value: " markdown ", want: FormatMarkdown},
		{value: "pdf", want: FormatPDF},
		{value: "mysql", want: FormatMySQL},
		{value: "csv", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseFormat(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "out/dict.json", want: FormatJSON},
		{path: "dict.yml", want: FormatYAML},
		{path: "dict.md", want: FormatMarkdown},
		{path: "dict.pdf", want: FormatPDF},
		{path: "dict.mysql", wantErr: true},
		{path: "dict", wantErr: true},
		{path: "out.v2/dict", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_DefaultFileName(t *testing.T) {
	assert.Equal(t, "concept_dictionary.json", FormatJSON.DefaultFileName())
	assert.Equal(t, "concept_dictionary.yaml", FormatYAML.DefaultFileName())
	assert.Equal(t, "concept_dictionary.md", FormatMarkdown.DefaultFileName())
	assert.Equal(t, "concept_dictionary.pdf", FormatPDF.DefaultFileName())
	assert.False(t, FormatMySQL.IsFile())
}

func TestEncode(t *testing.T) {
	music := session.Entry{Word: "音楽", Concepts: []string{"メロディー", "リズム"}}
	nature := session.Entry{Word: "自然", Concepts: []string{}}

	tests := []struct {
		name       string
		format     Format
		dictionary *session.Dictionary
		want       string
		wantErr    bool
	}{
		{
			name:       "empty json",
			format:     FormatJSON,
			dictionary: newDictionary(),
			want:       "{}",
		},
		{
			name:       "json keeps insertion order",
			format:     FormatJSON,
			dictionary: newDictionary(nature, music),
			want:       "{\n  \"自然\": [],\n  \"音楽\": [\n    \"メロディー\",\n    \"リズム\"\n  ]\n}",
		},
		{
			name:       "yaml",
			format:     FormatYAML,
			dictionary: newDictionary(music, nature),
			want:       "音楽:\n  - メロディー\n  - リズム\n自然: []\n",
		},
		{
			name:       "markdown",
			format:     FormatMarkdown,
			dictionary: newDictionary(music),
			want:       "# 連想辞書\n\n## 音楽\n\n- メロディー\n- リズム\n",
		},
		{
			name:       "empty markdown",
			format:     FormatMarkdown,
			dictionary: newDictionary(),
			want:       "# 連想辞書\n\n辞書は空です。\n",
		},
		{
			name:       "pdf is not text",
			format:     FormatPDF,
			dictionary: newDictionary(music),
			wantErr:    true,
		},
		{
			name:       "mysql is not text",
			format:     FormatMySQL,
			dictionary: newDictionary(music),
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.format, tt.dictionary, EncodeOptions{})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
