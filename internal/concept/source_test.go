package concept

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    Source
		wantErr bool
	}{
		{name: "identifier", value: "wikipedia", want: SourceWikipedia},
		{name: "identifier is case insensitive", value: "Weblio", want: SourceWeblio},
		{name: "display name", value: "関連検索", want: SourceRelated},
		{name: "saved identifier", value: "saved", want: SourceSaved},
		{name: "surrounding spaces", value: " related ", want: SourceRelated},
		{name: "unknown", value: "google", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSource(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownSource)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSources(t *testing.T) {
	got, err := ParseSources([]string{"weblio", "wikipedia", "weblio"})
	assert.NoError(t, err)
	assert.Equal(t, []Source{SourceWeblio, SourceWikipedia}, got)

	_, err = ParseSources([]string{"weblio", "bing"})
	assert.Error(t, err)
}

func TestSource_ID(t *testing.T) {
	assert.Equal(t, []string{"wikipedia", "weblio", "related"}, SourceIDs(CanonicalSources))
	assert.Equal(t, "custom", Source("custom").ID())
}
