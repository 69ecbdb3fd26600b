package concept

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConceptSet_Lookup(t *testing.T) {
	set := ConceptSet{
		{Source: SourceWikipedia, Concepts: []string{"メロディー"}},
		{Source: SourceWeblio, Concepts: []string{}},
	}

	got, ok := set.Lookup(SourceWikipedia)
	assert.True(t, ok)
	assert.Equal(t, []string{"メロディー"}, got)

	got, ok = set.Lookup(SourceWeblio)
	assert.True(t, ok, "an empty source is still present")
	assert.Empty(t, got)

	_, ok = set.Lookup(SourceRelated)
	assert.False(t, ok)
}

func TestConceptSet_Filter(t *testing.T) {
	set := ConceptSet{
		{Source: SourceWikipedia, Concepts: []string{"a1"}},
		{Source: SourceWeblio, Concepts: []string{"b1"}},
		{Source: SourceRelated, Concepts: []string{"c1"}},
	}

	tests := []struct {
		name    string
		enabled []Source
		want    []Source
	}{
		{name: "all", enabled: CanonicalSources, want: CanonicalSources},
		{name: "keeps set order", enabled: []Source{SourceRelated, SourceWikipedia}, want: []Source{SourceWikipedia, SourceRelated}},
		{name: "none", enabled: nil, want: []Source{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Filter(tt.enabled).Sources())
		})
	}
}

func TestConceptSet_UnionAndCounts(t *testing.T) {
	set := ConceptSet{
		{Source: SourceWikipedia, Concepts: []string{"メロディー", "リズム"}},
		{Source: SourceWeblio, Concepts: []string{"メロディー"}},
		{Source: SourceRelated, Concepts: nil},
	}

	assert.Equal(t, []string{"メロディー", "リズム"}, set.Union())
	assert.Equal(t, 3, set.Total())
	assert.Equal(t, 2, set.NonEmptySources())
	assert.False(t, set.IsEmpty())
	assert.True(t, ConceptSet{{Source: SourceWeblio}}.IsEmpty())
	assert.True(t, ConceptSet(nil).IsEmpty())
}

func TestConceptSet_MarshalJSON(t *testing.T) {
	set := ConceptSet{
		{Source: SourceRelated, Concepts: []string{"創造"}},
		{Source: SourceWikipedia, Concepts: nil},
	}

	got, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t, `{"関連検索":["創造"],"Wikipedia":[]}`, string(got))

	got, err = json.Marshal(ConceptSet{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Truncate([]string{"a", "b", "c"}, 2))
	assert.Equal(t, []string{"a"}, Truncate([]string{"a"}, 5))
	assert.Equal(t, []string{}, Truncate([]string{"a"}, 0))
}
