package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/rensou/internal/concept"
	mock_source "github.com/at-ishikawa/rensou/internal/mocks/source"
	"github.com/at-ishikawa/rensou/internal/source"
)

func slowAdapter(ctx context.Context, _ string, _ int) ([]string, error) {
	select {
	case <-ctx.Done():
		return []string{"遅延"}, ctx.Err()
	case <-time.After(5 * time.Second):
		return []string{"遅延"}, nil
	}
}

func TestCoordinator_Search(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(wikipedia, weblio, related *mock_source.MockAdapter)
		want         concept.ConceptSet
		wantWarnings []concept.Source
		wantFound    bool
	}{
		{
			name: "all sources succeed",
			setup: func(wikipedia, weblio, related *mock_source.MockAdapter) {
				wikipedia.EXPECT().Search(gomock.Any(), "音楽", 8).Return([]string{"メロディー", "リズム"}, nil)
				weblio.EXPECT().Search(gomock.Any(), "音楽", 8).Return([]string{"メロディー"}, nil)
				related.EXPECT().Search(gomock.Any(), "音楽", 8).Return([]string{"楽器"}, nil)
			},
			want: concept.ConceptSet{
				{Source: concept.SourceWikipedia, Concepts: []string{"メロディー", "リズム"}},
				{Source: concept.SourceWeblio, Concepts: []string{"メロディー"}},
				{Source: concept.SourceRelated, Concepts: []string{"楽器"}},
			},
			wantFound: true,
		},
		{
			name: "failed source keeps partial concepts and warns",
			setup: func(wikipedia, weblio, related *mock_source.MockAdapter) {
				wikipedia.EXPECT().Search(gomock.Any(), "音楽", 8).Return([]string{"芸術"}, errors.New("decode error"))
				weblio.EXPECT().Search(gomock.Any(), "音楽", 8).Return(nil, errors.New("connection reset"))
				related.EXPECT().Search(gomock.Any(), "音楽", 8).Return([]string{"楽器"}, nil)
			},
			want: concept.ConceptSet{
				{Source: concept.SourceWikipedia, Concepts: []string{"芸術"}},
				{Source: concept.SourceWeblio, Concepts: []string{}},
				{Source: concept.SourceRelated, Concepts: []string{"楽器"}},
			},
			wantWarnings: []concept.Source{concept.SourceWikipedia, concept.SourceWeblio},
			wantFound:    true,
		},
		{
			name: "every source fails",
			setup: func(wikipedia, weblio, related *mock_source.MockAdapter) {
				wikipedia.EXPECT().Search(gomock.Any(), "音楽", 8).Return(nil, errors.New("a"))
				weblio.EXPECT().Search(gomock.Any(), "音楽", 8).Return(nil, errors.New("b"))
				related.EXPECT().Search(gomock.Any(), "音楽", 8).DoAndReturn(func(context.Context, string, int) ([]string, error) {
					panic("boom")
				})
			},
			want: concept.ConceptSet{
				{Source: concept.SourceWikipedia, Concepts: []string{}},
				{Source: concept.SourceWeblio, Concepts: []string{}},
				{Source: concept.SourceRelated, Concepts: []string{}},
			},
			wantWarnings: []concept.Source{concept.SourceWikipedia, concept.SourceWeblio, concept.SourceRelated},
		},
		{
			name: "results are deduplicated and capped",
			setup: func(wikipedia, weblio, related *mock_source.MockAdapter) {
				many := []string{"a1", "a2", "a1", "a3", "a4", "a5", "a6", "a7", "a8", "a9"}
				wikipedia.EXPECT().Search(gomock.Any(), "音楽", 8).Return(many, nil)
				weblio.EXPECT().Search(gomock.Any(), "音楽", 8).Return([]string{}, nil)
				related.EXPECT().Search(gomock.Any(), "音楽", 8).Return(nil, nil)
			},
			want: concept.ConceptSet{
				{Source: concept.SourceWikipedia, Concepts: []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"}},
				{Source: concept.SourceWeblio, Concepts: []string{}},
				{Source: concept.SourceRelated, Concepts: []string{}},
			},
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			wikipedia := mock_source.NewMockAdapter(ctrl)
			weblio := mock_source.NewMockAdapter(ctrl)
			related := mock_source.NewMockAdapter(ctrl)
			tt.setup(wikipedia, weblio, related)

			coordinator := New(map[concept.Source]source.Adapter{
				concept.SourceWikipedia: wikipedia,
				concept.SourceWeblio:    weblio,
				concept.SourceRelated:   related,
			})
			got := coordinator.Search(context.Background(), "音楽", 8)

			assert.Equal(t, "音楽", got.Word)
			assert.Equal(t, tt.want, got.Concepts)
			assert.Equal(t, tt.wantFound, got.Found())

			var warned []concept.Source
			for _, warning := range got.Warnings {
				warned = append(warned, warning.Source)
			}
			assert.Equal(t, tt.wantWarnings, warned)
		})
	}
}

func TestCoordinator_Search_Timeout(t *testing.T) {
	coordinator := New(map[concept.Source]source.Adapter{
		concept.SourceWikipedia: source.AdapterFunc(slowAdapter),
		concept.SourceWeblio: source.AdapterFunc(func(context.Context, string, int) ([]string, error) {
			return []string{"辞書"}, nil
		}),
		concept.SourceRelated: source.AdapterFunc(slowAdapter),
	}, WithTimeout(50*time.Millisecond))

	begin := time.Now()
	got := coordinator.Search(context.Background(), "音楽", 8)
	assert.Less(t, time.Since(begin), 2*time.Second)

	assert.Equal(t, concept.CanonicalSources, got.Concepts.Sources())
	weblio, _ := got.Concepts.Lookup(concept.SourceWeblio)
	assert.Equal(t, []string{"辞書"}, weblio)
	wikipedia, _ := got.Concepts.Lookup(concept.SourceWikipedia)
	assert.Empty(t, wikipedia)

	require.Len(t, got.Warnings, 2)
	assert.Equal(t, concept.SourceWikipedia, got.Warnings[0].Source)
	assert.Equal(t, concept.SourceRelated, got.Warnings[1].Source)
}

func TestCoordinator_Search_MissingAdapter(t *testing.T) {
	coordinator := New(map[concept.Source]source.Adapter{
		concept.SourceRelated: source.AdapterFunc(func(context.Context, string, int) ([]string, error) {
			return []string{"創造"}, nil
		}),
	})

	got := coordinator.Search(context.Background(), "宇宙", 5)
	assert.Equal(t, concept.CanonicalSources, got.Concepts.Sources())
	require.Len(t, got.Warnings, 2)
	assert.ErrorIs(t, got.Warnings[0], ErrNoAdapter)
	assert.True(t, got.Found())
}

func TestCoordinator_Search_CanonicalKeysAlways(t *testing.T) {
	failing := source.AdapterFunc(func(context.Context, string, int) ([]string, error) {
		return nil, errors.New("down")
	})
	coordinator := New(map[concept.Source]source.Adapter{
		concept.SourceWikipedia: failing,
		concept.SourceWeblio:    failing,
		concept.SourceRelated:   failing,
	})

	for i := 0; i < 20; i++ {
		got := coordinator.Search(context.Background(), "音楽", 3)
		assert.Equal(t, concept.CanonicalSources, got.Concepts.Sources())
		assert.False(t, got.Found())
	}
}

func TestNormalizeWord(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "plain", raw: "音楽", want: "音楽"},
		{name: "trimmed", raw: "  音楽\n", want: "音楽"},
		{name: "full-width space only", raw: "　", wantErr: ErrEmptyWord},
		{name: "empty", raw: "", wantErr: ErrEmptyWord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeWord(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
