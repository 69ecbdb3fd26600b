// Package related is a stand-in for a related-search source. It matches the query
// against a fixed category table and pads with generic terms; no real search data is used.
package related

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/at-ishikawa/rensou/internal/concept"
	"github.com/at-ishikawa/rensou/internal/source"
)

type category struct {
	key   string
	terms []string
}

var (
	categories = []category{
		{key: "技術", terms: []string{"AI", "プログラミング", "イノベーション", "デジタル", "自動化", "効率", "未来", "データ"}},
		{key: "自然", terms: []string{"環境", "生態系", "動物", "植物", "気候", "保護", "循環", "多様性"}},
		{key: "食べ物", terms: []string{"栄養", "健康", "料理", "文化", "味", "食材", "レシピ", "食事"}},
		{key: "音楽", terms: []string{"メロディー", "リズム", "楽器", "感情", "芸術", "表現", "文化", "創作"}},
		{key: "スポーツ", terms: []string{"健康", "体力", "競技", "チーム", "練習", "技術", "精神", "成長"}},
		{key: "学習", terms: []string{"知識", "理解", "記憶", "成長", "発見", "好奇心", "努力", "達成"}},
	}

	fallbackTerms = []string{"創造", "発想", "アイデア", "革新", "変化", "成長", "発展", "進歩"}
)

var _ source.Adapter = (*Adapter)(nil)

type Adapter struct {
	mu   sync.Mutex
	rand *rand.Rand
}

type Option func(*Adapter)

// WithRand replaces the random source used for padding.
func WithRand(r *rand.Rand) Option {
	return func(a *Adapter) {
		a.rand = r
	}
}

func New(opts ...Option) *Adapter {
	a := &Adapter{
		rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Matches returns the terms of every category whose key contains word or is contained in it,
// in table order.
func Matches(word string) []string {
	if word == "" {
		return []string{}
	}
	var terms []string
	for _, c := range categories {
		if strings.Contains(c.key, word) || strings.Contains(word, c.key) {
			terms = append(terms, c.terms...)
		}
	}
	return concept.Dedupe(terms)
}

// Search implements source.Adapter. It never fails.
func (a *Adapter) Search(_ context.Context, word string, maxConcepts int) ([]string, error) {
	concepts := Matches(word)
	if len(concepts) < maxConcepts {
		concepts = append(concepts, a.pad(concepts, maxConcepts-len(concepts))...)
	}
	return concept.Truncate(concepts, maxConcepts), nil
}

// pad draws up to n fallback terms without replacement, skipping any already in present.
func (a *Adapter) pad(present []string, n int) []string {
	existing := make(map[string]bool, len(present))
	for _, term := range present {
		existing[term] = true
	}
	candidates := make([]string, 0, len(fallbackTerms))
	for _, term := range fallbackTerms {
		if !existing[term] {
			candidates = append(candidates, term)
		}
	}

	a.mu.Lock()
	a.rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	a.mu.Unlock()

	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}
