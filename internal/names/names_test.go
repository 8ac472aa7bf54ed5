package names

import (
	"math/rand/v2"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func seeded() *Generator {
	return New(rand.New(rand.NewPCG(1, 2)))
}

func TestGenerate_DeterministicWithSeed(t *testing.T) {
	a := seeded().Generate("fintech", StyleMixed, 10)
	b := seeded().Generate("fintech", StyleMixed, 10)
	assert.Equal(t, a, b)
	assert.Len(t, a, 10)
}

func TestGenerate_Unique(t *testing.T) {
	got := seeded().Generate("saas", StyleEnglish, MaxCount)
	seen := make(map[string]bool)
	for _, n := range got {
		assert.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
	}
}

func TestGenerate_CountClamped(t *testing.T) {
	assert.Len(t, seeded().Generate("gaming", StyleMixed, 500), MaxCount)
	assert.Len(t, seeded().Generate("gaming", StyleMixed, 0), 10)
}

func TestGenerate_KoreanStyle(t *testing.T) {
	for _, name := range seeded().Generate("edtech", StyleKorean, 20) {
		for _, r := range name {
			assert.True(t, unicode.Is(unicode.Hangul, r), name)
		}
	}
}

func TestGenerate_DomainSuffixesInPool(t *testing.T) {
	pool := candidates("ecommerce", StyleEnglish)
	assert.Contains(t, pool, "NovaShop")
	assert.NotContains(t, pool, "NovaPay")
}

func TestResult_Render(t *testing.T) {
	r := &Result{Domain: "saas", Style: StyleMixed, Names: []string{"Nova", "가온Lab"}}
	assert.Equal(t, "📛 2 mixed name ideas for saas:\n\n1. Nova\n2. 가온Lab", r.Render())
}
