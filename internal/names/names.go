// Package names generates product name suggestions from Korean and English
// stems.
package names

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

// Styles accepted by Generate.
const (
	StyleKorean  = "korean"
	StyleEnglish = "english"
	StyleMixed   = "mixed"
)

// MaxCount caps the number of names per call.
const MaxCount = 50

var (
	koreanStems  = []string{"가온", "하늘", "별빛", "바람", "구름", "물결", "빛나", "꽃잎", "새벽", "노을"}
	englishStems = []string{"Nova", "Flux", "Pulse", "Wave", "Spark", "Flow", "Glow", "Swift", "Bright", "Clear"}
	suffixes     = []string{"Hub", "Pro", "Studio", "Lab", "Works", "Craft", "Build", "Zone", "Space"}
)

// domainSuffixes adds suffixes that fit a business domain.
var domainSuffixes = map[string][]string{
	"saas":       {"Cloud", "Stack", "ly"},
	"ecommerce":  {"Shop", "Cart", "Market"},
	"fintech":    {"Pay", "Ledger", "Fund"},
	"edtech":     {"Learn", "Class", "Academy"},
	"healthcare": {"Care", "Health", "Med"},
	"gaming":     {"Play", "Quest", "Arena"},
}

// Domains lists the supported business domains.
var Domains = []string{"saas", "ecommerce", "fintech", "edtech", "healthcare", "gaming"}

// Generator draws names from rng. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Generator. A nil rng uses a randomly seeded source.
func New(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rng: rng}
}

// candidates enumerates every distinct name for the domain and style.
func candidates(domain, style string) []string {
	sfx := append(append([]string(nil), suffixes...), domainSuffixes[domain]...)
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	if style == StyleKorean || style == StyleMixed {
		for _, a := range koreanStems {
			if style == StyleMixed {
				add(a)
				for _, s := range sfx {
					add(a + s)
				}
				continue
			}
			for _, b := range koreanStems {
				if a != b {
					add(a + b)
				}
			}
		}
	}
	if style == StyleEnglish || style == StyleMixed {
		for _, a := range englishStems {
			add(a)
			for _, s := range sfx {
				add(a + s)
			}
		}
	}
	return out
}

// Generate returns up to count unique names. count is clamped to
// [1, MaxCount] and to the number of distinct candidates.
func (g *Generator) Generate(domain, style string, count int) []string {
	if style == "" {
		style = StyleMixed
	}
	if count <= 0 {
		count = 10
	}
	if count > MaxCount {
		count = MaxCount
	}
	pool := candidates(domain, style)
	g.mu.Lock()
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	g.mu.Unlock()
	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count]
}

// Result is a rendered list of suggestions.
type Result struct {
	Domain string
	Style  string
	Names  []string
}

// Render numbers the names.
func (r *Result) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "📛 %d %s name ideas for %s:\n", len(r.Names), r.Style, r.Domain)
	for i, name := range r.Names {
		fmt.Fprintf(&b, "\n%d. %s", i+1, name)
	}
	return b.String()
}
