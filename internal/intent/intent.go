// Package intent maps free-form Korean requests to the tool that would
// serve them, by keyword matching.
package intent

import (
	"sort"
	"strings"
)

// Pattern is one intent category.
type Pattern struct {
	Keywords   []string
	Intent     string
	Action     string
	Confidence float64
}

// Match is a pattern hit.
type Match struct {
	Pattern Pattern
	Keyword string
	Index   int // position of the pattern in the catalog
}

// Patterns is the catalog, in declaration order. Order breaks confidence ties.
var Patterns = []Pattern{
	{Keywords: []string{"안돼", "안되", "에러", "오류", "버그", "문제", "고장", "망가짐"}, Intent: "fix_error", Action: "critical_first", Confidence: 0.95},
	{Keywords: []string{"느려", "느림", "성능", "최적화", "빠르게", "속도"}, Intent: "optimize", Action: "skill_optimize", Confidence: 0.9},
	{Keywords: []string{"쇼핑몰", "이커머스", "SaaS", "사이트", "웹사이트", "앱"}, Intent: "create_project", Action: "fullstack_epct", Confidence: 0.9},
	{Keywords: []string{"만들어줘", "생성해줘", "개발해줘", "구현해줘"}, Intent: "create", Action: "fullstack_epct", Confidence: 0.85},
	{Keywords: []string{"예쁘게", "이쁘게", "디자인", "UI", "꾸며줘", "스타일링"}, Intent: "improve_ui", Action: "elegant_ui", Confidence: 0.9},
	{Keywords: []string{"배포", "올려줘", "런치", "서비스", "프로덕션"}, Intent: "deploy", Action: "auto_deploy", Confidence: 0.95},
	{Keywords: []string{"테스트", "검증", "확인", "체크", "점검"}, Intent: "test", Action: "browser_test", Confidence: 0.85},
	{Keywords: []string{"분석", "리뷰", "검토", "평가", "진단"}, Intent: "analyze", Action: "subagent_review", Confidence: 0.85},
	{Keywords: []string{"문서", "가이드", "매뉴얼", "설명서", "독스"}, Intent: "documentation", Action: "skill_docs", Confidence: 0.8},
	{Keywords: []string{"정리", "리팩토링", "클린", "개선", "구조화"}, Intent: "refactor", Action: "skill_refactor", Confidence: 0.85},
}

// Examples are phrases shown when nothing matches.
var Examples = []string{
	`errors: "안돼", "버그", "문제"`,
	`new project: "쇼핑몰 만들어줘", "SaaS"`,
	`UI polish: "예쁘게", "디자인"`,
	`deploy: "올려줘", "배포"`,
}

// Classifier matches input against an ordered pattern list.
type Classifier struct {
	patterns []Pattern
}

// New returns a Classifier over patterns.
func New(patterns []Pattern) *Classifier {
	return &Classifier{patterns: patterns}
}

// Default returns a Classifier over the built-in catalog.
func Default() *Classifier {
	return New(Patterns)
}

// Matches returns every keyword hit, ordered by descending confidence.
// Equal confidences keep catalog order.
func (c *Classifier) Matches(input string) []Match {
	var matches []Match
	if input == "" {
		return matches
	}
	for i, p := range c.patterns {
		for _, kw := range p.Keywords {
			if kw != "" && strings.Contains(input, kw) {
				matches = append(matches, Match{Pattern: p, Keyword: kw, Index: i})
			}
		}
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Pattern.Confidence > matches[b].Pattern.Confidence
	})
	return matches
}

// Classify returns the best match. ok is false when nothing matched.
func (c *Classifier) Classify(input string) (Match, bool) {
	matches := c.Matches(input)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}
