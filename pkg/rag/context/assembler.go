package context

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"prados-legal-be/pkg/rag/search"
	"prados-legal-be/pkg/rag/store"
)

// Placeholder is returned when no document qualifies. The prompt always needs
// a non-empty information section.
const Placeholder = "Usa tu conocimiento general sobre el proyecto Prados de Paraíso."

const blockSeparator = "\n\n"

var (
	blankLinePattern  = regexp.MustCompile(`\n\s*\n`)
	listMarkerPattern = regexp.MustCompile(`(?m)^[ \t]*(?:[-•]|\d+[.)]|[A-Z][.)])[ \t]+`)
	emphasisPattern   = regexp.MustCompile(`\*+`)
)

type Config struct {
	// OfficialTitlePrefix marks ground-truth documents, always considered.
	OfficialTitlePrefix   string
	OfficialCharCap       int
	SupplementaryTopK     int
	SupplementaryCharCap  int
	MinSupplementaryScore float64
	TotalCharCap          int
	// MinWordLength drops short query words from block scoring.
	MinWordLength int
}

func DefaultConfig() Config {
	return Config{
		OfficialTitlePrefix:   "Condiciones Legales de Prados de Paraíso",
		OfficialCharCap:       1800,
		SupplementaryTopK:     3,
		SupplementaryCharCap:  350,
		MinSupplementaryScore: 0.15,
		TotalCharCap:          4000,
		MinWordLength:         3,
	}
}

// Assembler builds the bounded information section handed to the LLM.
type Assembler struct {
	cfg Config
}

func NewAssembler(cfg Config) *Assembler {
	return &Assembler{cfg: cfg}
}

func (a *Assembler) IsOfficial(title string) bool {
	return a.cfg.OfficialTitlePrefix != "" && strings.HasPrefix(title, a.cfg.OfficialTitlePrefix)
}

// Build selects relevant official passages first, then supplementary
// retrieval hits, under per-source and total character caps.
func (a *Assembler) Build(query string, docs []store.Document) string {
	var sections []string
	covered := make(map[uint]struct{})

	for _, d := range docs {
		if !a.IsOfficial(d.Title) {
			continue
		}
		covered[d.ID] = struct{}{}
		excerpt := a.officialExcerpt(query, d.Body)
		if excerpt == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("Información oficial (%s):\n%s", d.Title, excerpt))
	}

	n := 0
	for _, r := range search.Rank(query, docs, a.cfg.SupplementaryTopK) {
		if _, ok := covered[r.DocumentID]; ok {
			continue
		}
		if r.Score <= a.cfg.MinSupplementaryScore {
			continue
		}
		body := strings.TrimSpace(cleanFormatting(r.Body))
		if body == "" {
			continue
		}
		n++
		sections = append(sections, fmt.Sprintf("Información complementaria %d (%s): %s",
			n, r.Title, truncateRunes(body, a.cfg.SupplementaryCharCap)))
	}

	if len(sections) == 0 {
		return Placeholder
	}
	return truncateRunes(strings.Join(sections, blockSeparator), a.cfg.TotalCharCap)
}

type block struct {
	index int
	text  string
	score int
}

// officialExcerpt packs the highest scoring paragraphs of body up to the
// official cap, falling back to its leading characters.
func (a *Assembler) officialExcerpt(query, body string) string {
	limit := a.cfg.OfficialCharCap
	words := a.queryWords(query)

	var blocks []block
	for i, raw := range blankLinePattern.Split(body, -1) {
		text := strings.TrimSpace(cleanFormatting(raw))
		if text == "" {
			continue
		}
		blocks = append(blocks, block{index: i, text: text, score: blockScore(text, words)})
	}
	if len(blocks) == 0 {
		return ""
	}

	ranked := make([]block, len(blocks))
	copy(ranked, blocks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if ranked[0].score == 0 {
		return truncateRunes(strings.TrimSpace(cleanFormatting(body)), limit)
	}

	var picked []block
	used := 0
	for _, b := range ranked {
		if b.score == 0 {
			break
		}
		size := utf8.RuneCountInString(b.text)
		if len(picked) > 0 {
			size += utf8.RuneCountInString(blockSeparator)
		}
		if used+size > limit {
			continue
		}
		picked = append(picked, b)
		used += size
	}

	// best block alone exceeds the cap
	if len(picked) == 0 {
		return truncateRunes(ranked[0].text, limit)
	}

	sort.Slice(picked, func(i, j int) bool {
		return picked[i].index < picked[j].index
	})
	parts := make([]string, len(picked))
	for i, b := range picked {
		parts[i] = b.text
	}
	return strings.Join(parts, blockSeparator)
}

func (a *Assembler) queryWords(query string) []string {
	var out []string
	for _, w := range search.Tokens(query) {
		if utf8.RuneCountInString(w) >= a.cfg.MinWordLength {
			out = append(out, w)
		}
	}
	return out
}

func blockScore(text string, words []string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, w := range words {
		score += strings.Count(lower, w)
	}
	return score
}

func cleanFormatting(s string) string {
	s = listMarkerPattern.ReplaceAllString(s, "")
	return emphasisPattern.ReplaceAllString(s, "")
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
