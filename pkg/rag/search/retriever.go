package search

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"prados-legal-be/pkg/rag/store"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Result is one scored document. Score is in [0,1].
type Result struct {
	DocumentID uint    `json:"document_id"`
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	Score      float64 `json:"score"`
}

// Retriever ranks the whole corpus against a query by lexical overlap.
type Retriever struct {
	store store.Store
}

func NewRetriever(s store.Store) *Retriever {
	return &Retriever{store: s}
}

// Search scans every document in the store and returns at most topK results.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	docs, err := r.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(query, docs, topK), nil
}

// Tokens returns the distinct lowercase word tokens of query in first-seen order.
func Tokens(query string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(query), -1) {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Score is the fraction of query tokens contained in title+body. Containment
// is a plain substring test, so "ley" also matches inside "leyenda".
func Score(tokens []string, title, body string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	haystack := strings.ToLower(title + " " + body)
	matches := 0
	for _, t := range tokens {
		if strings.Contains(haystack, t) {
			matches++
		}
	}
	return float64(matches) / float64(len(tokens))
}

// Rank scores docs against query and keeps the topK best. Ties keep the
// order of docs.
func Rank(query string, docs []store.Document, topK int) []Result {
	if topK <= 0 || len(docs) == 0 {
		return []Result{}
	}

	tokens := Tokens(query)
	results := make([]Result, 0, len(docs))
	for _, d := range docs {
		results = append(results, Result{
			DocumentID: d.ID,
			Title:      d.Title,
			Body:       d.Body,
			Score:      Score(tokens, d.Title, d.Body),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
