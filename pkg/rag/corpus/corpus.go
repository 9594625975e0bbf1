// Package corpus loads and maintains the base legal corpus of a knowledge
// store.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"prados-legal-be/pkg/rag/store"
)

const (
	// OfficialTitle names the document that states the project's own legal
	// condition.
	OfficialTitle = "Condiciones Legales de Prados de Paraíso"
	// OfficialMarker is present in every current revision of the official
	// document.
	OfficialMarker = "DIREFOR"

	SourceBase     = "base_knowledge"
	SourceImport   = "json_import"
	generatedTitle = 100
)

type Entry struct {
	Title    string                 `json:"title"`
	Body     string                 `json:"body"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// UnmarshalJSON also accepts the titulo/contenido keys of legacy exports.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title     string                 `json:"title"`
		Body      string                 `json:"body"`
		Titulo    string                 `json:"titulo"`
		Contenido string                 `json:"contenido"`
		TextChunk string                 `json:"text_chunk"`
		Metadata  map[string]interface{} `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Title = firstNonEmpty(raw.Title, raw.Titulo)
	e.Body = firstNonEmpty(raw.Body, raw.Contenido, raw.TextChunk)
	e.Metadata = raw.Metadata
	return nil
}

// Official returns the base entry for OfficialTitle.
func Official() Entry {
	for _, e := range Base {
		if e.Title == OfficialTitle {
			return e
		}
	}
	panic("corpus: base corpus lacks the official document")
}

// Load inserts every base entry and returns how many were written.
func Load(ctx context.Context, s store.Store) (int, error) {
	for i, e := range Base {
		if _, err := s.Insert(ctx, e.Title, e.Body, map[string]interface{}{
			"source": SourceBase,
			"type":   "legal_info",
		}); err != nil {
			return i, err
		}
	}
	return len(Base), nil
}

// ReseedOfficial brings the official document up to date.
func ReseedOfficial(ctx context.Context, s store.Store) (bool, error) {
	off := Official()
	return s.Reseed(ctx, off.Title, off.Body, OfficialMarker)
}

// Dedupe collapses documents sharing a title into the most recent one and
// returns how many were removed.
func Dedupe(ctx context.Context, s store.Store) (int64, error) {
	docs, err := s.All(ctx)
	if err != nil {
		return 0, err
	}

	latest := make(map[string]store.Document)
	counts := make(map[string]int)
	var order []string
	for _, d := range docs {
		if counts[d.Title] == 0 {
			order = append(order, d.Title)
		}
		counts[d.Title]++
		// All is ordered by id, so the last one seen is the newest.
		latest[d.Title] = d
	}

	var removed int64
	for _, title := range order {
		if counts[title] < 2 {
			continue
		}
		keep := latest[title]
		n, err := s.DeleteByTitle(ctx, title)
		if err != nil {
			return removed, err
		}
		if _, err := s.Insert(ctx, keep.Title, keep.Body, keep.Metadata); err != nil {
			return removed, err
		}
		removed += n - 1
	}
	return removed, nil
}

// Import reads a JSON array of entries and inserts the ones with a body.
// Entries without a title are named after the start of their body.
func Import(ctx context.Context, s store.Store, r io.Reader) (int, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return 0, fmt.Errorf("decode corpus file: %w", err)
	}

	n := 0
	for _, e := range entries {
		body := strings.TrimSpace(e.Body)
		if body == "" {
			continue
		}
		title := strings.TrimSpace(e.Title)
		if title == "" {
			title = titleFromBody(body)
		}
		meta := e.Metadata
		if meta == nil {
			meta = map[string]interface{}{}
		}
		if _, ok := meta["source"]; !ok {
			meta["source"] = SourceImport
		}
		if _, err := s.Insert(ctx, title, body, meta); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func titleFromBody(body string) string {
	if utf8.RuneCountInString(body) <= generatedTitle {
		return body
	}
	return string([]rune(body)[:generatedTitle]) + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
