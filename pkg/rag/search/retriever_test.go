package search

import (
	"context"
	"testing"

	"prados-legal-be/pkg/rag/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T, docs ...[2]string) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	for _, d := range docs {
		_, err := s.Insert(context.Background(), d[0], d[1], nil)
		require.NoError(t, err)
	}
	return s
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"accents kept", "¿Desde cuándo tienen posesión?", []string{"desde", "cuándo", "tienen", "posesión"}},
		{"duplicates removed", "Título título TÍTULO", []string{"título"}},
		{"digits", "escrituras 1998", []string{"escrituras", "1998"}},
		{"punctuation only", "¿?!...", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.query))
		})
	}
}

func TestScoreBounds(t *testing.T) {
	tests := []struct {
		name  string
		query string
		title string
		body  string
		want  float64
	}{
		{"all tokens found", "posesión legítima", "Posesión", "es legítima", 1},
		{"half found", "posesión hipoteca", "Posesión", "texto", 0.5},
		{"none found", "hipoteca", "Posesión", "texto", 0},
		{"no tokens", "¿?", "Posesión", "texto", 0},
		{"case insensitive haystack", "sunarp", "Registro", "Inscripción en SUNARP", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(Tokens(tt.query), tt.title, tt.body)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

// Containment is substring-based: a short token matches inside longer words.
// Kept deliberately for compatibility with the existing corpus behaviour.
func TestScoreMatchesInsideLongerWords(t *testing.T) {
	got := Score(Tokens("ley"), "Leyenda del valle", "sin relación legal")
	assert.Equal(t, 1.0, got)
}

func TestRank_TopKSortedAndStable(t *testing.T) {
	s := seeded(t,
		[2]string{"A", "nada relevante"},
		[2]string{"B", "posesión legítima"},
		[2]string{"C", "posesión"},
		[2]string{"D", "posesión"},
	)
	r := NewRetriever(s)

	results, err := r.Search(context.Background(), "posesión legítima", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "B", results[0].Title)
	assert.Equal(t, "C", results[1].Title)
	assert.Equal(t, "D", results[2].Title)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}

	all, _ := r.Search(context.Background(), "posesión legítima", 10)
	assert.Len(t, all, 4)
	for _, res := range results {
		assert.Contains(t, all, res)
	}
}

func TestRank_NonPositiveTopK(t *testing.T) {
	s := seeded(t, [2]string{"A", "posesión"})
	results, err := NewRetriever(s).Search(context.Background(), "posesión", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyCorpus(t *testing.T) {
	results, err := NewRetriever(store.NewMemoryStore()).Search(context.Background(), "posesión", 3)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearch_BasicQuestion(t *testing.T) {
	s := seeded(t, [2]string{
		"Condiciones Legales de Prados de Paraíso",
		"La empresa ejerce posesión legítima desde 1998.",
	})

	results, err := NewRetriever(s).Search(context.Background(), "¿Desde cuándo tienen posesión?", 2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Greater(t, results[0].Score, 0.0)
}
