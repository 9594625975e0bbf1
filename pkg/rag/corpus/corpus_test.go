package corpus

import (
	"context"
	"strings"
	"testing"

	"prados-legal-be/pkg/rag/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase_OfficialCarriesMarker(t *testing.T) {
	off := Official()
	assert.Equal(t, OfficialTitle, off.Title)
	assert.Contains(t, off.Body, OfficialMarker)
	assert.Contains(t, off.Body, "1998")
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	n, err := Load(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, len(Base), n)

	docs, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, docs, len(Base))
	assert.Equal(t, SourceBase, docs[0].Metadata["source"])
}

func TestReseedOfficial_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	_, err := s.Insert(ctx, OfficialTitle, "versión anterior sin marcador", nil)
	require.NoError(t, err)

	wrote, err := ReseedOfficial(ctx, s)
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = ReseedOfficial(ctx, s)
	require.NoError(t, err)
	assert.False(t, wrote)

	docs, _ := s.All(ctx)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].Body, OfficialMarker)
}

func TestDedupe_KeepsNewest(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	for _, body := range []string{"uno", "dos", "tres"} {
		_, err := s.Insert(ctx, OfficialTitle, body, nil)
		require.NoError(t, err)
	}
	_, err := s.Insert(ctx, "Saneamiento Legal en Perú", "único", nil)
	require.NoError(t, err)

	removed, err := Dedupe(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	docs, _ := s.All(ctx)
	require.Len(t, docs, 2)
	bodies := []string{docs[0].Body, docs[1].Body}
	assert.ElementsMatch(t, []string{"tres", "único"}, bodies)
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	long := strings.Repeat("a", 120)
	file := `[
		{"title": "Uno", "body": "cuerpo uno"},
		{"titulo": "Dos", "contenido": "cuerpo dos", "metadata": {"source": "legacy"}},
		{"text_chunk": "` + long + `"},
		{"title": "Vacío", "body": "   "}
	]`

	n, err := Import(ctx, s, strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	docs, _ := s.All(ctx)
	require.Len(t, docs, 3)
	assert.Equal(t, "Uno", docs[0].Title)
	assert.Equal(t, SourceImport, docs[0].Metadata["source"])
	assert.Equal(t, "legacy", docs[1].Metadata["source"])
	assert.Equal(t, strings.Repeat("a", 100)+"...", docs[2].Title)
}

func TestImport_Malformed(t *testing.T) {
	_, err := Import(context.Background(), store.NewMemoryStore(), strings.NewReader("{"))
	assert.Error(t, err)
}
