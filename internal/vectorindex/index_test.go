package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/futig/docchat-backend/internal/integration/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingEmbedder struct {
	prepareErr error
	embedErr   error
	zero       bool
}

func (f *failingEmbedder) Name() string { return "failing" }

func (f *failingEmbedder) Prepare(context.Context, []string) error { return f.prepareErr }

func (f *failingEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		if f.zero {
			out[i] = []float32{0, 0}
		} else {
			out[i] = []float32{1, 0}
		}
	}
	return out, nil
}

func (f *failingEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

var corpus = []string{
	"The mitochondria is the powerhouse of the cell.",
	"Paris is the capital of France and its largest city.",
	"Photosynthesis converts light into chemical energy in plants.",
	"The Eiffel Tower is a landmark in Paris.",
}

func buildIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Build(context.Background(), corpus, embedding.NewTFIDF())
	require.NoError(t, err)
	return idx
}

func TestBuild_RejectsEmptyDocument(t *testing.T) {
	_, err := Build(context.Background(), nil, embedding.NewTFIDF())
	assert.ErrorIs(t, err, entity.ErrIndexBuild)
}

func TestBuild_FailuresAreAllOrNothing(t *testing.T) {
	tests := []struct {
		name     string
		embedder *failingEmbedder
	}{
		{name: "prepare", embedder: &failingEmbedder{prepareErr: errors.New("no vocabulary")}},
		{name: "embed", embedder: &failingEmbedder{embedErr: errors.New("model offline")}},
		{name: "zero vector", embedder: &failingEmbedder{zero: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := Build(context.Background(), corpus, tt.embedder)
			assert.ErrorIs(t, err, entity.ErrIndexBuild)
			assert.Nil(t, idx)
		})
	}
}

func TestBuild_KeepsChunksInOrder(t *testing.T) {
	idx := buildIndex(t)

	assert.Equal(t, len(corpus), idx.Len())
	assert.Equal(t, corpus, idx.Chunks())
	assert.Equal(t, "tfidf", idx.EmbedderName())
}

func TestSearch_ReturnsMostSimilarFirst(t *testing.T) {
	idx := buildIndex(t)

	hits, err := idx.Search(context.Background(), "What is the capital of France?", 2)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, corpus[1], hits[0].Text)
	assert.GreaterOrEqual(t, hits[0].Similarity, hits[1].Similarity)
}

func TestSearch_Bounds(t *testing.T) {
	idx := buildIndex(t)
	ctx := context.Background()

	hits, err := idx.Search(ctx, "Paris", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(ctx, "Paris", -3)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(ctx, "Paris", 100)
	require.NoError(t, err)
	assert.Len(t, hits, len(corpus))

	hits, err = idx.Search(ctx, "   ", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_UnknownTermsStillReturnResults(t *testing.T) {
	idx := buildIndex(t)

	hits, err := idx.Search(context.Background(), "quantum chromodynamics", 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestSearch_Concurrent(t *testing.T) {
	idx := buildIndex(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hits, err := idx.Search(context.Background(), fmt.Sprintf("Paris landmark %d", i), 2)
			if err == nil && len(hits) != 2 {
				err = fmt.Errorf("got %d hits", len(hits))
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
