// Package vectorindex holds the searchable chunks of one uploaded document.
package vectorindex

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/philippgille/chromem-go"
)

const collectionName = "chunks"

// Embedder turns text into vectors. Prepare is called once with the full
// chunk corpus before any other method.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Index is an immutable set of (chunk, embedding) pairs. It is safe for
// concurrent searches.
type Index struct {
	collection *chromem.Collection
	chunks     []string
	embedder   Embedder
}

// Build embeds every chunk and returns the finished index. It is all or
// nothing: any failure yields entity.ErrIndexBuild and no index.
func Build(ctx context.Context, chunks []string, embedder Embedder) (*Index, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document has no text chunks", entity.ErrIndexBuild)
	}

	if err := embedder.Prepare(ctx, chunks); err != nil {
		return nil, fmt.Errorf("%w: prepare %s embedder: %w", entity.ErrIndexBuild, embedder.Name(), err)
	}

	vectors, err := embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("%w: embed chunks: %w", entity.ErrIndexBuild, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks", entity.ErrIndexBuild, len(vectors), len(chunks))
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		if isZero(vectors[i]) {
			return nil, fmt.Errorf("%w: chunk %d has an empty embedding", entity.ErrIndexBuild, i)
		}
		docs[i] = chromem.Document{
			ID:        chunkID(i),
			Content:   chunk,
			Embedding: vectors[i],
		}
	}

	queryFunc := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}

	collection, err := chromem.NewDB().CreateCollection(collectionName, nil, queryFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: create collection: %w", entity.ErrIndexBuild, err)
	}

	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("%w: add chunks: %w", entity.ErrIndexBuild, err)
	}

	stored := make([]string, len(chunks))
	copy(stored, chunks)

	return &Index{
		collection: collection,
		chunks:     stored,
		embedder:   embedder,
	}, nil
}

// Search returns up to k chunks ordered by descending similarity to query
func (i *Index) Search(ctx context.Context, query string, k int) ([]entity.SearchHit, error) {
	if k <= 0 || i.Len() == 0 || strings.TrimSpace(query) == "" {
		return []entity.SearchHit{}, nil
	}
	k = min(k, i.collection.Count())

	results, err := i.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	hits := make([]entity.SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, entity.SearchHit{
			ChunkID:    r.ID,
			Text:       r.Content,
			Similarity: r.Similarity,
		})
	}
	return hits, nil
}

func (i *Index) Len() int { return len(i.chunks) }

// Chunks returns the indexed chunks in document order
func (i *Index) Chunks() []string {
	out := make([]string, len(i.chunks))
	copy(out, i.chunks)
	return out
}

func (i *Index) EmbedderName() string { return i.embedder.Name() }

func chunkID(n int) string {
	return fmt.Sprintf("chunk-%05d", n)
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
