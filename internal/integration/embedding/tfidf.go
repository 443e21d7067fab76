package embedding

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// biasWeight is appended to every vector so that texts without any known
// term still get a non-zero, comparable embedding
const biasWeight = 1e-3

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// TFIDF is an in-process embedder. Its vocabulary is fitted to one corpus by
// Prepare, so each document gets its own instance.
type TFIDF struct {
	vocabulary map[string]int
	idf        []float64
	stopwords  map[string]struct{}
	prepared   bool
}

func NewTFIDF() *TFIDF {
	return &TFIDF{
		vocabulary: make(map[string]int),
		stopwords:  defaultStopwords(),
	}
}

func (e *TFIDF) Name() string { return "tfidf" }

// Prepare builds the vocabulary and smoothed IDF weights from corpus
func (e *TFIDF) Prepare(_ context.Context, corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	if len(df) == 0 {
		return errors.New("no tokens found in corpus")
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.prepared = true
	return nil
}

// Dimension is the vocabulary size plus the bias component
func (e *TFIDF) Dimension() int { return len(e.idf) + 1 }

func (e *TFIDF) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

// EmbedQuery returns the L2-normalised TF-IDF vector of text
func (e *TFIDF) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if !e.prepared {
		return nil, errors.New("tfidf embedder not prepared")
	}

	vec := make([]float64, e.Dimension())
	vec[len(vec)-1] = biasWeight

	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}

func (e *TFIDF) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at",
		"by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so",
		"such", "into", "about", "between", "through", "during", "before", "after", "above", "below",
		"out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "which", "who", "how", "do", "does", "did", "i", "you", "me", "my",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
