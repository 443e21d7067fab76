// Package chunker splits extracted document text into overlapping chunks.
package chunker

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 400
	DefaultChunkOverlap = 50
)

// defaultSeparators are tried in order: paragraphs, lines, words, characters
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts text at the coarsest separator that keeps chunks within
// chunkSize characters, carrying up to overlap characters between
// neighbouring chunks.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: defaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split returns the non-empty, whitespace-trimmed chunks of text in order
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var rest []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var pieces []string
	if sep == "" {
		pieces = strings.Split(text, "")
	} else {
		pieces = strings.Split(text, sep)
	}

	var out, small []string
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		if length(piece) < s.chunkSize {
			small = append(small, piece)
			continue
		}

		out = append(out, s.merge(small, sep)...)
		small = nil

		if len(rest) == 0 {
			out = appendChunk(out, piece)
		} else {
			out = append(out, s.split(piece, rest)...)
		}
	}
	return append(out, s.merge(small, sep)...)
}

// merge packs pieces into chunks, keeping a tail of the previous chunk as overlap
func (s *Splitter) merge(pieces []string, sep string) []string {
	sepLen := length(sep)

	var out, current []string
	total := 0
	for _, piece := range pieces {
		pieceLen := length(piece)

		if total+pieceLen+joinLen(current, sepLen) > s.chunkSize && len(current) > 0 {
			out = appendChunk(out, strings.Join(current, sep))

			for total > s.overlap || (total+pieceLen+joinLen(current, sepLen) > s.chunkSize && total > 0) {
				total -= length(current[0])
				current = current[1:]
			}
		}

		current = append(current, piece)
		total += pieceLen
	}

	if len(current) > 0 {
		out = appendChunk(out, strings.Join(current, sep))
	}
	return out
}

// joinLen is the separator length added when one more piece joins current
func joinLen(current []string, sepLen int) int {
	if len(current) == 0 {
		return 0
	}
	return sepLen * len(current)
}

func appendChunk(out []string, chunk string) []string {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" {
		return out
	}
	return append(out, chunk)
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
