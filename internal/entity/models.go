package entity

import (
	"context"
	"time"
)

// Role tags a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label returns the capitalised role name used in prompts
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// Turn is a single message in a conversation
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SearchHit is a retrieved chunk with its similarity score
type SearchHit struct {
	ChunkID    string  `json:"chunk_id"`
	Text       string  `json:"text"`
	Similarity float32 `json:"similarity"`
}

// Texts returns the chunk texts of hits in rank order
func Texts(hits []SearchHit) []string {
	texts := make([]string, 0, len(hits))
	for _, h := range hits {
		texts = append(texts, h.Text)
	}
	return texts
}

// Searcher finds the chunks of a document most similar to a query
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]SearchHit, error)
	Len() int
}

// Document is an uploaded file together with its search index
type Document struct {
	Filename   string    `json:"filename"`
	Path       string    `json:"-"`
	Size       int64     `json:"size"`
	Chunks     int       `json:"chunks"`
	UploadedAt time.Time `json:"uploaded_at"`
	Index      Searcher  `json:"-"`
}

type FileData struct {
	Filename string
	Content  []byte
}

// Stats is a snapshot of process-wide counters
type Stats struct {
	Documents int
	Sessions  int
}
