package repository

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/futig/docchat-backend/internal/entity"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// DocumentRepository holds uploaded documents keyed by filename
type DocumentRepository interface {
	Put(doc *entity.Document)
	Get(filename string) (*entity.Document, error)
	Delete(filename string) bool
	Count() int
	Close()
}

var _ DocumentRepository = &DocumentCache{}

// ReleaseFunc frees whatever a document holds outside memory
type ReleaseFunc func(doc *entity.Document)

// DocumentCache implements DocumentRepository in memory. Documents idle for
// longer than the configured TTL are evicted; every removal runs release.
type DocumentCache struct {
	mu      sync.Mutex
	items   *cache.Cache
	ttl     time.Duration
	release ReleaseFunc
}

func NewDocumentCache(ttl, cleanupInterval time.Duration, release ReleaseFunc) *DocumentCache {
	if release == nil {
		release = func(*entity.Document) {}
	}

	items := newCache(ttl, cleanupInterval)
	items.OnEvicted(func(_ string, v any) {
		if doc, ok := v.(*entity.Document); ok {
			release(doc)
		}
	})

	return &DocumentCache{
		items:   items,
		ttl:     ttl,
		release: release,
	}
}

// Put registers doc under its filename. A document previously stored under
// the same name is released.
func (r *DocumentCache) Put(doc *entity.Document) {
	r.mu.Lock()
	prev, found := r.items.Get(doc.Filename)
	r.items.Set(doc.Filename, doc, cache.DefaultExpiration)
	r.mu.Unlock()

	if found && prev != doc {
		r.release(prev.(*entity.Document))
	}
}

func (r *DocumentCache) Get(filename string) (*entity.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, found := r.items.Get(filename)
	if !found {
		return nil, fmt.Errorf("%w: %s", entity.ErrDocumentNotFound, filename)
	}
	r.touch(filename, v)

	return v.(*entity.Document), nil
}

// Delete removes and releases the document; false when it was not stored
func (r *DocumentCache) Delete(filename string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.items.Get(filename); !found {
		return false
	}
	r.items.Delete(filename)
	return true
}

func (r *DocumentCache) Count() int {
	return len(r.items.Items())
}

// Close removes and releases every document
func (r *DocumentCache) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for filename := range r.items.Items() {
		r.items.Delete(filename)
	}
}

// touch restarts the idle timer; callers hold r.mu
func (r *DocumentCache) touch(key string, v any) {
	if r.ttl > 0 {
		_ = r.items.Replace(key, v, cache.DefaultExpiration)
	}
}

// RemoveStoredFile is the default ReleaseFunc: it deletes the uploaded file
func RemoveStoredFile(logger *zap.Logger) ReleaseFunc {
	return func(doc *entity.Document) {
		if doc.Path == "" {
			return
		}
		if err := os.Remove(doc.Path); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove stored document",
				zap.String("filename", doc.Filename),
				zap.String("path", doc.Path),
				zap.Error(err),
			)
			return
		}
		logger.Debug("stored document removed", zap.String("filename", doc.Filename))
	}
}

func newCache(ttl, cleanupInterval time.Duration) *cache.Cache {
	if ttl <= 0 {
		return cache.New(cache.NoExpiration, 0)
	}
	if cleanupInterval <= 0 {
		cleanupInterval = ttl
	}
	return cache.New(ttl, cleanupInterval)
}
