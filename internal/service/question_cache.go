package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"wordquiz/internal/domain"
)

// QuestionCache remembers issued questions so answers can be checked by token.
// Every issued question is stored; when the cache is full the least recently
// used question is dropped.
type QuestionCache struct {
	cache *expirable.LRU[string, domain.Question]
}

// NewQuestionCache creates a cache holding up to size questions for ttl each.
// A zero ttl keeps questions until they are evicted.
func NewQuestionCache(size int64, ttl time.Duration) *QuestionCache {
	if size <= 0 {
		size = defaultCacheSize
	}

	return &QuestionCache{
		cache: expirable.NewLRU[string, domain.Question](int(size), nil, ttl),
	}
}

// Issue assigns q a fresh ID and stores it
func (c *QuestionCache) Issue(q *domain.Question) string {
	q.ID = uuid.NewString()
	c.cache.Add(q.ID, *q)
	return q.ID
}

// Lookup returns the issued question with the given ID
func (c *QuestionCache) Lookup(id string) (domain.Question, bool) {
	return c.cache.Get(id)
}

// Len returns the number of stored questions
func (c *QuestionCache) Len() int {
	return c.cache.Len()
}

func (c *QuestionCache) Close() {
	c.cache.Purge()
}
