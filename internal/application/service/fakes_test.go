package service

import (
	"context"
	"errors"
	"sync"

	"github.com/sangkips/quotation-engine/internal/domain/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []repository.StatusChanged
	err    error
}

func (p *recordingPublisher) PublishStatusChanged(_ context.Context, ev repository.StatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d, ok := c.data[key]; ok {
		c.hits++
		return d, nil
	}
	return nil, repository.ErrCacheMiss
}

func (c *memCache) Set(_ context.Context, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

type stubSuggester struct {
	ids []string
	err error
}

func (s stubSuggester) SuggestItems(context.Context, string) ([]string, error) {
	return s.ids, s.err
}

type mapSource map[string][]byte

func (m mapSource) Fetch(_ context.Context, ref string) ([]byte, error) {
	if d, ok := m[ref]; ok {
		return d, nil
	}
	return nil, errors.New("not found: " + ref)
}

func (m mapSource) FetchUserRef(ctx context.Context, ref string) ([]byte, error) {
	return m.Fetch(ctx, ref)
}
