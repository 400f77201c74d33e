package store

import (
	"context"
	"sync"
)

// Pointer holds the id of the signed-in user.
type Pointer interface {
	Get(ctx context.Context) (userID string, ok bool, err error)
	Set(ctx context.Context, userID string) error
	Clear(ctx context.Context) error
}

// kvPointer persists the pointer as a scalar key next to the collections.
type kvPointer struct {
	kv  KV
	key string
}

func (p *kvPointer) Get(ctx context.Context) (string, bool, error) {
	raw, _, found, err := p.kv.Get(ctx, p.key)
	if err != nil {
		return "", false, err
	}
	if !found || len(raw) == 0 {
		return "", false, nil
	}
	return string(raw), true, nil
}

func (p *kvPointer) Set(ctx context.Context, userID string) error {
	_, err := p.kv.Put(ctx, p.key, []byte(userID))
	return err
}

func (p *kvPointer) Clear(ctx context.Context) error {
	return p.kv.Delete(ctx, p.key)
}

// MemoryPointer is a process-local pointer, one per connected client.
type MemoryPointer struct {
	mu     sync.Mutex
	userID string
}

func (p *MemoryPointer) Get(context.Context) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.userID, p.userID != "", nil
}

func (p *MemoryPointer) Set(_ context.Context, userID string) error {
	p.mu.Lock()
	p.userID = userID
	p.mu.Unlock()
	return nil
}

func (p *MemoryPointer) Clear(context.Context) error {
	p.mu.Lock()
	p.userID = ""
	p.mu.Unlock()
	return nil
}
