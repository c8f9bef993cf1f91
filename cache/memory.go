package cache

import (
	"context"
	"sync"
)

// MemorySlot держит значение в памяти процесса
type MemorySlot struct {
	mu         sync.RWMutex
	entry      *Entry
	generation uint64
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Load(ctx context.Context) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entry == nil {
		return Entry{}, false, nil
	}
	return *s.entry, true, nil
}

func (s *MemorySlot) Generation(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation, nil
}

func (s *MemorySlot) StoreIf(ctx context.Context, gen uint64, entry Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false, nil
	}
	s.entry = &entry
	return true, nil
}

func (s *MemorySlot) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	s.entry = nil
	s.mu.Unlock()
	return nil
}
