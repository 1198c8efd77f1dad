package playback

import (
	"sync"
	"time"
)

// Position is what a session persists for its item between views.
type Position struct {
	Elapsed    time.Duration
	ReachedEnd bool
}

// Binding is the caller-owned store of a session's position. It outlives
// the session: a view that recreates its session for the same item hands
// the new session the same binding.
type Binding interface {
	Load() Position
	Store(pos Position)
}

// MemoryBinding keeps the position in memory.
type MemoryBinding struct {
	mu  sync.Mutex
	pos Position
}

// NewMemoryBinding creates a binding holding pos.
func NewMemoryBinding(pos Position) *MemoryBinding {
	return &MemoryBinding{pos: pos}
}

func (b *MemoryBinding) Load() Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pos
}

func (b *MemoryBinding) Store(pos Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pos = pos
}
