package pipeline

import (
	"sync"

	"github.com/kozaktomas/classwatch/internal/recognize"
)

// ResultBoard holds the most recent recognition result for the stream
// overlay. Last value wins; readers never wait for the worker.
type ResultBoard struct {
	mu   sync.RWMutex
	last *recognize.Result
}

// NewResultBoard creates an empty board.
func NewResultBoard() *ResultBoard {
	return &ResultBoard{}
}

// Publish replaces the current result.
func (b *ResultBoard) Publish(r *recognize.Result) {
	b.mu.Lock()
	b.last = r
	b.mu.Unlock()
}

// Last returns the most recent result, or nil before the first cycle.
func (b *ResultBoard) Last() *recognize.Result {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last
}

// Clear drops the current result, for example when the window closes.
func (b *ResultBoard) Clear() {
	b.mu.Lock()
	b.last = nil
	b.mu.Unlock()
}
