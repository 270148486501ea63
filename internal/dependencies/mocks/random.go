package mocks

import (
	"sync"

	"github.com/mcoot/unogame/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Queued results are returned first. Once the String queue is empty it falls
// back to a counter so that generated IDs and seeds stay unique and repeatable.
type MockRandom struct {
	mu sync.Mutex

	intnResults   []int
	stringResults []string
	calls         int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.intnResults) == 0 {
		return 0
	}
	v := r.intnResults[0]
	r.intnResults = r.intnResults[1:]
	return v
}

// String returns the next queued result, or a counter-derived string of the requested length
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stringResults) > 0 {
		v := r.stringResults[0]
		r.stringResults = r.stringResults[1:]
		return v
	}
	r.calls++
	if length <= 0 || alphabet == "" {
		return ""
	}
	out := make([]byte, length)
	n := r.calls
	for i := length - 1; i >= 0; i-- {
		out[i] = alphabet[n%len(alphabet)]
		n /= len(alphabet)
	}
	return string(out)
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intnResults = append(r.intnResults, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stringResults = append(r.stringResults, values...)
}

// Reset clears all queued results and the fallback counter
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intnResults = nil
	r.stringResults = nil
	r.calls = 0
}
