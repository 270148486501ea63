package factory

import (
	"time"

	"github.com/mcoot/unogame/internal/dependencies/mocks"
	"github.com/mcoot/unogame/internal/storage/archive"
	"github.com/mcoot/unogame/internal/storage/memory"
	"github.com/mcoot/unogame/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App with memory storage, an in-memory archive and
// mocked clock and randomness
func NewTestApp() (*TestApp, error) {
	results, err := archive.Open(":memory:")
	if err != nil {
		return nil, err
	}
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(memory.New(), results, mockClock, mockRandom, Config{StrictEffects: true}, testutil.NopLogger())
	app.closers = append(app.closers, results)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}, nil
}
