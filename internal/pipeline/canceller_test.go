package pipeline

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanceller(t *testing.T) {
	c := NewCanceller()
	assert.False(t, c.Cancelled())

	c.Cancel()
	assert.True(t, c.Cancelled())

	// Cancelling twice is fine.
	c.Cancel()
	assert.True(t, c.Cancelled())
}

func TestCanceller_ConcurrentReaders(t *testing.T) {
	c := NewCanceller()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !c.Cancelled() {
			}
		}()
	}
	c.Cancel()
	wg.Wait()
}
