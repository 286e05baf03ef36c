package testing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/tripload/pkg/tripload"
)

var _ tripload.Logger = (*RecordingLogger)(nil)

func TestRecordingLogger_CapturesLevels(t *testing.T) {
	l := NewRecordingLogger()

	l.Info("Loading %d records", 3)
	l.Warn("Column %s not found", "RatecodeID")
	l.Verbose("Creating table vendors")
	l.Error("boom")

	assert.Equal(t, []LogEntry{
		{Level: "INFO", Message: "Loading 3 records"},
		{Level: "WARN", Message: "Column RatecodeID not found"},
		{Level: "VERBOSE", Message: "Creating table vendors"},
		{Level: "ERROR", Message: "boom"},
	}, l.Entries())
	assert.Equal(t, []string{"Column RatecodeID not found"}, l.Messages("WARN"))
	assert.True(t, l.Contains("RatecodeID"))
	assert.False(t, l.Contains("payment_type"))
}

func TestRecordingLogger_Reset(t *testing.T) {
	l := NewRecordingLogger()
	l.Info("one")
	l.Reset()

	assert.Empty(t, l.Entries())
	assert.Nil(t, l.Messages("INFO"))
}

func TestRecordingLogger_ConcurrentSafety(t *testing.T) {
	l := NewRecordingLogger()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				l.Info("goroutine %d message %d", id, j)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, l.Entries(), 100)
}
