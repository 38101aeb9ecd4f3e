package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmit(t *testing.T) {
	t.Run("stamps and delivers events", func(t *testing.T) {
		ch := NewChannel()

		Emit(ch, Event{Type: StepStart, StepName: StepEncode})

		got := <-ch
		assert.Equal(t, StepStart, got.Type)
		assert.Equal(t, StepEncode, got.StepName)
		assert.False(t, got.Timestamp.IsZero())
	})

	t.Run("drops events when the channel is full", func(t *testing.T) {
		ch := make(chan Event, 1)

		Emit(ch, Event{Type: RunStart})
		Emit(ch, Event{Type: RunEnd})

		assert.Len(t, ch, 1)
		assert.Equal(t, RunStart, (<-ch).Type)
	})
}
