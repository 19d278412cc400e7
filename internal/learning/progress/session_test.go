package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionDurationMinutes(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, SessionDurationMinutes(start, start.Add(125*time.Second)))
	assert.Equal(t, 0, SessionDurationMinutes(start, start.Add(59*time.Second)))
	assert.Equal(t, 0, SessionDurationMinutes(start, start.Add(-time.Minute)))
}

func TestValidAccuracy(t *testing.T) {
	assert.True(t, ValidAccuracy(0))
	assert.True(t, ValidAccuracy(100))
	assert.False(t, ValidAccuracy(-0.1))
	assert.False(t, ValidAccuracy(100.5))
}

func TestTimeOfDayOf(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 3, 1, h, 30, 0, 0, time.UTC) }
	assert.Equal(t, Night, TimeOfDayOf(at(0), nil))
	assert.Equal(t, Night, TimeOfDayOf(at(5), nil))
	assert.Equal(t, Morning, TimeOfDayOf(at(6), nil))
	assert.Equal(t, Afternoon, TimeOfDayOf(at(12), nil))
	assert.Equal(t, Evening, TimeOfDayOf(at(18), nil))
	assert.Equal(t, Evening, TimeOfDayOf(at(23), nil))
}
