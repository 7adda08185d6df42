package interaction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/bbschedule/internal/interaction"
)

func TestNotices(t *testing.T) {
	assert := assert.New(t)

	now := date(2024, 1, 1)
	n := interaction.NewNotices(3*time.Second, func() time.Time { return now })

	first := n.Push(interaction.NoticeLevelError, "first")
	now = now.Add(2 * time.Second)
	second := n.Push(interaction.NoticeLevelInfo, "second")

	active := n.Active()
	assert.Len(active, 2)
	assert.NotEqual(first.ID, second.ID)

	// First expires.
	now = now.Add(time.Second)
	active = n.Active()
	if assert.Len(active, 1) {
		assert.Equal("second", active[0].Message)
	}

	assert.True(n.Dismiss(second.ID))
	assert.False(n.Dismiss(second.ID))
	assert.Empty(n.Active())
}
