package promotion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPromotion_Expire(t *testing.T) {
	now := time.Now().UTC()

	t.Run("active and past end", func(t *testing.T) {
		p := &Promotion{Active: true, End: now.Add(-time.Minute)}
		assert.True(t, p.Expire(now))
		assert.False(t, p.Active)
		assert.False(t, p.Expire(now), "already inactive")
	})

	t.Run("active and in the future", func(t *testing.T) {
		p := &Promotion{Active: true, End: now.Add(time.Hour)}
		assert.False(t, p.Expire(now))
		assert.True(t, p.Active)
		assert.True(t, p.IsOffered(now))
	})

	t.Run("closed promotion is not offered", func(t *testing.T) {
		p := &Promotion{Active: true, End: now.Add(time.Hour)}
		p.Close()
		assert.False(t, p.IsOffered(now))
	})
}
