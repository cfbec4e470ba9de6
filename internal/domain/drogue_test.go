package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrogueStatus(t *testing.T) {
	times := []float64{100, 200, 300}

	t.Run("unknown loss time keeps drogue attached", func(t *testing.T) {
		assert.Equal(t, []bool{true, true, true}, DrogueStatus(math.NaN(), times))
	})

	t.Run("loss at or after last observation keeps drogue attached", func(t *testing.T) {
		assert.Equal(t, []bool{true, true, true}, DrogueStatus(300, times))
		assert.Equal(t, []bool{true, true, true}, DrogueStatus(5000, times))
	})

	t.Run("loss at first observation drops every flag", func(t *testing.T) {
		assert.Equal(t, []bool{false, false, false}, DrogueStatus(100, times))
	})

	t.Run("interior loss splits the flag", func(t *testing.T) {
		assert.Equal(t, []bool{true, false, false}, DrogueStatus(200, times))
		assert.Equal(t, []bool{true, true, false}, DrogueStatus(250, times))
	})

	t.Run("empty trajectory", func(t *testing.T) {
		assert.Empty(t, DrogueStatus(200, nil))
	})
}
