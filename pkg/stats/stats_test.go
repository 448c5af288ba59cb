package stats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidArgument_Wraps(t *testing.T) {
	err := InvalidArgument("need %d points, got %d", 2, 1)

	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.False(t, errors.Is(err, ErrDomain))
	assert.Equal(t, "invalid argument: need 2 points, got 1", err.Error())
}

func TestDomain_Wraps(t *testing.T) {
	err := Domain("standard deviation is zero")

	assert.True(t, errors.Is(err, ErrDomain))
	assert.False(t, errors.Is(err, ErrInvalidArgument))
}

func TestAllEqual(t *testing.T) {
	assert.True(t, AllEqual(nil))
	assert.True(t, AllEqual([]float64{0.5}))
	assert.True(t, AllEqual([]float64{0.05, 0.05, 0.05}))
	assert.False(t, AllEqual([]float64{0.05, 0.05, 0.06}))
}
