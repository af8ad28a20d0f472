package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanSubmit_NoRequirementAlwaysPasses(t *testing.T) {
	assert.True(t, CanSubmit(false, 5, 0, 0))
	assert.True(t, CanSubmit(true, 0, 0, 0))
}

func TestCanSubmit_PoolIsRoomScoped(t *testing.T) {
	// Photos already persisted against other items of the room count.
	assert.True(t, CanSubmit(true, 3, 2, 1))
	assert.True(t, CanSubmit(true, 3, 3, 0))
	assert.False(t, CanSubmit(true, 3, 2, 0))
	assert.False(t, CanSubmit(true, 3, 0, 2))
}

func TestCanSubmit_StagedAloneCanSatisfy(t *testing.T) {
	assert.True(t, CanSubmit(true, 2, 0, 2))
	assert.True(t, CanSubmit(true, 1, 0, 5))
}

func TestClampRequiredCount(t *testing.T) {
	assert.Equal(t, 0, ClampRequiredCount(-3))
	assert.Equal(t, 0, ClampRequiredCount(0))
	assert.Equal(t, 7, ClampRequiredCount(7))
	assert.Equal(t, MaxPhotosRequired, ClampRequiredCount(MaxPhotosRequired))
	assert.Equal(t, MaxPhotosRequired, ClampRequiredCount(999))
}
