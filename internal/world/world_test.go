package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/rs2go/internal/model"
)

func TestCoordToZoneIndex(t *testing.T) {
	tests := []struct {
		name           string
		x, y           int32
		wantZX, wantZY int32
	}{
		{"origin", 0, 0, 0, 0},
		{"inside first zone", 7, 7, 0, 0},
		{"zone boundary", 8, 16, 1, 2},
		{"map edge", 255, 255, 31, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zx, zy := CoordToZoneIndex(tt.x, tt.y)
			assert.Equal(t, tt.wantZX, zx)
			assert.Equal(t, tt.wantZY, zy)
		})
	}
}

func TestIsValidZoneIndex(t *testing.T) {
	assert.True(t, IsValidZoneIndex(0, 0))
	assert.True(t, IsValidZoneIndex(31, 31))
	assert.False(t, IsValidZoneIndex(-1, 0))
	assert.False(t, IsValidZoneIndex(0, 32))
}

func TestCanView_Distance(t *testing.T) {
	w := New()
	w.Place(0, model.PackCoordinate(0, 100, 100))

	w.Place(1, model.PackCoordinate(0, 100, 115)) // 15 tiles: visible
	w.Place(2, model.PackCoordinate(0, 100, 116)) // 16 tiles: out of range

	assert.True(t, w.CanView(0, 1))
	assert.True(t, w.CanView(1, 0))
	assert.False(t, w.CanView(0, 2))
	assert.False(t, w.CanView(0, 0), "an avatar never views itself")
}

func TestCanView_LevelBits(t *testing.T) {
	w := New()
	// Adjacent tiles whose x parity differs read as different levels through
	// the packed-coordinate overlap, so they cannot see each other.
	w.Place(0, model.PackCoordinate(0, 100, 100))
	w.Place(1, model.PackCoordinate(0, 101, 100))
	w.Place(2, model.PackCoordinate(0, 104, 100))

	assert.False(t, w.CanView(0, 1))
	assert.True(t, w.CanView(0, 2))
}

func TestCanView_AbsentAvatars(t *testing.T) {
	w := New()
	w.Place(0, model.PackCoordinate(0, 100, 100))

	assert.False(t, w.CanView(0, 1))
	assert.False(t, w.CanView(0, -1))
	assert.False(t, w.CanView(0, 4000))

	w.Place(1, model.PackCoordinate(0, 100, 101))
	assert.True(t, w.CanView(0, 1))
	w.Remove(1)
	assert.False(t, w.CanView(0, 1))
}

func TestMove_CrossesZones(t *testing.T) {
	w := New()
	w.Place(0, model.PackCoordinate(0, 100, 100))
	w.Place(1, model.PackCoordinate(0, 100, 104))

	// March target 1 north out of range one step at a time.
	for i := 0; i < 11; i++ {
		w.Move(1, 0, 1)
	}
	assert.Equal(t, model.PackCoordinate(0, 100, 115), w.CoordinateOf(1))
	assert.True(t, w.CanView(0, 1))

	w.Move(1, 0, 1)
	assert.False(t, w.CanView(0, 1))
}

func TestForEachVisible(t *testing.T) {
	w := New()
	w.Place(0, model.PackCoordinate(0, 100, 100))
	w.Place(1, model.PackCoordinate(0, 104, 100))
	w.Place(2, model.PackCoordinate(0, 100, 110))
	w.Place(3, model.PackCoordinate(0, 200, 200)) // far away
	w.Place(4, model.PackCoordinate(0, 101, 100)) // level bits differ

	seen := map[int]model.Coordinate{}
	w.ForEachVisible(0, func(target int, c model.Coordinate) bool {
		seen[target] = c
		return true
	})

	assert.Len(t, seen, 2)
	assert.Contains(t, seen, 1)
	assert.Contains(t, seen, 2)
	assert.Equal(t, w.CoordinateOf(1), seen[1])
}

func TestForEachVisible_EarlyStop(t *testing.T) {
	w := New()
	w.Place(0, model.PackCoordinate(0, 100, 100))
	w.Place(1, model.PackCoordinate(0, 104, 100))
	w.Place(2, model.PackCoordinate(0, 100, 110))

	calls := 0
	w.ForEachVisible(0, func(int, model.Coordinate) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestCount(t *testing.T) {
	w := New()
	assert.Equal(t, 0, w.Count())
	w.Place(0, model.PackCoordinate(0, 1, 1))
	w.Place(5, model.PackCoordinate(0, 2, 2))
	assert.Equal(t, 2, w.Count())
	w.Remove(0)
	assert.Equal(t, 1, w.Count())
}
