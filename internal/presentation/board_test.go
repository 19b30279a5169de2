package presentation

import (
	"testing"
	"time"

	"mystery_boxes/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestBuildBoard(t *testing.T) {
	boxes := []entities.Box{
		{ID: "C", Status: entities.BoxStatusSold, SoldAt: ptr(now.Add(-time.Hour)), PaymentIntentID: "pi_1"},
		{ID: "A", Status: entities.BoxStatusAvailable},
		{ID: "B", Status: entities.BoxStatusHeld, HoldID: "h", HoldExpiresAt: ptr(now.Add(4500 * time.Millisecond))},
		{ID: "D", Status: entities.BoxStatusHeld, HoldID: "h", HoldExpiresAt: ptr(now.Add(-time.Second))},
	}

	board := BuildBoard(boxes, now)
	require.Len(t, board.Cells, 4)

	assert.Equal(t, Cell{ID: "A", Status: CellAvailable}, board.Cells[0])
	assert.Equal(t, Cell{ID: "B", Status: CellLocked, Countdown: 5}, board.Cells[1])
	assert.Equal(t, Cell{ID: "C", Status: CellReserved}, board.Cells[2])
	assert.Equal(t, Cell{ID: "D", Status: CellAvailable}, board.Cells[3], "expired hold")
}

func TestBoard_Tick(t *testing.T) {
	board := BuildBoard([]entities.Box{
		{ID: "A", Status: entities.BoxStatusHeld, HoldExpiresAt: ptr(now.Add(2 * time.Second))},
		{ID: "B", Status: entities.BoxStatusHeld, HoldExpiresAt: ptr(now.Add(5 * time.Second))},
		{ID: "C", Status: entities.BoxStatusSold},
	}, now)

	board.Tick()
	a, _ := board.Cell("A")
	assert.Equal(t, CellLocked, a.Status)
	assert.Equal(t, 1, a.Countdown)

	board.Tick()
	a, _ = board.Cell("A")
	assert.Equal(t, CellAvailable, a.Status)
	assert.Equal(t, 0, a.Countdown)

	b, _ := board.Cell("B")
	assert.Equal(t, CellLocked, b.Status)
	assert.Equal(t, 3, b.Countdown)

	c, _ := board.Cell("C")
	assert.Equal(t, CellReserved, c.Status, "tick never touches reserved cells")
}

func TestBoard_CanSelect(t *testing.T) {
	board := BuildBoard([]entities.Box{
		{ID: "A", Status: entities.BoxStatusAvailable},
		{ID: "B", Status: entities.BoxStatusHeld, HoldExpiresAt: ptr(now.Add(time.Minute))},
		{ID: "C", Status: entities.BoxStatusSold},
	}, now)

	assert.True(t, board.CanSelect("A"))
	assert.False(t, board.CanSelect("B"))
	assert.False(t, board.CanSelect("C"))
	assert.False(t, board.CanSelect("Z"))
}
