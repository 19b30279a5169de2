// Package presentation derives the browser board from the server registry.
//
// A held box shows as locked with a countdown taken from hold_expires_at,
// a sold box as reserved. Tick advances the countdowns between polls.
package presentation

import (
	"math"
	"sort"
	"time"

	"mystery_boxes/internal/domain/entities"
)

type CellStatus string

const (
	CellAvailable CellStatus = "available"
	CellLocked    CellStatus = "locked"
	CellReserved  CellStatus = "reserved"
)

// Cell is one box as the board renders it. Countdown is in whole seconds and
// only meaningful while locked.
type Cell struct {
	ID        string     `json:"id"`
	Status    CellStatus `json:"status"`
	Countdown int        `json:"countdown"`
}

type Board struct {
	Cells []Cell `json:"boxes"`
}

// BuildBoard maps registry rows to cells, ordered by id.
func BuildBoard(boxes []entities.Box, now time.Time) Board {
	cells := make([]Cell, 0, len(boxes))
	for _, b := range boxes {
		cells = append(cells, cellFor(b, now))
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].ID < cells[j].ID })
	return Board{Cells: cells}
}

func cellFor(b entities.Box, now time.Time) Cell {
	switch b.EffectiveStatus(now) {
	case entities.BoxStatusSold:
		return Cell{ID: b.ID, Status: CellReserved}
	case entities.BoxStatusHeld:
		secs := int(math.Ceil(b.HoldExpiresAt.Sub(now).Seconds()))
		return Cell{ID: b.ID, Status: CellLocked, Countdown: secs}
	default:
		return Cell{ID: b.ID, Status: CellAvailable}
	}
}

// Tick advances every locked countdown by one second. Cells reaching zero go
// back to available.
func (b *Board) Tick() {
	for i := range b.Cells {
		c := &b.Cells[i]
		if c.Status != CellLocked {
			continue
		}
		c.Countdown--
		if c.Countdown <= 0 {
			c.Status = CellAvailable
			c.Countdown = 0
		}
	}
}

// Cell looks up a cell by box id.
func (b Board) Cell(id string) (Cell, bool) {
	for _, c := range b.Cells {
		if c.ID == id {
			return c, true
		}
	}
	return Cell{}, false
}

// CanSelect reports whether id may be sent to checkout.
func (b Board) CanSelect(id string) bool {
	c, ok := b.Cell(id)
	return ok && c.Status == CellAvailable
}
