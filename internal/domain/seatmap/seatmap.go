// Package seatmap tracks seat selection for one checkout.
//
// A Grid holds every seat of a showtime. Toggling an available seat selects
// it unless the ticket-count cap has been reached; toggling a selected seat
// releases it. Occupied seats never change state here.
package seatmap

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Status string

const (
	Available Status = "available"
	Selected  Status = "selected"
	Occupied  Status = "occupied"
)

var (
	ErrUnknownSeat   = errors.New("seat not found in showtime")
	ErrSeatOccupied  = errors.New("seat is unavailable")
	ErrSelectionFull = errors.New("selection full: ticket count reached")
	ErrInvalidCap    = errors.New("invalid ticket count")
)

type Seat struct {
	ID     uuid.UUID
	Row    string
	Number int
	Label  string
	Status Status
}

type Grid struct {
	seats    []Seat
	index    map[uuid.UUID]int
	limit    int
	selected int
}

// New builds a grid over seats in the order given. Seats arriving as
// Selected count toward the cap.
func New(seats []Seat, limit int) (*Grid, error) {
	if limit < 1 {
		return nil, ErrInvalidCap
	}

	g := &Grid{
		seats: make([]Seat, len(seats)),
		index: make(map[uuid.UUID]int, len(seats)),
		limit: limit,
	}
	copy(g.seats, seats)

	for i, seat := range g.seats {
		if _, dup := g.index[seat.ID]; dup {
			return nil, fmt.Errorf("duplicate seat %s in grid", seat.ID)
		}
		g.index[seat.ID] = i
		if seat.Status == Selected {
			g.selected++
		}
	}
	if g.selected > limit {
		return nil, ErrSelectionFull
	}

	return g, nil
}

// Toggle flips a seat between available and selected and returns its new
// status.
func (g *Grid) Toggle(id uuid.UUID) (Status, error) {
	i, ok := g.index[id]
	if !ok {
		return "", ErrUnknownSeat
	}

	seat := &g.seats[i]
	switch seat.Status {
	case Occupied:
		return Occupied, fmt.Errorf("%w: %s", ErrSeatOccupied, seat.Label)
	case Selected:
		seat.Status = Available
		g.selected--
		return Available, nil
	default:
		if g.selected >= g.limit {
			return Available, ErrSelectionFull
		}
		seat.Status = Selected
		g.selected++
		return Selected, nil
	}
}

// SelectAll toggles each id on and stops at the first failure. A repeated
// id is rejected instead of being toggled back off.
func (g *Grid) SelectAll(ids []uuid.UUID) error {
	for _, id := range ids {
		i, ok := g.index[id]
		if ok && g.seats[i].Status == Selected {
			return fmt.Errorf("invalid selection: seat %s selected twice", g.seats[i].Label)
		}
		if _, err := g.Toggle(id); err != nil {
			return err
		}
	}
	return nil
}

// Full reports whether no further seat can be selected.
func (g *Grid) Full() bool { return g.selected >= g.limit }

func (g *Grid) Remaining() int { return g.limit - g.selected }

// Selected returns the selected seats in grid order.
func (g *Grid) Selected() []Seat {
	out := make([]Seat, 0, g.selected)
	for _, seat := range g.seats {
		if seat.Status == Selected {
			out = append(out, seat)
		}
	}
	return out
}

// RowLabel names the zero-based row i: A, B, ... Z.
func RowLabel(i int) string {
	return string(rune('A' + i))
}

// SeatLabel joins a row label and a one-based seat number, e.g. C7.
func SeatLabel(row string, number int) string {
	return fmt.Sprintf("%s%d", row, number)
}
