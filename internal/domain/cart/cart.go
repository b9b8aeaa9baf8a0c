// Package cart holds concession items for one order and prices them.
package cart

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// MaxQuantity caps a single line.
const MaxQuantity = 20

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrEmptyCart       = errors.New("cart is empty")
)

type Product struct {
	ID    uuid.UUID
	Name  string
	Price float64
}

type Line struct {
	Product  Product
	Quantity int
}

// Subtotal is price × quantity rounded to cents.
func (l Line) Subtotal() float64 {
	return roundCents(l.Product.Price * float64(l.Quantity))
}

// Cart keeps lines in the order products were first added.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts quantity units of p in the cart, merging with an existing line.
func (c *Cart) Add(p Product, quantity int) error {
	if p.Price <= 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return fmt.Errorf("%w for %s", ErrInvalidPrice, p.Name)
	}
	if quantity < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			total := c.lines[i].Quantity + quantity
			if total > MaxQuantity {
				return fmt.Errorf("%w: %s exceeds %d", ErrInvalidQuantity, p.Name, MaxQuantity)
			}
			c.lines[i].Quantity = total
			return nil
		}
	}

	if quantity > MaxQuantity {
		return fmt.Errorf("%w: %s exceeds %d", ErrInvalidQuantity, p.Name, MaxQuantity)
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: quantity})
	return nil
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total is the sum of line subtotals.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return roundCents(total)
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
