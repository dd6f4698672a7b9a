// Package model defines data structures used throughout the application.
package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors for Item and Patch.
var (
	ErrNonFiniteCost = errors.New("cost must be a finite number")
	ErrInvalidText   = errors.New("identifier and name must be valid UTF-8 text")
)

// Costs whose decimal exponent falls outside [fixedExpMin, fixedExpMax)
// are rendered in scientific notation.
const (
	fixedExpMin = -4
	fixedExpMax = 16
)

// Item represents one inventory entry.
type Item struct {
	ID    string
	Name  string
	Stock int
	Cost  float64
}

// NewItem creates an Item from its four fields.
func NewItem(id, name string, stock int, cost float64) Item {
	return Item{
		ID:    id,
		Name:  name,
		Stock: stock,
		Cost:  cost,
	}
}

// Validate checks that the Item can be persisted.
// Negative or large stock and cost values are accepted as-is.
func (i Item) Validate() error {
	if !utf8.ValidString(i.ID) || !utf8.ValidString(i.Name) {
		return ErrInvalidText
	}
	if !isFinite(i.Cost) {
		return ErrNonFiniteCost
	}

	return nil
}

// String renders the item for the operator.
func (i Item) String() string {
	return fmt.Sprintf("ID: %s, Name: %s, Stock: %d, Price: $%s",
		i.ID, i.Name, i.Stock, FormatCost(i.Cost))
}

// Record returns the persisted shape of the item.
func (i Item) Record() Record {
	return Record{
		Name:  i.Name,
		Stock: i.Stock,
		Cost:  i.Cost,
	}
}

// FormatCost renders a cost with the shortest digits that round-trip.
// Whole values keep a trailing ".0" (12.0) and very small or very large
// values use an exponent (1e-05, 1e+16).
func FormatCost(cost float64) string {
	if !isFinite(cost) {
		return strconv.FormatFloat(cost, 'g', -1, 64)
	}

	sci := strconv.FormatFloat(cost, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && cost != 0 && (exp < fixedExpMin || exp >= fixedExpMax) {
		return sci
	}

	if cost == 0 && math.Signbit(cost) {
		return "-0.0"
	}
	fixed := decimal.NewFromFloat(cost).String()
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}
	return fixed
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Patch carries optional replacement values for an item's stock and cost.
// A nil field leaves the stored value unchanged.
type Patch struct {
	Stock *int
	Cost  *float64
}

// WithStock returns a copy of the patch that sets stock.
func (p Patch) WithStock(stock int) Patch {
	p.Stock = &stock
	return p
}

// WithCost returns a copy of the patch that sets cost.
func (p Patch) WithCost(cost float64) Patch {
	p.Cost = &cost
	return p
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Stock == nil && p.Cost == nil
}

// Validate checks that the patch can be persisted.
func (p Patch) Validate() error {
	if p.Cost != nil && !isFinite(*p.Cost) {
		return ErrNonFiniteCost
	}
	return nil
}

// Apply returns r with the supplied fields overwritten.
func (p Patch) Apply(r Record) Record {
	if p.Stock != nil {
		r.Stock = *p.Stock
	}
	if p.Cost != nil {
		r.Cost = *p.Cost
	}
	return r
}
