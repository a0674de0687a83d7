// Package game implements the per-game session state machine:
// clocks, move processing, termination and the background clock task.
package game

import "errors"

// Category is a time-control class with a fixed base clock duration.
type Category string

// Supported time controls.
const (
	Bullet Category = "Bullet"
	Blitz  Category = "Blitz"
	Rapid  Category = "Rapid"
)

// ErrUnknownCategory is returned for a game type outside the fixed set.
var ErrUnknownCategory = errors.New("No such gameType")

var baseSeconds = map[Category]int64{
	Bullet: 180,
	Blitz:  300,
	Rapid:  600,
}

// ParseCategory validates a client-supplied game type
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := baseSeconds[c]; !ok {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// BaseSeconds returns the initial clock value for both players
func (c Category) BaseSeconds() int64 {
	return baseSeconds[c]
}

// Categories lists every supported category
func Categories() []Category {
	return []Category{Bullet, Blitz, Rapid}
}
