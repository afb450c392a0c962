package compose

import (
	"errors"
	"fmt"
)

var (
	// ErrState is returned when a composer step is called out of order.
	ErrState = errors.New("compose: invalid state")

	// ErrUnsupportedCell is returned for table values that are neither
	// null, a string, an array of strings nor an image descriptor.
	ErrUnsupportedCell = errors.New("compose: unsupported table value")
)

// State is a stage of a composition run. A run passes through every state
// once, in declaration order.
type State int

const (
	TemplateLoaded State = iota
	FontsLoaded
	DataLoaded
	Composing
	Overlaying
	Finalized
)

var stateNames = [...]string{
	TemplateLoaded: "TemplateLoaded",
	FontsLoaded:    "FontsLoaded",
	DataLoaded:     "DataLoaded",
	Composing:      "Composing",
	Overlaying:     "Overlaying",
	Finalized:      "Finalized",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// advance moves the composer to next, which must directly follow the
// current state.
func (c *Composer) advance(next State) error {
	if c.state+1 != next {
		return fmt.Errorf("%w: cannot enter %s from %s", ErrState, next, c.state)
	}
	c.log.WithField("state", next.String()).Debug("Composer state changed.")
	c.state = next
	return nil
}
