// Package wizard sequences the five sections of the form and decides which
// section changes are allowed. It deliberately knows nothing about field
// validity: pressing Next marks a section completed without validating it,
// and the final submission is the backstop that validates the whole form.
package wizard

import "errors"

// Section is one of the five steps of the form.
type Section string

const (
	Personal  Section = "personal"
	Address   Section = "address"
	Financial Section = "financial"
	Family    Section = "family"
	Documents Section = "documents"
)

// Order is the fixed sequence of sections, first to last.
var Order = []Section{Personal, Address, Financial, Family, Documents}

// ErrUnknownSection is returned when a name does not match any section.
var ErrUnknownSection = errors.New("unknown section")

// ErrSectionLocked is returned by JumpTo for a forward jump to a section that
// has not been reached yet.
var ErrSectionLocked = errors.New("section not reachable yet")

// Parse resolves a section name.
func Parse(name string) (Section, error) {
	for _, s := range Order {
		if string(s) == name {
			return s, nil
		}
	}
	return "", ErrUnknownSection
}

func index(s Section) int {
	for i, o := range Order {
		if o == s {
			return i
		}
	}
	return -1
}

// Controller tracks the current section and the set of completed sections.
type Controller struct {
	current   Section
	completed map[Section]bool
}

// New creates a controller positioned on the first section.
func New() *Controller {
	return &Controller{
		current:   Order[0],
		completed: make(map[Section]bool),
	}
}

// Current returns the active section.
func (c *Controller) Current() Section {
	return c.current
}

// IsCompleted reports whether s has been completed.
func (c *Controller) IsCompleted(s Section) bool {
	return c.completed[s]
}

// Completed returns the completed sections in form order.
func (c *Controller) Completed() []Section {
	out := []Section{}
	for _, s := range Order {
		if c.completed[s] {
			out = append(out, s)
		}
	}
	return out
}

// MarkCompleted records s as completed.
func (c *Controller) MarkCompleted(s Section) {
	c.completed[s] = true
}

// GoNext marks the current section completed and advances to the following
// one. On the last section it only marks; submission takes over from there.
func (c *Controller) GoNext() Section {
	c.completed[c.current] = true
	if i := index(c.current); i < len(Order)-1 {
		c.current = Order[i+1]
	}
	return c.current
}

// GoBack moves to the preceding section. It is a no-op on the first one and
// never changes the completed set.
func (c *Controller) GoBack() Section {
	if i := index(c.current); i > 0 {
		c.current = Order[i-1]
	}
	return c.current
}

// JumpTo moves directly to target. Backward and same-position jumps are
// always allowed, as are jumps to any completed section; everything further
// forward is locked until the intervening sections have been completed.
func (c *Controller) JumpTo(target Section) error {
	if index(target) < 0 {
		return ErrUnknownSection
	}
	if target == c.current || c.completed[target] || index(target) <= c.furthestCompleted() {
		c.current = target
		return nil
	}
	return ErrSectionLocked
}

// furthestCompleted returns the highest index among completed sections,
// or -1 when none is completed.
func (c *Controller) furthestCompleted() int {
	furthest := -1
	for s := range c.completed {
		if i := index(s); i > furthest {
			furthest = i
		}
	}
	return furthest
}
