package wizard

import (
	"errors"
	"testing"
)

func TestNewStartsOnFirstSection(t *testing.T) {
	c := New()
	if c.Current() != Personal {
		t.Fatalf("expected personal, got %s", c.Current())
	}
	if len(c.Completed()) != 0 {
		t.Fatalf("fresh controller should have no completed sections")
	}
}

func TestGoNextMarksAndAdvances(t *testing.T) {
	c := New()
	if got := c.GoNext(); got != Address {
		t.Fatalf("expected address, got %s", got)
	}
	if !c.IsCompleted(Personal) {
		t.Fatal("personal should be marked completed after next")
	}
	if c.IsCompleted(Address) {
		t.Fatal("address should not be completed yet")
	}
}

func TestGoNextOnLastSectionStays(t *testing.T) {
	c := New()
	for range Order {
		c.GoNext()
	}
	if c.Current() != Documents {
		t.Fatalf("expected to stay on documents, got %s", c.Current())
	}
	if !c.IsCompleted(Documents) {
		t.Fatal("documents should be marked completed")
	}
}

func TestGoBackNeverUncompletes(t *testing.T) {
	c := New()
	c.GoNext()
	c.GoNext()
	if got := c.GoBack(); got != Address {
		t.Fatalf("expected address, got %s", got)
	}
	if !c.IsCompleted(Personal) || !c.IsCompleted(Address) {
		t.Fatal("going back must not clear completed sections")
	}
}

func TestGoBackOnFirstSectionStays(t *testing.T) {
	c := New()
	if got := c.GoBack(); got != Personal {
		t.Fatalf("expected personal, got %s", got)
	}
}

func TestJumpToSameSection(t *testing.T) {
	c := New()
	if err := c.JumpTo(Personal); err != nil {
		t.Fatalf("jump to current section should succeed: %v", err)
	}
}

func TestJumpForwardLocked(t *testing.T) {
	c := New()
	if err := c.JumpTo(Financial); !errors.Is(err, ErrSectionLocked) {
		t.Fatalf("expected ErrSectionLocked, got %v", err)
	}
	if c.Current() != Personal {
		t.Fatalf("failed jump must not move, got %s", c.Current())
	}
}

func TestJumpBackwardAlwaysAllowed(t *testing.T) {
	c := New()
	c.GoNext()
	c.GoNext()
	if err := c.JumpTo(Personal); err != nil {
		t.Fatalf("backward jump should succeed: %v", err)
	}
	if c.Current() != Personal {
		t.Fatalf("expected personal, got %s", c.Current())
	}
}

func TestJumpForwardWithinReachedRange(t *testing.T) {
	c := New()
	c.GoNext()
	c.GoNext() // now on financial, personal+address completed
	if err := c.JumpTo(Personal); err != nil {
		t.Fatal(err)
	}
	// Address is completed, so the forward jump is allowed.
	if err := c.JumpTo(Address); err != nil {
		t.Fatalf("jump to completed section should succeed: %v", err)
	}
	// Documents is past everything completed.
	if err := c.JumpTo(Documents); !errors.Is(err, ErrSectionLocked) {
		t.Fatalf("expected ErrSectionLocked, got %v", err)
	}
}

func TestJumpToUnknownSection(t *testing.T) {
	c := New()
	if err := c.JumpTo(Section("payroll")); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}

func TestCompletedOrderIsFormOrder(t *testing.T) {
	c := New()
	c.MarkCompleted(Family)
	c.MarkCompleted(Personal)
	got := c.Completed()
	if len(got) != 2 || got[0] != Personal || got[1] != Family {
		t.Fatalf("expected [personal family], got %v", got)
	}
}

func TestParse(t *testing.T) {
	s, err := Parse("financial")
	if err != nil || s != Financial {
		t.Fatalf("expected financial, got %s, %v", s, err)
	}
	if _, err := Parse("nope"); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}
