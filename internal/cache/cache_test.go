package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 42, 0)
	v, ok := c.Get("a")
	if !ok || v.(int) != 42 {
		t.Fatalf("expected 42, got %v, %v", v, ok)
	}
}

func TestGetMissing(t *testing.T) {
	c := New(time.Minute)
	if _, ok := c.Get("nope"); ok {
		t.Fatal("missing key should not be found")
	}
}

func TestExpiration(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", "x", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatal("entry should have expired")
	}
}

func TestDelete(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", "x", 0)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted entry should be gone")
	}
}

func TestLenPurgesExpired(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", "x", 10*time.Millisecond)
	c.Set("b", "y", time.Minute)
	time.Sleep(30 * time.Millisecond)
	if n := c.Len(); n != 1 {
		t.Fatalf("expected 1 live entry, got %d", n)
	}
}

func TestOverwrite(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1, 0)
	c.Set("a", 2, 0)
	v, _ := c.Get("a")
	if v.(int) != 2 {
		t.Fatalf("expected 2, got %v", v)
	}
}
