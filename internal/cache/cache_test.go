package cache

import (
	"errors"
	"testing"
	"time"
)

func TestGetFetchesOnFirstAccess(t *testing.T) {
	c := New()
	calls := 0

	v, err := c.Get(KeyProducts, DefaultTTL, func() (interface{}, error) {
		calls++
		return "fetched", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "fetched" || calls != 1 {
		t.Errorf("got %v with %d calls, want fetched with 1 call", v, calls)
	}
}

func TestGetReturnsCachedValueBeforeTTL(t *testing.T) {
	c := New()
	base := time.Now()
	c.now = func() time.Time { return base }

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	if _, err := c.Get(KeyCategories, DefaultTTL, fetch); err != nil {
		t.Fatal(err)
	}

	// Just inside the TTL: no refetch.
	c.now = func() time.Time { return base.Add(DefaultTTL) }
	v, err := c.Get(KeyCategories, DefaultTTL, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 || calls != 1 {
		t.Errorf("within ttl: got %v with %d calls, want 1 with 1 call", v, calls)
	}

	// Just past the TTL: refetch.
	c.now = func() time.Time { return base.Add(DefaultTTL + time.Second) }
	v, err = c.Get(KeyCategories, DefaultTTL, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 || calls != 2 {
		t.Errorf("past ttl: got %v with %d calls, want 2 with 2 calls", v, calls)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	c := New()
	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	c.Get(KeySalesOrders, DefaultTTL, fetch)
	c.Invalidate(KeySalesOrders)
	v, err := c.Get(KeySalesOrders, DefaultTTL, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 || calls != 2 {
		t.Errorf("got %v with %d calls, want refetch after invalidate", v, calls)
	}
}

func TestFetchErrorLeavesCacheUntouched(t *testing.T) {
	c := New()

	c.Get(KeyUsers, DefaultTTL, func() (interface{}, error) { return "good", nil })
	c.Invalidate(KeyUsers)

	_, err := c.Get(KeyUsers, DefaultTTL, func() (interface{}, error) {
		return nil, errors.New("store unreachable")
	})
	if err == nil {
		t.Fatal("expected fetch error")
	}

	// Next fetch succeeds and repopulates.
	v, err := c.Get(KeyUsers, DefaultTTL, func() (interface{}, error) { return "recovered", nil })
	if err != nil {
		t.Fatal(err)
	}
	if v != "recovered" {
		t.Errorf("got %v, want recovered", v)
	}
}

func TestResetDropsAllKeys(t *testing.T) {
	c := New()
	calls := map[string]int{}
	fetchFor := func(key string) Fetch {
		return func() (interface{}, error) {
			calls[key]++
			return calls[key], nil
		}
	}

	for _, key := range []string{KeyProducts, KeyColors, KeyRecentActivities} {
		c.Get(key, DefaultTTL, fetchFor(key))
	}
	c.Reset()
	for _, key := range []string{KeyProducts, KeyColors, KeyRecentActivities} {
		c.Get(key, DefaultTTL, fetchFor(key))
		if calls[key] != 2 {
			t.Errorf("key %s: %d calls after reset, want 2", key, calls[key])
		}
	}
}
