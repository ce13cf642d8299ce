package engine

import (
	"context"
	"errors"
	"sync"
	"time"
)

// refNow is Wednesday 2024-05-15 10:00 UTC.
var refNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.ParseInLocation(DayKeyLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t.Add(12 * time.Hour)
}

func act(id, category, subcategory string, qty float64, ts time.Time, emissions float64) Activity {
	return Activity{
		ID:          id,
		Category:    category,
		Subcategory: subcategory,
		Quantity:    qty,
		Timestamp:   ts,
		Emissions:   emissions,
	}
}

// fakeStore is an in-memory Store that records saves.
type fakeStore struct {
	mu      sync.Mutex
	doc     *State
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeStore) Load(context.Context) (*State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.doc == nil {
		return nil, nil //nolint:nilnil // nil state means nothing stored yet
	}
	c := f.doc.Clone()
	return &c, nil
}

func (f *fakeStore) Save(_ context.Context, s State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	c := s.Clone()
	f.doc = &c
	f.saves++
	return nil
}

// counterIDs yields "id-1", "id-2", ...
type counterIDs struct{ n int }

func (c *counterIDs) NewID() string {
	c.n++
	return "id-" + itoa(c.n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

var errBoom = errors.New("boom")
