package memory

import (
	"context"
	"sync"
	"time"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/model"
)

// EventLog keeps archived events in memory.
type EventLog struct {
	mu     sync.Mutex
	nextID int64
	events []model.Event
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) Append(_ context.Context, events []model.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range events {
		l.nextID++
		e.ID = l.nextID
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		l.events = append(l.events, e)
	}
	return nil
}

func (l *EventLog) ListByGame(_ context.Context, gameID string) ([]model.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.Event
	for _, e := range l.events {
		if e.GameID == gameID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ResultRepo keeps final standings in memory.
type ResultRepo struct {
	mu      sync.Mutex
	results []model.Result
}

// NewResultRepo creates an empty repository.
func NewResultRepo() *ResultRepo {
	return &ResultRepo{}
}

// SaveResults replaces any stored line for the same game and seat.
func (r *ResultRepo) SaveResults(_ context.Context, results []model.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range results {
		replaced := false
		for i := range r.results {
			if r.results[i].GameID == res.GameID && r.results[i].Seat == res.Seat {
				r.results[i] = res
				replaced = true
				break
			}
		}
		if !replaced {
			r.results = append(r.results, res)
		}
	}
	return nil
}

func (r *ResultRepo) ListByGame(_ context.Context, gameID string) ([]model.Result, error) {
	return r.filter(func(res model.Result) bool { return res.GameID == gameID }), nil
}

func (r *ResultRepo) ListByIdentity(_ context.Context, identity string) ([]model.Result, error) {
	return r.filter(func(res model.Result) bool { return res.Identity == identity }), nil
}

func (r *ResultRepo) filter(keep func(model.Result) bool) []model.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Result
	for _, res := range r.results {
		if keep(res) {
			out = append(out, res)
		}
	}
	return out
}
