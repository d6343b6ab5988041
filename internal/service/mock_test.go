package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository/memory"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

type broadcastCall struct {
	gameID    string
	eventType string
	data      any
}

type recordingBroadcaster struct {
	mu      sync.Mutex
	calls   []broadcastCall
	private map[string][]broadcastCall
}

func (b *recordingBroadcaster) BroadcastToIdentity(identity, gameID, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.private == nil {
		b.private = make(map[string][]broadcastCall)
	}
	b.private[identity] = append(b.private[identity], broadcastCall{gameID, eventType, data})
}

// find returns the last public call of a type.
func (b *recordingBroadcaster) find(eventType string) (broadcastCall, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.calls) - 1; i >= 0; i-- {
		if b.calls[i].eventType == eventType {
			return b.calls[i], true
		}
	}
	return broadcastCall{}, false
}

func (b *recordingBroadcaster) BroadcastGameEvent(gameID, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{gameID, eventType, data})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.calls))
	for i, c := range b.calls {
		out[i] = c.eventType
	}
	return out
}

func (b *recordingBroadcaster) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
	b.private = nil
}

// mockSettlement pays each game at most once, like a ledger keyed by game id.
type mockSettlement struct {
	err      error
	calls    int
	settled  []string
	onSettle func()
}

func (s *mockSettlement) Settle(_ context.Context, gameID, winner string) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	if s.onSettle != nil {
		s.onSettle()
	}
	for _, paid := range s.settled {
		if strings.HasPrefix(paid, gameID+":") {
			return nil
		}
	}
	s.settled = append(s.settled, gameID+":"+winner)
	return nil
}

var errCommit = errors.New("commit failed")

// failingStore delegates loads to a memory store and rejects commits while
// fail is set.
type failingStore struct {
	*memory.Store
	fail bool
}

func (s *failingStore) Atomic(ctx context.Context, gameID string, fn func(w repository.GameWriter) error) error {
	if s.fail {
		return errCommit
	}
	return s.Store.Atomic(ctx, gameID, fn)
}

type testEnv struct {
	store       *memory.Store
	events      *memory.EventLog
	results     *memory.ResultRepo
	broadcaster *recordingBroadcaster
	settlement  *mockSettlement
	games       *GameService
	play        *PlayService
}

func newTestEnv() *testEnv {
	e := &testEnv{
		store:       memory.NewStore(),
		events:      memory.NewEventLog(),
		results:     memory.NewResultRepo(),
		broadcaster: &recordingBroadcaster{},
		settlement:  &mockSettlement{},
	}
	d := NewDispatcher(e.store, e.broadcaster)
	d.SetEventLog(e.events)
	d.SetResultRepo(e.results)
	e.games = NewGameService(d, e.settlement, conquest.Tiny)
	e.play = NewPlayService(d)
	return e
}

// startedGame creates a two player tiny match hosted by alice and starts it.
func (e *testEnv) startedGame(ctx context.Context, seed uint64) (*conquest.Match, error) {
	m, err := e.games.CreateGame(ctx, "alice", CreateParams{Name: "test", HostName: "Alice", Seed: seed})
	if err != nil {
		return nil, err
	}
	if _, err := e.games.JoinGame(ctx, m.Game.ID, "bob", "Bob"); err != nil {
		return nil, err
	}
	return e.games.StartGame(ctx, m.Game.ID, "alice")
}

// current returns the identity whose turn it is.
func current(m *conquest.Match) string {
	return m.Players[m.CurrentPlayer()].Identity
}
