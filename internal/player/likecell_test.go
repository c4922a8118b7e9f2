package player

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeLikeSvc records like/unlike calls so tests can assert exactly what
// the cell fired, across the fire-and-forget goroutine.
type fakeLikeSvc struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeLikeSvc) Like(_ context.Context, userID string, songID int64) error {
	return f.record("like", songID)
}

func (f *fakeLikeSvc) Unlike(_ context.Context, userID string, songID int64) error {
	return f.record("unlike", songID)
}

func (f *fakeLikeSvc) record(op string, songID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("%s:%d", op, songID))
	return f.err
}

// waitCalls polls until n calls were recorded or the deadline hits.
func (f *fakeLikeSvc) waitCalls(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		got := len(f.calls)
		f.mu.Unlock()
		if got >= n {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) != n {
		t.Fatalf("recorded %d calls %v, want %d", len(f.calls), f.calls, n)
	}
	return append([]string(nil), f.calls...)
}

func TestNewLikeCellRequiresSongID(t *testing.T) {
	_, err := NewLikeCell(NewStore(), newMapJar(), &fakeLikeSvc{}, "u1", 0, false)
	if err != ErrMissingSongID {
		t.Fatalf("err = %v, want ErrMissingSongID", err)
	}
}

func TestToggleFiresExactlyOneCall(t *testing.T) {
	svc := &fakeLikeSvc{}
	cell, err := NewLikeCell(NewStore(), newMapJar(), svc, "u1", 42, false)
	if err != nil {
		t.Fatal(err)
	}
	defer cell.Close()

	cell.Toggle(context.Background())

	if !cell.Liked() {
		t.Error("displayed state did not flip")
	}
	if calls := svc.waitCalls(t, 1); calls[0] != "like:42" {
		t.Errorf("calls = %v, want [like:42]", calls)
	}

	cell.Toggle(context.Background())

	if cell.Liked() {
		t.Error("second toggle did not flip back")
	}
	if calls := svc.waitCalls(t, 2); calls[1] != "unlike:42" {
		t.Errorf("calls = %v, want unlike:42 second", calls)
	}
}

func TestToggleDisplaysBeforeServiceReturns(t *testing.T) {
	// The optimistic flip must be visible even if the backend never answers.
	block := make(chan struct{})
	svc := &blockingLikeSvc{block: block}
	cell, err := NewLikeCell(NewStore(), newMapJar(), svc, "u1", 42, false)
	if err != nil {
		t.Fatal(err)
	}
	defer cell.Close()
	defer close(block)

	cell.Toggle(context.Background())

	if !cell.Liked() {
		t.Error("displayed state waited on the backend")
	}
}

type blockingLikeSvc struct {
	block chan struct{}
}

func (s *blockingLikeSvc) Like(context.Context, string, int64) error {
	<-s.block
	return nil
}

func (s *blockingLikeSvc) Unlike(context.Context, string, int64) error {
	<-s.block
	return nil
}

func TestToggleSurvivesCanceledContext(t *testing.T) {
	svc := &fakeLikeSvc{}
	cell, err := NewLikeCell(NewStore(), newMapJar(), svc, "u1", 42, false)
	if err != nil {
		t.Fatal(err)
	}
	defer cell.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cell.Toggle(ctx)

	// The write still goes out even though the request context died.
	svc.waitCalls(t, 1)
}

func TestTogglePropagatesToStoreWhenCurrentSong(t *testing.T) {
	store := NewStore()
	store.SetSongID("42")
	jar := newMapJar()

	cell, err := NewLikeCell(store, jar, &fakeLikeSvc{}, "u1", 42, false)
	if err != nil {
		t.Fatal(err)
	}
	defer cell.Close()

	cell.Toggle(context.Background())

	if !store.Snapshot().IsLiked {
		t.Error("store liked flag not updated for current song")
	}
	if v, _ := jar.Get(CookieIsLiked); v != "true" {
		t.Errorf("cookie mirror = %q, want true", v)
	}
}

func TestToggleLeavesStoreAloneWhenOtherSongPlays(t *testing.T) {
	store := NewStore()
	store.SetSongID("7")
	jar := newMapJar()

	cell, err := NewLikeCell(store, jar, &fakeLikeSvc{}, "u1", 42, false)
	if err != nil {
		t.Fatal(err)
	}
	defer cell.Close()

	cell.Toggle(context.Background())

	if store.Snapshot().IsLiked {
		t.Error("store liked flag changed for a non-current song")
	}
	if _, ok := jar.Get(CookieIsLiked); ok {
		t.Error("cookie mirror written for a non-current song")
	}
}

func TestTwoCellsStayInSyncThroughStore(t *testing.T) {
	// Two views of the same song, one shared store: toggling one while the
	// song plays must light up the other via the store subscription.
	store := NewStore()
	store.SetSongID("42")

	a, err := NewLikeCell(store, newMapJar(), &fakeLikeSvc{}, "u1", 42, false)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	b, err := NewLikeCell(store, newMapJar(), &fakeLikeSvc{}, "u1", 42, false)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	var bNotified bool
	b.OnChange(func(liked bool) { bNotified = liked })

	a.Toggle(context.Background())

	if !b.Liked() {
		t.Error("second cell did not adopt the store's liked flag")
	}
	if !bNotified {
		t.Error("second cell's OnChange did not fire")
	}
}

func TestCellIgnoresOtherSongsStoreChanges(t *testing.T) {
	store := NewStore()
	cell, err := NewLikeCell(store, newMapJar(), &fakeLikeSvc{}, "u1", 42, true)
	if err != nil {
		t.Fatal(err)
	}
	defer cell.Close()

	store.Apply(func(st *NowPlaying) {
		st.SongID = "7"
		st.IsLiked = false
	})

	if !cell.Liked() {
		t.Error("cell adopted liked flag from an unrelated song")
	}
}

func TestSyncInitialFiresOnChangeOnlyOnActualChange(t *testing.T) {
	cell, err := NewLikeCell(NewStore(), newMapJar(), &fakeLikeSvc{}, "u1", 42, true)
	if err != nil {
		t.Fatal(err)
	}
	defer cell.Close()

	fired := 0
	cell.OnChange(func(bool) { fired++ })

	cell.SyncInitial(true) // no-op re-seed
	cell.SyncInitial(false)

	if fired != 1 {
		t.Errorf("OnChange fired %d times, want 1", fired)
	}
	if cell.Liked() {
		t.Error("SyncInitial(false) did not stick")
	}
}
