// Package player holds the playback session core: the now-playing state
// store, its cookie mirror, and the row/like bindings that drive it.
package player

import (
	"errors"
	"sync"
)

// DefaultVolume matches the client player's initial slider position.
const DefaultVolume = 0.5

// ErrMissingSongID is returned when a row or like cell is constructed for a
// song record without an ID. A song without an ID should never reach the UI,
// so callers treat this as a data-integrity bug rather than recovering.
var ErrMissingSongID = errors.New("player: song has no ID")

// NowPlaying describes the track loaded into the global player bar.
// An empty SongID means nothing is loaded; all descriptive fields are empty
// then too. The struct is always copied out whole, never shared.
type NowPlaying struct {
	SongID   string  `json:"songID"`
	SongName string  `json:"songName"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	Year     string  `json:"year"`
	AlbumArt string  `json:"albumArt"`
	AudioSrc string  `json:"audioSrc"`
	IsLiked  bool    `json:"isLiked"`
	Volume   float64 `json:"volume"`
}

// Defaults returns the state of a fresh session: everything empty, volume
// at the default level.
func Defaults() NowPlaying {
	return NowPlaying{Volume: DefaultVolume}
}

// Listener receives a full snapshot after every store mutation.
type Listener func(NowPlaying)

// Store is the single source of truth for "what is currently loaded into
// the player" within one session. Fields are replaced individually through
// the setters below, or together through Apply; there is no reset operation.
// All mutations are synchronous and every subscriber sees each resulting
// snapshot.
type Store struct {
	mu        sync.RWMutex
	state     NowPlaying
	nextToken int
	listeners map[int]Listener
}

// NewStore returns a store holding the fresh-session defaults.
func NewStore() *Store {
	return Restore(Defaults())
}

// Restore returns a store seeded from a previously persisted snapshot.
func Restore(initial NowPlaying) *Store {
	return &Store{
		state:     initial,
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() NowPlaying {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to be called with a snapshot after every mutation.
// The returned cancel func removes the subscription.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	token := s.nextToken
	s.nextToken++
	s.listeners[token] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, token)
		s.mu.Unlock()
	}
}

// Apply runs mut against the state under the store lock and notifies
// subscribers exactly once. Row selection uses this so that all nine fields
// of a "load this song" transaction become visible together; no subscriber
// can observe the new SongID alongside the previous AudioSrc.
func (s *Store) Apply(mut func(*NowPlaying)) {
	s.mu.Lock()
	mut(&s.state)
	snap := s.state
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	// Listeners run outside the lock so they can call back into the store.
	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) SetSongID(v string)   { s.Apply(func(st *NowPlaying) { st.SongID = v }) }
func (s *Store) SetSongName(v string) { s.Apply(func(st *NowPlaying) { st.SongName = v }) }
func (s *Store) SetArtist(v string)   { s.Apply(func(st *NowPlaying) { st.Artist = v }) }
func (s *Store) SetAlbum(v string)    { s.Apply(func(st *NowPlaying) { st.Album = v }) }
func (s *Store) SetYear(v string)     { s.Apply(func(st *NowPlaying) { st.Year = v }) }
func (s *Store) SetAlbumArt(v string) { s.Apply(func(st *NowPlaying) { st.AlbumArt = v }) }
func (s *Store) SetAudioSrc(v string) { s.Apply(func(st *NowPlaying) { st.AudioSrc = v }) }
func (s *Store) SetLiked(v bool)      { s.Apply(func(st *NowPlaying) { st.IsLiked = v }) }
func (s *Store) SetVolume(v float64)  { s.Apply(func(st *NowPlaying) { st.Volume = v }) }
