package player

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
)

// LikeService proposes additions/removals to the authoritative liked-songs
// set. Both operations are idempotent; the cell fires them without waiting.
type LikeService interface {
	Like(ctx context.Context, userID string, songID int64) error
	Unlike(ctx context.Context, userID string, songID int64) error
}

// LikeCell is the optimistic like/unlike control for one song. It owns a
// local liked flag seeded from the server-rendered snapshot, flips it
// immediately on toggle, and reconciles with the global store whenever the
// store reports a change for the same song (e.g. the player bar's own heart
// was clicked).
type LikeCell struct {
	store  *Store
	jar    Jar
	svc    LikeService
	userID string
	songID int64
	sid    string // songID as the store renders it

	mu    sync.Mutex
	liked bool

	onChange func(bool)
	cancel   func()
}

// NewLikeCell builds a cell for songID seeded with initialLiked. A zero
// songID is a programmer error upstream and fails fast.
func NewLikeCell(store *Store, jar Jar, svc LikeService, userID string, songID int64, initialLiked bool) (*LikeCell, error) {
	if songID == 0 {
		return nil, ErrMissingSongID
	}

	c := &LikeCell{
		store:  store,
		jar:    jar,
		svc:    svc,
		userID: userID,
		songID: songID,
		sid:    strconv.FormatInt(songID, 10),
		liked:  initialLiked,
	}

	// Track the store's liked flag while this cell's song is the one
	// playing, so the player bar and the catalog row never disagree.
	c.cancel = store.Subscribe(func(st NowPlaying) {
		if st.SongID != c.sid {
			return
		}
		c.adopt(st.IsLiked)
	})

	return c, nil
}

// Liked reports the displayed like state.
func (c *LikeCell) Liked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liked
}

// OnChange registers a callback fired whenever the displayed state changes,
// from a toggle or from a store-driven sync.
func (c *LikeCell) OnChange(fn func(bool)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// SyncInitial re-seeds the displayed state from fresh server data.
func (c *LikeCell) SyncInitial(liked bool) {
	c.adopt(liked)
}

// Toggle optimistically flips the displayed state, fires exactly one
// like/unlike call without blocking on its result, and, when this cell's
// song is the one currently playing, pushes the new flag into the store and
// the cookie mirror.
func (c *LikeCell) Toggle(ctx context.Context) {
	c.mu.Lock()
	c.liked = !c.liked
	liked := c.liked
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(liked)
	}

	// Fire-and-forget: failures are logged, never surfaced, and the
	// optimistic state stands until the next authoritative re-read.
	bg := context.WithoutCancel(ctx)
	go func() {
		var err error
		if liked {
			err = c.svc.Like(bg, c.userID, c.songID)
		} else {
			err = c.svc.Unlike(bg, c.userID, c.songID)
		}
		if err != nil {
			slog.Error("like call failed", "song_id", c.songID, "liked", liked, "error", err)
		}
	}()

	if c.store.Snapshot().SongID == c.sid {
		c.store.SetLiked(liked)
		PersistLiked(c.jar, liked)
	}
}

// Close removes the store subscription. Call when the row unmounts.
func (c *LikeCell) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// adopt sets the displayed state, firing onChange only on an actual change.
// Safe to call from store listeners: the store lock is not held there.
func (c *LikeCell) adopt(liked bool) {
	c.mu.Lock()
	changed := c.liked != liked
	c.liked = liked
	fn := c.onChange
	c.mu.Unlock()

	if changed && fn != nil {
		fn(liked)
	}
}
