package player

import "strconv"

// SongRow is the fully denormalized song record a catalog row renders:
// identity, display metadata, media URLs and the user's liked flag at
// render time.
type SongRow struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Year     int    `json:"year"`
	AlbumArt string `json:"albumArt"`
	Audio    string `json:"audio"`
	Duration int    `json:"duration"`
	Liked    bool   `json:"liked"`
}

// RowBinding glues one catalog row to the session's store: selecting the
// row loads the song into the player in a single transaction, and the
// embedded LikeCell keeps the row's heart in lockstep with the player bar.
type RowBinding struct {
	store *Store
	jar   Jar
	row   SongRow
	cell  *LikeCell
}

// BindRow wires a row up to the store. The row's liked flag seeds the
// embedded cell. Rows without a song ID fail fast.
func BindRow(store *Store, jar Jar, svc LikeService, userID string, row SongRow) (*RowBinding, error) {
	cell, err := NewLikeCell(store, jar, svc, userID, row.ID, row.Liked)
	if err != nil {
		return nil, err
	}
	return &RowBinding{
		store: store,
		jar:   jar,
		row:   row,
		cell:  cell,
	}, nil
}

// Cell exposes the row's like toggle.
func (b *RowBinding) Cell() *LikeCell {
	return b.cell
}

// Select loads this row's song into the player: every field is replaced in
// one batch, the new state is mirrored into the jar, and only then does the
// audio surface see the new source. The liked flag pushed is the cell's
// current (possibly just-toggled) value, not the render-time snapshot, so a
// like followed immediately by play keeps the heart filled.
func (b *RowBinding) Select() error {
	if b.row.ID == 0 {
		return ErrMissingSongID
	}

	liked := b.cell.Liked()

	b.store.Apply(func(st *NowPlaying) {
		st.SongID = strconv.FormatInt(b.row.ID, 10)
		st.SongName = b.row.Name
		st.Artist = b.row.Artist
		st.Album = b.row.Album
		st.Year = strconv.Itoa(b.row.Year)
		st.AlbumArt = b.row.AlbumArt
		st.AudioSrc = b.row.Audio
		st.IsLiked = liked
		// Volume is a player-level setting and survives selection.
	})

	Persist(b.jar, b.store.Snapshot())
	return nil
}

// Close releases the binding's store subscription.
func (b *RowBinding) Close() {
	b.cell.Close()
}
