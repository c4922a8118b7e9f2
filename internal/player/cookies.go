package player

import "strconv"

// Cookie names mirror the keys the web client has always used, so existing
// browser sessions survive a server upgrade.
const (
	CookieSongID   = "currentSongID"
	CookieSongName = "currentSongName"
	CookieArtist   = "currentArtist"
	CookieAlbum    = "currentAlbum"
	CookieYear     = "currentYear"
	CookieAlbumArt = "currentAlbumArt"
	CookieAudioSrc = "currentAudioSrc"
	CookieIsLiked  = "isCurrentlyLiked"
	CookieVolume   = "currentVolume"
)

// Jar is the durable per-session key-value store the player state is
// mirrored into. In production it is backed by HTTP cookies on the gin
// request/response; tests use an in-memory map. Writes are best-effort and
// last-write-wins.
type Jar interface {
	Set(name, value string)
	Get(name string) (string, bool)
}

// Persist writes every field of the snapshot into the jar as independent
// string entries. It is called after each row-selection or like-toggle so a
// reload restores the same playback context.
func Persist(jar Jar, st NowPlaying) {
	jar.Set(CookieSongID, st.SongID)
	jar.Set(CookieSongName, st.SongName)
	jar.Set(CookieArtist, st.Artist)
	jar.Set(CookieAlbum, st.Album)
	jar.Set(CookieYear, st.Year)
	jar.Set(CookieAlbumArt, st.AlbumArt)
	jar.Set(CookieAudioSrc, st.AudioSrc)
	PersistLiked(jar, st.IsLiked)
	PersistVolume(jar, st.Volume)
}

// PersistLiked updates only the liked entry. Used when the like toggle for
// the currently playing song flips without a new selection.
func PersistLiked(jar Jar, liked bool) {
	jar.Set(CookieIsLiked, strconv.FormatBool(liked))
}

// PersistVolume updates only the volume entry.
func PersistVolume(jar Jar, volume float64) {
	jar.Set(CookieVolume, strconv.FormatFloat(volume, 'f', -1, 64))
}

// LoadSnapshot reads whatever subset of entries exists in the jar and fills
// in defaults for the rest. A first-ever visit (empty jar) yields the
// fresh-session defaults; this is not an error.
func LoadSnapshot(jar Jar) NowPlaying {
	st := Defaults()

	read := func(name string, dst *string) {
		if v, ok := jar.Get(name); ok {
			*dst = v
		}
	}

	read(CookieSongID, &st.SongID)
	read(CookieSongName, &st.SongName)
	read(CookieArtist, &st.Artist)
	read(CookieAlbum, &st.Album)
	read(CookieYear, &st.Year)
	read(CookieAlbumArt, &st.AlbumArt)
	read(CookieAudioSrc, &st.AudioSrc)

	if v, ok := jar.Get(CookieIsLiked); ok {
		st.IsLiked = v == "true"
	}
	if v, ok := jar.Get(CookieVolume); ok {
		if vol, err := strconv.ParseFloat(v, 64); err == nil && vol >= 0 && vol <= 1 {
			st.Volume = vol
		}
	}

	return st
}
