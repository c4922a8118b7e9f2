package player

import "testing"

func TestSettersReplaceOnlyTheirField(t *testing.T) {
	s := NewStore()

	s.SetSongID("42")
	s.SetSongName("Test Song")
	s.SetArtist("Test Artist")
	s.SetAlbum("Test Album")
	s.SetYear("2020")
	s.SetAlbumArt("art.png")
	s.SetAudioSrc("song.mp3")
	s.SetLiked(true)
	s.SetVolume(0.8)

	st := s.Snapshot()
	if st.SongID != "42" || st.SongName != "Test Song" || st.Artist != "Test Artist" {
		t.Fatalf("unexpected snapshot: %+v", st)
	}
	if st.Album != "Test Album" || st.Year != "2020" || st.AlbumArt != "art.png" {
		t.Fatalf("unexpected snapshot: %+v", st)
	}
	if st.AudioSrc != "song.mp3" || !st.IsLiked || st.Volume != 0.8 {
		t.Fatalf("unexpected snapshot: %+v", st)
	}

	// An unrelated setter must leave everything else alone.
	s.SetVolume(0.3)
	st = s.Snapshot()
	if st.SongID != "42" || st.SongName != "Test Song" || st.Volume != 0.3 {
		t.Fatalf("SetVolume disturbed other fields: %+v", st)
	}

	// Last write wins per field.
	s.SetSongName("Renamed")
	if got := s.Snapshot().SongName; got != "Renamed" {
		t.Errorf("SongName = %q, want Renamed", got)
	}
}

func TestFreshStoreDefaults(t *testing.T) {
	st := NewStore().Snapshot()

	if st.SongID != "" {
		t.Errorf("fresh store has SongID %q", st.SongID)
	}
	for name, v := range map[string]string{
		"SongName": st.SongName,
		"Artist":   st.Artist,
		"Album":    st.Album,
		"Year":     st.Year,
		"AlbumArt": st.AlbumArt,
		"AudioSrc": st.AudioSrc,
	} {
		if v != "" {
			t.Errorf("fresh store has %s = %q, want empty", name, v)
		}
	}
	if st.IsLiked {
		t.Error("fresh store is liked")
	}
	if st.Volume != DefaultVolume {
		t.Errorf("fresh store volume = %v, want %v", st.Volume, DefaultVolume)
	}
}

func TestApplyIsObservedAtomically(t *testing.T) {
	s := NewStore()
	s.SetSongID("42")
	s.SetAudioSrc("old.mp3")

	// Every notification must show SongID and AudioSrc from the same
	// transaction: never the new ID with the old source.
	var torn bool
	cancel := s.Subscribe(func(st NowPlaying) {
		if st.SongID == "7" && st.AudioSrc != "new.mp3" {
			torn = true
		}
	})
	defer cancel()

	s.Apply(func(st *NowPlaying) {
		st.SongID = "7"
		st.AudioSrc = "new.mp3"
	})

	if torn {
		t.Error("observed SongID 7 with stale AudioSrc")
	}
	if got := s.Snapshot(); got.SongID != "7" || got.AudioSrc != "new.mp3" {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestSubscribeCancelStopsNotifications(t *testing.T) {
	s := NewStore()

	count := 0
	cancel := s.Subscribe(func(NowPlaying) { count++ })

	s.SetSongID("1")
	cancel()
	s.SetSongID("2")

	if count != 1 {
		t.Errorf("listener fired %d times, want 1", count)
	}
}

func TestRestoreSeedsState(t *testing.T) {
	seed := NowPlaying{SongID: "42", SongName: "Test Song", Volume: 0.9}
	s := Restore(seed)

	if got := s.Snapshot(); got != seed {
		t.Errorf("restored snapshot = %+v, want %+v", got, seed)
	}
}
