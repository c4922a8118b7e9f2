package player

import (
	"context"
	"testing"
)

func testRow() SongRow {
	return SongRow{
		ID:       42,
		Name:     "Test Song",
		Artist:   "Test Artist",
		Album:    "Test Album",
		Year:     2020,
		AlbumArt: "art.png",
		Audio:    "song.mp3",
		Duration: 180,
		Liked:    false,
	}
}

func TestBindRowRequiresSongID(t *testing.T) {
	row := testRow()
	row.ID = 0
	if _, err := BindRow(NewStore(), newMapJar(), &fakeLikeSvc{}, "u1", row); err != ErrMissingSongID {
		t.Fatalf("err = %v, want ErrMissingSongID", err)
	}
}

func TestSelectReplacesEveryFieldInOneBatch(t *testing.T) {
	store := NewStore()
	store.SetSongID("7")
	store.SetAudioSrc("old.mp3")
	store.SetVolume(0.9)
	jar := newMapJar()

	b, err := BindRow(store, jar, &fakeLikeSvc{}, "u1", testRow())
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	// Listeners must never see the new ID paired with the old source.
	var torn bool
	cancel := store.Subscribe(func(st NowPlaying) {
		if st.SongID == "42" && st.AudioSrc != "song.mp3" {
			torn = true
		}
	})
	defer cancel()

	if err := b.Select(); err != nil {
		t.Fatal(err)
	}

	if torn {
		t.Error("selection was observable half-applied")
	}

	st := store.Snapshot()
	if st.SongID != "42" || st.SongName != "Test Song" || st.Artist != "Test Artist" {
		t.Errorf("snapshot = %+v", st)
	}
	if st.Album != "Test Album" || st.Year != "2020" || st.AlbumArt != "art.png" || st.AudioSrc != "song.mp3" {
		t.Errorf("snapshot = %+v", st)
	}
	if st.Volume != 0.9 {
		t.Errorf("selection touched the volume: %v", st.Volume)
	}

	// The whole new state lands in the cookie mirror too.
	if got := LoadSnapshot(jar); got != st {
		t.Errorf("mirror = %+v, want %+v", got, st)
	}
}

func TestSelectUsesLocallyToggledLikedValue(t *testing.T) {
	// Like a row, then play it before any re-render: the heart must stay
	// filled even though the row's snapshot still says unliked.
	store := NewStore()
	jar := newMapJar()
	svc := &fakeLikeSvc{}

	b, err := BindRow(store, jar, svc, "u1", testRow())
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	b.Cell().Toggle(context.Background())

	if err := b.Select(); err != nil {
		t.Fatal(err)
	}

	if !store.Snapshot().IsLiked {
		t.Error("store lost the just-toggled like")
	}
	if v, _ := jar.Get(CookieIsLiked); v != "true" {
		t.Errorf("mirror isCurrentlyLiked = %q, want true", v)
	}
}

func TestSelectThenToggleSyncsStore(t *testing.T) {
	// Play a row, then toggle its heart: the now-current song's store flag
	// and cookie must follow.
	store := NewStore()
	jar := newMapJar()

	b, err := BindRow(store, jar, &fakeLikeSvc{}, "u1", testRow())
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := b.Select(); err != nil {
		t.Fatal(err)
	}
	b.Cell().Toggle(context.Background())

	if !store.Snapshot().IsLiked {
		t.Error("toggle after select did not reach the store")
	}
	if v, _ := jar.Get(CookieIsLiked); v != "true" {
		t.Errorf("mirror isCurrentlyLiked = %q, want true", v)
	}
}
