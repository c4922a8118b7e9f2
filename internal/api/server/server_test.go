package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Niloy28/rhythmflow/internal/config"
	database "github.com/Niloy28/rhythmflow/internal/db"
	"github.com/Niloy28/rhythmflow/internal/models"
	"github.com/Niloy28/rhythmflow/internal/player"
	"github.com/Niloy28/rhythmflow/internal/storage"
)

// testConfig returns a config wired for offline tests: local storage in a
// temp dir, no dev mode.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	var cfg config.Config
	cfg.Server.LogLevel = "info"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLHrs = 1
	cfg.Storage.Provider = "local"
	cfg.Storage.LocalRoot = t.TempDir()
	cfg.Storage.PublicBase = "http://localhost:8080/files"
	cfg.Storage.BucketSongs = "songs"
	cfg.Storage.BucketImages = "images"
	cfg.Player.DefaultVolume = player.DefaultVolume
	cfg.Player.CookieMaxAge = 3600
	return &cfg
}

// SetupInMemoryDB creates a throwaway DB for testing
func SetupInMemoryDB(t *testing.T) *database.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = d.AutoMigrate(&models.Users{}, &models.Artist{}, &models.Album{}, &models.Song{}, &models.LikedSong{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &database.Client{DB: d}
}

func seedSong(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	artist := models.Artist{
		Name: "Test Artist",
		Albums: []models.Album{{
			Name:  "Test Album",
			Cover: "covers/test.png",
			Year:  2020,
			Songs: []models.Song{
				{Name: "Test Song", Audio: "songs/test.mp3", Duration: 180, Year: 2020},
			},
		}},
	}
	if err := db.Create(&artist).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	return artist.Albums[0].Songs[0].ID
}

// client drives the router while carrying cookies between requests, the way
// a browser would.
type client struct {
	t       *testing.T
	router  *gin.Engine
	token   string
	cookies map[string]string
}

func newClient(t *testing.T, s *Server) *client {
	return &client{t: t, router: s.Router(), cookies: make(map[string]string)}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		c.cookies[ck.Name] = ck.Value
	}
	return w
}

// cookie returns a stored cookie value decoded the way gin encodes it.
func (c *client) cookie(name string) string {
	v, _ := url.QueryUnescape(c.cookies[name])
	return v
}

func (c *client) doJSON(method, path string, body any, wantStatus int) map[string]any {
	c.t.Helper()
	w := c.do(method, path, body)
	if w.Code != wantStatus {
		c.t.Fatalf("%s %s = %d, want %d: %s", method, path, w.Code, wantStatus, w.Body.String())
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		c.t.Fatalf("%s %s: bad JSON: %v", method, path, err)
	}
	return out
}

func (c *client) login(email, password string) {
	c.t.Helper()
	c.doJSON("POST", "/api/v1/auth/register", gin.H{
		"name": "Tester", "email": email, "password": password,
	}, http.StatusCreated)
	resp := c.doJSON("POST", "/api/v1/auth/login", gin.H{
		"email": email, "password": password,
	}, http.StatusOK)
	c.token = resp["token"].(string)
}

func TestRegisterRejectsWeakPasswords(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, SetupInMemoryDB(t), storage.New(cfg))
	c := newClient(t, s)

	for _, password := range []string{"short1", "nodigitshere"} {
		w := c.do("POST", "/api/v1/auth/register", gin.H{
			"name": "Tester", "email": "weak@example.com", "password": password,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("password %q accepted with status %d", password, w.Code)
		}
	}
}

func TestPlayerStateStartsAtDefaults(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, SetupInMemoryDB(t), storage.New(cfg))
	c := newClient(t, s)

	state := c.doJSON("GET", "/api/v1/player", nil, http.StatusOK)

	if state["songID"] != "" {
		t.Errorf("fresh session songID = %v", state["songID"])
	}
	if state["volume"] != player.DefaultVolume {
		t.Errorf("fresh session volume = %v, want %v", state["volume"], player.DefaultVolume)
	}
	if _, ok := c.cookies[player.SessionCookie]; !ok {
		t.Error("no session cookie issued")
	}
}

func TestSelectLoadsSongAndMirrorsCookies(t *testing.T) {
	cfg := testConfig(t)
	db := SetupInMemoryDB(t)
	songID := seedSong(t, db.DB)

	s := New(cfg, db, storage.New(cfg))
	c := newClient(t, s)
	c.login("select@example.com", "password1")

	state := c.doJSON("POST", "/api/v1/player/select", gin.H{"song_id": songID}, http.StatusOK)

	if state["songID"] != fmt.Sprint(songID) || state["songName"] != "Test Song" {
		t.Errorf("snapshot = %v", state)
	}
	if state["artist"] != "Test Artist" || state["album"] != "Test Album" || state["year"] != "2020" {
		t.Errorf("snapshot = %v", state)
	}
	// Media keys come back as loadable URLs, not raw object keys.
	wantAudio := cfg.Storage.PublicBase + "/songs/songs/test.mp3"
	if state["audioSrc"] != wantAudio {
		t.Errorf("audioSrc = %v, want %v", state["audioSrc"], wantAudio)
	}

	// The cookie mirror carries the same state for the next session.
	if got := c.cookie(player.CookieSongID); got != fmt.Sprint(songID) {
		t.Errorf("cookie songID = %q", got)
	}
	if got := c.cookie(player.CookieSongName); got != "Test Song" {
		t.Errorf("cookie songName = %q", got)
	}

	// A later GET sees the same snapshot.
	state = c.doJSON("GET", "/api/v1/player", nil, http.StatusOK)
	if state["songName"] != "Test Song" {
		t.Errorf("follow-up snapshot = %v", state)
	}
}

func TestSelectUnknownSong(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, SetupInMemoryDB(t), storage.New(cfg))
	c := newClient(t, s)
	c.login("missing@example.com", "password1")

	c.doJSON("POST", "/api/v1/player/select", gin.H{"song_id": 999}, http.StatusNotFound)
}

func TestSessionSurvivesServerRestart(t *testing.T) {
	cfg := testConfig(t)
	db := SetupInMemoryDB(t)
	songID := seedSong(t, db.DB)
	store := storage.New(cfg)

	c := newClient(t, New(cfg, db, store))
	c.login("restart@example.com", "password1")
	c.doJSON("POST", "/api/v1/player/select", gin.H{"song_id": songID}, http.StatusOK)

	// A new server has an empty session registry; the browser's cookies
	// must rebuild the state on the next request.
	c.router = New(cfg, db, store).Router()

	state := c.doJSON("GET", "/api/v1/player", nil, http.StatusOK)
	if state["songID"] != fmt.Sprint(songID) || state["songName"] != "Test Song" {
		t.Errorf("rehydrated snapshot = %v", state)
	}
}

func TestLikeRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	db := SetupInMemoryDB(t)
	songID := seedSong(t, db.DB)

	s := New(cfg, db, storage.New(cfg))
	c := newClient(t, s)
	c.login("liker@example.com", "password1")

	resp := c.doJSON("POST", fmt.Sprintf("/api/v1/songs/%d/like", songID), nil, http.StatusOK)
	if resp["liked"] != true {
		t.Errorf("like response = %v", resp)
	}

	// The write is fire-and-forget; give it a moment to land.
	waitForLikeCount(t, db.DB, songID, 1)

	// Repeating the like stays a single row.
	c.doJSON("POST", fmt.Sprintf("/api/v1/songs/%d/like", songID), nil, http.StatusOK)
	time.Sleep(50 * time.Millisecond)
	waitForLikeCount(t, db.DB, songID, 1)

	songs := c.do("GET", "/api/v1/songs/liked", nil)
	if songs.Code != http.StatusOK {
		t.Fatalf("liked songs = %d: %s", songs.Code, songs.Body.String())
	}
	var resp2 struct {
		Data []player.SongRow `json:"data"`
	}
	if err := json.Unmarshal(songs.Body.Bytes(), &resp2); err != nil {
		t.Fatal(err)
	}
	if len(resp2.Data) != 1 || resp2.Data[0].ID != songID || !resp2.Data[0].Liked {
		t.Errorf("liked songs = %+v", resp2.Data)
	}

	c.doJSON("POST", fmt.Sprintf("/api/v1/songs/%d/unlike", songID), nil, http.StatusOK)
	waitForLikeCount(t, db.DB, songID, 0)
}

func TestLikeCurrentSongUpdatesPlayerCookie(t *testing.T) {
	cfg := testConfig(t)
	db := SetupInMemoryDB(t)
	songID := seedSong(t, db.DB)

	s := New(cfg, db, storage.New(cfg))
	c := newClient(t, s)
	c.login("hearts@example.com", "password1")

	c.doJSON("POST", "/api/v1/player/select", gin.H{"song_id": songID}, http.StatusOK)
	c.doJSON("POST", fmt.Sprintf("/api/v1/songs/%d/like", songID), nil, http.StatusOK)

	if got := c.cookie(player.CookieIsLiked); got != "true" {
		t.Errorf("cookie isCurrentlyLiked = %q, want true", got)
	}

	state := c.doJSON("GET", "/api/v1/player", nil, http.StatusOK)
	if state["isLiked"] != true {
		t.Errorf("player snapshot liked = %v", state["isLiked"])
	}
}

func TestLikeRequiresAuth(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, SetupInMemoryDB(t), storage.New(cfg))
	c := newClient(t, s)

	w := c.do("POST", "/api/v1/songs/1/like", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous like = %d, want 401", w.Code)
	}
}

func TestVolumeEndpoint(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, SetupInMemoryDB(t), storage.New(cfg))
	c := newClient(t, s)

	state := c.doJSON("POST", "/api/v1/player/volume", gin.H{"volume": 0.25}, http.StatusOK)
	if state["volume"] != 0.25 {
		t.Errorf("volume = %v, want 0.25", state["volume"])
	}
	if got := c.cookie(player.CookieVolume); got != "0.25" {
		t.Errorf("cookie volume = %q", got)
	}

	for _, bad := range []float64{-0.1, 1.5} {
		w := c.do("POST", "/api/v1/player/volume", gin.H{"volume": bad})
		if w.Code != http.StatusBadRequest {
			t.Errorf("volume %v accepted with status %d", bad, w.Code)
		}
	}
}

func TestAdminRoutesAbsentOutsideDevMode(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg, SetupInMemoryDB(t), storage.New(cfg))
	c := newClient(t, s)
	c.login("nobody@example.com", "password1")

	w := c.do("POST", "/api/v1/admin/artists", gin.H{"name": "X"})
	if w.Code != http.StatusNotFound {
		t.Errorf("admin route outside dev mode = %d, want 404", w.Code)
	}
}

func waitForLikeCount(t *testing.T, db *gorm.DB, songID int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var count int64
	for time.Now().Before(deadline) {
		db.Model(&models.LikedSong{}).Where("song_id = ?", songID).Count(&count)
		if count == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("like count for song %d = %d, want %d", songID, count, want)
}
