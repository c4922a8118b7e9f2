package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Niloy28/rhythmflow/internal/player"
)

// ginJar adapts one gin request/response pair to the player.Jar interface.
// Reads see values written earlier in the same request, so a persist
// followed by a load within one handler round-trips.
type ginJar struct {
	c       *gin.Context
	maxAge  int
	written map[string]string
}

var _ player.Jar = (*ginJar)(nil)

func newJar(c *gin.Context, maxAge int) *ginJar {
	return &ginJar{c: c, maxAge: maxAge, written: make(map[string]string)}
}

func (j *ginJar) Set(name, value string) {
	j.written[name] = value
	// Not HttpOnly: the web client reads the player cookies to seed its UI.
	j.c.SetCookie(name, value, j.maxAge, "/", "", false, false)
}

func (j *ginJar) Get(name string) (string, bool) {
	if v, ok := j.written[name]; ok {
		return v, true
	}
	v, err := j.c.Cookie(name)
	if err != nil {
		return "", false
	}
	return v, true
}
