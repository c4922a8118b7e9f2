package handlers

import "github.com/prometheus/client_golang/prometheus"

var (
	playerSelections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rhythmflow_player_selections_total",
			Help: "Songs loaded into the player bar",
		},
	)
	songLikes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rhythmflow_song_likes_total",
			Help: "Like/unlike toggles by action",
		},
		[]string{"action"},
	)
)

func init() {
	prometheus.MustRegister(playerSelections, songLikes)
}
