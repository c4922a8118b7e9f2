package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Niloy28/rhythmflow/internal/catalog"
	"github.com/Niloy28/rhythmflow/internal/config"
	database "github.com/Niloy28/rhythmflow/internal/db"
	"github.com/Niloy28/rhythmflow/internal/likes"
	"github.com/Niloy28/rhythmflow/internal/player"
	"github.com/Niloy28/rhythmflow/internal/storage"

	"github.com/Niloy28/rhythmflow/internal/api/handlers"
	"github.com/Niloy28/rhythmflow/internal/api/middleware"
)

type Server struct {
	cfg      *config.Config
	db       *database.Client
	storage  *storage.Client
	sessions *player.SessionManager
	router   *gin.Engine
}

func New(cfg *config.Config, db *database.Client, store *storage.Client) *Server {
	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode) // Set to Release for production
	}

	router := gin.New()
	router.Use(middleware.SilentLogger(), gin.Recovery())

	s := &Server{
		cfg:      cfg,
		db:       db,
		storage:  store,
		sessions: player.NewSessionManager(),
		router:   router,
	}

	middleware.JwtSecret = []byte(cfg.Auth.JWTSecret)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	// CORS Configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

	// "Authorization" must be allowed so the frontend can send the JWT
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	cookieMaxAge := s.cfg.Player.CookieMaxAge
	tokenTTL := time.Duration(s.cfg.Auth.TokenTTLHrs) * time.Hour

	likeSvc := likes.New(s.db.DB)
	cat := catalog.New(s.db.DB)
	admin := catalog.NewAdmin(s.db.DB, s.storage)

	authHandler := handlers.NewAuthHandler(s.db.DB, []byte(s.cfg.Auth.JWTSecret), tokenTTL)
	catalogHandler := handlers.NewCatalogHandler(cat, likeSvc, s.storage)
	playerHandler := handlers.NewPlayerHandler(s.sessions, cat, likeSvc, s.storage, cookieMaxAge)
	likeHandler := handlers.NewLikeHandler(s.sessions, likeSvc, cookieMaxAge)
	adminHandler := handlers.NewAdminHandler(admin)
	uploadHandler := handlers.NewUploadHandler(s.storage)

	// Health Check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "rhythmflow"})
	})

	// Local storage provider serves media straight off disk.
	if s.cfg.Storage.Provider == "local" {
		s.router.Static("/files", s.cfg.Storage.LocalRoot)
	}

	v1 := s.router.Group("/api/v1")
	{
		// ==========================================
		// PUBLIC ROUTES (No Token Required)
		// ==========================================
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		// Catalog browsing is public; liked flags light up when a token
		// happens to be present.
		browse := v1.Group("/")
		browse.Use(middleware.OptionalAuth())
		{
			browse.GET("/artists", catalogHandler.GetArtists)
			browse.GET("/artists/:id/songs", catalogHandler.GetArtistSongs)
			browse.GET("/albums", catalogHandler.GetAlbums)
			browse.GET("/albums/:id/songs", catalogHandler.GetAlbumSongs)
			browse.GET("/songs", catalogHandler.SearchSongs)
			browse.GET("/songs/:id/stream", playerHandler.StreamSong)

			// The player session rides on cookies, not the JWT.
			browse.GET("/player", playerHandler.GetState)
			browse.POST("/player/volume", playerHandler.SetVolume)
		}

		// ==========================================
		// PROTECTED ROUTES (JWT Token Required)
		// ==========================================
		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth())
		{
			protected.GET("/songs/liked", catalogHandler.GetLikedSongs)
			protected.POST("/player/select", playerHandler.Select)

			// Like toggles are cheap but write-heavy; cap the blast radius.
			likeRoutes := protected.Group("/")
			likeRoutes.Use(middleware.RateLimit(rate.Limit(5), 10))
			{
				likeRoutes.POST("/songs/:id/like", likeHandler.Like)
				likeRoutes.POST("/songs/:id/unlike", likeHandler.Unlike)
			}

			// --- ADMIN DASHBOARD (dev mode only) ---
			if s.cfg.Server.DevMode {
				adminRoutes := protected.Group("/admin")
				adminRoutes.Use(middleware.RequireRole("admin"))
				{
					adminRoutes.POST("/uploads/presign", uploadHandler.Presign)
					adminRoutes.POST("/uploads/analyze", uploadHandler.Analyze)
					adminRoutes.POST("/uploads/direct", uploadHandler.UploadDirect)
					adminRoutes.GET("/uploads/songs", uploadHandler.ListSongFiles)

					adminRoutes.POST("/artists", adminHandler.CreateArtist)
					adminRoutes.PUT("/artists/:id", adminHandler.UpdateArtist)
					adminRoutes.DELETE("/artists/:id", adminHandler.DeleteArtist)

					adminRoutes.POST("/albums", adminHandler.CreateAlbum)
					adminRoutes.PUT("/albums/:id", adminHandler.UpdateAlbum)
					adminRoutes.DELETE("/albums/:id", adminHandler.DeleteAlbum)

					adminRoutes.POST("/songs", adminHandler.CreateSong)
					adminRoutes.PUT("/songs/:id", adminHandler.UpdateSong)
					adminRoutes.DELETE("/songs/:id", adminHandler.DeleteSong)
				}
			}
		}
	}
}

// Router exposes the engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the server on the configured port
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
