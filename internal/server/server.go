package server

import (
	"backend-roadcover/internal/auth"
	"backend-roadcover/internal/config"
	"backend-roadcover/internal/coverage"
	"backend-roadcover/internal/export"
	"backend-roadcover/internal/history"
	"backend-roadcover/internal/network"
	"backend-roadcover/internal/recording"
	"backend-roadcover/internal/stats"
	"backend-roadcover/internal/stream"
	"backend-roadcover/internal/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	Index  *network.Index
	Store  *coverage.Store
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, index *network.Index, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		Index:  index,
		Store:  coverage.NewStore(index),
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	// Durable sinks stay nil without a database; the in-memory store still
	// serves every route.
	var markSink coverage.MarkSink
	var passSink tracking.PassSink
	var recordings stats.RecordingSource
	if s.DB != nil {
		repo := history.NewRepository(s.DB)
		markSink = repo
		passSink = repo

		recordingSvc := recording.NewService(s.DB)
		recordings = recordingSvc

		history.RegisterRoutes(s.App.Group("/history"), repo)
		recording.RegisterRoutes(s.App.Group("/recordings"), recordingSvc, jwtMiddleware)
	}

	threshold := s.Cfg.MatchThresholdM
	if threshold <= 0 {
		threshold = 10
	}

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.Cfg.OperatorUser, s.Cfg.OperatorPasswordHash))
	network.RegisterRoutes(s.App.Group("/network"), s.Index)
	coverage.RegisterRoutes(s.App.Group("/coverage"), s.Store, markSink, jwtMiddleware)
	tracking.RegisterRoutes(s.App.Group("/tracking"), tracking.NewService(s.Index, s.Store, passSink, s.Stream, threshold), jwtMiddleware)
	stats.RegisterRoutes(s.App.Group("/stats"), stats.NewService(s.Store, recordings))
	export.RegisterRoutes(s.App.Group("/export"), s.Store, s.Index)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
