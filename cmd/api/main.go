package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hotelbook/hotel-api/internal/config"
	"github.com/hotelbook/hotel-api/internal/domain/auth"
	"github.com/hotelbook/hotel-api/internal/domain/booking"
	"github.com/hotelbook/hotel-api/internal/domain/realtime"
	"github.com/hotelbook/hotel-api/internal/domain/room"
	"github.com/hotelbook/hotel-api/internal/domain/user"
	"github.com/hotelbook/hotel-api/internal/middleware"
	"github.com/hotelbook/hotel-api/internal/pkg/database"
	"github.com/hotelbook/hotel-api/internal/pkg/events"
	"github.com/hotelbook/hotel-api/internal/pkg/imaging"
	"github.com/hotelbook/hotel-api/internal/pkg/jwt"
	"github.com/hotelbook/hotel-api/internal/pkg/logger"
	pkgresponse "github.com/hotelbook/hotel-api/internal/pkg/response"
	"github.com/hotelbook/hotel-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("timezone", cfg.HotelTimezone).
		Msg("Starting hotel booking API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, room cache and cross-instance notifications disabled")
		redisClient = nil
	}
	defer database.CloseRedis(redisClient)

	publisher, err := events.NewPublisher(cfg.AMQPURL)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable, booking events will not be published")
		publisher = nil
	}
	defer publisher.Close()

	var fileStorage storage.Storage
	var uploadDir string
	if cfg.S3Enabled() {
		s3Storage, err := storage.NewS3Storage(context.Background(), storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		fileStorage = s3Storage
	} else {
		localStorage, err := storage.NewLocalStorage(cfg.UploadDir, cfg.UploadBaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize local storage")
		}
		fileStorage = localStorage
		uploadDir = localStorage.BasePath()
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// Repositories
	userRepo := user.NewRepository(db)
	roomRepo := room.NewCachedRepository(room.NewRepository(db), redisClient, cfg.RoomCacheTTL)
	bookingRepo := booking.NewRepository(db)

	// Realtime
	hub := realtime.NewHub(redisClient)
	go hub.Run()

	// Services
	roomService := room.NewService(roomRepo)
	bookingService := booking.NewService(
		bookingRepo,
		roomService,
		&guestDirectory{repo: userRepo},
		&bookingEventFanout{publisher: publisher, hub: hub},
		booking.Config{
			Location:            cfg.Location(),
			DefaultCheckInTime:  cfg.DefaultCheckInTime,
			DefaultCheckOutTime: cfg.DefaultCheckOutTime,
		},
	)
	userService := user.NewService(userRepo, fileStorage, imaging.NewProcessor(imaging.DefaultConfig()))
	authService := auth.NewService(userRepo, jwtService)

	r := newRouter(cfg, jwtService, handlers{
		auth:      auth.NewHandler(authService),
		room:      room.NewHandler(roomService),
		booking:   booking.NewHandler(bookingService),
		user:      user.NewHandler(userService),
		realtime:  realtime.NewHandler(hub, cfg.AllowedOrigins),
		uploadDir: uploadDir,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub.Shutdown()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

type handlers struct {
	auth     *auth.Handler
	room     *room.Handler
	booking  *booking.Handler
	user     *user.Handler
	realtime *realtime.Handler

	// uploadDir is served under /uploads when pictures are stored locally
	uploadDir string
}

func newRouter(cfg *config.Config, jwtService *jwt.Service, h handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	authMiddleware := middleware.Auth(jwtService)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{"status": "ok"})
	})

	if h.uploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.uploadDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", h.auth.Routes())
		r.Mount("/rooms", h.room.Routes(authMiddleware))
		r.Mount("/bookings", h.booking.Routes(authMiddleware))
		r.Mount("/users", h.user.Routes(authMiddleware))
	})

	r.Mount("/ws", h.realtime.Routes(authMiddleware))

	return r
}

// guestDirectory adapts user.Repository to booking.GuestDirectory
type guestDirectory struct {
	repo user.Repository
}

func (g *guestDirectory) GetGuest(ctx context.Context, id uuid.UUID) (*booking.Guest, error) {
	u, err := g.repo.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	return &booking.Guest{ID: u.ID, Username: u.Username, Email: u.Email}, nil
}

// bookingEventFanout sends booking events to RabbitMQ and to the
// WebSocket sessions of the owner and the admins
type bookingEventFanout struct {
	publisher *events.Publisher
	hub       *realtime.Hub
}

func (f *bookingEventFanout) Publish(ctx context.Context, evt booking.Event) error {
	if err := f.hub.Notify(evt.UserID, &realtime.Message{Type: string(evt.Type), Data: evt}); err != nil {
		log.Warn().Err(err).Str("event", string(evt.Type)).Msg("Failed to push booking event")
	}
	return f.publisher.Publish(ctx, string(evt.Type), evt)
}
