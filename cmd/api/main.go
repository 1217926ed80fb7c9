package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mentorhub/internal/config"
	"mentorhub/internal/database"
	"mentorhub/internal/middleware"
	"mentorhub/internal/modules/auth"
	"mentorhub/internal/modules/availability"
	"mentorhub/internal/modules/booking"
	"mentorhub/internal/modules/confirmation"
	"mentorhub/internal/modules/events"
	"mentorhub/internal/modules/mentor"
	"mentorhub/internal/modules/payment"
	jwtsvc "mentorhub/internal/pkg/jwt"
	"mentorhub/internal/pkg/logger"
	"mentorhub/internal/pkg/mailer"
	"mentorhub/internal/pkg/zoom"
	"mentorhub/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog := logger.New(cfg.AppEnv)
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("database migration failed", zap.Error(err))
	}

	rdb := newRedisClient(cfg.RedisAddr, zlog)

	userRepo := repository.NewUserRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	mail := mailer.New(cfg.SMTP, zlog)
	if cfg.SMTP.Configured() {
		if err := mail.Healthcheck(); err != nil {
			zlog.Warn("smtp healthcheck failed, confirmation emails may not go out", zap.Error(err))
		}
	} else {
		zlog.Warn("smtp not configured, confirmation emails disabled")
	}

	var meetings confirmation.MeetingProvider
	if cfg.Zoom.Configured() {
		meetings = zoom.NewClient(cfg.Zoom, cfg.Booking.Timezone.String(), zlog)
	} else {
		zlog.Warn("zoom not configured, bookings confirm without meeting links")
	}

	hub := events.NewHub()
	defer hub.Close()
	publisher := events.NewPublisher(hub, zlog)

	pipeline := confirmation.NewPipeline(meetings, mail, bookingRepo, cfg.Booking.Timezone, zlog)
	coordinator := payment.NewCoordinator(payment.NewRazorpayGateway(cfg.Razorpay), bookingRepo, pipeline, cfg.Razorpay, cfg.Booking, zlog)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	mentorService := mentor.NewService(userRepo, serviceRepo)
	mentorHandler := mentor.NewHandler(mentorService)

	availabilityService := availability.NewService(availabilityRepo, bookingRepo, userRepo, cfg.Booking)
	availabilityHandler := availability.NewHandler(availabilityService)

	bookingService := booking.NewService(bookingRepo, serviceRepo, coordinator, publisher, cfg.Booking, zlog)
	bookingHandler := booking.NewHandler(bookingService)

	eventsHandler := events.NewHandler(hub, j, zlog)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(zlog))
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(rdb, cfg.RatelimitRPM, zlog))

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		mentorHandler.RegisterPublicRoutes(v1)
		availabilityHandler.RegisterPublicRoutes(v1)
		eventsHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)

			mentorOnly := protected.Group("/mentor")
			mentorOnly.Use(middleware.MentorOnly())
			{
				mentorHandler.RegisterMentorRoutes(mentorOnly)
				availabilityHandler.RegisterMentorRoutes(mentorOnly)
			}
		}
	}

	zlog.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

// newRedisClient returns nil when Redis is absent; rate limiting then
// degrades to pass-through.
func newRedisClient(addr string, zlog *zap.Logger) *redis.Client {
	if addr == "" {
		zlog.Warn("REDIS_ADDR not set, rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zlog.Warn("redis unreachable, rate limiting disabled", zap.Error(err))
		return nil
	}
	return client
}
