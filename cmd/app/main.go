package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/yatraworks/yatra/config"
	"github.com/yatraworks/yatra/internal/bootstrap"
	"github.com/yatraworks/yatra/internal/cache"
	"github.com/yatraworks/yatra/internal/kafka"
	"github.com/yatraworks/yatra/internal/repository"
	"github.com/yatraworks/yatra/internal/service/booking"
	"github.com/yatraworks/yatra/internal/service/contact"
	"github.com/yatraworks/yatra/internal/service/feedback"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "yatra-api").Logger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.IsDevelopment() {
		log = log.Level(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	statsTTL := time.Duration(cfg.Cache.StatsTTLSeconds) * time.Second
	redisCache := cache.NewRedisCache(cfg.Redis, statsTTL)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	contactRepo := repository.NewContactRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		log.With().Str("component", "booking_service").Logger(),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	contactService := contact.NewContactService(contactRepo,
		log.With().Str("component", "contact_service").Logger())
	feedbackService := feedback.NewFeedbackService(feedbackRepo, bookingRepo, redisCache,
		log.With().Str("component", "feedback_service").Logger())

	services := bootstrap.Services{
		Bookings: bookingService,
		Contacts: contactService,
		Feedback: feedbackService,
	}

	if err := bootstrap.Run(ctx, cfg, services, log); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
