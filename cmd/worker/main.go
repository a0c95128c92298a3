package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/yatraworks/yatra/config"
	"github.com/yatraworks/yatra/internal/cache"
	"github.com/yatraworks/yatra/internal/email"
	"github.com/yatraworks/yatra/internal/kafka"
	"github.com/yatraworks/yatra/internal/repository"
	"github.com/yatraworks/yatra/internal/service/booking"
)

// The worker consumes two topics: payment results, which it applies to
// bookings through the booking service, and booking notifications, which it
// hands to the email sender.
func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "yatra-worker").Logger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
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
	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		log.With().Str("component", "booking_service").Logger(),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	payments := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.PaymentEventsTopic)
	defer payments.Close()

	notifications := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer notifications.Close()

	emailSender := email.NewSender(log.With().Str("component", "email").Logger())

	go func() {
		err := payments.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.PaymentEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Error().Err(err).Msg("decode payment event")
				return nil
			}
			if _, err := bookingService.ApplyPaymentResult(ctx, event); err != nil {
				log.Error().Err(err).Str("booking_id", event.BookingID).Msg("apply payment result")
			}
			return nil
		})
		if err != nil {
			log.Error().Err(err).Msg("payment consumer stopped")
		}
	}()

	go func() {
		err := notifications.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Error().Err(err).Msg("decode booking event")
				return nil
			}
			return emailSender.Send(ctx, event)
		})
		if err != nil {
			log.Error().Err(err).Msg("notification consumer stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
}
