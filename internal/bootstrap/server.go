package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yatraworks/yatra/api"
	"github.com/yatraworks/yatra/config"
	"github.com/yatraworks/yatra/internal/service/booking"
	"github.com/yatraworks/yatra/internal/service/contact"
	"github.com/yatraworks/yatra/internal/service/feedback"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Bookings booking.BookingUseCase
	Contacts contact.ContactUseCase
	Feedback feedback.FeedbackUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(cfg, svc, log),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info().Str("addr", cfg.HTTP.Address).Msg("http server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter wires middleware and the /api route groups.
func NewRouter(cfg *config.Config, svc Services, log zerolog.Logger) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger(log))
	router.Use(api.Authenticate(cfg.Auth.JWTSecret))

	root := router.Group("/api")
	root.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "Yatra API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api.NewBookingHandler(svc.Bookings, log.With().Str("handler", "bookings").Logger()).Register(root.Group("/bookings"))
	api.NewContactHandler(svc.Contacts, log.With().Str("handler", "contact").Logger()).Register(root.Group("/contact"))
	api.NewFeedbackHandler(svc.Feedback, log.With().Str("handler", "feedback").Logger()).Register(root.Group("/feedback"))

	return router
}
