package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/travelstay/bookings/internal/http/handlers"
	httpmw "github.com/travelstay/bookings/internal/http/middleware"
	"github.com/travelstay/bookings/internal/notify"
	"github.com/travelstay/bookings/internal/repository"
	"github.com/travelstay/bookings/internal/service"
	"github.com/travelstay/bookings/pkg/cache"
	"github.com/travelstay/bookings/pkg/config"
	"github.com/travelstay/bookings/pkg/database"
	"github.com/travelstay/bookings/pkg/events"
	"github.com/travelstay/bookings/pkg/logger"
	mw "github.com/travelstay/bookings/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	idemStore, err := cache.NewRedisStore(cfg.Redis.URL)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer idemStore.Close()

	// Repositories
	listingRepo := repository.NewListingRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	// Services
	listingService := service.NewListingService(listingRepo, reviewRepo)
	bookingService := service.NewBookingService(bookingRepo, listingRepo, userRepo, eventBus)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo, listingRepo)
	paymentService := service.NewPaymentService(paymentRepo, bookingRepo, eventBus)
	statsService := service.NewStatsService(statsRepo)

	// Notification dispatcher consumes booking events off the bus;
	// delivery never feeds back into request handling.
	dispatcher := notify.NewDispatcher(cfg.Email, eventBus)
	if err := dispatcher.Start(); err != nil {
		logger.Error("Failed to start notification dispatcher", "error", err)
		os.Exit(1)
	}

	h := handlers.New(listingService, bookingService, reviewService, paymentService, statsService, userRepo)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	requireAuth := httpmw.RequireAuth(cfg.Auth.JWTSecret)

	r.Route("/listings", func(r chi.Router) {
		r.Get("/", h.ListListings)
		r.Get("/{id}", h.GetListing)
		r.With(requireAuth).Post("/", h.CreateListing)
		r.With(requireAuth).Patch("/{id}", h.UpdateListingPrice)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(mw.Idempotency(idemStore)).Post("/", h.CreateBooking)
		r.Get("/", h.ListBookings)
		r.Get("/{id}", h.GetBooking)
		r.Post("/{id}/cancel", h.CancelBooking)
		r.Post("/{id}/confirm", h.ConfirmBooking)
		r.Post("/{id}/complete", h.CompleteBooking)
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.ListReviews)
		r.With(requireAuth).Post("/", h.CreateReview)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", h.CreatePayment)
		r.Get("/", h.ListPayments)
		r.Get("/{id}", h.GetPayment)
		r.Post("/{id}/complete", h.CompletePayment)
	})

	r.With(requireAuth).Get("/stats", h.GetStats)
	r.With(requireAuth).Get("/users/me", h.Me)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting API server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down API server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}
