package main

import (
	"context"
	"time"

	"hearth/internal/bookings/admission"
	"hearth/internal/bookings/events"
	"hearth/internal/bookings/handler"
	"hearth/internal/bookings/repository"
	"hearth/internal/bookings/service"
	"hearth/internal/bookings/validator"
	"hearth/pkg/app"
	"hearth/pkg/config"
	"hearth/pkg/kafka"
	kafkaconfig "hearth/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	serverApp := app.NewApplication(cfg)
	bookingService := initServices(cfg, serverApp)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewSlotLockRepository(cfg)

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := lockRepo.EnsureIndexes(indexCtx); err != nil {
		cfg.Log.Fatal("Failed to create slot lock indexes", "error", err)
	}

	counterStore := admission.NewInMemoryCounterStore(cfg.RateLimitWindow, cfg.RateLimitWindow)
	admitter := admission.NewController(counterStore, cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.Log)
	serverApp.OnShutdown(counterStore.Stop)

	publisher := initPublisher(cfg, serverApp)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		admitter,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Booking events disabled, using noop publisher")
		return events.NewNoopPublisher()
	}

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Failed to load Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	publisher := events.NewKafkaPublisher(producer, ServiceName)
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka publisher", "error", err)
		}
	})

	cfg.Log.Info("Booking events enabled", "topic", cfg.BookingEventsTopic)
	return publisher
}
