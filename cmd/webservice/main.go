package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Abdulkaium775/product-recommendation-service/config"
	"github.com/Abdulkaium775/product-recommendation-service/internal/controller"
	"github.com/Abdulkaium775/product-recommendation-service/internal/infrastructure/database/mongodb"
	kafkainfra "github.com/Abdulkaium775/product-recommendation-service/internal/infrastructure/message-queue/kafka"
	"github.com/Abdulkaium775/product-recommendation-service/internal/infrastructure/tracing"
	appmiddleware "github.com/Abdulkaium775/product-recommendation-service/internal/middleware"
	"github.com/Abdulkaium775/product-recommendation-service/internal/repository"
	"github.com/Abdulkaium775/product-recommendation-service/internal/service"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	segmentio "github.com/segmentio/kafka-go"
)

func main() {
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	config := config.CreateNewConfig()

	db, err := mongodb.ConnectToMongoDB(config.MongoURI(), config.MongoDBConfig.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	defer db.Client().Disconnect(context.Background())

	var kafkaProducer *segmentio.Conn
	if config.KafkaConfig.BrokerAddress != "" {
		kafkaProducer, err = kafkainfra.CreateKafkaProducer(config)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to Kafka broker, event publishing disabled")
		}
	}

	e := echo.New()

	traceProvider, err := tracing.InitTracing(config.TracingConfig.CollectorHost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize tracing")
	}

	if traceProvider != nil {
		defer func() {
			if err := traceProvider.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown tracing")
			}
		}()

		tracer := traceProvider.Tracer("product-recommendation-service")

		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				// span creation and naming
				ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
				defer span.End()

				// add the context to the request
				req := c.Request()
				c.SetRequest(req.WithContext(ctx))

				return next(c)
			}
		})
	}

	e.Use(middleware.CORS())
	e.Use(echoprometheus.NewMiddleware(""))
	e.Use(appmiddleware.Logger)

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	mongoDBRepo := repository.CreateNewMongoDBRepository(db)
	svc := service.CreateCatalogService(mongoDBRepo, *config, kafkaProducer)
	controller.CreateCatalogController(e, svc)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(
			time.Duration(config.ReconcileInterval)*time.Second,
		),
		gocron.NewTask(
			func() {
				svc.ReconcileRecommendationCounts(context.Background())
			},
		),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule recommendation count reconciliation")
	}

	scheduler.Start()
	defer scheduler.Shutdown()

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", config.ServicePort)))
}
