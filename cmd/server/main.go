// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"emarge/internal/attendance"
	"emarge/internal/checkin"
	"emarge/internal/event"
	eventhandler "emarge/internal/event/handler"
	jwttoken "emarge/internal/jwt_token"
	"emarge/internal/notification"
	notificationhandler "emarge/internal/notification/handler"
	"emarge/internal/notification/publisher"
	"emarge/internal/participant"
	"emarge/internal/platform/config"
	"emarge/internal/platform/httpserver"
	"emarge/internal/platform/logger"
	"emarge/internal/platform/metrics"
	"emarge/internal/platform/redis"
	"emarge/internal/submission"
	submissionhandler "emarge/internal/submission/handler"
	httptransport "emarge/internal/transport/http"
	"emarge/pkg/platform/tx"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	db, err := sql.Open("postgres", cfg.Postgres.URL)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	if err := db.Ping(); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Notification fan-out, with an optional Kafka mirror.
	dispatcherOpts := []notification.Option{notification.WithMetrics(m)}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub, err := publisher.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaPub.Close()
		dispatcherOpts = append(dispatcherOpts, notification.WithPublisher(kafkaPub))
		log.Info("notification mirror enabled", "topic", cfg.Kafka.Topic)
	}
	dispatcher := notification.NewDispatcher(notification.NewPostgresStore(db), log, dispatcherOpts...)

	checkinOpts := []checkin.ServiceOption{}
	if redisClient != nil {
		checkinOpts = append(checkinOpts, checkin.WithCache(
			checkin.NewRedisCache(redisClient.Client, cfg.Checkin.CacheTTL),
		))
		log.Info("check-in token cache enabled")
	}

	eventStore := event.NewPostgresStore(db)
	participantStore := participant.NewPostgresStore(db)

	checkinSvc := checkin.NewService(checkin.NewPostgresStore(db), eventStore, log, checkinOpts...)
	attendanceSvc := attendance.NewService(attendance.NewPostgresStore(db), dispatcher)
	submissionSvc := submission.NewService(
		checkinSvc,
		participant.NewService(participantStore, log, m),
		attendanceSvc,
		participantStore,
		tx.NewSQLRunner(db),
		log,
		m,
	)

	jwtService := jwttoken.NewService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)

	router := httptransport.NewRouter(httptransport.Deps{
		Submission:   submissionhandler.New(submissionSvc, log),
		Notification: notificationhandler.New(dispatcher, log),
		Event: eventhandler.New(
			event.NewService(eventStore, dispatcher),
			checkinSvc,
			attendanceSvc,
			cfg.Checkin.DefaultTokenTTL,
			log,
		),
		JWTValidator:   jwttoken.NewMiddlewareAdapter(jwtService),
		Logger:         log,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := httpserver.New(cfg.Server, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(ctx)
	})
	g.Go(func() error {
		log.Info("starting emarge", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
