package cmd

import (
	"context"
	"fmt"

	"venue-bot/internal/adaptor"
	"venue-bot/internal/data/repository"
	"venue-bot/internal/notify"
	"venue-bot/internal/usecase"
	"venue-bot/internal/wire"
	"venue-bot/pkg/broker"
	"venue-bot/pkg/database"
	"venue-bot/pkg/telegram"
	"venue-bot/pkg/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Run connects every collaborator and serves the bot, the operator API and
// the reminder worker until ctx is done.
func Run(ctx context.Context, config *utils.Config, logger *zap.Logger) error {
	// Connect to database
	db, err := database.InitDB(ctx, config.Database, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("Database connected successfully")

	// Sessions live in Redis when it is configured
	var sessions repository.SessionRepository
	rdb, err := database.InitRedis(ctx, config.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close()
		sessions = repository.NewRedisSessionRepository(rdb, logger)
		logger.Info("Redis session store enabled", zap.String("addr", config.Redis.Addr))
	} else {
		logger.Warn("REDIS_ADDR is empty, sessions are kept in memory")
	}

	repos := repository.NewRepository(db, sessions, logger)

	// amqp: destinations need a broker
	var publisher notify.Publisher
	if config.AMQP.URL != "" {
		mq, err := broker.ConnectRabbitMQ(config.AMQP.URL, logger)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		defer mq.Close()
		publisher = mq
	}

	client, err := telegram.NewClient(config.Telegram, logger)
	if err != nil {
		return fmt.Errorf("connect telegram: %w", err)
	}

	notifier := notify.NewBroadcaster(
		config.Notify.Destinations,
		notify.NewRouter(client, publisher),
		config.Notify.Parallelism,
		logger,
	)

	venue, err := utils.LoadVenue(config.Venue.File)
	if err != nil {
		return fmt.Errorf("load venue: %w", err)
	}

	var (
		queue  usecase.Enqueuer
		worker *asynq.Server
	)
	if config.Reminder.Enabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Reminder.QueueDB,
		}
		asynqClient := asynq.NewClient(redisOpt)
		defer asynqClient.Close()
		queue = asynqClient

		worker = asynq.NewServer(redisOpt, asynq.Config{
			Concurrency: 2,
			Logger:      logger.With(zap.String("component", "asynq")).Sugar(),
		})
	}

	app := wire.Wiring(wire.Deps{
		Repo:      repos,
		Notifier:  notifier,
		Messenger: client,
		Queue:     queue,
		Venue:     venue,
	}, config, logger)

	dispatcher := adaptor.NewDispatcher(config.App.DispatchLanes, app.Handler.Bot.HandleUpdate, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return dispatcher.Run(ctx)
	})

	g.Go(func() error {
		client.Start(ctx, dispatcher.Submit)
		return nil
	})

	g.Go(func() error {
		return APIServer(ctx, app.Router, config.App.Port, logger)
	})

	if worker != nil {
		g.Go(func() error {
			mux := asynq.NewServeMux()
			mux.HandleFunc(usecase.TypeBookingReminder, app.Service.Reminder.HandleTask)
			if err := worker.Start(mux); err != nil {
				return fmt.Errorf("start reminder worker: %w", err)
			}
			logger.Info("Reminder worker started", zap.Duration("delay", config.Reminder.Delay))

			<-ctx.Done()
			worker.Shutdown()
			return nil
		})
	}

	return g.Wait()
}
