package worker

import (
	"context"
	"time"

	"vehiclecare/config"
	"vehiclecare/services/notification"
	"vehiclecare/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const maxStartAttempts = 5

// RedisOpt returns the asynq connection for the notification queue.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NotificationWorker consumes notification tasks and hands them to a sink.
type NotificationWorker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewNotificationWorker(opt asynq.RedisConnOpt, sink notification.Sink, concurrency int, logger *zap.Logger) *NotificationWorker {
	if concurrency <= 0 {
		concurrency = 10
	}
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			"default": 1,
		},
		Logger:   logger.Sugar(),
		LogLevel: asynq.WarnLevel,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Warn("notification delivery failed",
				zap.String("type", task.Type()),
				zap.Int("retried", retried),
				zap.Int("maxRetry", maxRetry),
				zap.Error(err))
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDeliverNotification, notification.NewDeliveryHandler(sink, logger))

	return &NotificationWorker{server: srv, mux: mux, logger: logger}
}

// Start launches the worker in the background, retrying with backoff while redis is
// unreachable, and monitors the connection until ctx is done.
func (w *NotificationWorker) Start(ctx context.Context) {
	go func() {
		w.logger.Info("starting notification worker")
		for attempts := 1; attempts <= maxStartAttempts; attempts++ {
			err := w.server.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("failed to start notification worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxStartAttempts), zap.Error(err))
			if attempts == maxStartAttempts {
				w.logger.Error("giving up on notification worker; queued events stay in redis")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	go w.monitorRedisConnection(ctx)
}

// Shutdown waits for in-flight deliveries and stops the worker.
func (w *NotificationWorker) Shutdown() {
	w.server.Shutdown()
}

// monitorRedisConnection pings the queue redis periodically to detect failures at runtime.
func (w *NotificationWorker) monitorRedisConnection(ctx context.Context) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				w.logger.Warn("notification queue redis unreachable", zap.Error(err))
			}
		}
	}
}
