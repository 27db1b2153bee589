package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"newsdash/api"
	"newsdash/orchestrator"
	"newsdash/shared/kafka"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API, the fetch scheduler and the fetch triggers",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	guard, err := a.guard(ctx)
	if err != nil {
		return err
	}

	sched := orchestrator.New(a.ingester,
		orchestrator.WithGuard(guard),
		orchestrator.WithSchedule(a.cfg.Fetch.Schedule),
		orchestrator.WithStartupDelay(a.cfg.Fetch.StartupDelay),
		orchestrator.WithLogger(a.logger),
	)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	if len(a.cfg.Kafka.Brokers) > 0 && a.cfg.Kafka.TriggerTopic != "" {
		if err := startTriggerConsumer(ctx, a, sched); err != nil {
			return err
		}
	}

	router := api.NewRouter(api.Deps{
		Store:     a.store,
		Runner:    sched,
		Auth:      a.cfg.Auth,
		PublicDir: a.cfg.PublicDir,
		Logger:    a.logger,
	})
	srv := &http.Server{Addr: ":" + a.cfg.Port, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting API server", "addr", srv.Addr, "auth", a.cfg.Auth.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	a.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startTriggerConsumer runs a fetch for every fetch request on the trigger topic.
// Requests arriving while a run is in flight are dropped.
func startTriggerConsumer(ctx context.Context, a *app, sched *orchestrator.Scheduler) error {
	handler := kafka.NewFetchRequestHandler(func(ctx context.Context, req *kafka.FetchRequest) error {
		a.logger.Info("Fetch requested over Kafka", "requested_by", req.RequestedBy)
		_, err := sched.Trigger(ctx, orchestrator.TriggerKafka)
		if errors.Is(err, orchestrator.ErrRunInProgress) {
			a.logger.Info("Fetch request dropped: run in progress")
			return nil
		}
		return err
	})

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: a.cfg.Kafka.Brokers,
		Topic:   a.cfg.Kafka.TriggerTopic,
		GroupID: a.cfg.Kafka.GroupID,
		Handler: handler,
		Logger:  a.logger,
	})
	if err != nil {
		return err
	}
	a.closers = append(a.closers, consumer.Close)

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("Kafka consumer failed to start", "error", err)
		}
	}()
	return nil
}
