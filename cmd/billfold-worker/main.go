package main

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"billfold/internal/amqp"
	"billfold/internal/cli"
	"billfold/internal/core"
	"billfold/internal/log"
	"billfold/internal/services"
	"billfold/internal/worker"
)

// The worker keeps the current month and a configurable number of
// upcoming months generated, re-running the sync on an interval so
// template changes show up without anyone asking for the month first.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting billfold-worker",
		"interval", cfg.SyncInterval,
		"months_ahead", cfg.SyncMonthsAhead)

	be := cli.InitBackend(logger, cfg)
	amqpClient := cli.InitAMQP(logger, cfg)

	var events services.EventPublisher
	if amqpClient != nil {
		events = amqpClient
	}
	svc := services.NewBudgetService(be.Backend, events)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if amqpClient != nil {
			amqpClient.Close()
		}
		if err := be.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	})

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	// When notifications are on, also consume them and keep JSON
	// snapshots of every changed month on disk.
	if amqpClient != nil && cfg.ExportDirectory != "" {
		exporter := worker.NewExportWorker(be.Backend, cfg.ExportDirectory)
		go func() {
			err := amqpClient.ConsumeMonthSync(ctx, func(msg *amqp.MonthSyncMessage) error {
				return exporter.HandleSyncMessage(ctx, msg)
			})
			if err != nil && ctx.Err() == nil {
				logger.Error("Snapshot consumer stopped", log.FieldError, err)
			}
		}()
	}

	// Run once on startup so a fresh deployment has its months.
	syncUpcoming(ctx, logger, svc, cfg.SyncMonthsAhead)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				syncUpcoming(ctx, logger, svc, cfg.SyncMonthsAhead)
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
}

// syncUpcoming generates the current month plus monthsAhead future months.
// Months are independent records, so they sync concurrently.
func syncUpcoming(ctx context.Context, logger *log.Logger, svc *services.BudgetService, monthsAhead int) {
	start := time.Now()
	month := core.MonthOf(start)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i <= monthsAhead; i++ {
		m := month
		g.Go(func() error {
			if _, err := svc.GenerateOrSyncMonth(gctx, m); err != nil {
				logger.ErrorContext(gctx, "Month sync failed",
					log.FieldMonth, m.String(),
					log.FieldError, err)
				return err
			}
			return nil
		})
		month = month.Next()
	}

	if err := g.Wait(); err != nil {
		logger.ErrorContext(ctx, "Sync pass finished with errors",
			log.FieldError, err,
			log.FieldDuration, time.Since(start).Milliseconds())
		return
	}
	logger.InfoContext(ctx, "Sync pass complete",
		"months", monthsAhead+1,
		log.FieldDuration, time.Since(start).Milliseconds())
}
