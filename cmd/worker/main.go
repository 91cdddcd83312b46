package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ghuser/steritrack/pkg/app"
	"github.com/ghuser/steritrack/pkg/cache"
	"github.com/ghuser/steritrack/pkg/config"
	"github.com/ghuser/steritrack/pkg/database"
	"github.com/ghuser/steritrack/pkg/events"
	"github.com/ghuser/steritrack/pkg/logger"
	"github.com/ghuser/steritrack/pkg/telemetry"
	trackingEvents "github.com/ghuser/steritrack/services/tracking/domain/events"
)

// auditActionsTotal counts audit trail appends by action, fed from the
// tracking.audit.appended topic.
var auditActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "steritrack_audit_actions_total",
	Help: "Audit records appended, by action.",
}, []string{"action"})

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.TrackingDatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	//temporalClient, err := workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
	//if err != nil {
	//	log.Error("failed to initialize temporal client", "error", err)
	//	os.Exit(1) //nolint:gocritic
	//}
	//defer temporalClient.Close()

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
		//TemporalClient: temporalClient,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	// Expose worker metrics for scraping.
	metricsSrv := &http.Server{Addr: ":9090", Handler: metricsHandler}
	go func() {
		log.Info("metrics listening", "addr", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	_ = metricsSrv.Close()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	topics := map[string]func(context.Context, *message.Message) error{
		trackingEvents.TopicItemChanged:   handleItemChanged(a),
		trackingEvents.TopicAuditAppended: handleAuditAppended(a),
	}

	var registered []string
	for topic, handler := range topics {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}
		topic := topic
		// Drain subscriber errors in background so the channel never blocks.
		go func() {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}()
		registered = append(registered, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", registered)
	return nil
}

// handleItemChanged returns a handler for tracking.item.changed events.
// Handlers must be idempotent; the EventBus retries up to 3x on failure.
// Warms the Redis read-model cache so subsequent item reads are served from cache.
func handleItemChanged(a *app.Application) func(context.Context, *message.Message) error {
	itemCache := cache.NewItemCache(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt trackingEvents.ItemChangedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		if err := itemCache.Set(ctx, &cache.CachedItem{
			ID:            evt.ItemID,
			CompanyPrefix: evt.CompanyPrefix,
			TypeCode:      evt.TypeCode,
			Serial:        evt.Serial,
			Name:          evt.Name,
			Status:        evt.Status,
			Location:      evt.Location,
			UpdatedAt:     evt.OccurredAt,
		}); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "cache warm failed for item change",
				"item_id", evt.ItemID, "error", err)
		} else {
			a.Logger.InfoContext(ctx, "cache warmed",
				"item_id", evt.ItemID, "status", evt.Status, "location", evt.Location)
		}

		return nil
	}
}

// handleAuditAppended returns a handler for tracking.audit.appended events.
// Feeds the per-action audit counter.
func handleAuditAppended(a *app.Application) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt trackingEvents.AuditAppendedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		auditActionsTotal.WithLabelValues(evt.Action).Inc()
		a.Logger.DebugContext(ctx, "audit record observed",
			"item_id", evt.ItemID, "action", evt.Action)
		return nil
	}
}
