// cmd/inbox-processor/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"support-inbox/internal/common/aws"
	"support-inbox/internal/common/config"
	"support-inbox/internal/common/database"
	"support-inbox/internal/common/gmail"
	"support-inbox/internal/common/logger"
	"support-inbox/internal/common/observability"
	"support-inbox/internal/common/shopify"
	"support-inbox/internal/genai"
	"support-inbox/internal/models"
	"support-inbox/internal/support/escalation"
	"support-inbox/internal/support/evidence"
	"support-inbox/internal/support/notify"
	"support-inbox/internal/support/processor"
	"support-inbox/internal/support/responder"
	"support-inbox/internal/support/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting inbox processor...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("inbox-processor")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init External Service Clients ---
	mailbox := gmail.NewClient(cfg.Gmail, log)
	orders := shopify.NewClient(cfg.Shopify, redis.Client, log)

	genaiClient, err := genai.NewClient(&genai.Config{
		BaseURL:     cfg.GenAI.BaseURL,
		APIKey:      cfg.GenAI.APIKey,
		Model:       cfg.GenAI.Model,
		MaxTokens:   cfg.GenAI.MaxTokens,
		Temperature: cfg.GenAI.Temperature,
		Timeout:     time.Duration(cfg.GenAI.Timeout) * time.Millisecond,
	}, log)
	if err != nil {
		zapLog.Fatal("genai client failed", zap.Error(err))
	}

	var sesClient *aws.SESClient
	var snsClient *aws.SNSClient
	if cfg.Notifications.Email.Enabled {
		sesClient, err = aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
	}
	if cfg.Notifications.SMS.Enabled {
		snsClient, err = aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
	}

	zapLog.Info("All external service clients initialized")

	// --- Assemble the pipeline ---
	respConfig := responder.DefaultConfig()
	respConfig.MaxTokens = cfg.GenAI.MaxTokens
	respConfig.Temperature = cfg.GenAI.Temperature
	respConfig.ConfidenceThreshold = cfg.Escalation.ConfidenceThreshold

	resp := responder.New(respConfig, genaiClient, log)

	policy := escalation.Policy{
		ValidationThreshold: cfg.Escalation.ValidationThreshold,
		AutoSendFallback:    cfg.Escalation.AutoSendFallback,
	}

	proc := processor.New(
		mailbox,
		orders,
		evidence.NewStore(esClient.Client, cfg.Database.Elasticsearch.ResponseIndex, log),
		store.NewConversationStore(pg.DB, log),
		store.NewDedupGuard(redis.Client, time.Duration(cfg.Processor.DedupTTL)*time.Second),
		notify.New(cfg.Notifications, sesClient, snsClient, log),
		resp,
		policy,
		obs,
		log,
	)

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Poll Loop ---
	pollInterval := time.Duration(cfg.Processor.PollInterval) * time.Second
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	zapLog.Info("Inbox processor started",
		zap.Duration("pollInterval", pollInterval),
		zap.Int("workers", cfg.Processor.Workers),
		zap.Int("batchSize", cfg.Processor.BatchSize),
	)

	runBatch(ctx, mailbox, proc, cfg.Processor, log)
	for {
		select {
		case <-ctx.Done():
			zapLog.Info("Shutdown signal received, stopping inbox processor...")
			zapLog.Info("Inbox processor stopped gracefully")
			return
		case <-ticker.C:
			runBatch(ctx, mailbox, proc, cfg.Processor, log)
		}
	}
}

// runBatch lists unread messages and fans them out to a bounded worker pool.
func runBatch(ctx context.Context, mailbox *gmail.Client, proc *processor.Processor, cfg config.ProcessorConfig, log logger.Logger) {
	messages, err := mailbox.ListUnread(ctx, cfg.BatchSize)
	if err != nil {
		log.Error("listing unread messages failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if len(messages) == 0 {
		return
	}

	log.Info("processing batch", map[string]interface{}{
		"count": len(messages),
	})

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := range messages {
		msg := messages[i]
		wg.Add(1)
		sem <- struct{}{}
		go func(m models.Message) {
			defer wg.Done()
			defer func() { <-sem }()
			if _, err := proc.ProcessMessage(ctx, &m); err != nil {
				log.Error("message processing failed", map[string]interface{}{
					"messageId": m.ID,
					"error":     err.Error(),
				})
			}
		}(msg)
	}
	wg.Wait()
}
