// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lending-workers/internal/common/aws"
	"lending-workers/internal/common/config"
	"lending-workers/internal/common/database"
	"lending-workers/internal/common/logger"
	"lending-workers/internal/common/observability"
	"lending-workers/internal/loan/decision"
	"lending-workers/internal/loan/engine"
	"lending-workers/internal/loan/extract"
	"lending-workers/internal/loan/llm"
	"lending-workers/internal/loan/session"
	"lending-workers/internal/loan/storage"

	// Conversation Workers (2)
	gg "lending-workers/internal/workers/conversation/generate-greeting"
	pct "lending-workers/internal/workers/conversation/process-chat-turn"

	// Decision Worker (1)
	cld "lending-workers/internal/workers/decision/compute-loan-decision"

	// Application Workers (2)
	pa "lending-workers/internal/workers/application/persist-application"
	sdn "lending-workers/internal/workers/application/send-decision-notification"
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

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry (optional, indexing is best effort) ---
	var esClient *database.ElasticsearchClient
	if len(cfg.Database.Elasticsearch.Addresses) > 0 {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			// Test the connection
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	} else {
		zapLog.Info("Elasticsearch not configured, decision indexing disabled")
	}

	// --- Init Session Store ---
	sessionTTL := config.GetDuration(cfg.Sessions.TTL)
	var sessionStore session.Store
	if cfg.Sessions.Backend == "redis" {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		sessionStore = session.NewRedisStore(redis.Client, sessionTTL)
	} else {
		memStore := session.NewMemoryStore(sessionTTL)
		memStore.StartJanitor(ctx, 5*time.Minute)
		sessionStore = memStore
		zapLog.Info("Using in-memory session store")
	}

	// --- Init External Service Clients ---
	llmClient := llm.NewClient(llm.Config{
		BaseURL:     cfg.APIs.LLM.BaseURL,
		APIKey:      cfg.APIs.LLM.APIKey,
		Model:       cfg.APIs.LLM.Model,
		Timeout:     config.GetDuration(cfg.APIs.LLM.Timeout),
		MaxTokens:   cfg.APIs.LLM.MaxTokens,
		Temperature: cfg.APIs.LLM.Temperature,
	})
	if !llmClient.Available() {
		zapLog.Info("LLM not configured, running in fallback-only extraction mode")
	}

	scorer := decision.NewHTTPScorer(cfg.APIs.Scoring.BaseURL, config.GetDuration(cfg.APIs.Scoring.Timeout))

	var sesClient *aws.SESClient
	if cfg.Notifications.Email.Enabled {
		sesClient, err = aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
	}

	var snsClient *aws.SNSClient
	if cfg.Notifications.SMS.Enabled {
		snsClient, err = aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
	}

	zapLog.Info("All external service clients initialized")

	// --- Assemble Conversation Engine ---
	repo := storage.NewPostgresRepository(pg.DB, log)

	var indexer *storage.DecisionIndexer
	if esClient != nil {
		indexer = storage.NewDecisionIndexer(esClient.Client, cfg.Database.Elasticsearch.Index, log)
	}

	controller := engine.NewController(
		sessionStore,
		extract.New(llmClient, log),
		decision.NewEngine(scorer, log),
		repo,
		llmClient,
		log,
	)

	// --- START: Register ALL 5 Workers ---

	// --- 1. Conversation Workers (2) ---
	ggLogAdapter := &generateGreetingLoggerAdapter{log}
	pctLogAdapter := &processChatTurnLoggerAdapter{log}

	if wcfg := config.GetWorkerConfig(cfg, gg.TaskType); wcfg.Enabled {
		handler := gg.NewHandler(
			&gg.Config{
				Timeout:       config.GetDuration(wcfg.Timeout),
				MaxJobsActive: wcfg.MaxJobsActive,
			},
			controller, ggLogAdapter,
		)
		startWorker(zeebeClient, gg.TaskType, wcfg, handler.Handle, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, pct.TaskType); wcfg.Enabled {
		handler := pct.NewHandler(
			&pct.Config{
				Timeout:       config.GetDuration(wcfg.Timeout),
				MaxJobsActive: wcfg.MaxJobsActive,
			},
			controller, pctLogAdapter,
		)
		startWorker(zeebeClient, pct.TaskType, wcfg, handler.Handle, zapLog)
	}

	// --- 2. Decision Worker (1) ---
	if wcfg := config.GetWorkerConfig(cfg, cld.TaskType); wcfg.Enabled {
		handler := cld.NewHandler(
			&cld.Config{
				Timeout:       config.GetDuration(wcfg.Timeout),
				MaxJobsActive: wcfg.MaxJobsActive,
			},
			decision.NewEngine(scorer, log),
			&computeLoanDecisionLoggerAdapter{log},
		)
		startWorker(zeebeClient, cld.TaskType, wcfg, handler.Handle, zapLog)
	}

	// --- 3. Application Workers (2) ---
	if wcfg := config.GetWorkerConfig(cfg, pa.TaskType); wcfg.Enabled {
		var paIndexer pa.Indexer
		if indexer != nil {
			paIndexer = indexer
		}
		handler := pa.NewHandler(
			&pa.Config{
				Timeout:       config.GetDuration(wcfg.Timeout),
				MaxJobsActive: wcfg.MaxJobsActive,
			},
			repo, paIndexer,
			&persistApplicationLoggerAdapter{log},
		)
		startWorker(zeebeClient, pa.TaskType, wcfg, handler.Handle, zapLog)
	}

	if wcfg := config.GetWorkerConfig(cfg, sdn.TaskType); wcfg.Enabled {
		var emailAPI sdn.EmailAPI
		if sesClient != nil {
			emailAPI = sesClient
		}
		var smsAPI sdn.SMSAPI
		if snsClient != nil {
			smsAPI = snsClient
		}
		handler := sdn.NewHandler(
			&sdn.Config{
				Timeout:         config.GetDuration(wcfg.Timeout),
				MaxJobsActive:   wcfg.MaxJobsActive,
				EmailEnabled:    cfg.Notifications.Email.Enabled,
				FromEmail:       cfg.Notifications.Email.FromEmail,
				SMSEnabled:      cfg.Notifications.SMS.Enabled,
				SMSApprovedOnly: cfg.Notifications.SMS.ApprovedOnly,
				SMSSenderID:     cfg.Notifications.SMS.SMSSenderID,
			},
			emailAPI, smsAPI,
			&sendDecisionNotificationLoggerAdapter{log},
		)
		startWorker(zeebeClient, sdn.TaskType, wcfg, handler.Handle, zapLog)
	}

	zapLog.Info("All 5 workers registered successfully")

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
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	cancel()

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// Logger adapters for workers that declare their own Logger interfaces
type generateGreetingLoggerAdapter struct {
	logger.Logger
}

func (a *generateGreetingLoggerAdapter) With(fields map[string]interface{}) gg.Logger {
	return &generateGreetingLoggerAdapter{a.Logger.With(fields)}
}

type processChatTurnLoggerAdapter struct {
	logger.Logger
}

func (a *processChatTurnLoggerAdapter) With(fields map[string]interface{}) pct.Logger {
	return &processChatTurnLoggerAdapter{a.Logger.With(fields)}
}

type computeLoanDecisionLoggerAdapter struct {
	logger.Logger
}

func (a *computeLoanDecisionLoggerAdapter) With(fields map[string]interface{}) cld.Logger {
	return &computeLoanDecisionLoggerAdapter{a.Logger.With(fields)}
}

type persistApplicationLoggerAdapter struct {
	logger.Logger
}

func (a *persistApplicationLoggerAdapter) With(fields map[string]interface{}) pa.Logger {
	return &persistApplicationLoggerAdapter{a.Logger.With(fields)}
}

type sendDecisionNotificationLoggerAdapter struct {
	logger.Logger
}

func (a *sendDecisionNotificationLoggerAdapter) With(fields map[string]interface{}) sdn.Logger {
	return &sendDecisionNotificationLoggerAdapter{a.Logger.With(fields)}
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
