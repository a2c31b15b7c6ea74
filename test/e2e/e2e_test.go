// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lending-workers/internal/common/config"
	"lending-workers/internal/common/database"
	"lending-workers/internal/common/logger"
	"lending-workers/internal/loan/decision"
	"lending-workers/internal/loan/engine"
	"lending-workers/internal/loan/extract"
	"lending-workers/internal/loan/llm"
	"lending-workers/internal/loan/session"
	"lending-workers/internal/loan/storage"
	"lending-workers/internal/models"

	persistapplication "lending-workers/internal/workers/application/persist-application"
	senddecisionnotification "lending-workers/internal/workers/application/send-decision-notification"
	generategreeting "lending-workers/internal/workers/conversation/generate-greeting"
	processchatturn "lending-workers/internal/workers/conversation/process-chat-turn"
	computeloandecision "lending-workers/internal/workers/decision/compute-loan-decision"
)

var (
	zeebeClient zbc.Client
	zapLog      *zap.Logger
)

// Logger adapters to bridge logger.Logger to worker-specific Logger interfaces
type generateGreetingLoggerAdapter struct {
	logger.Logger
}

func (a *generateGreetingLoggerAdapter) With(fields map[string]interface{}) generategreeting.Logger {
	return &generateGreetingLoggerAdapter{a.Logger.With(fields)}
}

type processChatTurnLoggerAdapter struct {
	logger.Logger
}

func (a *processChatTurnLoggerAdapter) With(fields map[string]interface{}) processchatturn.Logger {
	return &processChatTurnLoggerAdapter{a.Logger.With(fields)}
}

type computeLoanDecisionLoggerAdapter struct {
	logger.Logger
}

func (a *computeLoanDecisionLoggerAdapter) With(fields map[string]interface{}) computeloandecision.Logger {
	return &computeLoanDecisionLoggerAdapter{a.Logger.With(fields)}
}

type persistApplicationLoggerAdapter struct {
	logger.Logger
}

func (a *persistApplicationLoggerAdapter) With(fields map[string]interface{}) persistapplication.Logger {
	return &persistApplicationLoggerAdapter{a.Logger.With(fields)}
}

type sendDecisionNotificationLoggerAdapter struct {
	logger.Logger
}

func (a *sendDecisionNotificationLoggerAdapter) With(fields map[string]interface{}) senddecisionnotification.Logger {
	return &sendDecisionNotificationLoggerAdapter{a.Logger.With(fields)}
}

func TestMain(m *testing.M) {
	var err error

	// Initialize Zeebe client with real connection
	zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         "localhost:26500",
		UsePlaintextConnection: true,
	})
	if err != nil {
		panic(fmt.Sprintf("❌ Failed to connect to Zeebe: %v", err))
	}

	zapLog, _ = zap.NewProduction()

	code := m.Run()

	zeebeClient.Close()
	os.Exit(code)
}

func TestFullE2E(t *testing.T) {
	_, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	t.Log("🚀 Starting FULL E2E Test with real services...")

	// 1. Check all external services are available
	assertAllServicesConnectivity(t, cfg)

	// 2. Create the applications table if needed
	createDatabaseTables(t, cfg)

	// 3. Test all 5 workers with real execution
	testAllWorkers(t, cfg, zapLog)

	t.Log("✅ ALL TESTS PASSED - Full E2E workflow successful!")
}

func assertAllServicesConnectivity(t *testing.T, cfg *config.Config) {
	t.Log("🔍 Checking service connectivity...")

	// 🔧 FORCE LOCALHOST FOR E2E TESTS
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"
	cfg.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}

	// --- PostgreSQL ---
	db, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "❌ PostgreSQL connection failed")
	assert.NoError(t, db.Ping(context.Background()), "❌ PostgreSQL ping failed")
	db.Close()
	t.Log("✅ PostgreSQL connected")

	// --- Redis ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "❌ Redis client creation failed")
	assert.NoError(t, rdb.Ping(context.Background()), "❌ Redis ping failed")
	rdb.Close()
	t.Log("✅ Redis connected")

	// --- Elasticsearch ---
	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err, "❌ Elasticsearch client creation failed")
	assert.NoError(t, es.Ping(), "❌ Elasticsearch ping failed")
	t.Log("✅ Elasticsearch connected")

	// --- Zeebe ---
	_, err = zeebeClient.NewTopologyCommand().Send(context.Background())
	assert.NoError(t, err, "❌ Zeebe topology request failed")
	t.Log("✅ Zeebe connected")
}

func createDatabaseTables(t *testing.T, cfg *config.Config) {
	t.Log("🔧 Creating database tables...")

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer dbClient.Close()

	_, err = dbClient.DB.ExecContext(context.Background(), `
		CREATE TABLE IF NOT EXISTS loan_applications (
			id VARCHAR(255) PRIMARY KEY,
			loan_type VARCHAR(50) NOT NULL,
			session_id VARCHAR(255) NOT NULL,
			customer_name VARCHAR(255),
			customer_email VARCHAR(255),
			customer_phone VARCHAR(50),
			loan_data JSONB,
			status VARCHAR(50) NOT NULL,
			approved_amount BIGINT,
			requested_amount BIGINT,
			interest_rate DOUBLE PRECISION,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		t.Logf("Warning: Failed to create table: %v", err)
	}

	t.Log("✅ Database tables created/verified")
}

func testAllWorkers(t *testing.T, cfg *config.Config, log *zap.Logger) {
	t.Log("🧪 Testing all 5 workers with real execution...")

	adapted := logger.NewZapAdapter(log)

	dbClient, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer dbClient.Close()

	rdbClient, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	defer rdbClient.Close()

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)

	repo := storage.NewPostgresRepository(dbClient.DB, adapted)
	indexer := storage.NewDecisionIndexer(esClient.Client, cfg.Database.Elasticsearch.Index, adapted)

	// Fallback-only extraction keeps the conversation deterministic even when
	// no language model is reachable from the test host.
	llmClient := llm.NewClient(llm.Config{})
	scorer := decision.NewHTTPScorer(cfg.APIs.Scoring.BaseURL, config.GetDuration(cfg.APIs.Scoring.Timeout))

	controller := engine.NewController(
		session.NewRedisStore(rdbClient.Client, time.Hour),
		extract.New(llmClient, adapted),
		decision.NewEngine(scorer, adapted),
		repo,
		llmClient,
		adapted,
	)

	var sessionID string

	t.Run("generate-greeting", func(t *testing.T) {
		handler := generategreeting.NewHandler(
			generategreeting.LoadConfig(), controller,
			&generateGreetingLoggerAdapter{adapted},
		)

		output, err := handler.Execute(context.Background(), &generategreeting.Input{LoanType: "personal"})
		require.NoError(t, err)
		assert.NotEmpty(t, output.SessionID)
		assert.NotEmpty(t, output.Greeting)
		sessionID = output.SessionID
	})

	t.Run("process-chat-turn", func(t *testing.T) {
		require.NotEmpty(t, sessionID)

		handler := processchatturn.NewHandler(
			processchatturn.LoadConfig(), controller,
			&processChatTurnLoggerAdapter{adapted},
		)

		output, err := handler.Execute(context.Background(), &processchatturn.Input{
			SessionID: sessionID,
			Message:   "Ravi Kumar",
		})
		require.NoError(t, err)
		assert.Equal(t, engine.StatusCollecting, output.Status)
		assert.NotEmpty(t, output.Reply)
	})

	t.Run("compute-loan-decision", func(t *testing.T) {
		handler := computeloandecision.NewHandler(
			computeloandecision.LoadConfig(),
			decision.NewEngine(scorer, adapted),
			&computeLoanDecisionLoggerAdapter{adapted},
		)

		// Incomplete profiles must be refused before the scoring call.
		_, err := handler.Execute(context.Background(), &computeloandecision.Input{
			LoanType: "personal",
			Profile:  map[string]interface{}{"Age": 30.0},
		})
		assert.ErrorIs(t, err, computeloandecision.ErrIncompleteProfile)
	})

	t.Run("persist-application", func(t *testing.T) {
		handler := persistapplication.NewHandler(
			persistapplication.LoadConfig(), repo, indexer,
			&persistApplicationLoggerAdapter{adapted},
		)

		uniqueID := fmt.Sprintf("e2e-%d", time.Now().UnixNano())
		output, err := handler.Execute(context.Background(), &persistapplication.Input{
			LoanType:        "personal",
			SessionID:       uniqueID,
			CustomerName:    "Ravi Kumar",
			CustomerEmail:   "ravi@example.com",
			CustomerPhone:   "9876543210",
			LoanData:        map[string]interface{}{"Age": 30.0},
			Status:          models.StatusApproved,
			ApprovedAmount:  200000,
			RequestedAmount: 200000,
			InterestRate:    11.5,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, output.ApplicationID)

		stored, err := repo.GetApplicationBySession(context.Background(), "personal", uniqueID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Ravi Kumar", stored.Customer.Name)
	})

	t.Run("send-decision-notification", func(t *testing.T) {
		// No live SES/SNS in the test environment; disabled channels must
		// still complete the job.
		handler := senddecisionnotification.NewHandler(
			&senddecisionnotification.Config{
				Timeout:      15 * time.Second,
				EmailEnabled: false,
				SMSEnabled:   false,
			},
			nil, nil,
			&sendDecisionNotificationLoggerAdapter{adapted},
		)

		output, err := handler.Execute(context.Background(), &senddecisionnotification.Input{
			LoanType:      "personal",
			CustomerEmail: "ravi@example.com",
			Status:        models.StatusApproved,
			Message:       "Congratulations! Your personal loan is approved.",
		})
		require.NoError(t, err)
		assert.False(t, output.EmailSent)
		assert.False(t, output.SMSSent)
	})
}

func BenchmarkHandler_ProcessChatTurn(b *testing.B) {
	adapted := logger.NewNoOpLogger()
	llmClient := llm.NewClient(llm.Config{})

	controller := engine.NewController(
		session.NewMemoryStore(time.Hour),
		extract.New(llmClient, adapted),
		decision.NewEngine(decision.NewHTTPScorer("", time.Second), adapted),
		nil,
		llmClient,
		adapted,
	)
	handler := processchatturn.NewHandler(
		processchatturn.LoadConfig(), controller,
		&processChatTurnLoggerAdapter{adapted},
	)

	sess, _, err := controller.StartSession(context.Background(), "personal")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), &processchatturn.Input{
			SessionID: sess.ID,
			Message:   "30",
		})
	}
}
