// Command pipeline-demo wires the request processing pipeline against a
// real Postgres and Redis instance and walks through the library
// example: adding a book copy, submitting a duplicate removal with the
// same idempotency key, and serving a repeated query from the cache.
//
// The demo expects the idempotency_records and audit_log_entries tables
// to exist (see the postgresstore package documentation for the schema)
// and connects to localhost by default; override with POSTGRES_DSN and
// REDIS_ADDR.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	"github.com/cqrskit/pipeline-go/example/core"
	"github.com/cqrskit/pipeline-go/example/features/command/addbookcopy"
	"github.com/cqrskit/pipeline-go/example/features/command/removebookcopy"
	"github.com/cqrskit/pipeline-go/example/features/query/booksincirculation"
	"github.com/cqrskit/pipeline-go/pipeline"
	"github.com/cqrskit/pipeline-go/pipeline/oteladapters"
	"github.com/cqrskit/pipeline-go/pipeline/postgresstore"
	"github.com/cqrskit/pipeline-go/pipeline/redisstore"
)

func main() {
	ctx := context.Background()

	redisClient := NewRedisClient()
	defer func() { _ = redisClient.Close() }()

	if pingErr := redisClient.Ping(ctx).Err(); pingErr != nil {
		log.Fatalf("Failed to connect to Redis: %v", pingErr)
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	contextualLogger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	storeLogger := slog.New(handler)
	metrics := oteladapters.NewMetricsCollector(otel.Meter("pipeline-demo"))
	tracing := oteladapters.NewTracingCollector(otel.Tracer("pipeline-demo"))

	stores := initPostgresStores(ctx, storeLogger)

	cacheStore, err := redisstore.NewCacheStore(redisClient)
	if err != nil {
		log.Fatalf("Failed to create cache store: %v", err)
	}

	repository := core.NewInMemoryBookRepository()

	sharedOptions := []pipeline.Option{
		pipeline.WithContextualLogger(contextualLogger),
		pipeline.WithMetrics(metrics),
		pipeline.WithTracing(tracing),
		pipeline.WithCurrentUserProvider(pipeline.ContextUserProvider{}),
		pipeline.WithIdempotencyStore(stores.idempotencyStore),
		pipeline.WithCacheStore(cacheStore),
		pipeline.WithAuditSink(stores.auditSink),
	}

	if stores.txProvider != nil {
		sharedOptions = append(sharedOptions, pipeline.WithTransactionProvider(stores.txProvider))
	}

	addPipeline, err := pipeline.New[addbookcopy.Command](
		addbookcopy.NewCommandHandler(repository),
		append(slices.Clone(sharedOptions), pipeline.WithValidators(addbookcopy.NewValidator()))...,
	)
	if err != nil {
		log.Fatalf("Failed to build add pipeline: %v", err)
	}

	removePipeline, err := pipeline.New[removebookcopy.Command](
		removebookcopy.NewCommandHandler(repository),
		append(slices.Clone(sharedOptions), pipeline.WithValidators(removebookcopy.NewValidator()))...,
	)
	if err != nil {
		log.Fatalf("Failed to build remove pipeline: %v", err)
	}

	queryPipeline, err := pipeline.New[booksincirculation.Query](
		booksincirculation.NewQueryHandler(repository),
		sharedOptions...,
	)
	if err != nil {
		log.Fatalf("Failed to build query pipeline: %v", err)
	}

	librarianCtx := pipeline.WithIdentity(ctx, pipeline.Identity{
		UserID:   "demo-librarian",
		UserName: "Demo Librarian",
		TenantID: "demo",
		Roles:    []string{"librarian"},
	})

	runScenarios(librarianCtx, addPipeline, removePipeline, queryPipeline)
}

type postgresStores struct {
	idempotencyStore pipeline.IdempotencyStore
	auditSink        pipeline.AuditSink
	txProvider       pipeline.TransactionProvider
}

// initPostgresStores builds the Postgres-backed stores with the database
// adapter selected through the DB_ADAPTER environment variable (default:
// pgx). The transaction provider needs a pgx pool, so the sql and sqlx
// adapters run the demo without the transaction stage.
func initPostgresStores(ctx context.Context, storeLogger *slog.Logger) postgresStores {
	adapterType := strings.ToLower(os.Getenv("DB_ADAPTER"))
	if adapterType == "" {
		adapterType = "pgx"
	}

	log.Printf("Using database adapter: %s", adapterType)

	var stores postgresStores
	var idempotencyErr, auditErr error

	switch adapterType {
	case "pgx":
		pool, err := pgxpool.NewWithConfig(ctx, PostgresPoolConfig())
		if err != nil {
			log.Fatalf("Failed to create pgx pool: %v", err)
		}

		if pingErr := pool.Ping(ctx); pingErr != nil {
			log.Fatalf("Failed to connect to Postgres: %v", pingErr)
		}

		stores.idempotencyStore, idempotencyErr = postgresstore.NewIdempotencyStoreFromPGXPool(pool, postgresstore.WithLogger(storeLogger))
		stores.auditSink, auditErr = postgresstore.NewAuditSinkFromPGXPool(pool, postgresstore.WithLogger(storeLogger))

		txProvider, err := postgresstore.NewTransactionProvider(pool)
		if err != nil {
			log.Fatalf("Failed to create transaction provider: %v", err)
		}
		stores.txProvider = txProvider

	case "sql", "sql.db":
		db := PostgresSQLDBConfig()
		stores.idempotencyStore, idempotencyErr = postgresstore.NewIdempotencyStoreFromSQLDB(db, postgresstore.WithLogger(storeLogger))
		stores.auditSink, auditErr = postgresstore.NewAuditSinkFromSQLDB(db, postgresstore.WithLogger(storeLogger))

	case "sqlx":
		db := PostgresSQLXConfig()
		stores.idempotencyStore, idempotencyErr = postgresstore.NewIdempotencyStoreFromSQLX(db, postgresstore.WithLogger(storeLogger))
		stores.auditSink, auditErr = postgresstore.NewAuditSinkFromSQLX(db, postgresstore.WithLogger(storeLogger))

	default:
		log.Fatalf("Unknown database adapter: %s (supported: pgx, sql, sqlx)", adapterType)
	}

	if idempotencyErr != nil {
		log.Fatalf("Failed to create idempotency store: %v", idempotencyErr)
	}

	if auditErr != nil {
		log.Fatalf("Failed to create audit sink: %v", auditErr)
	}

	return stores
}

func runScenarios(
	ctx context.Context,
	addPipeline *pipeline.Pipeline[addbookcopy.Command],
	removePipeline *pipeline.Pipeline[removebookcopy.Command],
	queryPipeline *pipeline.Pipeline[booksincirculation.Query],
) {
	bookID := uuid.New()

	log.Printf("=== Adding a book copy ===")
	addCommand := addbookcopy.BuildCommand(
		bookID, "978-0134190440", "The Go Programming Language", "Donovan, Kernighan", time.Now(),
	)
	reportOutcome(addPipeline.Execute(ctx, addCommand))

	log.Printf("=== Adding the same copy again (business failure) ===")
	reportOutcome(addPipeline.Execute(ctx, addCommand))

	log.Printf("=== Querying books in circulation (cache miss) ===")
	query := booksincirculation.BuildQuery()
	result, err := queryPipeline.Execute(ctx, query)
	reportOutcome(result, err)
	if books, ok := pipeline.ValueAs[booksincirculation.BooksInCirculation](result); ok {
		log.Printf("    %d book(s) in circulation", books.Count)
	}

	log.Printf("=== Querying again (served from cache) ===")
	reportOutcome(queryPipeline.Execute(ctx, query))

	log.Printf("=== Removing the copy ===")
	idempotencyKey := "remove-" + bookID.String()
	removeCommand := removebookcopy.BuildCommand(bookID, idempotencyKey, time.Now())
	reportOutcome(removePipeline.Execute(ctx, removeCommand))

	log.Printf("=== Submitting the same removal again (idempotent replay) ===")
	reportOutcome(removePipeline.Execute(ctx, removeCommand))

	log.Printf("=== Removing an unknown copy (domain fault as failure) ===")
	unknownCommand := removebookcopy.BuildCommand(uuid.New(), "remove-unknown", time.Now())
	reportOutcome(removePipeline.Execute(ctx, unknownCommand))
}

func reportOutcome(result pipeline.Result, err error) {
	switch {
	case err != nil:
		log.Printf("    fault: %v", err)
	case result.Success:
		log.Printf("    success")
	default:
		log.Printf("    failure: %s", result.Error)
	}
}
