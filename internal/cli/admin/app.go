package admin

import (
	"context"
	"fmt"

	"github.com/GaurishMcK/HR-Nexus/internal/answer"
	"github.com/GaurishMcK/HR-Nexus/internal/assignment"
	"github.com/GaurishMcK/HR-Nexus/internal/compliance"
	"github.com/GaurishMcK/HR-Nexus/internal/config"
	"github.com/GaurishMcK/HR-Nexus/internal/corpus"
	"github.com/GaurishMcK/HR-Nexus/internal/database"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"github.com/GaurishMcK/HR-Nexus/internal/notify"
	"github.com/GaurishMcK/HR-Nexus/internal/openai"
	"github.com/GaurishMcK/HR-Nexus/internal/regulation"
	"github.com/GaurishMcK/HR-Nexus/internal/repository"
	"github.com/GaurishMcK/HR-Nexus/internal/retrieval"
	"github.com/GaurishMcK/HR-Nexus/internal/service"
	"github.com/GaurishMcK/HR-Nexus/internal/session"
	"github.com/GaurishMcK/HR-Nexus/internal/storage"
	"github.com/GaurishMcK/HR-Nexus/internal/telemetry"
	"github.com/GaurishMcK/HR-Nexus/internal/triage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// base is what every admin command needs: configuration, a logger and a
// database pool.
type base struct {
	cfg     *config.Config
	logger  *zap.Logger
	pool    *pgxpool.Pool
	closers []func()
}

func openBase(ctx context.Context, runMigrations bool) (*base, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	b := &base{cfg: cfg, logger: logger}
	b.closers = append(b.closers, func() { _ = logger.Sync() })

	shutdownTelemetry, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate(),
		Debug:            cfg.Debug,
		Logger:           logger,
	})
	if err != nil {
		logger.Warn("telemetry init failed, continuing without tracing", zap.Error(err))
	} else {
		b.closers = append(b.closers, shutdownTelemetry)
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns})
	if err != nil {
		b.Close()
		return nil, err
	}
	b.pool = pool
	b.closers = append(b.closers, pool.Close)
	logger.Info("connected to database")

	if runMigrations {
		if err := database.Migrate(cfg.DatabaseURL, database.DefaultMigrationsDir, logger); err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return b, nil
}

// Close releases resources in reverse order of acquisition.
func (b *base) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// app is the fully wired helpdesk: repositories, generation, retrieval and
// every service.
type app struct {
	*base

	users    *repository.UserRepository
	payroll  *repository.PayrollRepository
	sessions session.Store

	dispatcher notify.Dispatcher
	source     corpus.DocumentSource

	userSvc       *service.UserService
	helpdeskSvc   *service.HelpdeskService
	ticketSvc     *service.TicketService
	indexSvc      *service.IndexService
	complianceSvc *service.ComplianceService
}

func openApp(ctx context.Context, runMigrations bool) (*app, error) {
	b, err := openBase(ctx, runMigrations)
	if err != nil {
		return nil, err
	}
	a, err := wire(ctx, b)
	if err != nil {
		b.Close()
		return nil, err
	}
	return a, nil
}

func wire(ctx context.Context, b *base) (*app, error) {
	cfg, logger := b.cfg, b.logger

	users := repository.NewUserRepository(b.pool)
	tickets := repository.NewTicketRepository(b.pool)
	chat := repository.NewChatRepository(b.pool)
	payroll := repository.NewPayrollRepository(b.pool)
	chunks := repository.NewPolicyChunkRepository(b.pool)
	tx := repository.NewTxRunner(b.pool)

	if !cfg.HasOpenAI() {
		logger.Warn("OPENAI_API_KEY not set: classification will escalate and answers will fall back")
	}
	llm := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		BaseURL:             cfg.OpenAIBaseURL,
		ChatModel:           cfg.ChatModel,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
		RequestsPerSecond:   cfg.GenerationRPS,
		Burst:               cfg.GenerationBurst,
	})

	index := retrieval.NewIndex(llm, chunks, retrieval.WithLogger(logger.Named("index")))
	retriever := retrieval.NewRetriever(index, logger.Named("retrieval"))

	dispatcher := notify.NewInMemoryDispatcher(logger)
	notify.NewLogNotifier(logger.Named("notify")).Register(dispatcher)

	sessions, err := openSessionStore(ctx, b)
	if err != nil {
		return nil, err
	}

	source, err := openDocumentSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ticketSvc := service.NewTicketService(
		tickets,
		users,
		tx,
		assignment.NewBalancer(users, assignment.WithLogger(logger.Named("assignment"))),
		answer.NewDrafter(retriever, llm, payroll, logger.Named("drafter")),
		dispatcher,
		logger,
	)

	helpdeskSvc := service.NewHelpdeskService(service.HelpdeskDeps{
		Chat:        chat,
		Tx:          tx,
		Classifier:  triage.NewClassifier(llm, logger.Named("triage")),
		Router:      triage.NewRouter(),
		Retriever:   retriever,
		Synthesizer: answer.NewSynthesizer(llm),
		Escalator:   ticketSvc,
		Logger:      logger,
	})

	engine := compliance.NewEngine(regulation.NewHTMLSource(cfg.RegulationSource), index, llm, logger.Named("compliance"))

	return &app{
		base:          b,
		users:         users,
		payroll:       payroll,
		sessions:      sessions,
		dispatcher:    dispatcher,
		source:        source,
		userSvc:       service.NewUserService(users),
		helpdeskSvc:   helpdeskSvc,
		ticketSvc:     ticketSvc,
		indexSvc:      service.NewIndexService(source, index, logger),
		complianceSvc: service.NewComplianceService(engine, dispatcher, cfg.LegalRecipient, logger),
	}, nil
}

func openSessionStore(ctx context.Context, b *base) (session.Store, error) {
	if !b.cfg.HasRedis() {
		b.logger.Info("session store: in-memory", zap.Duration("ttl", b.cfg.SessionTTL))
		return session.NewMemoryStore(b.cfg.SessionTTL), nil
	}
	client, err := session.NewRedisClient(ctx, b.cfg.RedisAddr, b.cfg.RedisPassword, b.cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, func() { _ = client.Close() })
	b.logger.Info("session store: redis", zap.String("addr", b.cfg.RedisAddr), zap.Duration("ttl", b.cfg.SessionTTL))
	return session.NewRedisStore(client, b.cfg.SessionTTL), nil
}

func openDocumentSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (corpus.DocumentSource, error) {
	if cfg.PolicySource != config.PolicySourceS3 {
		logger.Info("policy source: directory", zap.String("dir", cfg.PolicyDir))
		return corpus.NewDirSource(cfg.PolicyDir, logger.Named("corpus")), nil
	}

	client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := client.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure S3 bucket: %w", err)
	}
	logger.Info("policy source: s3", zap.String("bucket", client.Bucket()))
	return corpus.NewS3Source(client, "", logger.Named("corpus")), nil
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return format
}
