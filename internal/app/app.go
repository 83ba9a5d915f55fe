// Package app wires configuration, storage, telemetry and event publishing into the roster
// services used by the commands.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	catalogservice "ics-roster/internal/catalog/service"
	certrepo "ics-roster/internal/certification/repository"
	certservice "ics-roster/internal/certification/service"
	"ics-roster/internal/config"
	courserepo "ics-roster/internal/course/repository"
	"ics-roster/internal/db"
	"ics-roster/internal/events"
	"ics-roster/internal/events/producer"
	"ics-roster/internal/health"
	"ics-roster/internal/logging"
	personrepo "ics-roster/internal/person/repository"
	personservice "ics-roster/internal/person/service"
	"ics-roster/internal/qualification"
	"ics-roster/internal/seed"
	skillrepo "ics-roster/internal/skill/repository"
	telemetry "ics-roster/internal/telemetry/otel"
	titlerepo "ics-roster/internal/title/repository"
)

// ErrMissingDSN is returned by New when DATABASE_URL is empty.
var ErrMissingDSN = errors.New("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")

// App holds the services for one command invocation.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sql.DB

	People         *personservice.Service
	Certifications *certservice.Service
	Catalog        *catalogservice.Service
	Qualification  *qualification.Service
	Seeder         *seed.Seeder
	Health         *health.Checker

	closers []func(context.Context) error
}

type options struct {
	lazyConnect bool
}

// Option configures New.
type Option func(*options)

// WithLazyConnect skips the startup ping so New succeeds while the database is down. The
// first query (or Health.Check) reports the connection error instead.
func WithLazyConnect() Option {
	return func(o *options) { o.lazyConnect = true }
}

// New builds the App. The caller must Close it.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDSN
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger = logging.OrNop(logger)
	a := &App{Config: cfg, Logger: logger}

	providers, err := telemetry.NewProviders(ctx, telemetry.Options{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	providers.SetGlobal()
	a.closers = append(a.closers, providers.Shutdown)

	evaluator, checker, err := NewEvaluator(ctx, cfg)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	open := db.Open
	if o.lazyConnect {
		open = db.OpenLazy
	}
	conn, err := open(cfg.DatabaseURL)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("db: %w", err)
	}
	a.DB = conn
	a.closers = append(a.closers, func(context.Context) error { return conn.Close() })

	emitter := a.buildEmitter(providers)

	skills := skillrepo.NewPostgresRepository(conn)
	courses := courserepo.NewPostgresRepository(conn)
	titles := titlerepo.NewPostgresRepository(conn)
	people := personrepo.NewPostgresRepository(conn)
	certs := certrepo.NewPostgresRepository(conn)

	a.People = personservice.NewService(people, emitter, logger)
	a.Certifications = certservice.NewService(certs, people, courses, emitter, logger)
	a.Catalog = catalogservice.NewService(skills, courses, titles, logger, catalogservice.WithTx(catalogTx(conn)))
	a.Qualification = qualification.NewService(certs, courses, titles,
		qualification.WithEvaluator(evaluator),
		qualification.WithMissingTitlePolicy(MissingTitlePolicy(cfg.MissingTitlePolicy)),
		qualification.WithLogger(logger),
	)
	a.Seeder = seed.New(a.Catalog, a.People, a.Certifications, logger)
	a.Health = health.NewChecker(conn, checker)
	return a, nil
}

// catalogTx binds the catalog's course and title writes to one database transaction.
func catalogTx(conn *sql.DB) catalogservice.TxFunc {
	return func(ctx context.Context, fn func(catalogservice.Stores) error) error {
		return db.WithTx(ctx, conn, func(tx db.DBTX) error {
			return fn(catalogservice.Stores{
				Courses: courserepo.NewPostgresRepository(tx),
				Titles:  titlerepo.NewPostgresRepository(tx),
			})
		})
	}
}

// buildEmitter fans roster events out to Kafka (when brokers are configured) and to the
// OTel log pipeline.
func (a *App) buildEmitter(providers *telemetry.Providers) events.Emitter {
	var multi events.Multi
	if p := producer.NewKafkaProducer(a.Config.KafkaBrokersList(), a.Config.EventsTopic); p != nil {
		a.Logger.Info("publishing roster events to kafka", zap.String("topic", p.Topic()))
		multi = append(multi, p)
		a.closers = append(a.closers, func(context.Context) error { return p.Close() })
	}
	if a.Config.OTLPEndpoint != "" {
		multi = append(multi, telemetry.NewEventEmitter(providers.LoggerProvider))
	}
	if len(multi) == 0 {
		return nil
	}
	return multi
}

// Close waits for in-flight events, then releases emitters, telemetry and the database in
// reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	if !events.Drain(events.ShutdownDrainDuration) {
		a.Logger.Warn("events: drain timed out; some events may be lost")
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewEvaluator returns the qualification evaluator selected by QUALIFICATION_ENGINE. The
// second result is non-nil for the OPA engine so readiness can check the compiled policy.
func NewEvaluator(ctx context.Context, cfg *config.Config) (qualification.Evaluator, health.PolicyChecker, error) {
	if cfg.QualificationEngine != config.EngineOPA {
		return qualification.SetEvaluator{}, nil, nil
	}
	var (
		e   *qualification.OPAEvaluator
		err error
	)
	if cfg.QualificationPolicyFile != "" {
		e, err = qualification.NewOPAEvaluatorFromFile(ctx, cfg.QualificationPolicyFile)
	} else {
		e, err = qualification.NewOPAEvaluator(ctx, "")
	}
	if err != nil {
		return nil, nil, err
	}
	return e, e, nil
}

// MissingTitlePolicy maps the MISSING_TITLE_POLICY value to the qualification policy.
func MissingTitlePolicy(s string) qualification.MissingTitlePolicy {
	if s == config.MissingTitleError {
		return qualification.MissingTitleError
	}
	return qualification.MissingTitleDeny
}
