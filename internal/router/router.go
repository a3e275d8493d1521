package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	mem "profile-visibility/internal/adapters/storage/memory"
	pg "profile-visibility/internal/adapters/storage/postgres"
	redisidx "profile-visibility/internal/adapters/storage/redis"
	"profile-visibility/internal/domain/grants"
	"profile-visibility/internal/domain/policies"
	"profile-visibility/internal/domain/profiles"
	"profile-visibility/internal/domain/relationships"
	"profile-visibility/internal/domain/requests"
	"profile-visibility/internal/domain/visibility"
	"profile-visibility/internal/middleware"
	"profile-visibility/internal/platform/logger"
	"profile-visibility/internal/ports/auth"
	"profile-visibility/internal/ports/notify"
	"profile-visibility/internal/sweeper"

	_ "profile-visibility/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: índice de relaciones sobre Redis. Si no, in-memory.
	Redis *goredis.Client

	Notifier notify.Notifier
	Log      logger.Logger

	SweepInterval time.Duration
}

// App agrupa el handler HTTP y el sweeper que corre aparte: en modo
// in-memory ambos comparten los mismos repos.
type App struct {
	Handler http.Handler
	Sweeper *sweeper.Sweeper
}

func New(opts Options) *App {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		profileRepo profiles.Repository
		policyRepo  policies.Repository
		requestRepo requests.Repository
		grantRepo   grants.Repository
		relIndex    relationships.Index
	)

	if opts.DB != nil {
		profileRepo = pg.NewProfilesRepo(opts.DB)
		policyRepo = pg.NewPoliciesRepo(opts.DB)
		requestRepo = pg.NewRequestsRepo(opts.DB)
		grantRepo = pg.NewGrantsRepo(opts.DB)
	} else {
		profileRepo = mem.NewProfileRepo()
		policyRepo = mem.NewPolicyRepo()
		requestRepo = mem.NewRequestRepo()
		grantRepo = mem.NewGrantRepo()
	}

	switch {
	case opts.Redis != nil:
		relIndex = redisidx.NewRelationshipIndex(opts.Redis)
	case opts.DB != nil:
		relIndex = pg.NewRelationshipIndex(opts.DB)
	default:
		relIndex = mem.NewRelationshipIndex()
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}

	// profiles y policies se referencian mutuamente (reorden de fotos
	// reasigna la policy de la primaria); el proxy rompe el ciclo de
	// construcción.
	sync := &policySyncProxy{}
	profilesSvc := profiles.NewService(profileRepo, sync)
	policiesSvc := policies.NewService(policyRepo, profilesSvc)
	sync.svc = policiesSvc

	grantsSvc := grants.NewService(grantRepo, notifier)
	requestsSvc := requests.NewService(requestRepo, policiesSvc, grantsSvc, notifier)
	relationshipsSvc := relationships.NewService(relIndex)

	resolver := visibility.NewResolver(policiesSvc, grantsSvc, requestsSvc, relationshipsSvc)
	visibilitySvc := visibility.NewService(resolver, profilesSvc)

	profiles.RegisterRoutes(r, profilesSvc)
	policies.RegisterRoutes(r, policiesSvc)
	relationships.RegisterRoutes(r, relationshipsSvc)
	requests.RegisterRoutes(r, requestsSvc)
	grants.RegisterRoutes(r, grantsSvc)
	visibility.RegisterRoutes(r, visibilitySvc)

	sw := sweeper.New(grantRepo, notifier, opts.Log, opts.SweepInterval)

	return &App{Handler: r, Sweeper: sw}
}

type policySyncProxy struct {
	svc *policies.Service
}

func (p *policySyncProxy) ReassignPrimary(ctx context.Context, owner, oldID, newID string) error {
	if p.svc == nil {
		return nil
	}
	return p.svc.ReassignPrimary(ctx, owner, oldID, newID)
}
