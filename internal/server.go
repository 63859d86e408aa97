package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/liftbook/internal/auth"
	"github.com/2beens/liftbook/internal/config"
	"github.com/2beens/liftbook/internal/db"
	"github.com/2beens/liftbook/internal/middleware"
	"github.com/2beens/liftbook/internal/telemetry/metrics"
	"github.com/2beens/liftbook/internal/telemetry/tracing"
	"github.com/2beens/liftbook/internal/users"
	"github.com/2beens/liftbook/internal/weights"
	"github.com/2beens/liftbook/internal/workouts"
	"github.com/2beens/liftbook/pkg"
)

const (
	serviceName    = "liftbook-api"
	authRouterName = "auth"

	// a full workout with every set and grouping stays far below this
	maxRequestBodyBytes = 1 << 20
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	tokenService    *auth.TokenService
	authHandler     *auth.Handler
	usersHandler    *users.Handler
	workoutsHandler *workouts.Handler
	weightsHandler  *weights.Handler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := cfg.Secrets

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DatabaseURL:    secrets.DatabaseURL,
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Infoln("db schema migrated")
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(params.VersionInfo, pgxpoolCollector)
	metricsManager := metrics.NewManager("liftbook", "api", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, serviceName)
	if err != nil {
		return nil, err
	}

	// outbound calls to google and apple
	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   15 * time.Second,
	}

	tokenService := auth.NewTokenService(
		secrets.JWTSecret,
		cfg.AccessTokenTTL.Duration,
		cfg.RefreshTokenTTL.Duration,
		metricsManager,
	)
	googleClient := auth.NewGoogleClient(auth.GoogleClientParams{
		ClientID:     secrets.GoogleClientID,
		ClientSecret: secrets.GoogleClientSecret,
		RedirectURI:  secrets.GoogleRedirectURI,
		HTTPClient:   tracedHttpClient,
	})
	appleVerifier := auth.NewAppleVerifier(secrets.AppleClientID, auth.AppleKeysURL, tracedHttpClient)
	appleRevoker, err := auth.NewAppleRevoker(auth.AppleRevokerParams{
		TeamID:     secrets.AppleTeamID,
		ClientID:   secrets.AppleClientID,
		KeyID:      secrets.AppleKeyID,
		PrivateKey: secrets.ApplePrivateKey,
		HTTPClient: tracedHttpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("apple revoker: %w", err)
	}

	usersRepo := users.NewRepo(dbPool)
	authService := auth.NewService(tokenService, googleClient, appleVerifier, usersRepo)

	s := &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		rateLimiter: redis_rate.NewLimiter(rdb),
		versionInfo: params.VersionInfo,

		tokenService: tokenService,
		authHandler: auth.NewHandler(
			authService,
			auth.NewStateStore(rdb, auth.DefaultStateTTL),
			auth.HandlerParams{
				AppScheme:      cfg.AppScheme,
				BaseURL:        cfg.BaseURL,
				GoogleClientID: secrets.GoogleClientID,
			},
		),
		usersHandler: users.NewHandler(
			users.NewService(usersRepo, googleClient, appleRevoker, tokenService),
		),
		workoutsHandler: workouts.NewHandler(workouts.NewEngine(dbPool, metricsManager)),
		weightsHandler:  weights.NewHandler(weights.NewRepo(dbPool)),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("liftbook-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK")
	}).Methods("GET").Name("health")

	// bearer gateway
	gateway := middleware.AuthCheck(s.tokenService, s.metricsManager)
	protected := func(h http.HandlerFunc) http.Handler {
		return gateway(h)
	}
	workoutsRoute := func(h http.HandlerFunc) http.Handler {
		if s.config.RequireAuthForWorkouts {
			return gateway(h)
		}
		return h
	}

	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.Use(middleware.RateLimit(s.rateLimiter, authRouterName, s.config.AuthRateLimitPerMin, s.config.TrustedProxyPrefixes, s.metricsManager))
	authRouter.HandleFunc("/authorize", s.authHandler.HandleAuthorize).Methods("GET").Name("auth-authorize")
	authRouter.HandleFunc("/token", s.authHandler.HandleToken).Methods("POST", "OPTIONS").Name("auth-token")
	authRouter.HandleFunc("/callback/google", s.authHandler.HandleGoogleCallback).Methods("GET").Name("auth-google-callback")
	authRouter.HandleFunc("/refresh", s.authHandler.HandleRefresh).Methods("POST", "OPTIONS").Name("auth-refresh")
	authRouter.HandleFunc("/apple/apple-native", s.authHandler.HandleAppleNative).Methods("POST", "OPTIONS").Name("auth-apple-native")

	r.Handle("/api/users", protected(s.usersHandler.HandleSignup)).Methods("POST", "OPTIONS").Name("signup")
	r.Handle("/api/users/link/apple/{id}", protected(s.usersHandler.HandleLinkApple)).Methods("POST", "OPTIONS").Name("link-apple")
	r.Handle("/api/users/link/google/{id}", protected(s.usersHandler.HandleLinkGoogle)).Methods("POST", "OPTIONS").Name("link-google")
	r.Handle("/api/users/{id}", protected(s.usersHandler.HandleGet)).Methods("GET", "OPTIONS").Name("get-user")
	r.Handle("/api/users/{id}", protected(s.usersHandler.HandleDelete)).Methods("DELETE", "OPTIONS").Name("delete-user")

	r.Handle("/api/workouts", workoutsRoute(s.workoutsHandler.HandleCreate)).Methods("POST", "OPTIONS").Name("new-workout")
	r.Handle("/api/workouts/{id}", workoutsRoute(s.workoutsHandler.HandleReplace)).Methods("PUT", "OPTIONS").Name("replace-workout")
	r.Handle("/api/workouts/{id}", workoutsRoute(s.workoutsHandler.HandleGet)).Methods("GET", "OPTIONS").Name("get-workout")
	r.Handle("/api/workouts/{id}", workoutsRoute(s.workoutsHandler.HandleDelete)).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.Handle("/api/users/{id}/workouts", workoutsRoute(s.workoutsHandler.HandleListByUser)).Methods("GET", "OPTIONS").Name("list-workouts")

	r.Handle("/api/weights", protected(s.weightsHandler.HandleAdd)).Methods("POST", "OPTIONS").Name("new-weight")
	r.Handle("/api/users/{id}/weights", protected(s.weightsHandler.HandleListByUser)).Methods("GET", "OPTIONS").Name("list-weights")
	r.Handle("/api/weights/{id}", protected(s.weightsHandler.HandleDelete)).Methods("DELETE", "OPTIONS").Name("delete-weight")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.BaseURL))
	r.Use(middleware.DrainAndCloseRequest(maxRequestBodyBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server [%s] listening on: [%s]", s.versionInfo, ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before closing what they depend on
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
