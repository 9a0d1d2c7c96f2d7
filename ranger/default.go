package ranger

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/auth"
	"github.com/xy-planning-network/artmatch/authstate"
	"github.com/xy-planning-network/artmatch/http/handler"
	"github.com/xy-planning-network/artmatch/http/middleware"
	"github.com/xy-planning-network/artmatch/http/resp"
	"github.com/xy-planning-network/artmatch/http/router"
	"github.com/xy-planning-network/artmatch/http/session"
	"github.com/xy-planning-network/artmatch/logger"
	"github.com/xy-planning-network/artmatch/postgres"
	"github.com/xy-planning-network/artmatch/storage"
	"golang.org/x/time/rate"
)

const (
	// Base URL defaults
	BaseURLEnvVar = "BASE_URL"

	// App metadata
	ContactUsEnvVar  = "CONTACT_US_EMAIL"
	defaultContactUs = "hello@artmatch.example.com"

	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"
	revisionEnvVar    = "ROUTER_REVISION"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	defaultLogLvl   = "INFO"
	sentryDsnEnvVar = "SENTRY_DSN"

	// Auth provider defaults
	SupabaseURLEnvVar       = "SUPABASE_URL"
	SupabaseAnonKeyEnvVar   = "SUPABASE_ANON_KEY"
	SupabaseJWTSecretEnvVar = "SUPABASE_JWT_SECRET"
	stubUserEmailEnvVar     = "STUB_USER_EMAIL"
	stubUserPasswordEnvVar  = "STUB_USER_PASSWORD"

	// Sign in rate limit defaults
	signInBurstEnvVar    = "SIGN_IN_BURST"
	defaultSignInBurst   = 5
	signInPeriodEnvVar   = "SIGN_IN_PERIOD"
	defaultSignInPeriod  = 2 * time.Second
	storageDriverEnvVar  = "STORAGE_DRIVER"
	storageTTLEnvVar     = "STORAGE_TTL"
	redisURLEnvVar       = "REDIS_URL"
	redisPasswordEnvVar  = "REDIS_PASSWORD"
	defaultStoragePrefix = "artmatch:"

	// Web server defaults
	DefaultHost               = "localhost"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	trustedProxiesEnvVar      = "TRUSTED_PROXIES"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second

	// Session defaults
	SessionAuthKeyEnvVar       = "SESSION_AUTH_KEY"
	SessionEncryptKeyEnvVar    = "SESSION_ENCRYPTION_KEY"
	sessionNameEnvVar          = "SESSION_NAME"
	defaultSessionName         = "artmatch"
	sessionRedisURLEnvVar      = "SESSION_REDIS_URL"
	sessionRedisPasswordEnvVar = "SESSION_REDIS_PASSWORD"
	defaultSessionMaxAge       = 3600 * 24 * 7
)

var defaultBaseURL = "http://" + DefaultHost + DefaultPort

// setDefaults builds every component no RangerOption set, in dependency order.
func (r *Ranger) setDefaults() error {
	var err error
	if r.ctx == nil {
		r.ctx = context.Background()
	}

	if r.env == "" {
		r.env = artmatch.EnvVarOrEnv(environmentEnvVar, artmatch.Development)
	}

	if r.l == nil {
		r.l = defaultLogger(r.env)
	}

	if r.rev == "" {
		r.rev = artmatch.EnvVarOrRevision(revisionEnvVar, artmatch.RevisionExplore)
	}
	r.l.Debug(fmt.Sprintf("using router revision %s", r.rev), nil)

	r.url = artmatch.EnvVarOrURL(BaseURLEnvVar, defaultBaseURL)

	if r.storage == nil {
		if r.storage, err = r.defaultStorage(); err != nil {
			return err
		}
	}
	r.l.Debug(fmt.Sprintf("using storage %T", r.storage), nil)

	if r.provider == nil {
		if r.provider, err = defaultProvider(r.env, r.l); err != nil {
			return err
		}
	}
	r.l.Debug(fmt.Sprintf("using auth provider %T", r.provider), nil)

	r.auth = auth.NewService(r.provider, r.storage, auth.NewNotifier(), r.l)
	r.stores = authstate.NewManager(r.auth, r.storage, r.l, authstate.WithIdleTimeout(defaultSessionMaxAge*time.Second))

	if r.sessions == nil {
		if r.sessions, err = defaultSessionStore(r.env); err != nil {
			return err
		}
	}

	contact := artmatch.EnvVarOrString(ContactUsEnvVar, defaultContactUs)
	r.Responder = defaultResponder(r.l, r.url, contact)
	r.Router = r.defaultRouter()

	if r.srv == nil {
		r.srv = defaultServer(r.ctx)
		r.srv.Handler = r.Router
	}

	return nil
}

// defaultLogger constructs a logger.Logger configured for use in the application.
func defaultLogger(env artmatch.Environment) logger.Logger {
	lvl := logger.NewLogLevel(artmatch.EnvVarOrString(logLevelEnvVar, defaultLogLvl))
	cl := logger.New(logger.WithEnv(env.String()), logger.WithLevel(lvl))
	cl.Debug("setting up app logger", nil)

	if dsn := os.Getenv(sentryDsnEnvVar); dsn != "" {
		l := logger.NewSentryLogger(cl, dsn)
		l.Debug("using SentryLogger for app logger", nil)
		return l
	}

	return cl
}

// defaultStorage constructs the storage.Storage named by STORAGE_DRIVER,
// connecting to Postgres first if that driver needs it.
func (r *Ranger) defaultStorage() (storage.Storage, error) {
	cfg := storage.Config{
		Driver: artmatch.EnvVarOrString(storageDriverEnvVar, storage.DriverMemory),
		TTL:    artmatch.EnvVarOrDuration(storageTTLEnvVar, defaultSessionMaxAge*time.Second),
		Redis: storage.RedisConfig{
			URL:      os.Getenv(redisURLEnvVar),
			Password: os.Getenv(redisPasswordEnvVar),
			Prefix:   defaultStoragePrefix,
		},
	}

	if cfg.Driver == storage.DriverPostgres && r.db == nil {
		db, err := postgres.Connect(postgres.NewCxnConfig(r.env), r.env)
		if err != nil {
			return nil, err
		}

		r.db = db
	}

	return storage.New(cfg, storage.Dependencies{DB: r.db})
}

// defaultProvider constructs the auth.Provider for the Supabase project at SUPABASE_URL.
// With SUPABASE_JWT_SECRET set, access tokens are verified locally.
//
// In environments allowing stubbed services, a missing SUPABASE_URL
// falls back to an in-memory provider,
// registering the user given by STUB_USER_EMAIL and STUB_USER_PASSWORD if set.
func defaultProvider(env artmatch.Environment, l logger.Logger) (auth.Provider, error) {
	projectURL := os.Getenv(SupabaseURLEnvVar)
	if projectURL == "" {
		if !env.CanUseServiceStub() {
			return nil, fmt.Errorf("%w: %s is required in %s", artmatch.ErrMissingData, SupabaseURLEnvVar, env)
		}

		l.Warn("no Supabase project configured, using stubbed auth provider", nil)
		stub := auth.NewStub(0)
		if email, pass := os.Getenv(stubUserEmailEnvVar), os.Getenv(stubUserPasswordEnvVar); email != "" && pass != "" {
			stub.AddUser(email, pass, artmatch.User{})
		}

		return stub, nil
	}

	sb, err := auth.NewSupabase(projectURL, os.Getenv(SupabaseAnonKeyEnvVar))
	if err != nil {
		return nil, err
	}

	secret := os.Getenv(SupabaseJWTSecretEnvVar)
	if secret == "" {
		return sb, nil
	}

	v, err := auth.NewJWTVerifier(sb, secret)
	if err != nil {
		return nil, err
	}

	return v, nil
}

// defaultSessionStore constructs a SessionStorer to be used for storing session data.
//
// defaultSessionStore relies on these env vars:
//   - SESSION_NAME
//   - SESSION_AUTH_KEY
//   - SESSION_ENCRYPTION_KEY
//   - SESSION_REDIS_URL, keeping sessions in Redis instead of cookies
//   - SESSION_REDIS_PASSWORD
//
// Both KEY env vars be valid hex encoded values; cf. [encoding/hex].
func defaultSessionStore(env artmatch.Environment) (session.SessionStorer, error) {
	cfg := session.Config{
		AuthKey:     os.Getenv(SessionAuthKeyEnvVar),
		EncryptKey:  os.Getenv(SessionEncryptKeyEnvVar),
		Env:         env,
		SessionName: artmatch.EnvVarOrString(sessionNameEnvVar, defaultSessionName),
	}

	args := []session.ServiceOpt{session.WithMaxAge(defaultSessionMaxAge)}
	if uri := os.Getenv(sessionRedisURLEnvVar); uri != "" {
		args = append(args, session.WithRedis(uri, os.Getenv(sessionRedisPasswordEnvVar)))
	} else {
		args = append(args, session.WithCookie())
	}

	return session.NewStoreService(cfg, args...)
}

// defaultResponder configures the [*resp.Responder] to be used by http.Handlers.
func defaultResponder(l logger.Logger, u *url.URL, contact string) *resp.Responder {
	return resp.NewResponder(
		resp.WithContactErrMsg(fmt.Sprintf(session.ContactUsErr, contact)),
		resp.WithLogger(l),
		resp.WithRootUrl(u.String()),
	)
}

// defaultRouter constructs the [*router.Router] serving the revision's route table,
// guarded by the authentication provider.
func (r *Ranger) defaultRouter() *router.Router {
	logReq := middleware.LogRequest(r.l)

	route := router.New(r.env, logReq)
	route.OnEveryRequest(
		middleware.ForceHTTPS(r.env),
		middleware.RequestID(),
		middleware.InjectIPAddress(defaultIPResolver(r.env)),
		logReq,
		middleware.InjectSession(r.sessions),
	)
	route.Guard(middleware.Guard{
		Login:     router.Login,
		Landing:   router.Landing(r.rev),
		Users:     middleware.ProviderLookup(r.auth),
		Logger:    r.l,
		Responder: r.Responder,
	})

	r.h = handler.New(r.Responder, r.auth, r.stores, route, r.rev, r.l)

	limiter := middleware.NewVisitors(
		rate.Every(artmatch.EnvVarOrDuration(signInPeriodEnvVar, defaultSignInPeriod)),
		artmatch.EnvVarOrInt(signInBurstEnvVar, defaultSignInBurst),
	)
	route.HandleRoutes(router.Table(r.rev, r.h, limiter))
	route.Subrouter("/api").HandleRoutes(router.API(r.h), middleware.CORS(r.url.Scheme+"://"+r.url.Host))
	route.HandleNotFound(r.h.NotFound)

	return route
}

// defaultIPResolver trusts TRUSTED_PROXIES proxies to report client addresses.
// Deployed environments sit behind one proxy unless told otherwise;
// local ones are reached directly.
func defaultIPResolver(env artmatch.Environment) middleware.IPResolver {
	def := 1
	if env.CanUseServiceStub() {
		def = 0
	}

	return middleware.IPResolver{Proxies: artmatch.EnvVarOrInt(trustedProxiesEnvVar, def)}
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	port := artmatch.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		IdleTimeout:  artmatch.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  artmatch.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: artmatch.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}
