package ranger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/artmatch"
	"github.com/xy-planning-network/artmatch/auth"
	"github.com/xy-planning-network/artmatch/authstate"
	"github.com/xy-planning-network/artmatch/http/handler"
	"github.com/xy-planning-network/artmatch/http/resp"
	"github.com/xy-planning-network/artmatch/http/router"
	"github.com/xy-planning-network/artmatch/http/session"
	"github.com/xy-planning-network/artmatch/logger"
	"github.com/xy-planning-network/artmatch/storage"
	"gorm.io/gorm"
)

// A Ranger manages and exposes all components of an artmatch app to one another.
type Ranger struct {
	*resp.Responder
	*router.Router

	auth     *auth.Service
	ctx      context.Context
	db       *gorm.DB
	env      artmatch.Environment
	h        *handler.Handler
	l        logger.Logger
	provider auth.Provider
	rev      artmatch.Revision
	sessions session.SessionStorer
	storage  storage.Storage
	stores   *authstate.Manager
	srv      *http.Server
	url      *url.URL
}

// New constructs a Ranger from the provided options.
// Options passed into New are applied first;
// every component they leave unset is built from its default,
// configured through environment variables.
func New(opts ...RangerOption) (*Ranger, error) {
	r := new(Ranger)
	followups := make([]OptFollowup, 0)

	// NOTE: calling an option configures the *Ranger under construction.
	// Some options require components only available once the defaults are in place.
	// They return an OptFollowup to be called after that.
	for _, opt := range opts {
		fn, err := opt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", artmatch.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	if err := r.setDefaults(); err != nil {
		return nil, fmt.Errorf("%w: %s", artmatch.ErrBadConfig, err)
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", artmatch.ErrBadConfig, err)
		}
	}

	return r, nil
}

func (r *Ranger) EmitAuth() *auth.Service                 { return r.auth }
func (r *Ranger) EmitEnv() artmatch.Environment           { return r.env }
func (r *Ranger) EmitLogger() logger.Logger               { return r.l }
func (r *Ranger) EmitRevision() artmatch.Revision         { return r.rev }
func (r *Ranger) EmitSessionStore() session.SessionStorer { return r.sessions }
func (r *Ranger) EmitStorage() storage.Storage            { return r.storage }
func (r *Ranger) EmitStores() *authstate.Manager          { return r.stores }

// Guide begins the web server.
//
// These, and (*Ranger).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (r *Ranger) Guide() error {
	ctx, cancel := context.WithCancel(r.ctx)
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			r.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		if err := r.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("could not listen: %w", err)
			r.l.Error(err.Error(), nil)
			cancel()
		}
	}()

	<-ctx.Done()
	return r.Shutdown()
}

// Shutdown shuts down the web server,
// then releases every auth state store and closes the storage behind them.
func (r *Ranger) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	err := r.srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	if err := r.stores.Close(); err != nil {
		return fmt.Errorf("could not release auth state: %w", err)
	}

	if err := r.storage.Close(); err != nil {
		return fmt.Errorf("could not close storage: %w", err)
	}

	r.l.Info("web server shutdown successfully", nil)
	return nil
}
