package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/events"
	"github.com/charlie0129/battpanel/pkg/panel"
)

// Panel is what the server needs from panel.Panel.
type Panel interface {
	State(ctx context.Context) (panel.State, error)
	SetProcessCount(n int)
	SetColorEnabled(enabled bool)
	ReloadPreferences()
}

// Server exposes the panel state over HTTP on a unix socket.
type Server struct {
	panel      Panel
	conf       config.Config
	hub        *events.EventHub
	socketPath string
	allowAll   bool
	metrics    http.Handler

	router *gin.Engine
}

type Options struct {
	Panel      Panel
	Config     config.Config
	Hub        *events.EventHub
	SocketPath string
	// AllowNonRoot makes the socket world-writable.
	AllowNonRoot bool
	// Metrics is served on /metrics when set.
	Metrics http.Handler
}

func New(opts Options) *Server {
	s := &Server{
		panel:      opts.Panel,
		conf:       opts.Config,
		hub:        opts.Hub,
		socketPath: opts.SocketPath,
		allowAll:   opts.AllowNonRoot,
		metrics:    opts.Metrics,
	}
	s.router = s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logrus.StandardLogger()))
	router.GET("/state", s.getState)
	router.GET("/fields", s.getFields)
	router.GET("/sections", s.getSections)
	router.GET("/processes", s.getProcesses)
	router.GET("/config", s.getConfig)
	router.PUT("/config/processes", s.setProcesses)
	router.PUT("/config/color", s.setColor)
	router.PUT("/config/:key", s.setConfigKey)
	router.GET("/events", s.streamEvents)
	router.GET("/version", getVersion)
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics))
	}

	return router
}

// Handler returns the HTTP handler, mostly useful for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if _, err := os.Stat(s.socketPath); err == nil {
		logrus.WithField("socket", s.socketPath).Warn("removing stale socket")
		if err := os.Remove(s.socketPath); err != nil {
			return pkgerrors.Wrapf(err, "failed to remove stale socket %s", s.socketPath)
		}
	}

	l, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to listen on %s", s.socketPath)
	}

	if s.allowAll {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", s.socketPath)
		if err := os.Chmod(s.socketPath, 0o777); err != nil {
			_ = l.Close()
			return pkgerrors.Wrapf(err, "failed to change permissions of %s", s.socketPath)
		}
	}

	srv := &http.Server{
		Handler: s.router,
		// Cancelling ctx also ends open event streams.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return pkgerrors.Wrapf(err, "failed to shutdown http server")
	}
	return nil
}
