package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/powerstat/powerstat/pkg/config"
)

// NewRouter returns the HTTP API serving battery reports read under the
// configured power supply root.
func NewRouter(conf config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	h := &handlers{conf: conf}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/report", h.getReport)
	router.GET("/batteries", h.getBatteries)
	router.GET("/runtime", h.getRuntime)
	router.GET("/config", h.getConfig)
	router.GET("/version", getVersion)

	return router
}

// ReloadFunc rereads configuration into the config being served.
type ReloadFunc func() error

// Run serves the API on unixSocketPath until SIGINT or SIGTERM. SIGHUP calls
// reload, or conf.Load when reload is nil.
func Run(conf config.Config, reload ReloadFunc, unixSocketPath string, allowNonRoot bool) error {
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	if reload == nil {
		reload = conf.Load
	}

	// Receive SIGHUP to reload config
	hupc := make(chan os.Signal, 1)
	signal.Notify(hupc, syscall.SIGHUP)
	defer signal.Stop(hupc)
	done := make(chan struct{})
	defer close(done)
	go reloadOnHangup(done, hupc, conf, reload)

	srv := &http.Server{
		Handler:           NewRouter(conf),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// A socket left behind by a crashed daemon would make Listen fail.
	if fi, err := os.Stat(unixSocketPath); err == nil && fi.Mode()&os.ModeSocket != 0 {
		logrus.Debugf("removing stale socket %s", unixSocketPath)
		_ = os.Remove(unixSocketPath)
	}

	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to listen on %s", unixSocketPath)
	}

	if allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		if err := os.Chmod(unixSocketPath, 0777); err != nil {
			_ = l.Close()
			return pkgerrors.Wrapf(err, "failed to chmod %s", unixSocketPath)
		}
	}

	errc := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	select {
	case sig := <-sigc:
		logrus.Infof("caught signal \"%s\": shutting down.", sig)
	case err := <-errc:
		return pkgerrors.Wrap(err, "http server failed")
	}

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}

	logrus.Info("exiting")
	return nil
}

// reloadOnHangup calls reload for every signal on hupc until done is closed.
func reloadOnHangup(done <-chan struct{}, hupc <-chan os.Signal, conf config.Config, reload ReloadFunc) {
	for {
		select {
		case <-done:
			return
		case <-hupc:
			if err := reload(); err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded")
		}
	}
}
