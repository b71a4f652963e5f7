package daemon

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/powerstat/powerstat/pkg/config"
	"github.com/powerstat/powerstat/pkg/powersupply"
	"github.com/powerstat/powerstat/pkg/report"
	"github.com/powerstat/powerstat/pkg/version"
)

type handlers struct {
	conf config.Config
}

// collect reads a fresh report. Nothing is cached between requests.
func (h *handlers) collect(c *gin.Context) (*report.Report, bool) {
	r, err := report.Collect(h.conf.PowerSupplyRoot(), powersupply.Options{
		SkipUnreadable: h.conf.SkipUnreadable(),
	})
	if err != nil {
		logrus.Errorf("collect failed: %v", err)
		status := http.StatusInternalServerError
		c.IndentedJSON(status, err.Error())
		_ = c.AbortWithError(status, err)
		return nil, false
	}
	return r, true
}

func (h *handlers) getReport(c *gin.Context) {
	r, ok := h.collect(c)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, r)
}

func (h *handlers) getBatteries(c *gin.Context) {
	r, ok := h.collect(c)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, r.Batteries)
}

func (h *handlers) getRuntime(c *gin.Context) {
	r, ok := h.collect(c)
	if !ok {
		return
	}
	c.IndentedJSON(http.StatusOK, r.Runtime)
}

func (h *handlers) getConfig(c *gin.Context) {
	if h.conf == nil {
		err := errors.New("config is nil")
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, h.conf.LogrusFields())
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
