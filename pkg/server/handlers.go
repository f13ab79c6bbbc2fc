package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/events"
	"github.com/charlie0129/battpanel/pkg/panel"
	"github.com/charlie0129/battpanel/pkg/version"
)

func (s *Server) state(c *gin.Context) (panel.State, bool) {
	st, err := s.panel.State(c.Request.Context())
	if err != nil {
		logrus.Errorf("failed to get panel state: %v", err)
		c.IndentedJSON(http.StatusServiceUnavailable, err.Error())
		_ = c.AbortWithError(http.StatusServiceUnavailable, err)
		return panel.State{}, false
	}
	return st, true
}

func (s *Server) getState(c *gin.Context) {
	if st, ok := s.state(c); ok {
		c.IndentedJSON(http.StatusOK, st)
	}
}

func (s *Server) getFields(c *gin.Context) {
	if st, ok := s.state(c); ok {
		c.IndentedJSON(http.StatusOK, st.Fields)
	}
}

type sectionsResponse struct {
	Sections []panel.Section `json:"sections"`
	Height   float64         `json:"height"`
}

func (s *Server) getSections(c *gin.Context) {
	if st, ok := s.state(c); ok {
		c.IndentedJSON(http.StatusOK, sectionsResponse{Sections: st.Sections, Height: st.Height})
	}
}

func (s *Server) getProcesses(c *gin.Context) {
	if st, ok := s.state(c); ok {
		rows := st.Rows
		if rows == nil {
			rows = []panel.ProcessRow{}
		}
		c.IndentedJSON(http.StatusOK, rows)
	}
}

func (s *Server) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(s.conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func (s *Server) setProcesses(c *gin.Context) {
	var n int
	if err := c.BindJSON(&n); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if n < 0 || n > config.MaxProcessRowCount {
		err := fmt.Errorf("process count must be between 0 and %d, got %d", config.MaxProcessRowCount, n)
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	s.panel.SetProcessCount(n)
	// Wait for the resize to be applied so the response reflects it.
	st, ok := s.state(c)
	if !ok {
		return
	}

	ret := fmt.Sprintf("set process count to %d, panel height is now %s", n, strconv.FormatFloat(st.Height, 'f', -1, 64))
	logrus.Info(ret)

	c.IndentedJSON(http.StatusCreated, ret)
}

func (s *Server) setColor(c *gin.Context) {
	var enabled bool
	if err := c.BindJSON(&enabled); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	s.panel.SetColorEnabled(enabled)
	if _, ok := s.state(c); !ok {
		return
	}

	ret := fmt.Sprintf("set color to %t", enabled)
	logrus.Info(ret)

	c.IndentedJSON(http.StatusCreated, ret)
}

// setConfigKey handles the preferences that need no structural change.
func (s *Server) setConfigKey(c *gin.Context) {
	key := c.Param("key")

	b, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}
	value := strings.Trim(strings.TrimSpace(string(b)), `"`)

	if err := config.Set(s.conf, key, value); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, config.ErrUnknownKey) {
			status = http.StatusNotFound
		}
		c.IndentedJSON(status, err.Error())
		_ = c.AbortWithError(status, err)
		return
	}

	if err := s.conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	s.panel.ReloadPreferences()
	if _, ok := s.state(c); !ok {
		return
	}

	ret := fmt.Sprintf("set %s to %s", key, value)
	logrus.Info(ret)

	c.IndentedJSON(http.StatusCreated, ret)
}

// streamEvents sends the full state first and then every panel event as
// server-sent events.
func (s *Server) streamEvents(c *gin.Context) {
	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	st, ok := s.state(c)
	if !ok {
		return
	}
	c.SSEvent(events.PanelState, st)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}
