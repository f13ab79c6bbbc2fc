package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/events"
	"github.com/charlie0129/battpanel/pkg/metrics"
	"github.com/charlie0129/battpanel/pkg/panel"
	"github.com/charlie0129/battpanel/pkg/powerinfo"
	"github.com/charlie0129/battpanel/pkg/version"
)

type fixture struct {
	srv   *Server
	panel *panel.Panel
	conf  *config.File
	hub   *events.EventHub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conf, err := config.NewFile(filepath.Join(t.TempDir(), "battpanel.json"))
	require.NoError(t, err)
	hub := events.NewEventHub()
	p := panel.New(panel.Options{Settings: conf, Publisher: hub})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = p.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &fixture{
		srv:   New(Options{Panel: p, Config: conf, Hub: hub, Metrics: metrics.New().Handler()}),
		panel: p,
		conf:  conf,
		hub:   hub,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)
	return w
}

func testSnapshot() powerinfo.Snapshot {
	return powerinfo.Snapshot{
		Level:        0.8,
		IsCharging:   true,
		TimeToCharge: 30,
		PowerSource:  powerinfo.SourceAC,
		ACWatts:      60,
	}
}

func TestSections(t *testing.T) {
	f := newFixture(t)
	f.panel.OnMeasurement(testSnapshot())

	w := f.do(t, http.MethodGet, "/sections", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp sectionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Sections, 5)
	assert.Equal(t, panel.DashboardHeight+panel.DetailsHeight+panel.BatteryHeight+panel.AdapterHeight+panel.ProcessesHeight(8), resp.Height)
}

func TestFields(t *testing.T) {
	f := newFixture(t)
	f.panel.OnMeasurement(testSnapshot())

	w := f.do(t, http.MethodGet, "/fields", "")
	require.Equal(t, http.StatusOK, w.Code)

	var fields map[panel.FieldID]panel.Field
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	assert.Equal(t, "80%", fields[panel.FieldLevel].Text)
	assert.Equal(t, "60 W", fields[panel.FieldAdapterPower].Text)
}

func TestSetProcesses(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/config/processes", "0")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 0, f.conf.ProcessRowCount())

	w = f.do(t, http.MethodGet, "/processes", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = f.do(t, http.MethodPut, "/config/processes", "99")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPut, "/config/processes", "many")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetColor(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/config/color", "true")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, f.conf.ColorEnabled())

	w = f.do(t, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	var st panel.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.True(t, st.Gauge.Colored)
}

func TestSetConfigKey(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPut, "/config/timeFormat", `"long"`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	var raw config.RawFileConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.NotNil(t, raw.TimeFormat)
	assert.Equal(t, config.TimeFormatLong, *raw.TimeFormat)

	w = f.do(t, http.MethodPut, "/config/timeFormat", `"medium"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPut, "/config/nope", `"x"`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, w.Code)

	var v string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, version.Version, v)
}

func TestStreamEvents(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	sc := bufio.NewScanner(resp.Body)
	nextEvent := func() string {
		for sc.Scan() {
			if name, ok := strings.CutPrefix(sc.Text(), "event:"); ok {
				return strings.TrimSpace(name)
			}
		}
		return ""
	}

	assert.Equal(t, events.PanelState, nextEvent())

	f.panel.SetColorEnabled(true)
	assert.Equal(t, events.PanelGauge, nextEvent())
}

func TestMetricsAndRequestID(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "battpanel_measurements_total 0")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set(requestIDHeader, "abc")
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(requestIDHeader))
}

func TestSetConfigKeyPublishesPreferences(t *testing.T) {
	f := newFixture(t)
	ch := f.hub.Subscribe()
	defer f.hub.Unsubscribe(ch)

	w := f.do(t, http.MethodPut, "/config/language", `"de"`)
	require.Equal(t, http.StatusCreated, w.Code)

	select {
	case ev := <-ch:
		require.Equal(t, events.PanelPreferences, ev.Name)
		prefs, err := events.DecodeAs[config.Preferences](ev)
		require.NoError(t, err)
		assert.Equal(t, "de", prefs.Language)
	case <-time.After(2 * time.Second):
		t.Fatal("no preferences event")
	}
}
