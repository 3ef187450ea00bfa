package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/neilotoole/slogt"

	"github.com/tinygo-org/piomatrix/effects"
	"github.com/tinygo-org/piomatrix/scheduler"
)

func newTestControl(t *testing.T) (*control, *scheduler.Signal[effects.Effect], http.Handler) {
	switches := scheduler.NewSignal[effects.Effect]()
	frames := func() uint64 { return 42 }
	c := newControl(switches, effects.KindWheel, frames, slogt.New(t))
	return c, switches, c.routes()
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestControlListEffects(t *testing.T) {
	_, _, h := newTestControl(t)

	rec := do(t, h, http.MethodGet, "/effects")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var list []effectInfo
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, len(effects.Kinds()), len(list))
	assert.Equal(t, effectInfo{Index: 0, Name: "wheel"}, list[0])
	assert.Equal(t, effectInfo{Index: 2, Name: "cake"}, list[2])
}

func TestControlSetEffect(t *testing.T) {
	for _, selector := range []string{"cake", "2", "CAKE"} {
		t.Run(selector, func(t *testing.T) {
			_, switches, h := newTestControl(t)

			rec := do(t, h, http.MethodPut, "/effect/"+selector)
			assert.Equal(t, http.StatusAccepted, rec.Code)

			var resp statusResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "cake", resp.Effect)

			e, ok := switches.TryTake()
			assert.True(t, ok)
			assert.Equal(t, effects.KindCake, e.Kind())

			status := do(t, h, http.MethodGet, "/status")
			assert.NoError(t, json.Unmarshal(status.Body.Bytes(), &resp))
			assert.Equal(t, statusResponse{Effect: "cake", Frames: 42}, resp)
		})
	}
}

func TestControlUnknownEffect(t *testing.T) {
	_, switches, h := newTestControl(t)

	for _, selector := range []string{"8", "sparkles"} {
		rec := do(t, h, http.MethodPut, "/effect/"+selector)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown effect")
	}

	_, ok := switches.TryTake()
	assert.False(t, ok)

	var resp statusResponse
	rec := do(t, h, http.MethodGet, "/status")
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "wheel", resp.Effect)
}

func TestControlLatestSwitchWins(t *testing.T) {
	_, switches, h := newTestControl(t)

	do(t, h, http.MethodPut, "/effect/life")
	do(t, h, http.MethodPut, "/effect/pulse")

	e, ok := switches.TryTake()
	assert.True(t, ok)
	assert.Equal(t, effects.KindPulse, e.Kind())

	_, ok = switches.TryTake()
	assert.False(t, ok)
}

func TestControlMethodNotAllowed(t *testing.T) {
	_, _, h := newTestControl(t)

	rec := do(t, h, http.MethodGet, "/effect/cake")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type brokenWriter struct {
	header http.Header
	code   int
}

func (w *brokenWriter) Header() http.Header { return w.header }

func (w *brokenWriter) WriteHeader(code int) { w.code = code }

func (w *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestControlLogsResponseWriteError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	c := newControl(scheduler.NewSignal[effects.Effect](), effects.KindWheel, func() uint64 { return 0 }, logger)

	w := &brokenWriter{header: http.Header{}}
	c.status(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, w.code)
	assert.Contains(t, logs.String(), "failed to write response")
	assert.Contains(t, logs.String(), "connection reset")
}
