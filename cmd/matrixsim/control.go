package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tinygo-org/piomatrix/effects"
	"github.com/tinygo-org/piomatrix/scheduler"
)

// control serves the HTTP API that switches effects.
type control struct {
	switches *scheduler.Signal[effects.Effect]
	frames   func() uint64
	logger   *slog.Logger

	mu      sync.Mutex
	current effects.Kind
}

func newControl(switches *scheduler.Signal[effects.Effect], current effects.Kind, frames func() uint64, logger *slog.Logger) *control {
	return &control{
		switches: switches,
		frames:   frames,
		logger:   logger,
		current:  current,
	}
}

func (c *control) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/effects", c.listEffects)
	r.Put("/effect/{kind}", c.setEffect)
	r.Get("/status", c.status)
	return r
}

type effectInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type statusResponse struct {
	Effect string `json:"effect"`
	Frames uint64 `json:"frames"`
}

func (c *control) listEffects(w http.ResponseWriter, r *http.Request) {
	kinds := effects.Kinds()
	list := make([]effectInfo, len(kinds))
	for i, k := range kinds {
		list[i] = effectInfo{Index: int(k), Name: k.String()}
	}
	c.writeJSON(w, http.StatusOK, list)
}

func (c *control) setEffect(w http.ResponseWriter, r *http.Request) {
	selector := chi.URLParam(r, "kind")
	kind, err := effects.ParseKind(selector)
	if err != nil {
		c.logger.Debug("rejected effect switch", "selector", selector, "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := effects.New(kind, newRand())
	if err != nil {
		var unknown *effects.UnknownEffectError
		if errors.As(err, &unknown) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.logger.Error("failed to create effect", "effect", kind, "err", err)
		http.Error(w, "cannot create effect", http.StatusInternalServerError)
		return
	}

	c.mu.Lock()
	c.current = kind
	c.mu.Unlock()
	c.switches.Signal(e)

	c.logger.Info("effect switched", "effect", kind)
	c.writeJSON(w, http.StatusAccepted, statusResponse{Effect: kind.String(), Frames: c.frames()})
}

func (c *control) status(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	c.writeJSON(w, http.StatusOK, statusResponse{Effect: current.String(), Frames: c.frames()})
}

func (c *control) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Warn("failed to write response", "err", err)
	}
}

// newRand returns a generator owned by one effect.
func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
