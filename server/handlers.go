package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xyths/nft-dashboard/feed"
	"github.com/xyths/nft-dashboard/gateway"
	"github.com/xyths/nft-dashboard/nft"
)

const (
	cacheControl = "public, s-maxage=60, stale-while-revalidate=30"

	defaultEventLimit = 50
	maxEventLimit     = 500
)

// EventSource provides the events behind the activity feed.
type EventSource interface {
	RecentEvents(ctx context.Context, contract string, limit int) ([]nft.Event, error)
}

type Options struct {
	Events       EventSource // nil renders empty feeds
	EventLimit   int
	CacheBackend string
}

type API struct {
	gw    *gateway.Gateway
	opts  Options
	now   func() time.Time
	Sugar *zap.SugaredLogger
}

func NewAPI(gw *gateway.Gateway, opts Options, sugar *zap.SugaredLogger) *API {
	if opts.EventLimit <= 0 {
		opts.EventLimit = defaultEventLimit
	}
	return &API{gw: gw, opts: opts, now: time.Now, Sugar: sugar}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Collection serves GET /api/collections/contract/{address}.
func (a *API) Collection(w http.ResponseWriter, r *http.Request) {
	res := a.gw.Collection(r.Context(), r.PathValue("address"))
	if res.Status == http.StatusOK {
		w.Header().Set("Cache-Control", cacheControl)
		if res.Hit {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
	}
	w.Header().Set("X-Data-Source", string(res.Source))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Status)
	_, _ = w.Write(res.Body)
}

// Activity serves GET /api/collections/contract/{address}/activity.
// Query: type (filter), filters (show the filter row), format (json, text, html), limit.
func (a *API) Activity(w http.ResponseWriter, r *http.Request) {
	address := gateway.Normalize(r.PathValue("address"))
	q := r.URL.Query()
	filter, err := feed.ParseFilter(q.Get("type"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	limit := parseIntParam(q.Get("limit"), a.opts.EventLimit, 1, maxEventLimit)

	var events []nft.Event
	if a.opts.Events != nil {
		events, err = a.opts.Events.RecentEvents(r.Context(), address, limit)
		if err != nil {
			a.Sugar.Warnw("load events error", "address", address, "error", err)
			events = nil
		}
	}

	f := feed.New(events)
	f.Select(filter)
	if parseBool(q.Get("filters")) {
		f.ToggleFilters()
	}
	v := f.View(a.now())

	switch strings.ToLower(q.Get("format")) {
	case "", "json":
		writeJSON(w, http.StatusOK, v)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = feed.WriteText(w, v)
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := feed.WriteHTML(w, v, r.URL.Path); err != nil {
			a.Sugar.Errorw("render activity error", "address", address, "error", err)
		}
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("unknown format %q", q.Get("format"))})
	}
}

type healthResponse struct {
	Ok                  bool   `json:"ok"`
	TsISO               string `json:"tsISO"`
	Service             string `json:"service"`
	Version             string `json:"version"`
	UpstreamCredentials bool   `json:"upstream_credentials"`
	Cache               string `json:"cache"`
	EventStore          bool   `json:"event_store"`
}

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Ok:                  true,
		TsISO:               a.now().UTC().Format(time.RFC3339),
		Service:             "nftdash",
		Version:             os.Getenv("SERVICE_VERSION"),
		UpstreamCredentials: a.gw.HasCredential(),
		Cache:               a.opts.CacheBackend,
		EventStore:          a.opts.Events != nil,
	})
}

func parseIntParam(v string, def int, min int, max int) int {
	if v == "" {
		return def
	}
	out, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	if out < min {
		return min
	}
	if out > max {
		return max
	}
	return out
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
