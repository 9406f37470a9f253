package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/xyths/nft-dashboard/cache"
	"github.com/xyths/nft-dashboard/feed"
	"github.com/xyths/nft-dashboard/gateway"
	"github.com/xyths/nft-dashboard/nft"
)

type upstream struct {
	calls int
	err   error
}

func (u *upstream) CollectionByContract(_ context.Context, address string) (nft.Collection, error) {
	u.calls++
	if u.err != nil {
		return nft.Collection{}, u.err
	}
	return nft.Collection{Name: "Live", Slug: "live-" + address}, nil
}

type events struct {
	list     []nft.Event
	err      error
	contract string
	limit    int
}

func (e *events) RecentEvents(_ context.Context, contract string, limit int) ([]nft.Event, error) {
	e.contract, e.limit = contract, limit
	return e.list, e.err
}

var sample = []nft.Event{
	{Type: nft.EventSale, Price: "1.5", From: "0x1234567890abcdef1234", To: "0xabcdef1234567890abcd", Timestamp: "2026-03-01T11:00:00Z"},
	{Type: nft.EventTransfer, From: "0x1234567890abcdef1234", To: "0xabcdef1234567890abcd", Timestamp: "2026-03-01T11:30:00Z"},
	{Type: nft.EventMint, From: "0x0000000000000000000000000000000000000000", To: "0xabcdef1234567890abcd", Timestamp: "2026-02-20T12:00:00Z"},
}

func newTestServer(t *testing.T, up gateway.Upstream, src EventSource) *httptest.Server {
	sugar := zaptest.NewLogger(t).Sugar()
	gw := gateway.New(gateway.DefaultTTL, cache.NewMemory(10), up, sugar)
	api := NewAPI(gw, Options{Events: src, CacheBackend: cache.BackendMemory}, sugar)
	api.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	srv := httptest.NewServer(NewRouter(api, sugar))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestCollectionMissThenHit(t *testing.T) {
	up := &upstream{}
	srv := newTestServer(t, up, nil)

	resp, first := get(t, srv.URL+"/api/collections/contract/0xABC")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Cache") != "MISS" || resp.Header.Get("X-Data-Source") != "live" {
		t.Fatalf("unexpected headers %v", resp.Header)
	}
	if resp.Header.Get("Cache-Control") != cacheControl {
		t.Fatalf("cache-control %q", resp.Header.Get("Cache-Control"))
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatal("missing request id")
	}

	resp, second := get(t, srv.URL+"/api/collections/contract/0xabc")
	if resp.Header.Get("X-Cache") != "HIT" || resp.Header.Get("X-Data-Source") != "cache" {
		t.Fatalf("unexpected headers %v", resp.Header)
	}
	if string(first) != string(second) {
		t.Fatalf("bodies differ:\n%s\n%s", first, second)
	}
	if up.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", up.calls)
	}
}

func TestCollectionFallback(t *testing.T) {
	srv := newTestServer(t, &upstream{err: errors.New("down")}, nil)
	resp, body := get(t, srv.URL+"/api/collections/contract/"+gateway.ReferenceContract)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Cache") != "MISS" || resp.Header.Get("X-Data-Source") != "fallback" {
		t.Fatalf("unexpected headers %v", resp.Header)
	}
	var out nft.CollectionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if out.Collection.Slug != "boredapeyachtclub" {
		t.Fatalf("unexpected fallback %+v", out.Collection)
	}
}

func TestCollectionWithoutCredential(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	resp, body := get(t, srv.URL+"/api/collections/contract/0xdead")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("X-Data-Source") != "fallback" {
		t.Fatalf("unexpected response %d %v", resp.StatusCode, resp.Header)
	}
	if !strings.Contains(string(body), "Mock Collection") {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestActivityJSON(t *testing.T) {
	src := &events{list: sample}
	srv := newTestServer(t, nil, src)
	resp, body := get(t, srv.URL+"/api/collections/contract/0xABC/activity?type=sale&limit=5")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if src.contract != "0xabc" || src.limit != 5 {
		t.Fatalf("unexpected query %q %d", src.contract, src.limit)
	}
	var v feed.View
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatal(err)
	}
	if v.Selected != feed.Sale || len(v.Rows) != 1 {
		t.Fatalf("unexpected view %+v", v)
	}
	r := v.Rows[0]
	if r.Price != "1.5 ETH" || r.From.Short != "0x1234...1234" || r.Age != "1h ago" {
		t.Fatalf("unexpected row %+v", r)
	}
}

func TestActivityEmptyAndUnknownType(t *testing.T) {
	srv := newTestServer(t, nil, &events{list: sample})
	_, body := get(t, srv.URL+"/api/collections/contract/0xabc/activity?type=list&format=text")
	if strings.TrimSpace(string(body)) != "No list events found" {
		t.Fatalf("unexpected body %q", body)
	}

	resp, _ := get(t, srv.URL+"/api/collections/contract/0xabc/activity?type=burn")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	resp, _ = get(t, srv.URL+"/api/collections/contract/0xabc/activity?format=xml")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestActivityStoreErrorDegrades(t *testing.T) {
	srv := newTestServer(t, nil, &events{err: errors.New("mongo down")})
	resp, body := get(t, srv.URL+"/api/collections/contract/0xabc/activity")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var v feed.View
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatal(err)
	}
	if len(v.Rows) != 0 || v.Empty != "No all events found" {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestActivityHTML(t *testing.T) {
	srv := newTestServer(t, nil, &events{list: sample})
	resp, body := get(t, srv.URL+"/api/collections/contract/0xabc/activity?format=html&filters=1&type=mint")
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("content type %q", resp.Header.Get("Content-Type"))
	}
	html := string(body)
	if !strings.Contains(html, `class="filter active"`) || !strings.Contains(html, "Mint") {
		t.Fatalf("unexpected html %s", html)
	}
	if strings.Contains(html, "Sale <span") {
		t.Fatalf("sale row should be filtered out: %s", html)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	resp, body := get(t, srv.URL+"/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var h healthResponse
	if err := json.Unmarshal(body, &h); err != nil {
		t.Fatal(err)
	}
	if !h.Ok || h.UpstreamCredentials || h.Cache != cache.BackendMemory || h.EventStore {
		t.Fatalf("unexpected health %+v", h)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/health", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent || resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected preflight %d %v", resp.StatusCode, resp.Header)
	}
}

func TestRecoveryReturns500(t *testing.T) {
	h := withRecovery(zaptest.NewLogger(t).Sugar(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "internal") {
		t.Fatalf("unexpected %d %s", rec.Code, rec.Body.String())
	}
}
