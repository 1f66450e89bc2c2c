package api_test

import (
	"bytes"
	"encoding/json"
	"image/gif"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"photostrip/internal/api"
	"photostrip/internal/layout"
	"photostrip/internal/logging"
	"photostrip/internal/testsupport"
)

type fixture struct {
	server    *httptest.Server
	artifacts *api.ArtifactService
	sessionID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	session := testsupport.PersistSession(t, st, "layout-a", 3, 4)

	layouts, err := layout.FromConfig(cfg)
	if err != nil {
		t.Fatalf("layout.FromConfig: %v", err)
	}
	artifacts, err := api.NewArtifactService(cfg, st, layouts, logging.NewNop())
	if err != nil {
		t.Fatalf("NewArtifactService: %v", err)
	}
	router := api.NewRouter(api.ServerConfig{Artifacts: artifacts, Logger: logging.NewNop(), StartTime: time.Now()})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return fixture{server: server, artifacts: artifacts, sessionID: session.ID}
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestHealthAndListing(t *testing.T) {
	f := newFixture(t)

	resp, body := get(t, f.server.URL+"/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status %d", resp.StatusCode)
	}
	var health api.HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.Sessions != 1 {
		t.Fatalf("unexpected health %+v", health)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}

	resp, body = get(t, f.server.URL+"/sessions")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status %d", resp.StatusCode)
	}
	var list api.SessionListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Sessions) != 1 || list.Sessions[0].ID != f.sessionID {
		t.Fatalf("unexpected sessions %+v", list.Sessions)
	}

	resp, body = get(t, f.server.URL+"/sessions/"+f.sessionID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status %d", resp.StatusCode)
	}
	var session api.Session
	if err := json.Unmarshal(body, &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Captured != 3 || session.Expected != 4 || !session.Partial || len(session.Artifacts) != 4 {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestArtifactRoutes(t *testing.T) {
	f := newFixture(t)
	base := f.server.URL + "/sessions/" + f.sessionID

	resp, body := get(t, base+"/strip.png?style=vintage&color=burgundy&scatter=basic&density=12&place=duck@50,50")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("png: status %d type %q body %s", resp.StatusCode, resp.Header.Get("Content-Type"), body)
	}
	if _, err := png.Decode(bytes.NewReader(body)); err != nil {
		t.Fatalf("decode strip png: %v", err)
	}

	resp, body = get(t, base+"/strip.pdf")
	if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatalf("pdf: status %d", resp.StatusCode)
	}

	resp, body = get(t, base+"/strip.gif")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("gif: status %d", resp.StatusCode)
	}
	anim, err := gif.DecodeAll(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(anim.Image) != 3 {
		t.Fatalf("expected 3 animation frames, got %d", len(anim.Image))
	}

	resp, body = get(t, base+"/code.png")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("code: status %d", resp.StatusCode)
	}
	if _, err := png.Decode(bytes.NewReader(body)); err != nil {
		t.Fatalf("decode code png: %v", err)
	}
}

func TestRasterIsStableAcrossRequests(t *testing.T) {
	f := newFixture(t)
	url := f.server.URL + "/sessions/" + f.sessionID + "/strip.png?scatter=magic"
	_, first := get(t, url)
	_, second := get(t, url)
	if !bytes.Equal(first, second) {
		t.Fatal("the scanned raster should match the one rendered earlier")
	}
}

func TestErrorMapping(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"unknown session", "/sessions/nope", http.StatusNotFound, "not_found"},
		{"unknown session artifact", "/sessions/nope/strip.png", http.StatusNotFound, "not_found"},
		{"unknown session code", "/sessions/nope/code.png", http.StatusNotFound, "not_found"},
		{"bad density", "/sessions/" + f.sessionID + "/strip.png?density=lots", http.StatusBadRequest, "validation"},
		{"bad placement", "/sessions/" + f.sessionID + "/strip.png?place=duck", http.StatusBadRequest, "validation"},
		{"placement off strip", "/sessions/" + f.sessionID + "/strip.png?place=duck@150,10", http.StatusBadRequest, "validation"},
		{"placement not a number", "/sessions/" + f.sessionID + "/strip.png?place=heart@NaN,50", http.StatusBadRequest, "validation"},
		{"bad color", "/sessions/" + f.sessionID + "/strip.pdf?color=zz", http.StatusBadRequest, "validation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := get(t, f.server.URL+tc.path)
			if resp.StatusCode != tc.status {
				t.Fatalf("status %d, want %d (%s)", resp.StatusCode, tc.status, body)
			}
			var payload api.ErrorResponse
			if err := json.Unmarshal(body, &payload); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if payload.Code != tc.code {
				t.Fatalf("code %q, want %q", payload.Code, tc.code)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	f := newFixture(t)
	req, err := http.NewRequest(http.MethodDelete, f.server.URL+"/sessions/"+f.sessionID, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status %d", resp.StatusCode)
	}
	if resp, _ := get(t, f.server.URL+"/sessions/"+f.sessionID); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestUnknownLayoutFallsBack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	session := testsupport.PersistSession(t, st, "layout-retired", 2, 2)
	layouts, err := layout.FromConfig(cfg)
	if err != nil {
		t.Fatalf("layout.FromConfig: %v", err)
	}
	artifacts, err := api.NewArtifactService(cfg, st, layouts, logging.NewNop())
	if err != nil {
		t.Fatalf("NewArtifactService: %v", err)
	}
	c, _, err := artifacts.Composite(t.Context(), session.ID, api.RenderOptions{})
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if filled, total := c.Slots(); filled != 2 || total != 2 {
		t.Fatalf("expected 2/2 slots, got %d/%d", filled, total)
	}
}

func TestParsePlacement(t *testing.T) {
	p, err := api.ParsePlacement("mouse@12.5, 80")
	if err != nil {
		t.Fatalf("ParsePlacement: %v", err)
	}
	if p.Glyph != "mouse" || p.X != 12.5 || p.Y != 80 {
		t.Fatalf("unexpected placement %+v", p)
	}
	for _, bad := range []string{"", "@1,2", "mouse@1", "mouse@a,2", "mouse@1,b", "heart@NaN,50", "heart@50,Inf"} {
		if _, err := api.ParsePlacement(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestScatterSet(t *testing.T) {
	if got := api.ScatterSet("nature"); len(got) != 4 || got[0] != "flower" {
		t.Fatalf("unexpected nature set %v", got)
	}
	if got := api.ScatterSet("heart, star ,"); len(got) != 2 || got[1] != "star" {
		t.Fatalf("unexpected custom set %v", got)
	}
	if api.ScatterSet("none") != nil || api.ScatterSet("") != nil {
		t.Fatal("none should disable scatter")
	}
}
