package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/targoons/rnb-helper/internal/battle"
	"github.com/targoons/rnb-helper/internal/dex"
	"github.com/targoons/rnb-helper/internal/planner"
	"github.com/targoons/rnb-helper/internal/session"
)

const testSetup = `{
  "mine": {
    "team": [
      {"id": "a", "speciesId": "blaze", "level": 50, "moves": ["ember", "tackle"],
       "stats": {"hp": 100, "atk": 100, "def": 100, "spa": 100, "spd": 100, "spe": 120},
       "currentHp": 100, "maxHp": 100},
      {"id": "b", "speciesId": "leaf", "level": 50, "moves": ["tackle"],
       "stats": {"hp": 100, "atk": 100, "def": 100, "spa": 100, "spd": 100, "spe": 80},
       "currentHp": 100, "maxHp": 100}
    ]
  },
  "theirs": {
    "team": [
      {"id": "x", "speciesId": "leaf", "level": 50, "moves": ["tackle"],
       "stats": {"hp": 100, "atk": 100, "def": 100, "spa": 100, "spd": 100, "spe": 100},
       "currentHp": 100, "maxHp": 100}
    ]
  }
}`

type fixedRand int

func (f fixedRand) Intn(n int) int   { return int(f) % n }
func (f fixedRand) Float64() float64 { return 0.5 }

func testServer(t *testing.T) *Server {
	t.Helper()
	rules := dex.NewTable(
		[]dex.Species{
			{ID: "blaze", Types: []dex.Type{"Fire"}},
			{ID: "leaf", Types: []dex.Type{"Grass"}},
		},
		[]dex.Move{
			{ID: "tackle", Type: "Normal", Category: dex.Physical, Power: 40, Accuracy: dex.Accuracy{Percent: 100}},
			{ID: "ember", Type: "Fire", Category: dex.Special, Power: 40, Accuracy: dex.Accuracy{Percent: 100}},
		},
		nil,
	)
	return &Server{
		Rules:   rules,
		Rand:    fixedRand(0),
		Store:   session.NewMemoryStore[*planner.Tree](),
		Planner: planner.Config{BestDepth: 2, PredictDepth: 1},
		Depth:   1,
		Logger:  log.New(io.Discard, "", 0),
	}
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("Unexpected error decoding %q: %v", rec.Body.String(), err)
	}
	return v
}

func createSession(t *testing.T, srv *Server) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/sessions", testSetup)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.ID == "" {
		t.Fatal("Expected a session id")
	}
	return out.ID
}

func TestCreateSession(t *testing.T) {
	srv := testServer(t)
	id := createSession(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/sessions/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
	var out struct {
		ID   string `json:"id"`
		Tree struct {
			Root    string            `json:"root"`
			Current string            `json:"current"`
			Nodes   []json.RawMessage `json:"nodes"`
		} `json:"tree"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.ID != id {
		t.Errorf("Expected id %s, got %s", id, out.ID)
	}
	if out.Tree.Root == "" || out.Tree.Root != out.Tree.Current {
		t.Errorf("Expected current to be the root, got root %q current %q", out.Tree.Root, out.Tree.Current)
	}
	if len(out.Tree.Nodes) != 1 {
		t.Errorf("Expected 1 node, got %d", len(out.Tree.Nodes))
	}
}

func TestCreateSession_BadBody(t *testing.T) {
	srv := testServer(t)
	rec := do(t, srv, http.MethodPost, "/api/sessions", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if e := decode[errorView](t, rec); e.Error == "" {
		t.Error("Expected an error message")
	}
}

func TestCreateSession_InvalidSetup(t *testing.T) {
	srv := testServer(t)
	rec := do(t, srv, http.MethodPost, "/api/sessions", `{"mine":{"team":[]},"theirs":{"team":[]}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	srv := testServer(t)
	rec := do(t, srv, http.MethodGet, "/api/sessions/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	srv := testServer(t)
	id := createSession(t, srv)

	rec := do(t, srv, http.MethodDelete, "/api/sessions/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/api/sessions/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
}

func TestAnalysis(t *testing.T) {
	srv := testServer(t)
	id := createSession(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/sessions/"+id+"/analysis?depth=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	view := decode[AnalysisView](t, rec)
	if view.Depth != 2 {
		t.Errorf("Expected depth 2, got %d", view.Depth)
	}
	if view.Best == nil || view.Best.MoveID != "ember" {
		t.Errorf("Expected ember as the best action, got %+v", view.Best)
	}
	if len(view.Actions) == 0 || view.Actions[0].MoveID != "ember" {
		t.Errorf("Expected ember ranked first, got %+v", view.Actions)
	}
	if len(view.Predictions) != 1 || view.Predictions[0].MoveID != "tackle" {
		t.Errorf("Expected a single tackle prediction, got %+v", view.Predictions)
	}
	if view.Risk.Level != planner.Safe {
		t.Errorf("Expected Safe at the root, got %s", view.Risk.Level)
	}
}

func TestAnalysis_BadDepth(t *testing.T) {
	srv := testServer(t)
	id := createSession(t, srv)
	for _, q := range []string{"abc", "0", "-2"} {
		rec := do(t, srv, http.MethodGet, "/api/sessions/"+id+"/analysis?depth="+q, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("depth=%s: Expected 400, got %d", q, rec.Code)
		}
	}
}

func TestTurnAndNavigate(t *testing.T) {
	srv := testServer(t)
	id := createSession(t, srv)
	var sess struct {
		Tree struct {
			Root string `json:"root"`
		} `json:"tree"`
	}
	if err := json.Unmarshal(do(t, srv, http.MethodGet, "/api/sessions/"+id, "").Body.Bytes(), &sess); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	root := sess.Tree.Root

	rec := do(t, srv, http.MethodPost, "/api/sessions/"+id+"/turn", `{"action":{"type":"MOVE","moveId":"ember"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var turn struct {
		Current string `json:"current"`
		Nodes   []struct {
			ID       string `json:"id"`
			ParentID string `json:"parentId"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &turn); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(turn.Nodes) == 0 {
		t.Fatal("Expected at least one child")
	}
	if turn.Current != turn.Nodes[0].ID {
		t.Errorf("Expected current %s, got %s", turn.Nodes[0].ID, turn.Current)
	}
	if turn.Nodes[0].ParentID != root {
		t.Errorf("Expected parent %s, got %s", root, turn.Nodes[0].ParentID)
	}

	rec = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/navigate", `{"node":"`+root+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	rec = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/navigate", `{"node":"nope"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestTurn_BadReplacement(t *testing.T) {
	srv := testServer(t)
	// my lead starts fainted, so the session opens in a forced switch
	setup := strings.Replace(testSetup, `"spe": 120},
       "currentHp": 100`, `"spe": 120},
       "currentHp": 0`, 1)
	if setup == testSetup {
		t.Fatal("Expected the fixture to change")
	}
	rec := do(t, srv, http.MethodPost, "/api/sessions", setup)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	id := decode[struct {
		ID string `json:"id"`
	}](t, rec).ID

	rec = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/turn", `{"action":{"type":"SWITCH","switchTargetId":"nope"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	rec = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/turn", `{"action":{"type":"SWITCH","switchTargetId":"b"}}`)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTurn_ActionRequired(t *testing.T) {
	srv := testServer(t)
	id := createSession(t, srv)
	rec := do(t, srv, http.MethodPost, "/api/sessions/"+id+"/turn", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestAutoPlay_UntilOver(t *testing.T) {
	srv := testServer(t)
	id := createSession(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/sessions/"+id+"/autoplay", `{"turns": 20}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var played struct {
		Current string `json:"current"`
		Nodes   []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &played); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(played.Nodes) == 0 {
		t.Fatal("Expected auto-play to add nodes")
	}
	if last := played.Nodes[len(played.Nodes)-1].ID; played.Current != last {
		t.Errorf("Expected current %s, got %s", last, played.Current)
	}

	rec = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/autoplay", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 once the battle is over, got %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/api/sessions/"+id+"/analysis", "")
	if got := decode[AnalysisView](t, rec).Winner; got != battle.Mine.String() {
		t.Errorf("Expected winner %s, got %q", battle.Mine, got)
	}
}

func TestReport(t *testing.T) {
	srv := testServer(t)
	id := createSession(t, srv)
	do(t, srv, http.MethodPost, "/api/sessions/"+id+"/autoplay", `{"turns": 2}`)

	rec := do(t, srv, http.MethodGet, "/api/sessions/"+id+"/report.pdf", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("Expected a PDF body")
	}
}

func TestDamage(t *testing.T) {
	srv := testServer(t)
	body := `{
	  "attacker": {"id": "a", "speciesId": "blaze", "level": 50,
	    "stats": {"hp": 100, "atk": 100, "def": 100, "spa": 100, "spd": 100, "spe": 100}, "currentHp": 100, "maxHp": 100},
	  "defender": {"id": "x", "speciesId": "leaf", "level": 50,
	    "stats": {"hp": 100, "atk": 100, "def": 100, "spa": 100, "spd": 100, "spe": 100}, "currentHp": 100, "maxHp": 100},
	  "move": "Ember"
	}`
	rec := do(t, srv, http.MethodPost, "/api/damage", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	view := decode[DamageView](t, rec)
	if len(view.Rolls) != battle.RollCount {
		t.Errorf("Expected %d rolls, got %d", battle.RollCount, len(view.Rolls))
	}
	if view.Min > view.Max || view.Max == 0 {
		t.Errorf("Expected 0 < min <= max, got %d..%d", view.Min, view.Max)
	}
	if view.HitChance != 1 {
		t.Errorf("Expected hit chance 1, got %v", view.HitChance)
	}
	if want := float64(view.Rolls[7]); view.ExpectedDamage != want {
		t.Errorf("Expected expected damage %v, got %v", want, view.ExpectedDamage)
	}
}

func TestDamage_UnknownMove(t *testing.T) {
	srv := testServer(t)
	rec := do(t, srv, http.MethodPost, "/api/damage", `{"move": "hyper-beam"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestSchema(t *testing.T) {
	srv := testServer(t)
	rec := do(t, srv, http.MethodGet, "/api/schema", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"theirs"`) {
		t.Error("Expected schema to describe the theirs side")
	}
}
