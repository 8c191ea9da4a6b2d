package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/targoons/rnb-helper/internal/battle"
	"github.com/targoons/rnb-helper/internal/dex"
	"github.com/targoons/rnb-helper/internal/planner"
	"github.com/targoons/rnb-helper/internal/report"
	"github.com/targoons/rnb-helper/internal/search"
	"github.com/targoons/rnb-helper/internal/session"
)

// DefaultDepth is the analysis depth when neither the request nor the
// server sets one.
const DefaultDepth = 2

const maxBodyBytes = 1 << 20

type Server struct {
	Rules   dex.Rules
	Rand    battle.Rand
	Store   session.Store[*planner.Tree]
	Planner planner.Config
	// Depth is the default analysis depth.
	Depth  int
	Logger *log.Logger
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/sessions/{id}/analysis", s.handleAnalysis)
	mux.HandleFunc("POST /api/sessions/{id}/turn", s.handleTurn)
	mux.HandleFunc("POST /api/sessions/{id}/autoplay", s.handleAutoPlay)
	mux.HandleFunc("POST /api/sessions/{id}/navigate", s.handleNavigate)
	mux.HandleFunc("GET /api/sessions/{id}/report.pdf", s.handleReport)
	mux.HandleFunc("GET /api/sessions/{id}/stream", s.handleStream)
	mux.HandleFunc("POST /api/damage", s.handleDamage)
	mux.HandleFunc("GET /api/schema", s.handleSchema)
	return mux
}

func (s *Server) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

func (s *Server) env() battle.Env {
	return battle.Env{Rules: s.Rules, Rand: s.Rand}
}

func (s *Server) depth(r *http.Request) (int, error) {
	d := s.Depth
	if d <= 0 {
		d = DefaultDepth
	}
	if q := r.URL.Query().Get("depth"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			return 0, fmt.Errorf("depth must be a positive integer, got %q", q)
		}
		d = n
	}
	return d, nil
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var setup battle.Setup
	if err := decodeBody(r, &setup); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := battle.NewStateFromSetup(s.env(), setup)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tree := planner.New(st, s.Planner)
	id := s.Store.NewID()
	if err := s.Store.Put(r.Context(), id, tree); err != nil {
		s.serverError(w, "store session", err)
		return
	}
	s.logger().Printf("session %s created (turn %d)", id, st.Turn)
	writeJSON(w, http.StatusCreated, SessionView{ID: id, Tree: tree})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, tree, ok := s.loadTree(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SessionView{ID: id, Tree: tree})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.loadTree(w, r)
	if !ok {
		return
	}
	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.serverError(w, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	_, tree, ok := s.loadTree(w, r)
	if !ok {
		return
	}
	depth, err := s.depth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cur := tree.Current()
	st := cur.State
	view := AnalysisView{
		NodeID:       cur.ID,
		Depth:        depth,
		ForcedSwitch: st.ForcedSwitch,
		Actions:      []battle.ScoredAction{},
		Predictions:  []battle.ScoredAction{},
	}
	if risk, err := tree.Risk(cur.ID); err == nil {
		view.Risk = risk
	}
	if winner, over := st.Winner(); over {
		view.Winner = winner.String()
		writeJSON(w, http.StatusOK, view)
		return
	}
	if st.ForcedSwitch && st.ActiveFainted(battle.Mine) {
		if sw, ok := search.BestCounterSwitch(st, battle.Mine, s.Planner.Scorer); ok {
			view.Switch = &sw
		}
	}
	if best, ok := search.BestAction(st, depth); ok {
		view.Best = &best
	}
	if acts := search.AnalyzeAllActions(st, depth); len(acts) > 0 {
		view.Actions = acts
	}
	if preds := search.PredictOpponentActions(st, depth); len(preds) > 0 {
		view.Predictions = preds
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	_, tree, ok := s.loadTree(w, r)
	if !ok {
		return
	}
	var req TurnRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	nodes, err := tree.Advance(req.Action)
	if err != nil {
		writePlannerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NodesView{Current: tree.Current().ID, Nodes: nodes})
}

func (s *Server) handleAutoPlay(w http.ResponseWriter, r *http.Request) {
	_, tree, ok := s.loadTree(w, r)
	if !ok {
		return
	}
	var req AutoPlayRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	nodes, err := tree.AutoPlay(req.Turns)
	if err != nil {
		writePlannerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NodesView{Current: tree.Current().ID, Nodes: nodes})
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	id, tree, ok := s.loadTree(w, r)
	if !ok {
		return
	}
	var req NavigateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := tree.Navigate(req.Node); err != nil {
		writePlannerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionView{ID: id, Tree: tree})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id, tree, ok := s.loadTree(w, r)
	if !ok {
		return
	}
	depth, err := s.depth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pdf, err := report.Generate(tree, "Session "+id, depth)
	if err != nil {
		s.serverError(w, "generate report", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="battle-plan.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		s.logger().Printf("write report for %s: %v", id, err)
	}
}

func (s *Server) handleDamage(w http.ResponseWriter, r *http.Request) {
	var req DamageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	move, ok := s.Rules.LookupMove(req.Move)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown move %q", req.Move))
		return
	}
	res := battle.CalculateDamage(s.Rules, &req.Attacker, &req.Defender, move, req.Crit)
	if res.Rolls == nil {
		res.Rolls = []int{}
	}
	writeJSON(w, http.StatusOK, DamageView{
		DamageResult:   res,
		Move:           move,
		HitChance:      battle.HitChance(move, &req.Attacker, &req.Defender),
		ExpectedDamage: battle.ExpectedDamage(s.Rules, &req.Attacker, &req.Defender, move),
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, battle.SetupSchema())
}

// loadTree writes a 404 and reports false when the session is unknown.
func (s *Server) loadTree(w http.ResponseWriter, r *http.Request) (string, *planner.Tree, bool) {
	id := r.PathValue("id")
	tree, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.serverError(w, "load session", err)
		return id, nil, false
	}
	if !ok || tree == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("session %q not found", id))
		return id, nil, false
	}
	return id, tree, true
}

func (s *Server) serverError(w http.ResponseWriter, what string, err error) {
	s.logger().Printf("%s: %v", what, err)
	writeError(w, http.StatusInternalServerError, what+" failed")
}

func writePlannerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planner.ErrNodeNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, planner.ErrActionRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, planner.ErrBattleOver):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return err
		}
		return fmt.Errorf("bad request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorView{Error: msg})
}
