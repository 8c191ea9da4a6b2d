// Package report renders a planning session as a printable PDF: the line of
// play from the root to the current node, the risk along it and the search
// results for the current position.
package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/targoons/rnb-helper/internal/battle"
	"github.com/targoons/rnb-helper/internal/planner"
	"github.com/targoons/rnb-helper/internal/search"
)

const (
	margin    = 40
	rowH      = 14
	barW      = 60.0
	barH      = 6.0
	fontSize  = 8
	titleSize = 16
	headSize  = 11
	maxPreds  = 5
)

var columns = []struct {
	title string
	width float64
}{
	{"Turn", 34},
	{"My action", 110},
	{"Opponent action", 110},
	{"Prob.", 44},
	{"My active", 108},
	{"Their active", 108},
}

// Generate returns PDF bytes for the tree's current line. depth is the
// search depth for the analysis section (1 or more). A nil tree gives a nil
// PDF.
func Generate(tree *planner.Tree, title string, depth int) ([]byte, error) {
	if tree == nil {
		return nil, nil
	}
	cur := tree.Current()
	path, err := tree.Path(cur.ID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.CellFormat(0, 20, "Battle plan", "", 1, "L", false, 0, "")
	if title != "" {
		pdf.SetFont("Helvetica", "", fontSize+2)
		pdf.CellFormat(0, 14, title, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	drawPath(pdf, path)
	drawRisk(pdf, planner.AssessPath(path))
	drawAnalysis(pdf, cur.State, depth)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", headSize)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 16, text, "", 1, "L", false, 0, "")
}

func drawPath(pdf *gofpdf.Fpdf, path []planner.Node) {
	heading(pdf, "Line of play")

	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetFillColor(220, 225, 235)
	for _, c := range columns {
		pdf.CellFormat(c.width, rowH, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", fontSize)
	for i, n := range path {
		mineAct, theirAct := "start", "-"
		if n.Mine != nil {
			mineAct = n.Mine.String()
		}
		if n.Theirs != nil {
			theirAct = n.Theirs.String()
		}
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 250)
		pdf.CellFormat(columns[0].width, rowH, fmt.Sprintf("%d", n.Turn), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(columns[1].width, rowH, mineAct, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(columns[2].width, rowH, theirAct, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(columns[3].width, rowH, fmt.Sprintf("%.0f%%", n.Probability), "1", 0, "R", fill, 0, "")
		activeCell(pdf, n.State, battle.Mine, columns[4].width, fill)
		activeCell(pdf, n.State, battle.Theirs, columns[5].width, fill)
		pdf.Ln(-1)
	}
	pdf.Ln(8)
}

// activeCell writes the side's active name and draws its HP bar inside the
// cell.
func activeCell(pdf *gofpdf.Fpdf, st *battle.State, side battle.Side, w float64, fill bool) {
	x, y := pdf.GetX(), pdf.GetY()
	c, ok := st.Active(side)
	if !ok {
		pdf.CellFormat(w, rowH, "-", "1", 0, "L", fill, 0, "")
		return
	}
	pdf.CellFormat(w, rowH, c.DisplayName(), "1", 0, "L", fill, 0, "")
	drawHPBar(pdf, x+w-barW-4, y+(rowH-barH)/2, c.HPFraction(st.Rules()))
}

// drawHPBar colours green above half, amber above a fifth and red below.
func drawHPBar(pdf *gofpdf.Fpdf, x, y, frac float64) {
	frac = max(0, min(1, frac))
	pdf.SetDrawColor(90, 90, 90)
	pdf.SetFillColor(230, 230, 230)
	pdf.Rect(x, y, barW, barH, "FD")
	switch {
	case frac > 0.5:
		pdf.SetFillColor(70, 170, 90)
	case frac > 0.2:
		pdf.SetFillColor(230, 170, 40)
	default:
		pdf.SetFillColor(200, 50, 50)
	}
	if frac > 0 {
		pdf.Rect(x, y, barW*frac, barH, "F")
	}
	pdf.SetDrawColor(0, 0, 0)
}

func drawRisk(pdf *gofpdf.Fpdf, r planner.Risk) {
	heading(pdf, "Risk")
	pdf.SetFont("Helvetica", "", fontSize+1)
	switch r.Level {
	case planner.Dangerous:
		pdf.SetTextColor(180, 30, 30)
	case planner.Risky:
		pdf.SetTextColor(190, 120, 20)
	default:
		pdf.SetTextColor(30, 130, 60)
	}
	line := fmt.Sprintf("%s: lowest HP of my active %.0f%%", r.Level, r.MinHPPercent)
	if r.Reason != "" {
		line += " (" + r.Reason + ")"
	}
	pdf.CellFormat(0, rowH, line, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(8)
}

func drawAnalysis(pdf *gofpdf.Fpdf, st *battle.State, depth int) {
	heading(pdf, fmt.Sprintf("Analysis (depth %d)", max(depth, 1)))
	if _, over := st.Winner(); over {
		pdf.SetFont("Helvetica", "I", fontSize+1)
		pdf.CellFormat(0, rowH, "The battle is over.", "", 1, "L", false, 0, "")
		return
	}

	pdf.SetFont("Helvetica", "B", fontSize+1)
	pdf.CellFormat(0, rowH, "My actions", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", fontSize)
	for i, a := range search.AnalyzeAllActions(st, depth) {
		pdf.CellFormat(0, rowH-2, fmt.Sprintf("%d. %-22s win %5.1f%%  score %8.1f  %s",
			i+1, a.Action.String(), a.Probability, a.Score, explain(a.Explanation)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", fontSize+1)
	pdf.CellFormat(0, rowH, "Likely opponent actions", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", fontSize)
	preds := search.PredictOpponentActions(st, depth)
	if len(preds) > maxPreds {
		preds = preds[:maxPreds]
	}
	for _, p := range preds {
		pdf.CellFormat(0, rowH-2, fmt.Sprintf("%5.1f%%  %s", p.Probability, p.Action.String()), "", 1, "L", false, 0, "")
	}
}

func explain(line []battle.Action) string {
	if len(line) == 0 {
		return ""
	}
	out := "then"
	for _, a := range line {
		out += " / " + a.String()
	}
	return out
}
