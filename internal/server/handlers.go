package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Antoink/SDRV3/internal/analysis"
	"github.com/Antoink/SDRV3/internal/cmj"
	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/profile"
	"github.com/Antoink/SDRV3/internal/report"
	"github.com/Antoink/SDRV3/internal/session"
	"github.com/Antoink/SDRV3/internal/team"
)

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

type sessionResponse struct {
	ID        string   `json:"id"`
	Source    string   `json:"source"`
	Selected  string   `json:"selected,omitempty"`
	Relative  bool     `json:"relative"`
	Athletes  int      `json:"athletes"`
	Annotated []string `json:"annotated"`
}

type athletesResponse struct {
	Athletes []string `json:"athletes"`
	Selected string   `json:"selected,omitempty"`
}

type relativeRequest struct {
	Relative bool `json:"relative"`
}

type noteRequest struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

type cmjCompareResponse struct {
	Averages []cmj.Average `json:"averages"`
	Diffs    []cmj.Diff    `json:"diffs,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Sessions: s.sessions.Len()})
}

func currentDataset(sess *session.Session) (*dataset.Dataset, error) {
	ds := sess.Dataset()
	if ds == nil {
		return nil, session.ErrNoDataset
	}
	return ds, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func (s *Server) sessionView(sess *session.Session) sessionResponse {
	out := sessionResponse{
		ID:        sess.ID,
		Relative:  sess.IsRelative(),
		Annotated: sess.Annotated(),
	}
	if ds := sess.Dataset(); ds != nil {
		out.Source = ds.Source
		out.Athletes = len(ds.Athletes())
	}
	out.Selected = sess.Current()
	return out
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessionView(sessionFrom(r.Context())))
}

func (s *Server) handleRelative(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	var req relativeRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	sess.SetRelative(req.Relative)
	writeJSON(w, http.StatusOK, s.sessionView(sess))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := sess.Reopen(); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(sess))
}

// handleUpload replaces the working data file with the uploaded one once it parses, then
// reloads the caller's snapshot from it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if s.opt.DataPath == "" {
		fail(w, fmt.Errorf("%w: no working data file configured", ErrBadRequest))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		fail(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	defer file.Close()
	ext := strings.ToLower(filepath.Ext(hdr.Filename))
	if ext != strings.ToLower(filepath.Ext(s.opt.DataPath)) {
		fail(w, fmt.Errorf("%w: expected a %s file, got %q", ErrBadRequest, filepath.Ext(s.opt.DataPath), hdr.Filename))
		return
	}
	tmp, err := os.CreateTemp("", "sdr-upload-*"+ext)
	if err != nil {
		fail(w, err)
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		fail(w, fmt.Errorf("store upload: %w", err))
		return
	}
	if err := tmp.Close(); err != nil {
		fail(w, err)
		return
	}
	log := s.log.WithField("session", sess.ID).WithField("file", hdr.Filename)
	if err := sess.Adopt(tmp.Name(), s.opt.DataPath, dataset.Options{Sheet: s.opt.Sheet}); err != nil {
		s.metrics.uploads.WithLabelValues("rejected").Inc()
		log.WithError(err).Warn("upload rejected")
		fail(w, err)
		return
	}
	s.metrics.uploads.WithLabelValues("accepted").Inc()
	log.Info("dataset replaced")
	writeJSON(w, http.StatusOK, s.sessionView(sess))
}

func (s *Server) handleAthletes(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	ds, err := currentDataset(sess)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, athletesResponse{Athletes: ds.Athletes(), Selected: sess.Current()})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := sess.Select(r.PathValue("name")); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(sess))
}

// handleProfile returns the profile as JSON, or Markdown with ?format=markdown. ?relative
// overrides the session display mode for this request only.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	ds, err := currentDataset(sess)
	if err != nil {
		fail(w, err)
		return
	}
	relative := sess.IsRelative()
	if v := r.URL.Query().Get("relative"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail(w, fmt.Errorf("%w: relative=%q", ErrBadRequest, v))
			return
		}
		relative = b
	}
	name := r.PathValue("name")
	p, err := profile.Build(ds, name, profile.Options{Registry: s.reg, TopN: s.opt.TopN, Relative: relative})
	if err != nil {
		fail(w, err)
		return
	}
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		notes := reportNotes(sess, name)
		_, _ = io.WriteString(w, report.Markdown(p, &notes))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func reportNotes(sess *session.Session, athlete string) report.Notes {
	n := sess.NotesFor(athlete)
	return report.Notes{
		Strengths:  n[session.FieldStrengths],
		Weaknesses: n[session.FieldWeaknesses],
		Strategy:   n[session.FieldStrategy],
	}
}

// handleReport streams the printable report as an attachment. Reports always show absolute
// values regardless of the session mode.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	ds, err := currentDataset(sess)
	if err != nil {
		fail(w, err)
		return
	}
	name := r.PathValue("name")
	p, err := profile.Build(ds, name, profile.Options{
		Registry: s.reg,
		Resolver: analysis.NewReportResolver(s.reg),
		TopN:     s.opt.TopN,
	})
	if err != nil {
		fail(w, err)
		return
	}
	assets := report.LoadAssets(s.opt.Photos, name, s.opt.Logos)
	var buf strings.Builder
	if err := report.HTML(&buf, p, reportNotes(sess, name), assets); err != nil {
		fail(w, err)
		return
	}
	s.metrics.reports.Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": report.FileName(name)}))
	_, _ = io.WriteString(w, buf.String())
}

func (s *Server) handleGetNotes(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	writeJSON(w, http.StatusOK, sess.NotesFor(r.PathValue("name")))
}

func (s *Server) handlePutNotes(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	var req noteRequest
	if err := decode(r, &req); err != nil {
		fail(w, err)
		return
	}
	field, err := session.ParseField(req.Field)
	if err != nil {
		fail(w, err)
		return
	}
	name := r.PathValue("name")
	if err := sess.SetNote(name, field, req.Text); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.NotesFor(name))
}

func (s *Server) handleIndicators(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.reg.Indicators())
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	ds, err := currentDataset(sessionFrom(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.teams.Positions(ds))
}

func required(r *http.Request, key string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return "", fmt.Errorf("%w: missing %s", ErrBadRequest, key)
	}
	return v, nil
}

// handleRanking ranks the squad on ?indicator, filtered by repeated ?position. ?format=csv
// downloads the ranking.
func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	ds, err := currentDataset(sessionFrom(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	label, err := required(r, "indicator")
	if err != nil {
		fail(w, err)
		return
	}
	b, err := s.teams.Ranking(ds, label, r.URL.Query()["position"])
	if err != nil {
		fail(w, err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": "classement.csv"}))
		if err := report.TeamCSV(w, b); err != nil {
			s.log.WithError(err).Warn("write ranking csv")
		}
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type scatterPoint struct {
	Athlete  string  `json:"athlete"`
	Position string  `json:"position,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Zone     string  `json:"zone"`
}

func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	ds, err := currentDataset(sessionFrom(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	q := r.URL.Query()
	x, y := q.Get("x"), q.Get("y")
	if x == "" || y == "" {
		dx, dy := team.DefaultAxes(team.NumericColumns(ds))
		if x == "" {
			x = dx
		}
		if y == "" {
			y = dy
		}
	}
	sc, err := s.teams.Scatter(ds, x, y, q["position"])
	if err != nil {
		fail(w, err)
		return
	}
	points := make([]scatterPoint, 0, len(sc.Points))
	for _, p := range sc.Points {
		points = append(points, scatterPoint{Athlete: p.Athlete, Position: p.Position, X: p.X, Y: p.Y, Zone: sc.Zone(p, s.reg)})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"x_label": sc.XLabel, "y_label": sc.YLabel,
		"mean_x": sc.MeanX, "mean_y": sc.MeanY,
		"points": points,
	})
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	ds, err := currentDataset(sessionFrom(r.Context()))
	if err != nil {
		fail(w, err)
		return
	}
	label, err := required(r, "indicator")
	if err != nil {
		fail(w, err)
		return
	}
	d, err := s.teams.Distribution(ds, label, r.URL.Query()["position"], r.URL.Query().Get("athlete"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) cmjDataset() (*dataset.Dataset, error) {
	if s.opt.CMJ == nil {
		return nil, ErrNoCMJ
	}
	ds, err := s.opt.CMJ()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoCMJ, err)
	}
	return ds, nil
}

func (s *Server) handleCMJKPIs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, cmj.Phases())
}

// handleCMJCompare returns squad averages of the repeated ?kpi (default selection when absent)
// and, with ?athlete, the athlete's latest jump against them.
func (s *Server) handleCMJCompare(w http.ResponseWriter, r *http.Request) {
	ds, err := s.cmjDataset()
	if err != nil {
		fail(w, err)
		return
	}
	kpis, err := cmj.Select(r.URL.Query()["kpi"])
	if err != nil {
		fail(w, err)
		return
	}
	out := cmjCompareResponse{Averages: cmj.TeamAverages(ds, kpis)}
	if athlete := r.URL.Query().Get("athlete"); athlete != "" {
		if out.Diffs, err = cmj.PlayerVsTeam(ds, athlete, kpis); err != nil {
			fail(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCMJPhase(w http.ResponseWriter, r *http.Request) {
	phase, ok := cmj.PhaseByName(r.PathValue("phase"))
	if !ok {
		fail(w, fmt.Errorf("%w: unknown phase %q", ErrBadRequest, r.PathValue("phase")))
		return
	}
	athlete, err := required(r, "athlete")
	if err != nil {
		fail(w, err)
		return
	}
	ds, err := s.cmjDataset()
	if err != nil {
		fail(w, err)
		return
	}
	details, err := cmj.PhaseDetails(ds, athlete, phase)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"phase": phase.Name, "glossary": phase.Glossary, "details": details})
}
