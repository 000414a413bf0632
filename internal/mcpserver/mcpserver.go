// Package mcpserver exposes the squad analysis as Model Context Protocol tools, over stdio or
// streamable HTTP.
package mcpserver

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/Antoink/SDRV3/internal/analysis"
	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/indicator"
	"github.com/Antoink/SDRV3/internal/logging"
	"github.com/Antoink/SDRV3/internal/profile"
	"github.com/Antoink/SDRV3/internal/team"
)

// ErrNoLoader is returned by every tool when no dataset source is configured.
var ErrNoLoader = errors.New("no dataset source configured")

// Options configure a Server.
type Options struct {
	Registry *indicator.Registry
	// Load is called on every tool call so edits to the data file show up without a restart.
	Load    func() (*dataset.Dataset, error)
	TopN    int
	Version string
}

// ToolInfo lists a registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server holds the MCP server and its tool table.
type Server struct {
	opt   Options
	reg   *indicator.Registry
	teams *team.Comparer
	mcp   *mcp.Server
	tools []ToolInfo
	log   *logrus.Entry
}

type ListAthletesArgs struct {
	Position string `json:"position,omitempty" jsonschema:"Keep only athletes playing this position"`
}

type AthleteArgs struct {
	Athlete  string `json:"athlete" jsonschema:"Athlete name as listed by list_athletes (required)"`
	Relative bool   `json:"relative,omitempty" jsonschema:"Report force and power per kilogram of bodyweight"`
}

type RankingArgs struct {
	Indicator string   `json:"indicator" jsonschema:"Indicator label or column name (required)"`
	Positions []string `json:"positions,omitempty" jsonschema:"Restrict the squad to these positions"`
}

type TopBottomArgs struct {
	Athlete  string `json:"athlete" jsonschema:"Athlete name (required)"`
	N        int    `json:"n,omitempty" jsonschema:"How many indicators per list (default 3)"`
	Relative bool   `json:"relative,omitempty" jsonschema:"Rank per-kilogram values"`
}

type athleteEntry struct {
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

type asymmetryEntry struct {
	Indicator string  `json:"indicator"`
	Left      float64 `json:"left"`
	LeftOK    bool    `json:"left_ok"`
	Right     float64 `json:"right"`
	RightOK   bool    `json:"right_ok"`
	Pct       float64 `json:"pct"`
	Weak      string  `json:"weak,omitempty"`
	Band      string  `json:"band"`
}

// New builds the MCP server and registers every tool.
func New(opt Options) *Server {
	if opt.Registry == nil {
		opt.Registry = indicator.Default()
	}
	if opt.Version == "" {
		opt.Version = "dev"
	}
	s := &Server{
		opt:   opt,
		reg:   opt.Registry,
		teams: team.New(opt.Registry),
		log:   logging.For("mcp"),
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: "sdr-profiler", Version: opt.Version}, nil)

	addTool(s, &mcp.Tool{
		Name:        "list_athletes",
		Description: "Athletes of the loaded squad, sorted by name, with their playing position",
	}, s.listAthletes)
	addTool(s, &mcp.Tool{
		Name:        "athlete_profile",
		Description: "Full profile of one athlete: header, indicator rows with percentile, rank and status, radars and symmetry",
	}, s.athleteProfile)
	addTool(s, &mcp.Tool{
		Name:        "indicator_ranking",
		Description: "Squad ranking on one indicator, best first, with the squad mean and unit",
	}, s.indicatorRanking)
	addTool(s, &mcp.Tool{
		Name:        "asymmetry",
		Description: "Left/right asymmetry of every bilateral indicator of one athlete, with its severity band",
	}, s.asymmetry)
	addTool(s, &mcp.Tool{
		Name:        "top_bottom",
		Description: "Strongest and weakest indicators of one athlete by percentile",
	}, s.topBottom)
	return s
}

func addTool[T any](s *Server, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	s.tools = append(s.tools, ToolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(s.mcp, tool, func(ctx context.Context, req *mcp.CallToolRequest, args T) (*mcp.CallToolResult, any, error) {
		s.log.WithField("tool", tool.Name).Debug("tool call")
		return handler(ctx, req, args)
	})
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// Tools lists the registered tools in registration order.
func (s *Server) Tools() []ToolInfo { return s.tools }

// RunStdio serves a single client on stdin/stdout until ctx ends or the client leaves.
func (s *Server) RunStdio(ctx context.Context) error {
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}

// Handler serves the streamable HTTP transport on path, plus /health and /tools. A non-empty
// apiKey is required on every route.
func (s *Server) Handler(path, apiKey string) http.Handler {
	stream := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	withAuth := func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get("X-API-Key"))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/tools", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"tools": s.tools})
	})
	mux.Handle(path, stream)
	return withAuth(mux)
}

func (s *Server) loadDataset() (*dataset.Dataset, error) {
	if s.opt.Load == nil {
		return nil, ErrNoLoader
	}
	return s.opt.Load()
}

func (s *Server) build(athlete string, relative bool, topN int) (*profile.Profile, error) {
	if strings.TrimSpace(athlete) == "" {
		return nil, errors.New("athlete is required")
	}
	ds, err := s.loadDataset()
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = s.opt.TopN
	}
	return profile.Build(ds, athlete, profile.Options{Registry: s.reg, TopN: topN, Relative: relative})
}

func (s *Server) listAthletes(_ context.Context, _ *mcp.CallToolRequest, args ListAthletesArgs) (*mcp.CallToolResult, any, error) {
	ds, err := s.loadDataset()
	if err != nil {
		return toolError(err), nil, nil
	}
	col, _ := analysis.NewTeamResolver().Resolve(ds.Columns, team.PositionLabel)
	want := strings.TrimSpace(args.Position)
	out := []athleteEntry{}
	for _, name := range ds.Athletes() {
		rec, _ := ds.Find(name)
		pos := ""
		if col != "" {
			pos = strings.TrimSpace(rec.Cells[col])
		}
		if want != "" && !strings.EqualFold(pos, want) {
			continue
		}
		out = append(out, athleteEntry{Name: name, Position: pos})
	}
	return toolJSON(json.MarshalIndent(map[string]any{"athletes": out}, "", "  "))
}

func (s *Server) athleteProfile(_ context.Context, _ *mcp.CallToolRequest, args AthleteArgs) (*mcp.CallToolResult, any, error) {
	p, err := s.build(args.Athlete, args.Relative, 0)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(json.MarshalIndent(p, "", "  "))
}

func (s *Server) indicatorRanking(_ context.Context, _ *mcp.CallToolRequest, args RankingArgs) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Indicator) == "" {
		return toolError(errors.New("indicator is required")), nil, nil
	}
	ds, err := s.loadDataset()
	if err != nil {
		return toolError(err), nil, nil
	}
	b, err := s.teams.Ranking(ds, args.Indicator, args.Positions)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(json.MarshalIndent(b, "", "  "))
}

func (s *Server) asymmetry(_ context.Context, _ *mcp.CallToolRequest, args AthleteArgs) (*mcp.CallToolResult, any, error) {
	p, err := s.build(args.Athlete, args.Relative, 0)
	if err != nil {
		return toolError(err), nil, nil
	}
	out := []asymmetryEntry{}
	for _, sec := range p.Sections {
		for _, it := range sec.Items {
			if it.Pair == nil || !it.Pair.Asym.OK {
				continue
			}
			pr := it.Pair
			e := asymmetryEntry{
				Indicator: pr.Label,
				Left:      pr.Left.Value,
				LeftOK:    pr.Left.OK,
				Right:     pr.Right.Value,
				RightOK:   pr.Right.OK,
				Pct:       pr.Asym.Pct,
				Weak:      pr.Asym.Weak,
			}
			if pr.Band != nil {
				e.Band = pr.Band.Title
			}
			out = append(out, e)
		}
	}
	return toolJSON(json.MarshalIndent(map[string]any{
		"athlete":    p.Athlete,
		"pairs":      out,
		"symmetry":   p.Symmetry,
		"highlights": p.Asymmetries,
	}, "", "  "))
}

func (s *Server) topBottom(_ context.Context, _ *mcp.CallToolRequest, args TopBottomArgs) (*mcp.CallToolResult, any, error) {
	p, err := s.build(args.Athlete, args.Relative, args.N)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(json.MarshalIndent(map[string]any{
		"athlete": p.Athlete,
		"top":     p.Top,
		"bottom":  p.Bottom,
	}, "", "  "))
}

func toolJSON(res []byte, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
