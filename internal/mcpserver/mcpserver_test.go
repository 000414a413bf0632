package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Antoink/SDRV3/internal/dataset"
)

func squad() (*dataset.Dataset, error) {
	header := []string{"Joueur", "Poste", "Poids (kg)", "Vmax", "Adducteurs - Gauche", "Adducteurs - Droite", "CMJ (cm)"}
	rows := [][]string{
		{"Jean Dupont", "Attaquant", "80", "34", "300", "360", "40"},
		{"Lucas Martin", "Défenseur", "75", "31", "330", "330", "38"},
		{"Paul Bernard", "Milieu", "70", "29", "280", "300", "35"},
	}
	var recs []dataset.Record
	for _, r := range rows {
		cells := map[string]string{}
		for i, h := range header {
			cells[h] = r[i]
		}
		recs = append(recs, dataset.Record{ID: r[0], Cells: cells})
	}
	return dataset.New("squad", "", header, recs), nil
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestToolsRegistered(t *testing.T) {
	s := New(Options{Load: squad})
	var names []string
	for _, ti := range s.Tools() {
		names = append(names, ti.Name)
	}
	assert.Equal(t, []string{"list_athletes", "athlete_profile", "indicator_ranking", "asymmetry", "top_bottom"}, names)
}

func TestListAthletes(t *testing.T) {
	s := New(Options{Load: squad})
	res, _, err := s.listAthletes(context.Background(), nil, ListAthletesArgs{Position: "milieu"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	var out struct {
		Athletes []athleteEntry `json:"athletes"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.Equal(t, []athleteEntry{{Name: "Paul Bernard", Position: "Milieu"}}, out.Athletes)
}

func TestRankingAndErrors(t *testing.T) {
	s := New(Options{Load: squad})
	res, _, err := s.indicatorRanking(context.Background(), nil, RankingArgs{Indicator: "Vmax"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), `"unit": "km/h"`)

	res, _, _ = s.indicatorRanking(context.Background(), nil, RankingArgs{})
	assert.True(t, res.IsError)
	res, _, _ = s.athleteProfile(context.Background(), nil, AthleteArgs{Athlete: "Nobody"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "athlete not found")

	res, _, _ = New(Options{}).listAthletes(context.Background(), nil, ListAthletesArgs{})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), ErrNoLoader.Error())
}

func TestAsymmetryTool(t *testing.T) {
	s := New(Options{Load: squad})
	res, _, err := s.asymmetry(context.Background(), nil, AthleteArgs{Athlete: "Jean Dupont"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	var out struct {
		Pairs []asymmetryEntry `json:"pairs"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	require.NotEmpty(t, out.Pairs)
	var add *asymmetryEntry
	for i := range out.Pairs {
		if out.Pairs[i].Left == 300 {
			add = &out.Pairs[i]
		}
	}
	require.NotNil(t, add)
	assert.Equal(t, "G", add.Weak)
	assert.InDelta(t, 100.0/6, add.Pct, 1e-6)
}

func TestTopBottomHonoursN(t *testing.T) {
	s := New(Options{Load: squad})
	res, _, err := s.topBottom(context.Background(), nil, TopBottomArgs{Athlete: "Jean Dupont", N: 1})
	require.NoError(t, err)
	var out struct {
		Top    []json.RawMessage `json:"top"`
		Bottom []json.RawMessage `json:"bottom"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.Len(t, out.Top, 1)
	assert.Len(t, out.Bottom, 1)
}

func TestInMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(Options{Load: squad})
	ct, st := mcp.NewInMemoryTransports()
	ss, err := s.MCP().Connect(ctx, st, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	defer cs.Close()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "list_athletes",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, text(t, res), "Lucas Martin")
}

func TestHTTPAuth(t *testing.T) {
	h := New(Options{Load: squad}).Handler("/mcp", "k")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tools", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/tools", nil)
	req.Header.Set("Authorization", "Bearer k")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "top_bottom")
}
