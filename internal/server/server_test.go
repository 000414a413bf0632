package server_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Antoink/SDRV3/internal/dataset"
	"github.com/Antoink/SDRV3/internal/server"
	"github.com/Antoink/SDRV3/internal/session"
)

const squadCSV = "Joueur,Poste,Poids (kg),Vmax,CMJ (cm)\n" +
	"Jean Dupont,Attaquant,80,34,40\n" +
	"Lucas Martin,Défenseur,75,31,38\n" +
	"Paul Bernard,Milieu,70,29,35\n"

const cmjCSV = "Joueur;Hauteur de Saut TV (cm);Pic de Puissance Max (W)\n" +
	"Jean Dupont;35;4000\n" +
	"Lucas Martin;40;4500\n"

type fixture struct {
	handler  http.Handler
	dataPath string
}

func newFixture(t *testing.T, apiKey string) fixture {
	t.Helper()
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "squad.csv")
	cmjPath := filepath.Join(dir, "cmj.csv")
	if err := os.WriteFile(dataPath, []byte(squadCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cmjPath, []byte(cmjCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	mgr := session.NewManager(func() (*dataset.Dataset, error) {
		return dataset.Load(dataPath, dataset.Options{})
	}, 0)
	srv := server.New(server.Options{
		APIKey:   apiKey,
		Sessions: mgr,
		DataPath: dataPath,
		CMJ: func() (*dataset.Dataset, error) {
			return dataset.Load(cmjPath, dataset.Options{Delimiter: ';'})
		},
	})
	return fixture{handler: srv.Handler(), dataPath: dataPath}
}

// client replays the session cookie across requests.
type client struct {
	h      http.Handler
	cookie *http.Cookie
	key    string
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	if c.key != "" {
		req.Header.Set(server.APIKeyHeader, c.key)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == server.SessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) send(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) upload(name, body string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", name)
	_, _ = fw.Write([]byte(body))
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func decodeBody(w *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}

func athletePath(name, suffix string) string {
	return "/api/athletes/" + url.PathEscape(name) + suffix
}

func TestHealthAndMetrics(t *testing.T) {
	Convey("Given a server", t, func() {
		f := newFixture(t, "")
		c := &client{h: f.handler}

		Convey("Health reports ok", func() {
			w := c.get("/health")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Metrics expose request counters once traffic flowed", func() {
			c.get("/api/athletes")
			w := c.get("/metrics")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "sdr_api_http_requests_total")
			So(w.Body.String(), ShouldContainSubstring, `endpoint="athletes"`)
			So(w.Body.String(), ShouldContainSubstring, "sdr_api_sessions 1")
		})
	})
}

func TestAPIKey(t *testing.T) {
	Convey("Given a server protected by an API key", t, func() {
		f := newFixture(t, "s3cret")

		Convey("Requests without the key are rejected", func() {
			c := &client{h: f.handler}
			So(c.get("/api/athletes").Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("A wrong key is rejected", func() {
			c := &client{h: f.handler, key: "nope"}
			So(c.get("/api/athletes").Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("The right key passes, as a header or a bearer token", func() {
			c := &client{h: f.handler, key: "s3cret"}
			So(c.get("/api/athletes").Code, ShouldEqual, http.StatusOK)

			req := httptest.NewRequest(http.MethodGet, "/api/athletes", nil)
			req.Header.Set("Authorization", "Bearer s3cret")
			w := httptest.NewRecorder()
			f.handler.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Health stays open", func() {
			c := &client{h: f.handler}
			So(c.get("/health").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestSessions(t *testing.T) {
	Convey("Given two clients", t, func() {
		f := newFixture(t, "")
		alice := &client{h: f.handler}
		bob := &client{h: f.handler}

		Convey("Each gets its own cookie and selection", func() {
			So(alice.send(http.MethodPost, athletePath("Jean Dupont", "/select"), "").Code, ShouldEqual, http.StatusOK)
			So(alice.cookie, ShouldNotBeNil)

			var a, b struct {
				ID       string `json:"id"`
				Selected string `json:"selected"`
			}
			So(decodeBody(alice.get("/api/session"), &a), ShouldBeNil)
			So(decodeBody(bob.get("/api/session"), &b), ShouldBeNil)
			So(a.Selected, ShouldEqual, "Jean Dupont")
			So(b.Selected, ShouldBeEmpty)
			So(a.ID, ShouldNotEqual, b.ID)
		})

		Convey("Selecting an unknown athlete is a 404", func() {
			So(alice.send(http.MethodPost, athletePath("Nobody", "/select"), "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("The relative toggle is per session", func() {
			w := alice.send(http.MethodPost, "/api/session/relative", `{"relative":true}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"relative":true`)
			So(bob.get("/api/session").Body.String(), ShouldContainSubstring, `"relative":false`)
		})

		Convey("A malformed body is a 400", func() {
			So(alice.send(http.MethodPost, "/api/session/relative", `{`).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestProfileAndReport(t *testing.T) {
	Convey("Given a loaded squad", t, func() {
		f := newFixture(t, "")
		c := &client{h: f.handler}

		Convey("The athlete list is sorted", func() {
			var body struct {
				Athletes []string `json:"athletes"`
			}
			So(decodeBody(c.get("/api/athletes"), &body), ShouldBeNil)
			So(body.Athletes, ShouldResemble, []string{"Jean Dupont", "Lucas Martin", "Paul Bernard"})
		})

		Convey("The profile is served as JSON", func() {
			w := c.get(athletePath("Jean Dupont", "/profile"))
			So(w.Code, ShouldEqual, http.StatusOK)
			var p struct {
				Athlete string `json:"athlete"`
				Header  struct {
					Position string `json:"position"`
					Weight   string `json:"weight"`
				} `json:"header"`
				Relative bool `json:"relative"`
			}
			So(decodeBody(w, &p), ShouldBeNil)
			So(p.Athlete, ShouldEqual, "Jean Dupont")
			So(p.Header.Position, ShouldEqual, "Attaquant")
			So(p.Header.Weight, ShouldEqual, "80 kg")
			So(p.Relative, ShouldBeFalse)
		})

		Convey("The relative query overrides the session mode", func() {
			w := c.get(athletePath("Jean Dupont", "/profile?relative=true"))
			So(w.Body.String(), ShouldContainSubstring, `"relative":true`)
			So(c.get(athletePath("Jean Dupont", "/profile?relative=maybe")).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Markdown is available", func() {
			w := c.get(athletePath("Jean Dupont", "/profile?format=markdown"))
			So(w.Header().Get("Content-Type"), ShouldStartWith, "text/markdown")
			So(w.Body.String(), ShouldStartWith, "# Jean Dupont")
		})

		Convey("An unknown athlete is a 404", func() {
			So(c.get(athletePath("Nobody", "/profile")).Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("The report downloads as a standalone HTML file carrying the notes", func() {
			So(c.send(http.MethodPut, athletePath("Jean Dupont", "/notes"), `{"field":"strategy","text":"Pliométrie"}`).Code, ShouldEqual, http.StatusOK)
			w := c.get(athletePath("Jean Dupont", "/report"))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "text/html")
			So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "Rapport_Jean Dupont.html")
			So(w.Body.String(), ShouldContainSubstring, "PAGE 3/3")
			So(w.Body.String(), ShouldContainSubstring, "Pliométrie")
		})
	})
}

func TestNotes(t *testing.T) {
	Convey("Given a client session", t, func() {
		f := newFixture(t, "")
		c := &client{h: f.handler}

		Convey("Notes are stored per field", func() {
			w := c.send(http.MethodPut, athletePath("Jean Dupont", "/notes"), `{"field":"Strengths","text":" Vitesse "}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			var notes map[string]string
			So(decodeBody(c.get(athletePath("Jean Dupont", "/notes")), &notes), ShouldBeNil)
			So(notes, ShouldResemble, map[string]string{"strengths": "Vitesse"})
		})

		Convey("An unknown field is a 400", func() {
			So(c.send(http.MethodPut, athletePath("Jean Dupont", "/notes"), `{"field":"mood","text":"x"}`).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestTeam(t *testing.T) {
	Convey("Given a loaded squad", t, func() {
		f := newFixture(t, "")
		c := &client{h: f.handler}

		Convey("The ranking is best first", func() {
			var b struct {
				Unit    string `json:"unit"`
				Entries []struct {
					Athlete string `json:"athlete"`
					Rank    int    `json:"rank"`
				} `json:"entries"`
			}
			w := c.get("/api/team/ranking?indicator=Vmax")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decodeBody(w, &b), ShouldBeNil)
			So(b.Unit, ShouldEqual, "km/h")
			So(b.Entries, ShouldHaveLength, 3)
			So(b.Entries[0].Athlete, ShouldEqual, "Jean Dupont")
		})

		Convey("Position filters narrow the board", func() {
			w := c.get("/api/team/ranking?indicator=Vmax&position=Milieu&position=D%C3%A9fenseur")
			So(w.Body.String(), ShouldNotContainSubstring, "Jean Dupont")
			So(w.Body.String(), ShouldContainSubstring, "Lucas Martin")
		})

		Convey("The ranking exports as CSV", func() {
			w := c.get("/api/team/ranking?indicator=Vmax&format=csv")
			So(w.Header().Get("Content-Type"), ShouldStartWith, "text/csv")
			So(w.Body.String(), ShouldStartWith, "Rang,Joueur,Poste,Vmax,Unité\n1,Jean Dupont,Attaquant,34,km/h\n")
		})

		Convey("A missing indicator is a 400 and an unknown one a 404", func() {
			So(c.get("/api/team/ranking").Code, ShouldEqual, http.StatusBadRequest)
			So(c.get("/api/team/ranking?indicator=Nage").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("The scatter defaults to speed against jump", func() {
			var sc struct {
				XLabel string `json:"x_label"`
				YLabel string `json:"y_label"`
				Points []struct {
					Athlete string `json:"athlete"`
					Zone    string `json:"zone"`
				} `json:"points"`
			}
			So(decodeBody(c.get("/api/team/scatter"), &sc), ShouldBeNil)
			So(sc.XLabel, ShouldEqual, "Vmax")
			So(sc.YLabel, ShouldEqual, "CMJ (cm)")
			So(sc.Points, ShouldHaveLength, 3)
			So(sc.Points[0].Zone, ShouldEqual, "++")
		})

		Convey("The distribution compares the selected athlete", func() {
			w := c.get("/api/team/distribution?indicator=Vmax&athlete=Paul%20Bernard")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"good":false`)
		})
	})
}

func TestCMJ(t *testing.T) {
	Convey("Given a CMJ export", t, func() {
		f := newFixture(t, "")
		c := &client{h: f.handler}

		Convey("Averages and the athlete gap are returned", func() {
			w := c.get("/api/cmj/compare?athlete=Jean%20Dupont&kpi=Hauteur%20de%20Saut%20(cm)")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Averages []struct {
					Mean float64 `json:"mean"`
				} `json:"averages"`
				Diffs []struct {
					Player float64 `json:"player"`
				} `json:"diffs"`
			}
			So(decodeBody(w, &body), ShouldBeNil)
			So(body.Averages, ShouldHaveLength, 1)
			So(body.Averages[0].Mean, ShouldAlmostEqual, 37.5)
			So(body.Diffs, ShouldHaveLength, 1)
			So(body.Diffs[0].Player, ShouldAlmostEqual, 35.0)
		})

		Convey("An unknown KPI is a 400 and an unknown phase too", func() {
			So(c.get("/api/cmj/compare?kpi=Nope").Code, ShouldEqual, http.StatusBadRequest)
			So(c.get("/api/cmj/phases/Nope?athlete=Jean%20Dupont").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestUpload(t *testing.T) {
	Convey("Given a client session", t, func() {
		f := newFixture(t, "")
		c := &client{h: f.handler}

		Convey("A valid upload replaces the working file and the snapshot", func() {
			body := "Joueur,Vmax\nNina Roux,30\nEva Petit,32\n"
			w := c.upload("new.csv", body)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"athletes":2`)
			saved, err := os.ReadFile(f.dataPath)
			So(err, ShouldBeNil)
			So(string(saved), ShouldEqual, body)
		})

		Convey("An upload without an identifier column is rejected and the file kept", func() {
			w := c.upload("bad.csv", "Foo,Bar\n1,2\n")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			saved, _ := os.ReadFile(f.dataPath)
			So(string(saved), ShouldEqual, squadCSV)
			So(c.get("/api/session").Body.String(), ShouldContainSubstring, `"athletes":3`)
		})

		Convey("A different file type is a 400", func() {
			So(c.upload("new.xlsx", "PK").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestNoDataset(t *testing.T) {
	Convey("Given a server without a loader", t, func() {
		h := server.New(server.Options{}).Handler()
		c := &client{h: h}

		Convey("Dataset endpoints answer 409", func() {
			So(c.get("/api/athletes").Code, ShouldEqual, http.StatusConflict)
			So(c.get(athletePath("Jean Dupont", "/profile")).Code, ShouldEqual, http.StatusConflict)
		})

		Convey("CMJ endpoints answer 409", func() {
			So(c.get("/api/cmj/compare").Code, ShouldEqual, http.StatusConflict)
		})

		Convey("The indicator catalogue needs no dataset", func() {
			So(c.get("/api/indicators").Code, ShouldEqual, http.StatusOK)
		})
	})
}
