package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/feeshock/internal/adapters/http/api"
	"github.com/okian/feeshock/internal/adapters/repository"
	"github.com/okian/feeshock/internal/domain/elasticity"
	"github.com/okian/feeshock/internal/domain/model"
	"github.com/okian/feeshock/internal/domain/summary"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps serves canned data; ready=false behaves like a store before the first run.
type mockDeps struct {
	ready    bool
	params   elasticity.Params
	years    []model.YearSummary
	sectors  []model.SectorSummary
	entries  []api.Entry
	topNErr  error
	lastName string
}

func newMockDeps() *mockDeps {
	return &mockDeps{
		ready:  true,
		params: elasticity.NewParams(),
		years: []model.YearSummary{
			{Year: 2019, Approvals: 900, Denials: 100, Applications: 1000, ProjectedApplications: 100, ChangePct: -90},
		},
		sectors: []model.SectorSummary{{Sector: "Technology (Information)", Employers: 2, TotalApprovals: 900}},
		entries: []api.Entry{
			{Rank: 1, EmployerProfile: model.EmployerProfile{Key: "googlellc", Name: "Google LLC", TotalApprovals: 800}},
			{Rank: 2, EmployerProfile: model.EmployerProfile{Key: "acme", Name: "Acme", TotalApprovals: 100}},
		},
	}
}

func (m *mockDeps) Years(context.Context) ([]model.YearSummary, error) {
	if !m.ready {
		return nil, repository.ErrNoSnapshot
	}
	return m.years, nil
}

func (m *mockDeps) Sectors(context.Context) ([]model.SectorSummary, error) {
	if !m.ready {
		return nil, repository.ErrNoSnapshot
	}
	return m.sectors, nil
}

func (m *mockDeps) TopEmployers(_ context.Context, n int) ([]api.Entry, error) {
	if m.topNErr != nil {
		return nil, m.topNErr
	}
	if n > len(m.entries) {
		return m.entries, nil
	}
	return m.entries[:n], nil
}

func (m *mockDeps) Employer(_ context.Context, name string) (api.Entry, error) {
	m.lastName = name
	for _, e := range m.entries {
		if e.Name == name {
			return e, nil
		}
	}
	return api.Entry{}, repository.ErrNotFound
}

func (m *mockDeps) Params(context.Context) (elasticity.Params, error) {
	if !m.ready {
		return elasticity.Params{}, repository.ErrNoSnapshot
	}
	return m.params, nil
}

func (m *mockDeps) Simulate(_ context.Context, p elasticity.Params) ([]model.YearSummary, error) {
	pr, err := elasticity.NewProjector(p)
	if err != nil {
		return nil, err
	}
	return summary.Reproject(m.years, pr), nil
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"runs": 1, "lastRunId": "run-1"}
}

func newMux(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}, 50).Register(context.Background(), mux)
	return mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestSummaryEndpoints(t *testing.T) {
	Convey("Given an API over a completed run", t, func() {
		mux := newMux(newMockDeps())

		Convey("When requesting the year summary", func() {
			w := get(mux, "/summary/years")

			Convey("Then it should return the rows as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
				var years []model.YearSummary
				So(json.Unmarshal(w.Body.Bytes(), &years), ShouldBeNil)
				So(len(years), ShouldEqual, 1)
				So(years[0].Year, ShouldEqual, 2019)
			})
		})

		Convey("When requesting the sector summary", func() {
			w := get(mux, "/summary/sectors")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"avg_flexibility_index"`)
		})

		Convey("When posting to a read endpoint", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/summary/years", nil))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given an API before the first run", t, func() {
		deps := newMockDeps()
		deps.ready = false
		mux := newMux(deps)

		Convey("Then reads should be unavailable", func() {
			w := get(mux, "/summary/years")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decodeError(w)["code"], ShouldEqual, "not_ready")

			So(get(mux, "/simulate?fee=50000").Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestEmployerEndpoints(t *testing.T) {
	Convey("Given an API with ranked employers", t, func() {
		deps := newMockDeps()
		mux := newMux(deps)

		Convey("When listing with a limit", func() {
			w := get(mux, "/employers?limit=1")

			Convey("Then it should return that many entries", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var entries []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				So(entries[0]["rank"], ShouldEqual, float64(1))
				So(entries[0]["name"], ShouldEqual, "Google LLC")
			})
		})

		Convey("When listing without a limit", func() {
			So(get(mux, "/employers").Code, ShouldEqual, http.StatusOK)
		})

		Convey("When the limit is invalid", func() {
			for _, q := range []string{"0", "-3", "abc"} {
				w := get(mux, "/employers?limit="+q)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			}
		})

		Convey("When the limit exceeds the cap", func() {
			w := get(mux, "/employers?limit=51")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "limit_exceeded")
		})

		Convey("When the store fails", func() {
			deps.topNErr = fmt.Errorf("disk on fire")
			w := get(mux, "/employers?limit=5")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("When looking up an employer with an escaped name", func() {
			w := get(mux, "/employers/Google%20LLC")

			Convey("Then the unescaped name should reach the lookup", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastName, ShouldEqual, "Google LLC")
				So(w.Body.String(), ShouldContainSubstring, `"key":"googlellc"`)
			})
		})

		Convey("When looking up an unknown employer", func() {
			w := get(mux, "/employers/Nobody")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decodeError(w)["code"], ShouldEqual, "not_found")
		})

		Convey("When the lookup path is malformed", func() {
			So(get(mux, "/employers/").Code, ShouldEqual, http.StatusBadRequest)
			So(get(mux, "/employers/a/b").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestSimulateEndpoint(t *testing.T) {
	Convey("Given an API over a completed run", t, func() {
		mux := newMux(newMockDeps())

		Convey("When simulating a smaller fee increase", func() {
			w := get(mux, "/simulate?fee=50000&elasticity=-0.1")

			Convey("Then the stored baseline should be reprojected", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					BaselineFee float64             `json:"baseline_fee"`
					TargetFee   float64             `json:"target_fee"`
					ChangePct   float64             `json:"change_pct"`
					Impact      string              `json:"impact"`
					Years       []model.YearSummary `json:"years"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.BaselineFee, ShouldEqual, 25_000)
				So(body.TargetFee, ShouldEqual, 50_000)
				So(body.ChangePct, ShouldAlmostEqual, -10, 1e-9)
				So(body.Impact, ShouldEqual, "moderate")
				So(body.Years[0].ProjectedApplications, ShouldAlmostEqual, 900, 1e-9)
			})
		})

		Convey("When no parameters are given", func() {
			w := get(mux, "/simulate")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"impact":"severe"`)
		})

		Convey("When the fee is not positive", func() {
			for _, q := range []string{"0", "-100", "free"} {
				w := get(mux, "/simulate?fee="+q)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the elasticity is not a number", func() {
			So(get(mux, "/simulate?elasticity=steep").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the elasticity is not finite", func() {
			So(get(mux, "/simulate?elasticity=NaN").Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given an API server", t, func() {
		mux := newMux(newMockDeps())

		Convey("When requesting stats", func() {
			w := get(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["lastRunId"], ShouldEqual, "run-1")
			So(stats, ShouldContainKey, "uptimeSeconds")
		})

		Convey("When requesting health", func() {
			get(mux, "/summary/years")
			w := get(mux, "/healthz")

			Convey("Then it should expose Prometheus metrics", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "feeshock_api_http_requests_total")
			})
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given op-tagged errors", t, func() {
		err := api.WrapKind("api.simulate", api.ErrBadRequest, repository.ErrInvalidLimit)

		Convey("Then both the kind and the cause should match", func() {
			So(err.Error(), ShouldStartWith, "api.simulate: ")
			So(fmt.Sprint(err), ShouldContainSubstring, "bad request")
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			So(errors.Is(api.NewKind("op", api.ErrNotReady), api.ErrNotReady), ShouldBeTrue)
			So(errors.Is(api.Wrap("op", repository.ErrNotFound), repository.ErrNotFound), ShouldBeTrue)
		})
	})
}
