package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/navne/internal/adapters/http/api"
	service "github.com/okian/navne/internal/app"
	"github.com/okian/navne/internal/domain/gender"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies answers from a fixed table.
type mockDependencies struct {
	ready bool
	table map[string]gender.Category
	err   error
	batch []string
}

func (m *mockDependencies) Ready() bool { return m.ready }

func (m *mockDependencies) predict(name string) api.Prediction {
	c := m.table[gender.Key(name)]
	return api.Prediction{Name: name, Key: gender.Key(name), Score: float64(c.Score()), Category: c}
}

func (m *mockDependencies) Predict(_ context.Context, name string) (api.Prediction, error) {
	if m.err != nil {
		return api.Prediction{}, m.err
	}
	return m.predict(name), nil
}

func (m *mockDependencies) PredictBatch(_ context.Context, names []string) ([]api.Prediction, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.batch = names
	out := make([]api.Prediction, len(names))
	for i, n := range names {
		out[i] = m.predict(n)
	}
	return out, nil
}

func (m *mockDependencies) GetStats() map[string]any {
	return map[string]any{"started": m.ready, "names": len(m.table)}
}

func newMux(deps *mockDependencies, maxBatch int) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, maxBatch).Register(context.Background(), mux)
	return mux
}

func serve(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := &mockDependencies{
			ready: true,
			table: map[string]gender.Category{"Finn": gender.Male, "Anna": gender.Female, "Kim": gender.Unisex},
		}
		mux := newMux(deps, 3)

		Convey("When checking health", func() {
			w := serve(mux, http.MethodGet, "/healthz", "")

			Convey("Then it reports ok with a request id", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"ok"`)
				So(w.Header().Get(api.HeaderRequestID), ShouldNotBeEmpty)
			})
		})

		Convey("When the caller sends a request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set(api.HeaderRequestID, "abc-123")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is echoed back", func() {
				So(w.Header().Get(api.HeaderRequestID), ShouldEqual, "abc-123")
			})
		})

		Convey("When fetching stats", func() {
			w := serve(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"names":3`)
		})

		Convey("When fetching metrics", func() {
			serve(mux, http.MethodGet, "/predict?name=Finn", "")
			w := serve(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "navne_gender_http_requests_total")
		})

		Convey("When requesting an unknown path", func() {
			w := serve(mux, http.MethodGet, "/unknown", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPredictHandler(t *testing.T) {
	Convey("Given a ready predict endpoint", t, func() {
		deps := &mockDependencies{
			ready: true,
			table: map[string]gender.Category{"Finn": gender.Male, "Anna": gender.Female, "Kim": gender.Unisex},
		}
		mux := newMux(deps, 3)

		Convey("When predicting a single full name", func() {
			w := serve(mux, http.MethodGet, "/predict?name=Finn+Nielsen", "")

			Convey("Then it returns the prediction for the first token", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var p api.Prediction
				So(json.Unmarshal(w.Body.Bytes(), &p), ShouldBeNil)
				So(p.Key, ShouldEqual, "Finn")
				So(p.Score, ShouldEqual, 1.0)
				So(w.Body.String(), ShouldContainSubstring, `"category":"male"`)
			})
		})

		Convey("When the name parameter is empty", func() {
			w := serve(mux, http.MethodGet, "/predict?name=", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"category":"unknown"`)
		})

		Convey("When the name parameter is missing", func() {
			w := serve(mux, http.MethodGet, "/predict", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting a batch", func() {
			w := serve(mux, http.MethodPost, "/predict", `{"names":["Anna","Kim","ZZZ"]}`)

			Convey("Then predictions are returned in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Predictions []api.Prediction `json:"predictions"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(len(resp.Predictions), ShouldEqual, 3)
				So(resp.Predictions[0].Score, ShouldEqual, 0.0)
				So(resp.Predictions[1].Score, ShouldEqual, 0.5)
				So(resp.Predictions[2].Score, ShouldEqual, 0.5)
				So(deps.batch, ShouldResemble, []string{"Anna", "Kim", "ZZZ"})
			})
		})

		Convey("When posting a batch over the limit", func() {
			w := serve(mux, http.MethodPost, "/predict", `{"names":["a","b","c","d"]}`)
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
		})

		Convey("When posting malformed JSON", func() {
			w := serve(mux, http.MethodPost, "/predict", `{"names":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting without names", func() {
			w := serve(mux, http.MethodPost, "/predict", `{}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using an unsupported method", func() {
			w := serve(mux, http.MethodDelete, "/predict", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, "GET, POST")
		})
	})

	Convey("Given a service that has not loaded its lists", t, func() {
		deps := &mockDependencies{err: service.ErrNotStarted}
		mux := newMux(deps, 3)

		Convey("Then health and predictions answer 503", func() {
			So(serve(mux, http.MethodGet, "/healthz", "").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(serve(mux, http.MethodGet, "/predict?name=Finn", "").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(serve(mux, http.MethodPost, "/predict", `{"names":["Finn"]}`).Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})

	Convey("Given a service failing unexpectedly", t, func() {
		deps := &mockDependencies{ready: true, err: errors.New("boom")}
		mux := newMux(deps, 3)

		Convey("Then predictions answer 500", func() {
			So(serve(mux, http.MethodGet, "/predict?name=Finn", "").Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestRequestID(t *testing.T) {
	Convey("Given the request id middleware", t, func() {
		var seen string
		h := api.RequestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestID(r.Context())
		})

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Convey("Then the handler sees the same id the client receives", func() {
			So(seen, ShouldNotBeEmpty)
			So(seen, ShouldEqual, w.Header().Get(api.HeaderRequestID))
		})

		Convey("Then a context without an id yields empty", func() {
			So(api.RequestID(context.Background()), ShouldBeEmpty)
		})
	})
}
