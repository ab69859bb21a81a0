package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/okian/voyage/internal/adapters/http/api"
	"github.com/okian/voyage/internal/adapters/repository"
	service "github.com/okian/voyage/internal/app"
	"github.com/okian/voyage/internal/domain/dataset"
	"github.com/okian/voyage/internal/domain/evaluate"
	"github.com/okian/voyage/internal/domain/features"
	"github.com/okian/voyage/internal/domain/model"
	"github.com/okian/voyage/internal/domain/predict"
	"github.com/okian/voyage/internal/domain/stats"
	"github.com/okian/voyage/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeDeps serves the seed records, or fails every call with err.
type fakeDeps struct {
	err        error
	predictErr error
	scores     []evaluate.ModelScores
	lastLimit  int
}

func (f *fakeDeps) store() *repository.Snapshot { return repository.NewSnapshot(dataset.Seed()) }

func (f *fakeDeps) Status(context.Context) service.Status {
	if f.err != nil {
		return service.Status{Loading: true}
	}
	return service.Status{Passengers: 10}
}

func (f *fakeDeps) Passengers(ctx context.Context, limit int) ([]model.Passenger, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.store().Head(ctx, limit)
}

func (f *fakeDeps) Passenger(ctx context.Context, id int) (model.Passenger, error) {
	if f.err != nil {
		return model.Passenger{}, f.err
	}
	return f.store().Get(ctx, id)
}

func (f *fakeDeps) Engineered(ctx context.Context, limit int) ([]model.EngineeredPassenger, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return features.EngineerAll(dataset.Seed())[:min(limit, 10)], nil
}

func (f *fakeDeps) BasicStats(context.Context) (*stats.BasicStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return stats.Basic(dataset.Seed()), nil
}

func (f *fakeDeps) MissingValues(context.Context) (*stats.MissingValues, error) {
	if f.err != nil {
		return nil, f.err
	}
	return stats.Missing(dataset.Seed()), nil
}

func (f *fakeDeps) SurvivalByCategory(context.Context) (*stats.CategorySurvival, error) {
	if f.err != nil {
		return nil, f.err
	}
	return stats.SurvivalByCategory(dataset.Seed()), nil
}

func (f *fakeDeps) FeatureDistributions(context.Context) (*stats.Distributions, error) {
	if f.err != nil {
		return nil, f.err
	}
	return stats.FeatureDistributions(features.EngineerAll(dataset.Seed())), nil
}

func (f *fakeDeps) Predict(ctx context.Context, h features.Hypothetical) (service.Prediction, error) {
	if f.predictErr != nil {
		return service.Prediction{}, f.predictErr
	}
	return service.New(service.WithLogger(logger.Nop())).Predict(ctx, h)
}

func (f *fakeDeps) Models(ctx context.Context) (service.ModelSummary, error) {
	if f.predictErr != nil {
		return service.ModelSummary{}, f.predictErr
	}
	return service.New(service.WithLogger(logger.Nop())).Models(ctx)
}

func (f *fakeDeps) ModelMetrics(context.Context) ([]evaluate.ModelScores, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

func newMux(deps api.Dependencies, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, opts...).Register(mux)
	return mux
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestPassengersEndpoints(t *testing.T) {
	Convey("Given an API over the seed records", t, func() {
		deps := &fakeDeps{}
		mux := newMux(deps, api.WithMaxLimit(8))

		Convey("When listing passengers without a limit", func() {
			rec := do(mux, http.MethodGet, "/passengers", "")

			Convey("Then the first five should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				var ps []map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &ps), ShouldBeNil)
				So(ps, ShouldHaveLength, 5)
				So(ps[0]["PassengerId"], ShouldEqual, 1.0)
				So(ps[0]["Cabin"], ShouldBeNil)
				So(deps.lastLimit, ShouldEqual, 5)
			})
		})

		Convey("When the limit is invalid or above the cap", func() {
			for _, q := range []string{"0", "-2", "abc", "9"} {
				rec := do(mux, http.MethodGet, "/passengers?limit="+q, "")
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(rec)["code"], ShouldEqual, "bad_request")
			}
		})

		Convey("When fetching a passenger by id", func() {
			rec := do(mux, http.MethodGet, "/passengers/6", "")

			Convey("Then the unknown age should be null", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var p map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &p), ShouldBeNil)
				So(p["Name"], ShouldEqual, "Moran, Mr. James")
				So(p["Age"], ShouldBeNil)
			})
		})

		Convey("When fetching an unknown or malformed id", func() {
			So(do(mux, http.MethodGet, "/passengers/404", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/passengers/abc", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using the wrong method", func() {
			So(do(mux, http.MethodPost, "/passengers", "{}").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestStatsAndFeaturesEndpoints(t *testing.T) {
	Convey("Given an API over the seed records", t, func() {
		mux := newMux(&fakeDeps{})

		Convey("When reading /stats", func() {
			rec := do(mux, http.MethodGet, "/stats", "")
			var b stats.BasicStats
			So(json.Unmarshal(rec.Body.Bytes(), &b), ShouldBeNil)

			Convey("Then the headline figures should be present", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(b.TotalPassengers, ShouldEqual, 10)
				So(b.ClassCounts[3], ShouldEqual, 6)
			})
		})

		Convey("When reading /stats/missing", func() {
			rec := do(mux, http.MethodGet, "/stats/missing", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"Cabin":7`)
		})

		Convey("When reading /stats/survival", func() {
			rec := do(mux, http.MethodGet, "/stats/survival", "")
			var body map[string]map[string]map[string]float64
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)

			Convey("Then each group should carry its rate", func() {
				So(body["byGender"]["female"]["rate"], ShouldEqual, 100.0)
				So(body["byClass"]["2"]["total"], ShouldEqual, 1.0)
				So(body["byEmbarked"]["Q"]["rate"], ShouldEqual, 0.0)
			})
		})

		Convey("When reading /features and /features/distributions", func() {
			rec := do(mux, http.MethodGet, "/features?limit=2", "")
			var eps []model.EngineeredPassenger
			So(json.Unmarshal(rec.Body.Bytes(), &eps), ShouldBeNil)
			So(eps, ShouldHaveLength, 2)
			So(eps[1].Title, ShouldEqual, "Mrs")

			rec = do(mux, http.MethodGet, "/features/distributions", "")
			var d stats.Distributions
			So(json.Unmarshal(rec.Body.Bytes(), &d), ShouldBeNil)
			So(d.Titles[0], ShouldResemble, stats.Count{Name: "Mr", Value: 4})
		})
	})
}

func TestPredictEndpoint(t *testing.T) {
	Convey("Given an API with a working predictor", t, func() {
		mux := newMux(&fakeDeps{})

		Convey("When posting a hypothetical passenger", func() {
			rec := do(mux, http.MethodPost, "/predict", `{"Pclass":1,"Sex":"female","Age":30,"Fare":90,"Title":"Mrs."}`)

			Convey("Then both outcomes and the chance should be returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var p service.Prediction
				So(json.Unmarshal(rec.Body.Bytes(), &p), ShouldBeNil)
				So(p.Tree, ShouldEqual, model.Survived)
				So(p.Chance, ShouldNotBeEmpty)
				So(p.Features.TitleMrs, ShouldEqual, 1.0)
			})
		})

		Convey("When posting an empty object", func() {
			rec := do(mux, http.MethodPost, "/predict", `{}`)
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("When posting unexpected categorical values", func() {
			rec := do(mux, http.MethodPost, "/predict", `{"Pclass":4,"Sex":"Female","Embarked":"X"}`)

			Convey("Then the defaults should apply instead of a rejection", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var p service.Prediction
				So(json.Unmarshal(rec.Body.Bytes(), &p), ShouldBeNil)
				So(p.Features.Sex, ShouldEqual, 1.0)
				So(p.Features.EmbarkedS, ShouldEqual, 1.0)
			})
		})

		Convey("When posting malformed or invalid bodies", func() {
			for _, body := range []string{`{`, `{"Pclass":"first"}`, `{"Unknown":1}`, `{"Age":-1}`, `{"SibSp":-2}`} {
				rec := do(mux, http.MethodPost, "/predict", body)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(rec)["code"], ShouldEqual, "bad_request")
			}
		})
	})

	Convey("Given an API whose prediction pipeline fails", t, func() {
		mux := newMux(&fakeDeps{predictErr: fmt.Errorf("%w: boom", service.ErrPrediction)})

		Convey("Then the error should be a generic 500", func() {
			rec := do(mux, http.MethodPost, "/predict", `{}`)
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			body := decodeError(rec)
			So(body["code"], ShouldEqual, "internal_error")
			So(body["message"], ShouldNotContainSubstring, "boom")
		})
	})
}

func TestModelsEndpoint(t *testing.T) {
	Convey("Given model scores with an undefined precision", t, func() {
		mux := newMux(&fakeDeps{scores: []evaluate.ModelScores{{
			Model:  "constant",
			Scores: evaluate.Scores{Accuracy: 0.6, Precision: math.NaN(), Recall: 0, F1: math.NaN(), TrueNegatives: 6, FalseNegatives: 4},
		}}})

		Convey("When reading /models/metrics", func() {
			rec := do(mux, http.MethodGet, "/models/metrics", "")

			Convey("Then undefined metrics should encode as null", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body []map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body[0]["model"], ShouldEqual, "constant")
				So(body[0]["accuracy"], ShouldEqual, 0.6)
				So(body[0]["precision"], ShouldBeNil)
				So(body[0]["recall"], ShouldEqual, 0.0)
				So(body[0]["f1Score"], ShouldBeNil)
				So(body[0]["trueNegatives"], ShouldEqual, 6.0)
			})
		})
	})

	Convey("Given an API whose dataset is still loading", t, func() {
		mux := newMux(&fakeDeps{err: service.ErrLoading})

		Convey("When reading /models", func() {
			rec := do(mux, http.MethodGet, "/models", "")

			Convey("Then the linear parameters should be served in feature order", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body service.ModelSummary
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Linear, ShouldNotBeNil)
				So(body.Linear.Intercept, ShouldEqual, 0.042)
				So(body.Linear.Threshold, ShouldEqual, 0.5)
				So(body.Linear.Weights, ShouldHaveLength, model.FeatureCount)
				So(body.Linear.Weights[0], ShouldResemble, predict.Weight{Feature: "Pclass", Value: -0.15})
				So(body.Linear.Weights[14], ShouldResemble, predict.Weight{Feature: "HasCabin", Value: 0.14})
			})

			Convey("And the tree rules and importances should be served", func() {
				var raw map[string]map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &raw), ShouldBeNil)
				So(raw["decisionTree"]["model"], ShouldEqual, predict.TreeName)
				So(raw["decisionTree"]["rules"], ShouldHaveLength, 6)
				So(raw["decisionTree"]["importances"], ShouldNotBeEmpty)
			})
		})
	})
}

func TestLoadingAndFailures(t *testing.T) {
	Convey("Given an API whose dataset is still loading", t, func() {
		mux := newMux(&fakeDeps{err: service.ErrLoading})

		Convey("Then every dataset endpoint should answer 503", func() {
			for _, path := range []string{"/passengers", "/passengers/1", "/stats", "/stats/missing", "/stats/survival", "/features", "/features/distributions", "/models/metrics"} {
				rec := do(mux, http.MethodGet, path, "")
				So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decodeError(rec)["code"], ShouldEqual, "loading")
			}
		})

		Convey("And /status should report loading with 200", func() {
			rec := do(mux, http.MethodGet, "/status", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, `"loading":true`)
		})
	})

	Convey("Given an API whose dependency fails unexpectedly", t, func() {
		mux := newMux(&fakeDeps{err: errors.New("disk on fire")}, api.WithLogger(logger.Nop()))

		Convey("Then the failure should be a generic 500", func() {
			rec := do(mux, http.MethodGet, "/stats", "")
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(rec)["message"], ShouldNotContainSubstring, "disk")
		})
	})
}

func TestMiddlewareAndStatic(t *testing.T) {
	Convey("Given the API mux", t, func() {
		mux := newMux(&fakeDeps{})

		Convey("When a request carries a request id", func() {
			id := uuid.NewString()
			req := httptest.NewRequest(http.MethodGet, "/status", nil)
			req.Header.Set(api.RequestIDHeader, id)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			Convey("Then it should be echoed", func() {
				So(rec.Header().Get(api.RequestIDHeader), ShouldEqual, id)
			})
		})

		Convey("When a request has no request id", func() {
			rec := do(mux, http.MethodGet, "/status", "")

			Convey("Then a uuid should be minted", func() {
				_, err := uuid.Parse(rec.Header().Get(api.RequestIDHeader))
				So(err, ShouldBeNil)
			})
		})

		Convey("When scraping /healthz after some traffic", func() {
			do(mux, http.MethodGet, "/stats", "")
			rec := do(mux, http.MethodGet, "/healthz", "")

			Convey("Then the HTTP metrics should be exposed", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "voyage_pipeline_http_requests_total")
			})
		})

		Convey("When requesting the dashboard", func() {
			rec := do(mux, http.MethodGet, "/dashboard", "")

			Convey("Then the embedded page should be served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/html")
				So(rec.Body.String(), ShouldContainSubstring, "/models/metrics")
			})
		})
	})
}

func TestAgainstService(t *testing.T) {
	Convey("Given the API over a real service", t, func() {
		svc := service.New(service.WithLoadDelay(0), service.WithLogger(logger.Nop()))
		defer svc.Stop()
		So(svc.Start(context.Background()), ShouldBeNil)
		select {
		case <-svc.Ready():
		case <-time.After(5 * time.Second):
			So("dataset did not load", ShouldBeEmpty)
		}
		mux := newMux(svc)

		Convey("Then the full dataset should be reachable", func() {
			rec := do(mux, http.MethodGet, "/passengers?limit=100", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			var ps []model.Passenger
			So(json.Unmarshal(rec.Body.Bytes(), &ps), ShouldBeNil)
			So(ps, ShouldHaveLength, dataset.DefaultTargetSize)

			rec = do(mux, http.MethodGet, "/models/metrics", "")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "decision_tree")
		})
	})
}
