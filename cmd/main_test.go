package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	app "github.com/okian/voyage/internal/app"
	"github.com/okian/voyage/internal/config"
	"github.com/okian/voyage/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.InitWithWriter(io.Discard)
}

func TestConfigWiring(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("VOYAGE_ADDR", ":8080")
		t.Setenv("VOYAGE_DATASET_SIZE", "40")
		t.Setenv("VOYAGE_LOAD_DELAY_MS", "0")
		t.Setenv("VOYAGE_MAX_PREVIEW_LIMIT", "20")

		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the service should be built from them", func() {
			svc := newService(cfg, logger.Nop())
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()

			select {
			case <-svc.Ready():
			case <-time.After(5 * time.Second):
				t.Fatal("dataset did not load")
			}
			convey.So(svc.Status(context.Background()), convey.ShouldResemble, app.Status{Passengers: 40})
		})

		convey.Convey("And the handler should honour the preview cap", func() {
			svc := newService(cfg, logger.Nop())
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()
			<-svc.Ready()

			h := newHandler(context.Background(), cfg, svc, logger.Nop())
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/passengers?limit=21", http.NoBody))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)

			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/passengers?limit=20", http.NoBody))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestHandlerRoutes(t *testing.T) {
	convey.Convey("Given the assembled handler over a loading service", t, func() {
		cfg := config.New(context.Background())
		svc := app.New(app.WithLogger(logger.Nop()))
		h := newHandler(context.Background(), cfg, svc, logger.Nop())

		get := func(path string) *httptest.ResponseRecorder {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return rec
		}

		convey.Convey("Then documentation and dashboard routes should be served", func() {
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/dashboard").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/").Body.String(), convey.ShouldContainSubstring, "/dashboard")
		})

		convey.Convey("And dataset routes should report loading", func() {
			rec := get("/status")
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			var st app.Status
			convey.So(json.Unmarshal(rec.Body.Bytes(), &st), convey.ShouldBeNil)
			convey.So(st.Loading, convey.ShouldBeTrue)
			convey.So(get("/stats").Code, convey.ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestNewHTTPServer(t *testing.T) {
	convey.Convey("Given an HTTP server", t, func() {
		srv := newHTTPServer(":0", http.NotFoundHandler())

		convey.Convey("Then its timeouts should be set", func() {
			convey.So(srv.Addr, convey.ShouldEqual, ":0")
			convey.So(srv.ReadTimeout, convey.ShouldEqual, readTimeout)
			convey.So(srv.WriteTimeout, convey.ShouldEqual, writeTimeout)
			convey.So(srv.IdleTimeout, convey.ShouldEqual, idleTimeout)
			convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a valid configuration on an ephemeral port", t, func() {
		t.Setenv("VOYAGE_ADDR", "127.0.0.1:0")
		t.Setenv("VOYAGE_LOAD_DELAY_MS", "0")

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			convey.Convey("Then run should shut down cleanly", func() {
				convey.So(run(ctx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given an invalid configuration", t, func() {
		t.Setenv("VOYAGE_DATASET_SIZE", "3")

		convey.Convey("Then run should fail before serving", func() {
			err := run(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "load config")
		})
	})
}
