package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/bizdash/internal/adapters/http/api"
	service "github.com/okian/bizdash/internal/app"
	"github.com/okian/bizdash/internal/domain/generator"
	"github.com/okian/bizdash/internal/domain/types"
	"github.com/okian/bizdash/pkg/logger"
	"github.com/okian/bizdash/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// 2024-01-07 is a Sunday.
var testNow = time.Date(2024, time.January, 7, 9, 30, 15, 0, time.UTC)

// panickingDeps blows up on every call.
type panickingDeps struct{}

func (panickingDeps) Dashboard(context.Context) (types.Dashboard, error) { panic("boom") }
func (panickingDeps) Inventory(context.Context) (types.Inventory, error) { panic("boom") }
func (panickingDeps) Sales(context.Context) (types.Sales, error)         { panic("boom") }
func (panickingDeps) Purchase(context.Context) (types.Purchase, error)   { panic("boom") }
func (panickingDeps) Reports(context.Context) (types.Reports, error)     { panic("boom") }
func (panickingDeps) User(context.Context) (types.User, error)           { panic("boom") }

func newStartedService() *service.Service {
	svc := service.New(
		service.WithSource(generator.NewLockedSource(42)),
		service.WithClock(fixedClock{t: testNow}),
		service.WithLogger(logger.Get()),
	)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func do(h http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAPIServer(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	Convey("Given an API server backed by a started service", t, func() {
		ctx := context.Background()
		svc := newStartedService()
		defer svc.Stop()
		h := api.NewServer(svc).Handler(ctx)

		Convey("When every route is requested", func() {
			for _, path := range api.Paths {
				w := do(h, http.MethodGet, path, nil)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json")
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
				So(w.Header().Get(api.HeaderRequestID), ShouldNotBeEmpty)
				So(json.Valid(w.Body.Bytes()), ShouldBeTrue)
			}
		})

		Convey("When the dashboard is requested", func() {
			w := do(h, http.MethodGet, api.PathDashboard, nil)

			var d types.Dashboard
			So(json.Unmarshal(w.Body.Bytes(), &d), ShouldBeNil)

			Convey("Then the KPIs are in range and the labels are fixed", func() {
				So(types.DashboardTotalSales.Contains(d.KPIs.TotalSales), ShouldBeTrue)
				So(types.DashboardConversionRate.Contains(d.KPIs.ConversionRate), ShouldBeTrue)
				So(d.Charts.MonthlySales.Labels, ShouldResemble, types.MonthLabels)
				So(d.Charts.DailySales.Labels, ShouldHaveLength, types.DailySalesDays)
				So(d.Charts.DailySales.Labels[types.DailySalesDays-1], ShouldEqual, "Sun")
			})

			Convey("Then the top-level keys are sorted", func() {
				body := w.Body.String()
				So(strings.Index(body, `"charts"`), ShouldBeLessThan, strings.Index(body, `"kpis"`))
			})
		})

		Convey("When the user is requested", func() {
			w := do(h, http.MethodGet, api.PathUser, nil)

			Convey("Then the profile is stamped with the service clock", func() {
				So(strings.TrimSpace(w.Body.String()), ShouldEqual,
					`{"avatar":"https://randomuser.me/api/portraits/men/1.jpg","email":"admin@example.com","lastLogin":"2024-01-07 09:30:15","name":"Admin User","role":"Administrator"}`)
			})
		})

		Convey("When an unknown path is requested", func() {
			w := do(h, http.MethodGet, "/api/unknown", nil)

			Convey("Then it returns 404 with CORS headers", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})

		Convey("When a defined path is called with POST", func() {
			w := do(h, http.MethodPost, api.PathSales, nil)

			Convey("Then it returns 405 with an Allow header", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldContainSubstring, http.MethodGet)
			})
		})

		Convey("When a HEAD request is made", func() {
			w := do(h, http.MethodHead, api.PathReports, nil)

			Convey("Then the GET route answers it", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When a CORS preflight is sent", func() {
			w := do(h, http.MethodOptions, api.PathInventory, map[string]string{
				"Origin":                        "http://localhost:3000",
				"Access-Control-Request-Method": http.MethodGet,
			})

			Convey("Then the middleware answers 204", func() {
				So(w.Code, ShouldEqual, http.StatusNoContent)
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
				So(w.Header().Get("Access-Control-Allow-Methods"), ShouldContainSubstring, http.MethodGet)
			})
		})

		Convey("When a CORS preflight targets an unknown path", func() {
			w := do(h, http.MethodOptions, "/api/unknown", map[string]string{
				"Origin":                        "http://localhost:3000",
				"Access-Control-Request-Method": http.MethodGet,
			})

			Convey("Then the mux answers 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})

		Convey("When a CORS preflight asks for an unserved method", func() {
			w := do(h, http.MethodOptions, api.PathDashboard, map[string]string{
				"Origin":                        "http://localhost:3000",
				"Access-Control-Request-Method": http.MethodDelete,
			})

			Convey("Then the mux answers 405", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When a CORS preflight asks for HEAD", func() {
			w := do(h, http.MethodOptions, api.PathUser, map[string]string{
				"Origin":                        "http://localhost:3000",
				"Access-Control-Request-Method": http.MethodHead,
			})

			Convey("Then the middleware answers 204", func() {
				So(w.Code, ShouldEqual, http.StatusNoContent)
			})
		})

		Convey("When a plain OPTIONS request is sent", func() {
			w := do(h, http.MethodOptions, api.PathInventory, nil)

			Convey("Then the mux rejects the method", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When the caller sends a request ID", func() {
			w := do(h, http.MethodGet, api.PathUser, map[string]string{api.HeaderRequestID: "req-123"})

			Convey("Then it is echoed back", func() {
				So(w.Header().Get(api.HeaderRequestID), ShouldEqual, "req-123")
			})
		})
	})
}

func TestAPIServer_AllowedOrigins(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	Convey("Given a server limited to one origin", t, func() {
		svc := newStartedService()
		defer svc.Stop()
		h := api.NewServer(svc, api.WithAllowedOrigins("http://localhost:3000")).Handler(context.Background())

		Convey("When the allowed origin calls", func() {
			w := do(h, http.MethodGet, api.PathSales, map[string]string{"Origin": "http://localhost:3000"})

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://localhost:3000")
			So(w.Header().Values("Vary"), ShouldContain, "Origin")
		})

		Convey("When another origin calls", func() {
			w := do(h, http.MethodGet, api.PathSales, map[string]string{"Origin": "https://evil.example"})

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
		})

		Convey("When another origin sends a preflight", func() {
			w := do(h, http.MethodOptions, api.PathSales, map[string]string{
				"Origin":                        "https://evil.example",
				"Access-Control-Request-Method": http.MethodGet,
			})

			So(w.Code, ShouldEqual, http.StatusForbidden)
		})
	})
}

func TestAPIServer_Failures(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	Convey("Given a service that was never started", t, func() {
		h := api.NewServer(service.New()).Handler(context.Background())

		w := do(h, http.MethodGet, api.PathDashboard, nil)

		Convey("Then the route reports 503", func() {
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(w.Body.String(), ShouldContainSubstring, "service_unavailable")
		})
	})

	Convey("Given handlers that panic", t, func() {
		h := api.NewServer(panickingDeps{}).Handler(context.Background())

		w := do(h, http.MethodGet, api.PathPurchase, nil)

		Convey("Then the recover middleware returns a JSON 500", func() {
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json")

			var body struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Code, ShouldEqual, "internal_error")
			So(body.Message, ShouldContainSubstring, "boom")
		})
	})
}

func TestAPIServer_LatencyHistogram(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	Convey("Given a request to a fast route", t, func() {
		svc := newStartedService()
		defer svc.Stop()
		w := do(api.NewServer(svc).Handler(context.Background()), http.MethodGet, api.PathReports, nil)
		So(w.Code, ShouldEqual, http.StatusOK)

		Convey("Then its sub-millisecond latency is recorded in seconds", func() {
			families, err := metrics.GetRegistry().Gather()
			So(err, ShouldBeNil)

			var count uint64
			var sum float64
			for _, f := range families {
				if f.GetName() != "bizdash_api_http_request_duration_seconds" {
					continue
				}
				for _, m := range f.GetMetric() {
					for _, l := range m.GetLabel() {
						if l.GetName() == "endpoint" && l.GetValue() == "reports" {
							count += m.GetHistogram().GetSampleCount()
							sum += m.GetHistogram().GetSampleSum()
						}
					}
				}
			}
			So(count, ShouldBeGreaterThan, uint64(0))
			So(sum, ShouldBeGreaterThan, 0.0)
			So(sum/float64(count), ShouldBeLessThan, 1.0)
		})
	})
}

func TestOpsRoutes(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	Convey("Given the operational routes", t, func() {
		svc := newStartedService()
		defer svc.Stop()
		h := api.OpsHandler(context.Background(), svc)

		Convey("Then /healthz reports ok", func() {
			w := do(h, http.MethodGet, "/healthz", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"status":"ok"}`)
		})

		Convey("Then /metrics exposes the custom registry", func() {
			_ = do(api.NewServer(svc).Handler(context.Background()), http.MethodGet, api.PathSales, nil)

			w := do(h, http.MethodGet, "/metrics", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "bizdash_api_http_requests_total")
		})

		Convey("Then /stats returns the service stats", func() {
			w := do(h, http.MethodGet, "/stats", nil)
			So(w.Code, ShouldEqual, http.StatusOK)

			var stats map[string]any
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("Then the API docs are served", func() {
			So(do(h, http.MethodGet, "/openapi.yaml", nil).Code, ShouldEqual, http.StatusOK)
			So(do(h, http.MethodGet, "/api-docs", nil).Code, ShouldEqual, http.StatusOK)
		})
	})
}
