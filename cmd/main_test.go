package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/usersapi/internal/app"
	"github.com/okian/usersapi/internal/config"
	"github.com/okian/usersapi/pkg/logger"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("USERS_ADDR", ":8080")
			_ = os.Setenv("USERS_RATE_LIMIT_REQUESTS", "7")
			defer func() {
				_ = os.Unsetenv("USERS_ADDR")
				_ = os.Unsetenv("USERS_RATE_LIMIT_REQUESTS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RateLimitRequests, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("USERS_RATE_LIMIT_REQUESTS", "0")
			defer func() { _ = os.Unsetenv("USERS_RATE_LIMIT_REQUESTS") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestRouter(t *testing.T) {
	convey.Convey("Given the assembled router on a live test server", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithLogger(logger.Nop()))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		handler, err := newRouter(ctx, config.New(), svc, logger.Nop())
		convey.So(err, convey.ShouldBeNil)

		srv := httptest.NewServer(handler)
		defer srv.Close()

		get := func(path string) (int, string) {
			resp, err := http.Get(srv.URL + path)
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()
			b, err := io.ReadAll(resp.Body)
			convey.So(err, convey.ShouldBeNil)
			return resp.StatusCode, string(b)
		}

		convey.Convey("Then the API routes are served", func() {
			code, body := get("/users")
			convey.So(code, convey.ShouldEqual, http.StatusOK)

			var list struct {
				Users []map[string]any `json:"users"`
			}
			convey.So(json.Unmarshal([]byte(body), &list), convey.ShouldBeNil)
			convey.So(list.Users, convey.ShouldHaveLength, 4)
			convey.So(list.Users[0]["id"], convey.ShouldNotBeEmpty)
		})

		convey.Convey("And a created user is listed with a fresh id", func() {
			resp, err := http.Post(srv.URL+"/users", "application/json", strings.NewReader(`{"name":"Amy","age":30}`))
			convey.So(err, convey.ShouldBeNil)
			resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusCreated)

			_, body := get("/users")
			convey.So(body, convey.ShouldContainSubstring, `"name":"Amy","age":30`)
		})

		convey.Convey("And the documentation routes are served", func() {
			code, body := get("/openapi.json")
			convey.So(code, convey.ShouldEqual, http.StatusOK)
			convey.So(body, convey.ShouldContainSubstring, "/users/{id}")

			code, _ = get("/api-docs")
			convey.So(code, convey.ShouldEqual, http.StatusOK)

			code, body = get("/")
			convey.So(code, convey.ShouldEqual, http.StatusOK)
			convey.So(body, convey.ShouldContainSubstring, "Users API")
		})

		convey.Convey("And the ops routes are served", func() {
			code, _ := get("/healthz")
			convey.So(code, convey.ShouldEqual, http.StatusOK)

			code, body := get("/metrics")
			convey.So(code, convey.ShouldEqual, http.StatusOK)
			convey.So(body, convey.ShouldContainSubstring, "users_api_")
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater's context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.Convey("Then it returns", func() {
				done := make(chan struct{})
				go func() {
					startSystemMetricsUpdater(ctx)
					close(done)
				}()

				select {
				case <-done:
				case <-time.After(2 * time.Second):
					t.Fatal("system metrics updater did not stop")
				}
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})
	})
}
