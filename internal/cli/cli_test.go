package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/okian/bizdash/internal/config"
	"github.com/okian/bizdash/internal/probe"
	"github.com/okian/bizdash/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type listenAddrs struct{ api, ops string }

// startServe runs runServe in the background and waits for its listeners.
func startServe(t *testing.T, cfg *config.Config) (listenAddrs, context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan listenAddrs, 1)
	done := make(chan error, 1)

	go func() {
		done <- runServe(ctx, cfg, func(apiAddr, opsAddr string) {
			ready <- listenAddrs{api: apiAddr, ops: opsAddr}
		})
	}()

	select {
	case addrs := <-ready:
		return addrs, cancel, done
	case err := <-done:
		cancel()
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("serve did not start")
	}
	return listenAddrs{}, cancel, done
}

func testServeConfig() *config.Config {
	cfg := config.New(context.Background())
	cfg.Addr = "127.0.0.1:0"
	cfg.OpsAddr = "127.0.0.1:0"
	cfg.RandomSeed = 5
	cfg.ShutdownTimeoutMS = 2000
	return cfg
}

func TestRunServe(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	convey.Convey("Given a running server", t, func() {
		addrs, cancel, done := startServe(t, testServeConfig())
		drained := false

		convey.Convey("Then the API listener serves the routes", func() {
			resp, err := http.Get("http://" + addrs.api + "/api/user")
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			convey.So(resp.Header.Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "*")
		})

		convey.Convey("Then the ops listener serves health and metrics", func() {
			resp, err := http.Get("http://" + addrs.ops + "/healthz")
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

			resp, err = http.Get("http://" + addrs.ops + "/metrics")
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then the API listener does not expose ops routes", func() {
			resp, err := http.Get("http://" + addrs.api + "/healthz")
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusNotFound)
		})

		convey.Convey("When the context is cancelled", func() {
			cancel()

			convey.Convey("Then it shuts down cleanly", func() {
				select {
				case err := <-done:
					drained = true
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("shutdown timed out", convey.ShouldBeEmpty)
				}
			})
		})

		cancel()
		if !drained {
			<-done
		}
	})

	convey.Convey("Given a port that is already taken", t, func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		defer func() { _ = ln.Close() }()

		cfg := testServeConfig()
		cfg.Addr = ln.Addr().String()
		cfg.OpsAddr = ""

		baseline := runtime.NumGoroutine()
		for i := 0; i < 10; i++ {
			err = runServe(context.Background(), cfg, nil)
		}

		convey.Convey("Then startup fails with ErrServe", func() {
			convey.So(errors.Is(err, ErrServe), convey.ShouldBeTrue)
		})

		convey.Convey("Then no background goroutines are left behind", func() {
			deadline := time.Now().Add(2 * time.Second)
			for runtime.NumGoroutine() > baseline+2 && time.Now().Before(deadline) {
				time.Sleep(10 * time.Millisecond)
			}
			convey.So(runtime.NumGoroutine(), convey.ShouldBeLessThanOrEqualTo, baseline+2)
		})
	})
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		root := NewRootCmd()

		convey.Convey("Then it carries the serve and probe subcommands", func() {
			names := make([]string, 0)
			for _, c := range root.Commands() {
				names = append(names, c.Name())
			}
			convey.So(names, convey.ShouldContain, "serve")
			convey.So(names, convey.ShouldContain, "probe")
			convey.So(root.PersistentFlags().Lookup("config"), convey.ShouldNotBeNil)
			convey.So(root.PersistentFlags().Lookup("log-level"), convey.ShouldNotBeNil)
		})

		convey.Convey("When serve is given a missing config file", func() {
			root.SetArgs([]string{"serve", "--config", "/non/existent/bizdash.yaml"})
			root.SetOut(io.Discard)

			err := root.ExecuteContext(context.Background())

			convey.Convey("Then it fails with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When probe is given an invalid timezone", func() {
			root.SetArgs([]string{"probe", "--timezone", "Mars/Olympus_Mons"})
			root.SetOut(io.Discard)

			err := root.ExecuteContext(context.Background())

			convey.Convey("Then it fails before any request", func() {
				convey.So(errors.Is(err, probe.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestProbeCommand(t *testing.T) {
	_ = logger.Init(logger.WithWriter(io.Discard))

	convey.Convey("Given a running server and the probe command", t, func() {
		cfg := testServeConfig()
		cfg.OpsAddr = ""
		addrs, cancel, done := startServe(t, cfg)
		defer func() {
			cancel()
			<-done
		}()

		report := filepath.Join(t.TempDir(), "probe.yaml")
		var out bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&out)
		root.SetArgs([]string{"probe",
			"--url", "http://" + addrs.api,
			"--rounds", "4",
			"--workers", "2",
			"--report", report,
			"--log-level", "error",
		})

		err := root.ExecuteContext(context.Background())

		convey.Convey("Then the probe passes and writes its report", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(out.String(), convey.ShouldStartWith, "probe passed:")

			data, readErr := os.ReadFile(report)
			convey.So(readErr, convey.ShouldBeNil)
			convey.So(strings.Contains(string(data), "run_id:"), convey.ShouldBeTrue)
		})
	})
}
