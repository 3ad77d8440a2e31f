package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/leaderview/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars(t)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("LEADERVIEW_ADDR", ":8080")
			t.Setenv("LEADERVIEW_BACKEND_URL", "https://api.example.com")
			t.Setenv("LEADERVIEW_FRONTEND_URL", "https://board.example.com")
			t.Setenv("LEADERVIEW_QUEUE_SIZE", "64")
			t.Setenv("LEADERVIEW_FENCE_STALE_RESPONSES", "false")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.BackendURL, convey.ShouldEqual, "https://api.example.com")
				convey.So(cfg.FrontendURL, convey.ShouldEqual, "https://board.example.com")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.FenceStaleResponses, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			path := writeTempFile(t, "leaderview.yaml", `
addr: ":9090"
milestones_url: "https://cdn.example.com/milestones.json"
upstream_timeout_ms: 2500
qr_size: 320
`)
			t.Setenv("LEADERVIEW_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MilestonesURL, convey.ShouldEqual, "https://cdn.example.com/milestones.json")
				convey.So(cfg.UpstreamTimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.QRSize, convey.ShouldEqual, 320)
				convey.So(cfg.BackendURL, convey.ShouldEqual, "http://localhost:8000")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := writeTempFile(t, "leaderview.yaml", `
addr: ":9090"
max_sessions: 10
`)
			t.Setenv("LEADERVIEW_CONFIG", path)
			t.Setenv("LEADERVIEW_ADDR", ":8081")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When a dotenv file is present", func() {
			path := writeTempFile(t, "board.env", "LEADERVIEW_FRONTEND_URL=https://dotenv.example.com\nLEADERVIEW_ADDR=:7000\n")
			t.Setenv("LEADERVIEW_DOTENV", path)
			t.Setenv("LEADERVIEW_ADDR", ":7001")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it fills unset variables without overriding the process env", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.FrontendURL, convey.ShouldEqual, "https://dotenv.example.com")
				convey.So(cfg.Addr, convey.ShouldEqual, ":7001")
			})

			_ = os.Unsetenv("LEADERVIEW_FRONTEND_URL")
		})

		convey.Convey("When the dotenv file does not exist", func() {
			t.Setenv("LEADERVIEW_DOTENV", filepath.Join(t.TempDir(), "missing.env"))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			path := writeTempFile(t, "bad.yaml", `invalid: yaml: content: [`)
			t.Setenv("LEADERVIEW_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			t.Setenv("LEADERVIEW_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			t.Setenv("LEADERVIEW_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			t.Setenv("LEADERVIEW_QUEUE_SIZE", "invalid")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a relative backend URL", func() {
			t.Setenv("LEADERVIEW_BACKEND_URL", "localhost:8000")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the URL", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "backend_url")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, config.EnvPrefix) {
			t.Setenv(key, "")
			_ = os.Unsetenv(key)
		}
	}
	// Point dotenv loading at a path that exists but is empty so a stray ./.env cannot leak in.
	t.Setenv(config.EnvDotenvFile, writeTempFile(t, "empty.env", ""))
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
