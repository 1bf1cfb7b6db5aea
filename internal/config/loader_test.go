package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/bizdash/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "localhost:5000")
				convey.So(cfg.OpsAddr, convey.ShouldEqual, "localhost:9090")
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"*"})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BIZDASH_ADDR", ":8080")
			_ = os.Setenv("BIZDASH_OPS_ADDR", ":8081")
			_ = os.Setenv("BIZDASH_RANDOM_SEED", "1234")
			_ = os.Setenv("BIZDASH_TIMEZONE", "UTC")
			_ = os.Setenv("BIZDASH_LOG_FORMAT", "json")
			_ = os.Setenv("BIZDASH_CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://dash.example.com")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.OpsAddr, convey.ShouldEqual, ":8081")
				convey.So(cfg.RandomSeed, convey.ShouldEqual, int64(1234))
				convey.So(cfg.Timezone, convey.ShouldEqual, "UTC")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble,
					[]string{"http://localhost:3000", "https://dash.example.com"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
ops_addr: ""
random_seed: 7
log_level: debug
cors_allowed_origins:
  - http://localhost:3000
read_timeout_ms: 2000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BIZDASH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.OpsAddr, convey.ShouldEqual, "")
				convey.So(cfg.RandomSeed, convey.ShouldEqual, int64(7))
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"http://localhost:3000"})
				convey.So(cfg.ReadTimeoutMS, convey.ShouldEqual, 2000)
				convey.So(cfg.WriteTimeoutMS, convey.ShouldEqual, 10_000) // From defaults
			})
		})

		convey.Convey("When the file path is passed explicitly", func() {
			tmpFile := createTempConfigFile(`addr: ":7000"`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("BIZDASH_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, config.WithFile(tmpFile))

			convey.Convey("Then it wins over BIZDASH_CONFIG", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
random_seed: 7
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BIZDASH_CONFIG", tmpFile)
			_ = os.Setenv("BIZDASH_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")  // Overridden by env
				convey.So(cfg.RandomSeed, convey.ShouldEqual, int64(7)) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BIZDASH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("BIZDASH_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("BIZDASH_RANDOM_SEED", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()

		cases := []struct {
			name    string
			env     map[string]string
			message string
		}{
			{"empty addr", map[string]string{"BIZDASH_ADDR": ""}, "addr must not be empty"},
			{"empty origins", map[string]string{"BIZDASH_CORS_ALLOWED_ORIGINS": " , "}, "cors_allowed_origins must not be empty"},
			{"zero timeout", map[string]string{"BIZDASH_WRITE_TIMEOUT_MS": "0"}, "timeouts must be positive"},
			{"same listeners", map[string]string{"BIZDASH_ADDR": ":8080", "BIZDASH_OPS_ADDR": ":8080"}, "ops_addr must differ"},
			{"unknown timezone", map[string]string{"BIZDASH_TIMEZONE": "Mars/Olympus_Mons"}, "timezone"},
		}

		for _, tc := range cases {
			convey.Convey("When loading with "+tc.name, func() {
				for k, v := range tc.env {
					_ = os.Setenv(k, v)
				}
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should return a validation error", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.message)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"BIZDASH_CONFIG",
		"BIZDASH_ADDR",
		"BIZDASH_OPS_ADDR",
		"BIZDASH_RANDOM_SEED",
		"BIZDASH_TIMEZONE",
		"BIZDASH_LOG_FORMAT",
		"BIZDASH_LOG_LEVEL",
		"BIZDASH_CORS_ALLOWED_ORIGINS",
		"BIZDASH_WRITE_TIMEOUT_MS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "bizdash-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
