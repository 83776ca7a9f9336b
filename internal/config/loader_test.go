package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vapeless/vapeless/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VAPELESS_CONFIG", "")

	Convey("Given a clean environment", t, func() {
		Convey("When loading with no overrides", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.DatabaseDSN, ShouldEqual, "vapeless.db")
				So(cfg.QueueSize, ShouldEqual, 10_000)
				So(cfg.WorkerCount, ShouldEqual, 4)
				So(cfg.VitalityWindowDays, ShouldEqual, 3)
				So(cfg.CoachModel, ShouldEqual, "gemini-3-flash-preview")
			})
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VAPELESS_CONFIG", "")
	t.Setenv("VAPELESS_ADDR", ":7070")
	t.Setenv("VAPELESS_WORKER_COUNT", "8")
	t.Setenv("VAPELESS_LOG_LEVEL", "debug")

	Convey("Given environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env values win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.WorkerCount, ShouldEqual, 8)
			So(cfg.LogLevel, ShouldEqual, "debug")
		})
	})
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "addr: \":6060\"\nqueue_size: 123\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VAPELESS_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then file values win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.QueueSize, ShouldEqual, 123)
		})
	})
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":6060\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VAPELESS_CONFIG", path)
	t.Setenv("VAPELESS_ADDR", ":5050")

	Convey("Given both a file and an env override", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then env wins", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":5050")
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("VAPELESS_CONFIG", "/nonexistent/config.yaml")

	Convey("Given a missing config file", t, func() {
		_, err := config.Load(context.Background())

		So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
	})
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("VAPELESS_CONFIG", "")
	t.Setenv("VAPELESS_QUEUE_SIZE", "0")

	Convey("Given an invalid override", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then validation rejects it", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
