package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-social-backend/internal/config"
	"github.com/tbourn/go-social-backend/internal/repo"
)

func TestSetupLogger_LevelAndContextFallback(t *testing.T) {
	prevLogger, prevLevel, prevCtx := log.Logger, zerolog.GlobalLevel(), zerolog.DefaultContextLogger
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
		zerolog.DefaultContextLogger = prevCtx
	})

	var buf bytes.Buffer
	setupLogger(config.Config{LogLevel: "warn", OTEL: config.OTELConfig{ServiceName: "svc"}}, &buf)

	log.Info().Msg("hidden")
	// a context without a logger falls back to the global one
	zerolog.Ctx(context.Background()).Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"message":"shown"`) || !strings.Contains(out, `"service":"svc"`) {
		t.Fatalf("expected warn line with service field: %s", out)
	}

	buf.Reset()
	setupLogger(config.Config{LogLevel: "nonsense"}, &buf)
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("unknown level should default to info, got %v", zerolog.GlobalLevel())
	}
}

func TestOpenNotificationStore_SQLDefault(t *testing.T) {
	db, err := repo.OpenSQLite(t.TempDir() + "/app.db")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store, closeFn, err := openNotificationStore(context.Background(), config.Config{NotificationStore: config.StoreSQL}, db)
	if err != nil {
		t.Fatalf("openNotificationStore: %v", err)
	}
	defer closeFn()
	if _, ok := store.(*repo.NotificationStore); !ok {
		t.Fatalf("expected SQL store, got %T", store)
	}
}
