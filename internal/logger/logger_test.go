package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, log func(*slog.Logger)) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	base := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log(slog.New(NewRedactingHandler(base)))

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &out))
	return out
}

func TestRedactsSensitiveFields(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"password", "PASSWORD", "dsn", "db_password", "token"} {
		out := logLine(t, func(l *slog.Logger) { l.Info("connect", key, "hunter2") })
		require.Equal(t, redacted, out[key], key)
	}
}

func TestRedactsNestedAndBoundFields(t *testing.T) {
	t.Parallel()

	out := logLine(t, func(l *slog.Logger) {
		l.With("dsn", "postgres://u:p@h/db").Info("connect", slog.Group("db", "password", "x", "driver", "postgres"))
	})
	require.Equal(t, redacted, out["dsn"])

	db, ok := out["db"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, redacted, db["password"])
	require.Equal(t, "postgres", db["driver"])
}

func TestPassesOtherFields(t *testing.T) {
	t.Parallel()

	out := logLine(t, func(l *slog.Logger) { l.Info("created", "client_id", 4, "email", "p.beesly@gmail.com") })
	require.Equal(t, float64(4), out["client_id"])
	require.Equal(t, "p.beesly@gmail.com", out["email"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseLevel("chatty")
	require.Error(t, err)
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "clientdb.log")

	log, closer, err := New(Options{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)

	log.Debug("schema created", "driver", "sqlite", "password", "secret")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &out))
	require.Equal(t, "schema created", out["msg"])
	require.Equal(t, redacted, out["password"])
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, _, err := New(Options{Format: "xml"})
	require.Error(t, err)
}

func TestRotatingWriterDefaults(t *testing.T) {
	w, err := NewRotatingWriter(RotationConfig{File: filepath.Join(t.TempDir(), "a.log")})
	require.NoError(t, err)
	require.Equal(t, 10, w.MaxSize)
	require.Equal(t, 5, w.MaxBackups)

	_, err = NewRotatingWriter(RotationConfig{})
	require.Error(t, err)
}
