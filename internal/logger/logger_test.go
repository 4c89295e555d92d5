package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			log, err := New(env)
			if err != nil {
				t.Fatalf("New(%q) failed: %v", env, err)
			}
			if log == nil {
				t.Fatal("expected a logger")
			}
			log.Debug("logger constructed")
		})
	}
}

func TestNew_LogLevelOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	log, err := New("development")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if log.Core().Enabled(zapcore.InfoLevel) {
		t.Error("expected info to be suppressed at warn level")
	}
	if !log.Core().Enabled(zapcore.WarnLevel) {
		t.Error("expected warn to be enabled")
	}
}

func TestNew_BadLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "shouting")

	if _, err := New("development"); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestNewWithDefaultsNeverNil(t *testing.T) {
	if NewWithDefaults() == nil {
		t.Fatal("expected fallback logger")
	}
}
