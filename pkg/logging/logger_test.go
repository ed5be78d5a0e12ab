package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// decodeLines parses every JSON log line written to buf.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		lines = append(lines, entry)
	}
	return lines
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("default level = %s, want info", cfg.Level)
	}
	if cfg.Pretty {
		t.Error("default output should be JSON")
	}
	if cfg.Output != os.Stderr {
		t.Error("default output should be stderr")
	}
}

// Each case emits the event the guidelines assign to a component and checks
// whether the configured level lets it through.
func TestSetup_ComponentEventsByLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     LogLevel
		component string
		emit      func(l *zerolog.Logger)
		wantMsg   string
		wantLevel string
		written   bool
	}{
		{
			name:      "backend_call_visible_at_debug",
			level:     LevelDebug,
			component: ComponentBackend,
			emit: func(l *zerolog.Logger) {
				l.Debug().Str("operation", "get").Str("key", "userReservations:ab").Msg("Backend call")
			},
			wantMsg:   "Backend call",
			wantLevel: "debug",
			written:   true,
		},
		{
			name:      "backend_call_hidden_at_info",
			level:     LevelInfo,
			component: ComponentBackend,
			emit: func(l *zerolog.Logger) {
				l.Debug().Str("operation", "set").Msg("Backend call")
			},
		},
		{
			name:      "server_start_at_info",
			level:     LevelInfo,
			component: ComponentServer,
			emit: func(l *zerolog.Logger) {
				l.Info().Str("addr", ":8080").Msg("Server starting")
			},
			wantMsg:   "Server starting",
			wantLevel: "info",
			written:   true,
		},
		{
			name:      "injected_failure_at_warn",
			level:     LevelWarn,
			component: ComponentReservations,
			emit: func(l *zerolog.Logger) {
				l.Warn().Str("user_id", "ab").Int("draw", 97).Msg("Injected upstream failure")
			},
			wantMsg:   "Injected upstream failure",
			wantLevel: "warn",
			written:   true,
		},
		{
			name:      "served_request_hidden_at_warn",
			level:     LevelWarn,
			component: ComponentHTTP,
			emit: func(l *zerolog.Logger) {
				l.Info().Str("path", "/reservations/:user_id").Int("status", 200).Msg("Request served")
			},
		},
		{
			name:      "backend_error_at_error",
			level:     LevelError,
			component: ComponentBackend,
			emit: func(l *zerolog.Logger) {
				l.Error().Str("operation", "get").Msg("Backend call failed")
			},
			wantMsg:   "Backend call failed",
			wantLevel: "error",
			written:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			Setup(Config{Level: tt.level, Output: buf})

			l := NewLogger(tt.component)
			tt.emit(&l)

			lines := decodeLines(t, buf)
			if !tt.written {
				if len(lines) != 0 {
					t.Errorf("expected no output at %s, got %q", tt.level, buf.String())
				}
				return
			}

			if len(lines) != 1 {
				t.Fatalf("expected one log line, got %d: %q", len(lines), buf.String())
			}
			entry := lines[0]
			if entry["component"] != tt.component {
				t.Errorf("component = %v, want %s", entry["component"], tt.component)
			}
			if entry["message"] != tt.wantMsg {
				t.Errorf("message = %v, want %s", entry["message"], tt.wantMsg)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if _, ok := entry["time"]; !ok {
				t.Error("expected a timestamp field")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected zerolog.Level
	}{
		{LevelDebug, zerolog.DebugLevel},
		{LevelInfo, zerolog.InfoLevel},
		{LevelWarn, zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSetup_NilOutputDefaultsToStderr(t *testing.T) {
	Setup(Config{Level: LevelError})

	if zerolog.GlobalLevel() != zerolog.ErrorLevel {
		t.Errorf("global level = %v, want error", zerolog.GlobalLevel())
	}
}

func TestSetup_PrettyOutputIsNotJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Pretty: true, Output: buf})

	l := NewLogger(ComponentServer)
	l.Info().Msg("Server stopped")

	out := buf.String()
	if !strings.Contains(out, "Server stopped") {
		t.Errorf("expected message in console output, got %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("expected console format, got JSON %q", out)
	}
}

func TestDurationFieldMillis(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	l := NewLogger(ComponentBackend)
	l.Info().Dur("duration", 1500*time.Microsecond).Msg("call")

	lines := decodeLines(t, buf)
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %q", buf.String())
	}
	if got := lines[0]["duration"]; got != 1.5 {
		t.Errorf("duration = %v, want 1.5 (milliseconds)", got)
	}
}
