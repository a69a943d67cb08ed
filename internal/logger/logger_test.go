package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"micropantry-api/internal/config"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	l := SetupWriter(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	l.Info().Str("pantry", "p1").Msg("hello")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("not json: %q", buf.String())
	}
	if line["pantry"] != "p1" || line["message"] != "hello" {
		t.Errorf("line = %v", line)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v", zerolog.GlobalLevel())
	}
}

func TestSetupUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(config.LogConfig{Level: "chatty", Format: "console"}, &buf)
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v", zerolog.GlobalLevel())
	}
}
