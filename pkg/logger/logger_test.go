package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
)

func TestInitWriterLevelsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, Config{Debug: false})

	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %s", buf.String())
	}

	logger := For("ledger")
	logger.Info().Msg("saved")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("Unmarshal() error = %v, output=%s", err, buf.String())
	}
	if line["component"] != "ledger" || line["message"] != "saved" {
		t.Fatalf("unexpected log line: %v", line)
	}
}
