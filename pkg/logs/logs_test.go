package logs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Alijeyrad/hospital_backend/pkg/reqctx"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestIDHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(requestIDHandler{slog.NewJSONHandler(&buf, nil)}).With("service", "test")

	ctx := reqctx.WithRequestMeta(context.Background(), &reqctx.RequestMeta{RequestID: "req-42"})
	logger.InfoContext(ctx, "booked")
	logger.Info("no request")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first, second map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatal(err)
	}
	if first["request_id"] != "req-42" || first["service"] != "test" {
		t.Errorf("first record = %v", first)
	}
	if _, ok := second["request_id"]; ok {
		t.Errorf("second record has request_id: %v", second)
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := fanout([]slog.Handler{
		slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn}),
	})
	logger := slog.New(h)

	logger.Debug("quiet")
	logger.Warn("loud")

	if strings.Count(a.String(), "\n") != 2 {
		t.Errorf("debug handler got %q", a.String())
	}
	if strings.Count(b.String(), "\n") != 1 || !strings.Contains(b.String(), "loud") {
		t.Errorf("warn handler got %q", b.String())
	}
}

func TestLokiPayload(t *testing.T) {
	lw := &lokiWriter{labels: map[string]string{"service": "hospital_backend", "env": "production"}}
	body, err := lw.payload([]byte(`{"msg":"x \"quoted\""}`+"\n"), time.Unix(0, 1700))
	if err != nil {
		t.Fatalf("payload() error = %v", err)
	}

	var got lokiPush
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if len(got.Streams) != 1 || got.Streams[0].Stream["env"] != "production" {
		t.Fatalf("streams = %+v", got.Streams)
	}
	v := got.Streams[0].Values[0]
	if v[0] != "1700" || v[1] != `{"msg":"x \"quoted\""}` {
		t.Errorf("value = %v", v)
	}
}
