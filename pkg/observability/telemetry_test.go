package observability

import (
	"testing"

	"github.com/Alijeyrad/hospital_backend/config"
)

func TestFromCentralConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "production"
	cfg.Observability.ServiceName = "hospital_backend"
	cfg.Observability.Tracing.OTLPEndpoint = "otel:4318"
	cfg.Observability.Tracing.SamplingRate = 0.25

	got := FromCentralConfig(cfg)
	if got.OTLPEndpoint != "" {
		t.Errorf("OTLPEndpoint = %q with tracing disabled, want empty", got.OTLPEndpoint)
	}
	if got.Environment != "production" || got.SamplingRate != 0.25 {
		t.Errorf("FromCentralConfig() = %+v", got)
	}

	cfg.Observability.Tracing.Enabled = true
	if got := FromCentralConfig(cfg); got.OTLPEndpoint != "otel:4318" {
		t.Errorf("OTLPEndpoint = %q, want otel:4318", got.OTLPEndpoint)
	}
}
