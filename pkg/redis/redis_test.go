package redis

import (
	"testing"
	"time"

	"github.com/Alijeyrad/hospital_backend/config"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name         string
		in           config.RedisConfig
		wantPool     int
		wantIdle     int
		wantDial     time.Duration
		wantReadTime time.Duration
	}{
		{
			name:         "defaults",
			in:           config.RedisConfig{Addr: "localhost:6379"},
			wantPool:     defaultPoolSize,
			wantIdle:     defaultMinIdleConns,
			wantDial:     5 * time.Second,
			wantReadTime: 3 * time.Second,
		},
		{
			name:         "configured",
			in:           config.RedisConfig{Addr: "cache:6379", PoolSize: 40, MinIdleConns: 8, DialTimeoutSeconds: 2, ReadTimeoutSeconds: 1},
			wantPool:     40,
			wantIdle:     8,
			wantDial:     2 * time.Second,
			wantReadTime: time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Options(tt.in)
			if got.Addr != tt.in.Addr {
				t.Errorf("Addr = %q, want %q", got.Addr, tt.in.Addr)
			}
			if got.PoolSize != tt.wantPool || got.MinIdleConns != tt.wantIdle {
				t.Errorf("pool = %d/%d, want %d/%d", got.PoolSize, got.MinIdleConns, tt.wantPool, tt.wantIdle)
			}
			if got.DialTimeout != tt.wantDial || got.ReadTimeout != tt.wantReadTime {
				t.Errorf("timeouts = %v/%v, want %v/%v", got.DialTimeout, got.ReadTimeout, tt.wantDial, tt.wantReadTime)
			}
		})
	}
}

func TestNewRejectsEmptyAddr(t *testing.T) {
	if _, err := New(config.RedisConfig{}); err == nil {
		t.Error("New() with empty addr returned nil error")
	}
}
