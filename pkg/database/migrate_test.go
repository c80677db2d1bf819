package database

import (
	"testing"
	"testing/fstest"

	"github.com/Alijeyrad/hospital_backend/config"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_services.sql":    {Data: []byte("select 2;")},
		"0001_init.sql":        {Data: []byte("select 1;")},
		"0003_indexes.sql":     {Data: []byte("select 3;")},
		"README.md":            {Data: []byte("docs")},
		"nested/0009_skip.sql": {Data: []byte("select 9;")},
	}

	tests := []struct {
		name    string
		applied map[string]bool
		want    []string
	}{
		{
			name:    "fresh database",
			applied: map[string]bool{},
			want:    []string{"0001_init.sql", "0002_services.sql", "0003_indexes.sql"},
		},
		{
			name:    "partially applied",
			applied: map[string]bool{"0001_init": true},
			want:    []string{"0002_services.sql", "0003_indexes.sql"},
		},
		{
			name:    "up to date",
			applied: map[string]bool{"0001_init": true, "0002_services": true, "0003_indexes": true},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pendingMigrations(fsys, tt.applied)
			if err != nil {
				t.Fatalf("pendingMigrations: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFromCentralConfigDefaults(t *testing.T) {
	cfg := FromCentralConfig(configWithHost("db.internal"))
	if cfg.Port != 5432 {
		t.Errorf("port = %d, want 5432", cfg.Port)
	}
	if cfg.SSLMode != "disable" {
		t.Errorf("sslmode = %q, want disable", cfg.SSLMode)
	}
	want := "host=db.internal port=5432 user=app password=secret dbname=hospital sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

func TestTargetDatabases(t *testing.T) {
	cfg := &config.Config{}
	if got := targetDatabases(cfg); got != nil {
		t.Errorf("targetDatabases(empty) = %v, want nil", got)
	}

	cfg.Database.DBName = "hospital"
	if got := targetDatabases(cfg); len(got) != 1 || got[0] != "hospital" {
		t.Errorf("targetDatabases(dbname) = %v, want [hospital]", got)
	}

	cfg.Server.Databases = []string{"hospital", "hospital_test"}
	if got := targetDatabases(cfg); len(got) != 2 {
		t.Errorf("targetDatabases(list) = %v, want both names", got)
	}
}
