package password

import (
	"strings"
	"testing"

	"github.com/Alijeyrad/hospital_backend/config"
)

// cheap keeps the tests fast.
var cheap = Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashFormat(t *testing.T) {
	hash, err := HashWithParams("s3cret-admin", cheap)
	if err != nil {
		t.Fatalf("HashWithParams() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Errorf("HashWithParams() = %s", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("hash has %d parts, want 6", len(parts))
	}
}

func TestVerify(t *testing.T) {
	hash, err := HashWithParams("s3cret-admin", cheap)
	if err != nil {
		t.Fatalf("HashWithParams() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
	}{
		{"correct password", hash, "s3cret-admin", nil},
		{"wrong password", hash, "s3cret-admiN", ErrMismatch},
		{"empty password", hash, "", ErrMismatch},
		{"garbage hash", "notahash", "x", ErrInvalidHash},
		{"wrong algorithm", "$argon2i$v=19$m=65536,t=3,p=2$c29tZXNhbHQ$c29tZWhhc2g", "x", ErrInvalidHash},
		{"malformed params", "$argon2id$v=19$invalid$c29tZXNhbHQ$c29tZWhhc2g", "x", ErrInvalidHash},
		{"other version", "$argon2id$v=16$m=65536,t=3,p=2$c29tZXNhbHQ$c29tZWhhc2g", "x", ErrIncompatibleVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Verify(tt.hash, tt.password); err != tt.wantErr {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	a, _ := HashWithParams("same", cheap)
	b, _ := HashWithParams("same", cheap)
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}

func TestParamsFromConfig(t *testing.T) {
	got := ParamsFromConfig(config.PasswordConfig{Iterations: 5})
	want := DefaultParams()
	want.Iterations = 5
	if got != want {
		t.Errorf("ParamsFromConfig() = %+v, want %+v", got, want)
	}
}
