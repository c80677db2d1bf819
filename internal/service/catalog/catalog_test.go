package catalog

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/internal/repo"
)

func TestSanitizePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"500", 500},
		{"₹ 1,250.50", 1250.5},
		{"Rs 300", 300},
		{"", 0},
		{"free", 0},
		{"1.2.3", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizePrice(tt.in); got != tt.want {
				t.Errorf("SanitizePrice(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAvailability(t *testing.T) {
	tests := map[string]bool{
		"":            true,
		"available":   true,
		"Available":   true,
		"true":        true,
		"unavailable": false,
		"false":       false,
	}
	for in, want := range tests {
		if got := ParseAvailability(in); got != want {
			t.Errorf("ParseAvailability(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"json array", `["Fast 8 hours","Bring reports"]`, []string{"Fast 8 hours", "Bring reports"}},
		{"json string", `"Only one"`, []string{"Only one"}},
		{"comma list", "a, b ,, c", []string{"a", "b", "c"}},
		{"empty", "  ", []string{}},
		{"json object", `{"a":1}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseList(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeSlots(t *testing.T) {
	got := NormalizeSlots([]string{
		"12 Jan 2025 • 10:30 AM",
		"12 jan 2025 • 2:05 pm",
		"3 Feb 2025•9:00 AM",
		"tomorrow morning",
		"31 Feb 2025 • 10:00 AM",
	})
	want := map[string][]string{
		"2025-01-12":    {"10:30 AM", "02:05 PM"},
		"2025-02-03":    {"09:00 AM"},
		UnspecifiedSlot: {"tomorrow morning", "31 Feb 2025 • 10:00 AM"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeSlots() = %v, want %v", got, want)
	}
}

type memStore struct {
	items map[uuid.UUID]*repo.Service
}

func (m *memStore) ListServices(context.Context) ([]repo.Service, error) {
	out := []repo.Service{}
	for _, s := range m.items {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memStore) GetService(_ context.Context, id uuid.UUID) (*repo.Service, error) {
	s, ok := m.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) CreateService(_ context.Context, s *repo.Service) (*repo.Service, error) {
	cp := *s
	cp.ID = uuid.New()
	m.items[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) UpdateService(_ context.Context, s *repo.Service) (*repo.Service, error) {
	if _, ok := m.items[s.ID]; !ok {
		return nil, repo.ErrNotFound
	}
	cp := *s
	m.items[s.ID] = &cp
	return s, nil
}

func (m *memStore) DeleteService(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type fakeImages struct {
	uploaded  []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (f *fakeImages) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if _, err := io.ReadAll(body); err != nil {
		return err
	}
	f.uploaded = append(f.uploaded, key)
	return nil
}

func (f *fakeImages) URL(key string) string { return "https://cdn.test/" + key }

func (f *fakeImages) PresignDownload(_ context.Context, key string) (string, error) {
	return "https://signed.test/" + key + "?sig=1", nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.deleteErr
}

func str(s string) *string { return &s }

func png() *Image {
	return &Image{Filename: "xray.PNG", ContentType: "image/png", Size: 4, Body: strings.NewReader("data")}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("with image", func(t *testing.T) {
		imgs := &fakeImages{}
		svc := New(&memStore{items: map[uuid.UUID]*repo.Service{}}, imgs)

		got, err := svc.Create(ctx, Form{
			Name:         str(" X-Ray "),
			Price:        str("₹500"),
			Availability: str("unavailable"),
			Slots:        str(`["12 Jan 2025 • 10:30 AM"]`),
			Image:        png(),
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if got.Name != "X-Ray" || got.Price != 500 || got.Available {
			t.Errorf("Create() = %+v", got)
		}
		if len(imgs.uploaded) != 1 || !strings.HasPrefix(got.ImageKey, "services/") || !strings.HasSuffix(got.ImageKey, ".png") {
			t.Errorf("ImageKey = %q, uploaded %v", got.ImageKey, imgs.uploaded)
		}
		if got.ImageURL != "https://cdn.test/"+got.ImageKey {
			t.Errorf("ImageURL = %q", got.ImageURL)
		}
		if len(got.Slots["2025-01-12"]) != 1 {
			t.Errorf("Slots = %v", got.Slots)
		}
	})

	t.Run("upload failure still saves", func(t *testing.T) {
		imgs := &fakeImages{uploadErr: errors.New("bucket gone")}
		svc := New(&memStore{items: map[uuid.UUID]*repo.Service{}}, imgs)

		got, err := svc.Create(ctx, Form{Name: str("ECG"), Image: png()})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if got.ImageKey != "" || got.ImageURL != "" {
			t.Errorf("image fields set after failed upload: %+v", got)
		}
	})

	t.Run("name required", func(t *testing.T) {
		svc := New(&memStore{items: map[uuid.UUID]*repo.Service{}}, nil)
		if _, err := svc.Create(ctx, Form{Name: str("  ")}); !errors.Is(err, ErrInvalid) {
			t.Errorf("Create() error = %v, want ErrInvalid", err)
		}
	})

	t.Run("negative price", func(t *testing.T) {
		svc := New(&memStore{items: map[uuid.UUID]*repo.Service{}}, nil)
		if _, err := svc.Create(ctx, Form{Name: str("ECG"), Price: str("-10")}); !errors.Is(err, ErrInvalid) {
			t.Errorf("Create() error = %v, want ErrInvalid", err)
		}
	})
}

func TestUpdateReplacesImage(t *testing.T) {
	ctx := context.Background()
	store := &memStore{items: map[uuid.UUID]*repo.Service{}}
	imgs := &fakeImages{deleteErr: errors.New("already gone")}
	svc := New(store, imgs)

	created, err := svc.Create(ctx, Form{Name: str("MRI"), Price: str("4000"), Image: png()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	oldKey := created.ImageKey

	got, err := svc.Update(ctx, created.ID, Form{Price: str("4500"), Image: png()})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Name != "MRI" || got.Price != 4500 {
		t.Errorf("Update() = %+v", got)
	}
	if got.ImageKey == oldKey {
		t.Errorf("ImageKey not replaced")
	}
	if len(imgs.deleted) != 1 || imgs.deleted[0] != oldKey {
		t.Errorf("deleted = %v, want [%s]", imgs.deleted, oldKey)
	}
}

func TestDeleteAndImageURL(t *testing.T) {
	ctx := context.Background()
	store := &memStore{items: map[uuid.UUID]*repo.Service{}}
	imgs := &fakeImages{}
	svc := New(store, imgs)

	created, _ := svc.Create(ctx, Form{Name: str("CT"), Image: png()})

	url, err := svc.ImageURL(ctx, created.ID)
	if err != nil || !strings.HasPrefix(url, "https://signed.test/services/") {
		t.Errorf("ImageURL() = %q, %v", url, err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(imgs.deleted) != 1 {
		t.Errorf("deleted = %v", imgs.deleted)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestImageURLWithoutImage(t *testing.T) {
	ctx := context.Background()
	svc := New(&memStore{items: map[uuid.UUID]*repo.Service{}}, &fakeImages{})
	created, _ := svc.Create(ctx, Form{Name: str("Consult")})
	if _, err := svc.ImageURL(ctx, created.ID); !errors.Is(err, ErrNoImage) {
		t.Errorf("ImageURL() error = %v, want ErrNoImage", err)
	}
}
