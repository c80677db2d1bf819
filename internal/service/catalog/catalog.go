// Package catalog manages the bookable hospital services.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/internal/repo"
)

var (
	ErrNotFound = errors.New("service not found")
	ErrNoImage  = errors.New("service has no image")
	// ErrInvalid wraps field validation failures.
	ErrInvalid = errors.New("invalid service")
)

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

type Store interface {
	ListServices(ctx context.Context) ([]repo.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*repo.Service, error)
	CreateService(ctx context.Context, s *repo.Service) (*repo.Service, error)
	UpdateService(ctx context.Context, s *repo.Service) (*repo.Service, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
}

// ImageStore is implemented by *s3.Client.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	URL(key string) string
	PresignDownload(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Image is an uploaded file as read from the multipart form.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Form holds the raw form fields. Nil means the field was not sent, which
// matters for updates.
type Form struct {
	Name             *string
	About            *string
	ShortDescription *string
	Price            *string
	Availability     *string
	Instructions     *string
	Slots            *string
	Image            *Image
}

type serviceInput struct {
	Name             string  `validate:"required,max=200"`
	ShortDescription string  `validate:"max=500"`
	Price            float64 `validate:"gte=0"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context) ([]repo.Service, error)
	Get(ctx context.Context, id uuid.UUID) (*repo.Service, error)
	Create(ctx context.Context, f Form) (*repo.Service, error)
	Update(ctx context.Context, id uuid.UUID, f Form) (*repo.Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ImageURL(ctx context.Context, id uuid.UUID) (string, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type catalogService struct {
	db       Store
	images   ImageStore
	validate *validator.Validate
}

// New builds the catalog. images may be nil, in which case uploads are
// skipped with a warning.
func New(db Store, images ImageStore) Service {
	return &catalogService{db: db, images: images, validate: validator.New()}
}

func (s *catalogService) List(ctx context.Context) ([]repo.Service, error) {
	out, err := s.db.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return out, nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*repo.Service, error) {
	svc, err := s.db.GetService(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return svc, nil
}

func (s *catalogService) Create(ctx context.Context, f Form) (*repo.Service, error) {
	svc := &repo.Service{
		Name:             strings.TrimSpace(deref(f.Name)),
		About:            deref(f.About),
		ShortDescription: deref(f.ShortDescription),
		Price:            SanitizePrice(deref(f.Price)),
		Available:        ParseAvailability(deref(f.Availability)),
		Instructions:     ParseList(deref(f.Instructions)),
		Slots:            NormalizeSlots(ParseList(deref(f.Slots))),
	}
	if err := s.check(svc); err != nil {
		return nil, err
	}

	if f.Image != nil {
		svc.ImageKey, svc.ImageURL = s.upload(ctx, f.Image)
	}

	out, err := s.db.CreateService(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	return out, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, f Form) (*repo.Service, error) {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if f.Name != nil {
		svc.Name = strings.TrimSpace(*f.Name)
	}
	if f.About != nil {
		svc.About = *f.About
	}
	if f.ShortDescription != nil {
		svc.ShortDescription = *f.ShortDescription
	}
	if f.Price != nil {
		svc.Price = SanitizePrice(*f.Price)
	}
	if f.Availability != nil {
		svc.Available = ParseAvailability(*f.Availability)
	}
	if f.Instructions != nil {
		svc.Instructions = ParseList(*f.Instructions)
	}
	if f.Slots != nil {
		svc.Slots = NormalizeSlots(ParseList(*f.Slots))
	}
	if err := s.check(svc); err != nil {
		return nil, err
	}

	var replaced string
	if f.Image != nil {
		if key, url := s.upload(ctx, f.Image); key != "" {
			replaced = svc.ImageKey
			svc.ImageKey, svc.ImageURL = key, url
		}
	}

	out, err := s.db.UpdateService(ctx, svc)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update service: %w", err)
	}

	if replaced != "" {
		s.deleteImage(ctx, replaced)
	}
	return out, nil
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if svc.ImageKey != "" {
		s.deleteImage(ctx, svc.ImageKey)
	}
	if err := s.db.DeleteService(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

// ImageURL returns a short-lived download URL for the service image.
func (s *catalogService) ImageURL(ctx context.Context, id uuid.UUID) (string, error) {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if svc.ImageKey == "" || s.images == nil {
		if svc.ImageURL != "" {
			return svc.ImageURL, nil
		}
		return "", ErrNoImage
	}
	return s.images.PresignDownload(ctx, svc.ImageKey)
}

func (s *catalogService) check(svc *repo.Service) error {
	in := serviceInput{Name: svc.Name, ShortDescription: svc.ShortDescription, Price: svc.Price}
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %s", ErrInvalid, strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// upload stores img and returns its key and public URL. Failures are logged
// and yield empty values; the service is saved without the image.
func (s *catalogService) upload(ctx context.Context, img *Image) (string, string) {
	if s.images == nil {
		slog.Warn("image upload skipped, object storage not configured", "filename", img.Filename)
		return "", ""
	}

	key := fmt.Sprintf("services/%s%s", uuid.New(), strings.ToLower(filepath.Ext(img.Filename)))
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.images.Upload(ctx, key, contentType, img.Body, img.Size); err != nil {
		slog.Error("service image upload failed", "key", key, "error", err)
		return "", ""
	}
	return key, s.images.URL(key)
}

func (s *catalogService) deleteImage(ctx context.Context, key string) {
	if s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		slog.Warn("service image delete failed", "key", key, "error", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
