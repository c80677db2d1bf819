package handler

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/internal/service/catalog"
)

type ServiceHandler struct {
	svc catalog.Service
}

func NewServiceHandler(svc catalog.Service) *ServiceHandler {
	return &ServiceHandler{svc: svc}
}

func mapCatalogError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, catalog.ErrInvalid):
		return badRequest(c, err.Error())
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, catalog.ErrNoImage):
		return notFound(c, err.Error())
	default:
		return internalError(c, "", err)
	}
}

// multipart form field names
var serviceFields = []string{
	"name", "about", "shortDescription", "price", "availability", "instructions", "slots",
}

// readForm collects the multipart fields that were actually sent. The opened
// image, if any, must be closed by the caller.
func readForm(c fiber.Ctx) (catalog.Form, multipart.File, error) {
	var f catalog.Form
	// nil for urlencoded bodies, which then go through FormValue
	mf, _ := c.MultipartForm()

	values := map[string]*string{}
	for _, name := range serviceFields {
		if mf != nil {
			if v, ok := mf.Value[name]; ok && len(v) > 0 {
				val := v[0]
				values[name] = &val
				continue
			}
		}
		if v := c.FormValue(name); v != "" {
			values[name] = &v
		}
	}
	f.Name = values["name"]
	f.About = values["about"]
	f.ShortDescription = values["shortDescription"]
	f.Price = values["price"]
	f.Availability = values["availability"]
	f.Instructions = values["instructions"]
	f.Slots = values["slots"]

	fh, err := c.FormFile("image")
	if err != nil {
		return f, nil, nil
	}
	file, err := fh.Open()
	if err != nil {
		return f, nil, err
	}
	f.Image = &catalog.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        file,
	}
	return f, file, nil
}

func serviceID(c fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

// GET /api/services
func (h *ServiceHandler) List(c fiber.Ctx) error {
	items, err := h.svc.List(c.Context())
	if err != nil {
		return mapCatalogError(c, err)
	}
	return ok(c, fiber.Map{"data": items})
}

// GET /api/services/:id
func (h *ServiceHandler) GetByID(c fiber.Ctx) error {
	id, valid := serviceID(c)
	if !valid {
		return badRequest(c, "invalid service id")
	}
	svc, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapCatalogError(c, err)
	}
	return ok(c, fiber.Map{"data": svc})
}

// GET /api/services/:id/image
// Redirects to a short-lived download URL.
func (h *ServiceHandler) Image(c fiber.Ctx) error {
	id, valid := serviceID(c)
	if !valid {
		return badRequest(c, "invalid service id")
	}
	url, err := h.svc.ImageURL(c.Context(), id)
	if err != nil {
		return mapCatalogError(c, err)
	}
	return c.Redirect().Status(fiber.StatusTemporaryRedirect).To(url)
}

// POST /api/services
func (h *ServiceHandler) Create(c fiber.Ctx) error {
	form, file, err := readForm(c)
	if err != nil {
		return badRequest(c, "could not read image")
	}
	if file != nil {
		defer file.Close()
	}

	svc, err := h.svc.Create(c.Context(), form)
	if err != nil {
		return mapCatalogError(c, err)
	}
	return created(c, fiber.Map{"message": "Service created", "service": svc})
}

// PUT /api/services/:id
func (h *ServiceHandler) Update(c fiber.Ctx) error {
	id, valid := serviceID(c)
	if !valid {
		return badRequest(c, "invalid service id")
	}
	form, file, err := readForm(c)
	if err != nil {
		return badRequest(c, "could not read image")
	}
	if file != nil {
		defer file.Close()
	}

	svc, err := h.svc.Update(c.Context(), id, form)
	if err != nil {
		return mapCatalogError(c, err)
	}
	return ok(c, fiber.Map{"message": "Service updated", "service": svc})
}

// DELETE /api/services/:id
func (h *ServiceHandler) Delete(c fiber.Ctx) error {
	id, valid := serviceID(c)
	if !valid {
		return badRequest(c, "invalid service id")
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapCatalogError(c, err)
	}
	return ok(c, fiber.Map{"message": "Service deleted"})
}
