package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/thesbsofficial/unity-v3-sub000/internal/domain"
	"github.com/thesbsofficial/unity-v3-sub000/internal/repository"
	"github.com/thesbsofficial/unity-v3-sub000/internal/service"
	"github.com/thesbsofficial/unity-v3-sub000/pkg/validator"
)

// Product images above this size are rejected before touching storage.
const maxImageBytes = 10 << 20

type ProductHandler struct {
	productService *service.ProductService
	validator      *validator.Validator
}

func NewProductHandler(productService *service.ProductService, validator *validator.Validator) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator,
	}
}

// List returns the public catalog
// GET /api/v1/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Status:   domain.ProductStatusActive,
		Limit:    limit,
		Offset:   offset,
	}

	products, err := h.productService.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"products": products,
	})
}

// Get returns a single product
// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	product, err := h.productService.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(product)
}

// AdminList returns the catalog including sold and archived products
// GET /api/v1/admin/products
func (h *ProductHandler) AdminList(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Status:   domain.ProductStatus(c.Query("status")),
		Limit:    limit,
		Offset:   offset,
	}

	products, err := h.productService.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"products": products,
	})
}

// Create adds a product to the catalog
// POST /api/v1/admin/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var input service.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(input); err != nil {
		return badRequest(c, err.Error())
	}

	product, err := h.productService.Create(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// Update replaces a product's listing fields
// PUT /api/v1/admin/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var input service.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(input); err != nil {
		return badRequest(c, err.Error())
	}

	product, err := h.productService.Update(c.Context(), id, input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(product)
}

// Delete removes a product and its stored image
// DELETE /api/v1/admin/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.productService.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Product deleted",
	})
}

// UploadImage attaches a product image from a multipart form
// POST /api/v1/admin/products/:id/image
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "Missing image file")
	}
	if fileHeader.Size > maxImageBytes {
		return badRequest(c, "Image too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "Unreadable image file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return badRequest(c, "Unreadable image file")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	product, err := h.productService.AttachImage(c.Context(), id, fileHeader.Filename, contentType, data)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(product)
}

// DeleteImage detaches a product's image
// DELETE /api/v1/admin/products/:id/image
func (h *ProductHandler) DeleteImage(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	product, err := h.productService.RemoveImage(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(product)
}
