package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"photo-backend/internal/metrics"
	"photo-backend/internal/models"
	"photo-backend/internal/services"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var allowedImageTypes = []string{"image/png", "image/jpeg"}

// PhotoHandler exposes the photo service over HTTP.
type PhotoHandler struct {
	photos    *services.PhotoService
	uploadDir string
	maxBytes  int64
	log       zerolog.Logger
}

func NewPhotoHandler(photos *services.PhotoService, uploadDir string, maxBytes int64, log zerolog.Logger) *PhotoHandler {
	return &PhotoHandler{
		photos:    photos,
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
		log:       log.With().Str("component", "photo-handler").Logger(),
	}
}

// Create stores the multipart file "image" and creates a photo referencing it.
func (h *PhotoHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "image file is required"})
	}
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		metrics.RecordUpload("unknown", "too_large")
		return c.Status(http.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "image is too large"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "failed to read image"})
	}
	mtype, err := mimetype.DetectReader(src)
	_ = src.Close()
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "failed to read image"})
	}
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		metrics.RecordUpload(mtype.String(), "rejected")
		return c.Status(http.StatusUnsupportedMediaType).JSON(fiber.Map{"error": "only png and jpg images are accepted"})
	}

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		h.log.Error().Err(err).Str("dir", h.uploadDir).Msg("failed to create upload dir")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create upload dir"})
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), mtype.Extension())
	destPath := filepath.Join(h.uploadDir, filename)
	if err := c.SaveFile(fileHeader, destPath); err != nil {
		h.log.Error().Err(err).Str("path", destPath).Msg("failed to save file")
		metrics.RecordUpload(mtype.String(), "failed")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	photo, err := h.photos.Create(c.UserContext(), userID, c.FormValue("title"), filename)
	if err != nil {
		// Try to cleanup file if the photo could not be stored
		_ = os.Remove(destPath)
		metrics.RecordUpload(mtype.String(), "failed")
		return writeError(c, err)
	}

	metrics.RecordUpload(mtype.String(), "success")
	return c.Status(http.StatusCreated).JSON(photo)
}

func (h *PhotoHandler) Delete(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	id, err := h.photos.Delete(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "message": "Photo deleted successfully."})
}

func (h *PhotoHandler) ListAll(c *fiber.Ctx) error {
	photos, err := h.photos.ListAll(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(photos)
}

func (h *PhotoHandler) ListByOwner(c *fiber.Ctx) error {
	photos, err := h.photos.ListByOwner(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(photos)
}

func (h *PhotoHandler) Search(c *fiber.Ctx) error {
	photos, err := h.photos.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(photos)
}

func (h *PhotoHandler) GetByID(c *fiber.Ctx) error {
	photo, err := h.photos.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(photo)
}

// Update changes the title. A body without "title" leaves it unchanged.
func (h *PhotoHandler) Update(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req models.UpdatePhotoRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
	}

	photo, err := h.photos.UpdateTitle(c.UserContext(), userID, c.Params("id"), req.Title)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"photo": photo, "message": "Photo updated successfully."})
}

func (h *PhotoHandler) Like(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	like, err := h.photos.Like(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"photoId": like.PhotoID,
		"userId":  like.UserID,
		"message": "The photo has been liked.",
	})
}

func (h *PhotoHandler) Comment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req models.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	comment, err := h.photos.AddComment(c.UserContext(), userID, c.Params("id"), req.Comment)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"comment": comment, "message": "The comment was added successfully."})
}

// RegisterRoutes mounts the photo routes. Static paths come before /:id.
func (h *PhotoHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/photos", h.Create)
	r.Get("/photos", h.ListAll)
	r.Get("/photos/search", h.Search)
	r.Get("/photos/user/:id", h.ListByOwner)
	r.Put("/photos/like/:id", h.Like)
	r.Put("/photos/comment/:id", h.Comment)
	r.Get("/photos/:id", h.GetByID)
	r.Put("/photos/:id", h.Update)
	r.Delete("/photos/:id", h.Delete)
}
