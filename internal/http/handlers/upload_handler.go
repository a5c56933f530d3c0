package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"mmcatalog/internal/log"
	"mmcatalog/internal/media"
)

// MaxUploadBytes bounds a single uploaded file (videos included).
const MaxUploadBytes = 50 << 20

type UploadHandler struct {
	Uploader *media.Uploader
}

// POST /api/uploads (multipart: file, kind=image|qr)
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Missing file")
	}
	if fh.Size > MaxUploadBytes {
		log.Security(c, "upload.too_large", map[string]any{"size": fh.Size})
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "File too large")
	}
	f, err := fh.Open()
	if err != nil {
		log.Error(c, "upload.open.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Upload failed")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes))
	if err != nil {
		log.Error(c, "upload.read.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Upload failed")
	}

	kind := c.FormValue("kind")
	url, err := h.Uploader.Upload(c.UserContext(), kind, data)
	if errors.Is(err, media.ErrUnsupportedType) {
		log.Security(c, "upload.rejected", map[string]any{"kind": kind, "name": fh.Filename})
		return jsonError(c, fiber.StatusUnsupportedMediaType, "Unsupported file type")
	}
	if err != nil {
		log.Error(c, "upload.store.fail", err, map[string]any{"kind": kind})
		return jsonError(c, fiber.StatusInternalServerError, "Upload failed")
	}
	log.Audit(c, "admin.upload", map[string]any{"kind": kind, "url": url, "bytes": len(data)})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}

// LimitBody rejects requests whose declared body is larger than max, except
// on the listed paths.
func LimitBody(max int, except ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, p := range except {
			if c.Path() == p {
				return c.Next()
			}
		}
		if n := c.Request().Header.ContentLength(); n > max {
			log.Security(c, "request.too_large", map[string]any{"bytes": n})
			return jsonError(c, fiber.StatusRequestEntityTooLarge, "Request body too large")
		}
		return c.Next()
	}
}
