package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/domain/repository"
	"github.com/fieldops-microservice/internal/pkg/errors"
	"github.com/fieldops-microservice/internal/pkg/utils"
	"github.com/fieldops-microservice/internal/usecase/dto"
)

// maxPhotoBytes caps a single upload; field photos are phone camera
// JPEGs, anything larger is a client bug.
const maxPhotoBytes = 10 << 20

// MediaHandler proxies photo uploads to the media store.
type MediaHandler struct {
	mediaRepo repository.MediaRepository
	logger    *zap.Logger
}

func NewMediaHandler(mediaRepo repository.MediaRepository, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		mediaRepo: mediaRepo,
		logger:    logger,
	}
}

// Upload godoc
// @Summary Upload a report photo
// @Description Stores one photo and returns its URL. The app then records the URL into a photo slot of the questionnaire.
// @Tags Media
// @Accept mpfd
// @Produce json
// @Param file formData file true "Photo file"
// @Success 200 {object} utils.SuccessResponse{data=dto.UploadPhotoResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/photos [post]
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("multipart field 'file' is required"))
	}
	if fileHeader.Size > maxPhotoBytes {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("photo exceeds the 10MB limit"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("unreadable upload"))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("unreadable upload"))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.mediaRepo.Upload(c.Context(), fileHeader.Filename, contentType, data)
	if err != nil {
		h.logger.Error("Photo upload failed",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		return utils.SendError(c, errors.ErrUploadFailed)
	}

	return utils.SendSuccess(c, dto.UploadPhotoResponse{URL: url}, nil)
}
