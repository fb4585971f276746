package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"video-compressor/internal/compress"
	"video-compressor/internal/models"
	"video-compressor/pkg/logger"
)

type compressHandler struct {
	compressUC compress.UseCase
	logger     logger.Logger
}

func NewCompressHandler(compressUC compress.UseCase, log logger.Logger) compress.Handler {
	return &compressHandler{
		compressUC: compressUC,
		logger:     log,
	}
}

// CompressVideo accepts one video file as the multipart field "video",
// holds the request open for the whole pipeline and responds with the
// presigned retrieval URL.
func (h *compressHandler) CompressVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileHeader, err := c.FormFile("video")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "no video file provided"})
		}
		src, err := fileHeader.Open()
		if err != nil {
			h.logger.Errorf("CompressVideo - opening multipart file: %v", err)
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read uploaded file"})
		}
		defer src.Close()

		input := &models.UploadInput{
			FileName: fileHeader.Filename,
			FileSize: fileHeader.Size,
		}

		// The pipeline is detached from the request context: a client
		// disconnect must not abort the transcode or its cleanup.
		url, err := h.compressUC.Compress(context.Background(), input, src)
		if err != nil {
			if errors.Is(err, compress.ErrServerBusy) {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}

		return c.JSON(http.StatusOK, map[string]string{
			"message":      "Compression successful",
			"presignedUrl": url,
		})
	}
}
