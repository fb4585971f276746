package http

import (
	"github.com/labstack/echo/v4"

	"video-compressor/internal/compress"
)

func MapCompressRoutes(videoGroup *echo.Group, h compress.Handler) {
	videoGroup.POST("/upload", h.CompressVideo())
}
