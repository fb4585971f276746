package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	compressHttp "video-compressor/internal/compress/delivery/http"
	compressWs "video-compressor/internal/compress/delivery/ws"
	compressRepository "video-compressor/internal/compress/repository"
	compressUsecase "video-compressor/internal/compress/usecase"
	"video-compressor/internal/progress"
	"video-compressor/internal/transcode"
	"video-compressor/pkg/utils"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	hub := progress.NewHub(s.logger)
	supervisor := transcode.NewSupervisor(s.cfg, hub, s.logger)
	awsRepo := compressRepository.NewAwsRepository(s.s3Client, s.preSignClient)

	compressUC := compressUsecase.NewCompressUseCase(s.cfg, awsRepo, supervisor, s.logger)

	compressHandlers := compressHttp.NewCompressHandler(compressUC, s.logger)
	progressHandlers := compressWs.NewProgressHandler(hub, s.logger)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	videoGroup := v1.Group("/video")

	compressHttp.MapCompressRoutes(videoGroup, compressHandlers)
	compressWs.MapProgressRoutes(videoGroup, progressHandlers)

	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return nil
}
