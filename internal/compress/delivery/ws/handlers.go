package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"video-compressor/internal/metrics"
	"video-compressor/internal/progress"
	"video-compressor/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// progress updates are public to anyone who can reach the server
	CheckOrigin: func(r *http.Request) bool { return true },
}

type progressHandler struct {
	hub    *progress.Hub
	logger logger.Logger
}

func NewProgressHandler(hub *progress.Hub, log logger.Logger) *progressHandler {
	return &progressHandler{
		hub:    hub,
		logger: log,
	}
}

// Subscribe upgrades the connection and registers it with the hub. The
// protocol is server-push only; the read loop exists purely to notice
// when the observer goes away.
func (h *progressHandler) Subscribe() echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			h.logger.Errorf("Subscribe - websocket upgrade failed: %v", err)
			return err
		}

		h.hub.Register(conn)
		metrics.ProgressObservers.Inc()
		h.logger.Infof("progress observer connected: %s", conn.RemoteAddr())
		defer func() {
			h.hub.Unregister(conn)
			metrics.ProgressObservers.Dec()
			conn.Close()
			h.logger.Infof("progress observer disconnected: %s", conn.RemoteAddr())
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return nil
			}
		}
	}
}

func MapProgressRoutes(videoGroup *echo.Group, h *progressHandler) {
	videoGroup.GET("/progress", h.Subscribe())
}
