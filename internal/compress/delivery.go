package compress

import "github.com/labstack/echo/v4"

type Handler interface {
	CompressVideo() echo.HandlerFunc
}
