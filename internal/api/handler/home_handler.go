package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Home handles GET /.
//
// @Summary      Landing page
// @Tags         core
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       / [get]
func Home(c echo.Context) error {
	return render(c, http.StatusOK, "core/home", nil)
}
