package routes

import (
	"github.com/labstack/echo/v4"

	"facility-tickets/internal/controllers"
)

func runUserRouter(api *echo.Group, userCtrl *controllers.UserController) {
	api.POST("/users", userCtrl.CreateUser)
	api.GET("/users/:id", userCtrl.FindUser)
}
