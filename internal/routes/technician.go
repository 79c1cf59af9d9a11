package routes

import (
	"github.com/labstack/echo/v4"

	"facility-tickets/internal/controllers"
)

func runTechnicianRouter(api *echo.Group, technicianCtrl *controllers.TechnicianController) {
	api.POST("/technicians", technicianCtrl.CreateTechnician)
	api.GET("/technicians", technicianCtrl.GetTechnicians)
}
