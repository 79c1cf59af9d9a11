package routes

import (
	"github.com/labstack/echo/v4"

	"facility-tickets/internal/controllers"
)

func runStatsRouter(api *echo.Group, statsCtrl *controllers.StatsController) {
	api.GET("/stats/dashboard", statsCtrl.GetDashboardStats)
	api.GET("/stats/categories", statsCtrl.GetCategoryStats)
	api.GET("/stats/trend", statsCtrl.GetMonthlyTrend)
	api.POST("/stats/report", statsCtrl.GetReportSummary)
	api.GET("/stats/report/export", statsCtrl.ExportReport)
}
