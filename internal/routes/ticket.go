package routes

import (
	"github.com/labstack/echo/v4"

	"facility-tickets/internal/controllers"
)

func runTicketRouter(api *echo.Group, ticketCtrl *controllers.TicketController) {
	api.POST("/tickets", ticketCtrl.CreateTicket)
	api.GET("/tickets", ticketCtrl.GetTickets)
	// Registered before :id so "recent" never parses as a ticket id.
	api.GET("/tickets/recent", ticketCtrl.GetRecentTickets)
	api.GET("/tickets/:id", ticketCtrl.FindTicket)
	api.PUT("/tickets/:id", ticketCtrl.UpdateTicket)
	api.POST("/tickets/:id/assign", ticketCtrl.AssignTicket)
	api.POST("/tickets/:id/complete", ticketCtrl.CompleteTicket)
	api.GET("/tickets/:id/history", ticketCtrl.GetTicketHistory)
}
