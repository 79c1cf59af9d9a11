package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"facility-tickets/internal/controllers"
	"facility-tickets/internal/repositories"
	"facility-tickets/internal/services"
	"facility-tickets/pkg/config"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")

	userRepo := repositories.NewUserRepository(dbConn)
	technicianRepo := repositories.NewTechnicianRepository(dbConn)
	ticketRepo := repositories.NewTicketRepository(dbConn, logger)
	historyRepo := repositories.NewTicketHistoryRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	userService := services.NewUserService(userRepo, logger)
	technicianService := services.NewTechnicianService(technicianRepo, userRepo, ticketRepo, logger)
	ticketService := services.NewTicketService(ticketRepo, historyRepo, technicianRepo, cacheRepo, logger)
	statsService := services.NewStatsService(ticketRepo, cacheRepo, cfg.Stats.CacheTTL, logger)

	runUserRouter(api, controllers.NewUserController(userService, logger))
	runTechnicianRouter(api, controllers.NewTechnicianController(technicianService, logger))
	runTicketRouter(api, controllers.NewTicketController(ticketService, logger))
	runStatsRouter(api, controllers.NewStatsController(statsService, logger))
}
