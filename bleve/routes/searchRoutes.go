package routes

import (
	controllers "municipal-portal-backend/bleve/controllers"
	repositories "municipal-portal-backend/bleve/repositories"
	"municipal-portal-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func SearchRouterInit(
	app *fiber.App,
	appCtx *middleware.AppContext,
	bleveRepository repositories.BleveRepositoryInterface,
) {
	searchController := controllers.NewSearchController(bleveRepository)

	searchRoutes := app.Group("/api/v1/search", middleware.ProtectedRoute(appCtx), middleware.AdminOnly())

	searchRoutes.Get("/applications", searchController.SearchApplicationsController)
}
