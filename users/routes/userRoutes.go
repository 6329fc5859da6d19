package routes

import (
	"municipal-portal-backend/middleware"
	controllers "municipal-portal-backend/users/controllers"
	repositories "municipal-portal-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
)

func UserRouterInit(
	app *fiber.App,
	appCtx *middleware.AppContext,
	userRepository repositories.UserRepository,
) {
	userController := &controllers.UserController{
		UserRepo:    userRepository,
		PasetoMaker: appCtx.PasetoMaker,
		Ctx:         appCtx.Ctx,
		RedisClient: appCtx.RedisClient,
	}

	auth := app.Group("/api/v1/auth")
	auth.Post("/register", userController.RegisterUserController)
	auth.Post("/login", userController.LoginUserController)
	auth.Post("/logout", userController.LogoutUserController)

	users := app.Group("/api/v1/users", middleware.ProtectedRoute(appCtx))
	users.Get("/me", userController.GetProfileController)

	admin := app.Group("/api/v1/users", middleware.ProtectedRoute(appCtx), middleware.AdminOnly())
	admin.Get("/", userController.GetFilteredUsersController)
}
