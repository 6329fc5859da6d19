package controllers

import (
	"context"
	"errors"
	"strings"

	"municipal-portal-backend/config"
	"municipal-portal-backend/db/models"
	"municipal-portal-backend/middleware"
	"municipal-portal-backend/token"
	"municipal-portal-backend/users/repositories"
	"municipal-portal-backend/users/services"
	"municipal-portal-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type UserController struct {
	UserRepo    repositories.UserRepository
	PasetoMaker token.Maker
	Ctx         context.Context
	RedisClient *redis.Client
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// RegisterUserController creates a citizen account. The role is always
// client; admins are seeded, never self-registered.
func (uc *UserController) RegisterUserController(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		config.Logger.Error("Invalid request body for RegisterUser", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	user := &models.User{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
		Role:     models.ClientRole,
		Active:   true,
	}
	if req.Phone != "" {
		phone := strings.TrimSpace(req.Phone)
		user.Phone = &phone
	}

	if msg := services.ValidateUser(user); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": msg,
			"error":   msg,
		})
	}
	if msg := services.ValidateEmail(user.Email, uc.UserRepo); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": msg,
			"error":   msg,
		})
	}
	if msg := services.ValidatePassword(user.Password); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": msg,
			"error":   msg,
		})
	}

	created, err := uc.UserRepo.CreateUser(user)
	if err != nil {
		config.Logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create account",
			"error":   err.Error(),
		})
	}

	config.Logger.Info("User registered", zap.String("email", created.Email))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Account created successfully",
		"data":    created,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUserController checks credentials and writes the access/refresh
// cookie pair. The refresh token is stored single-use in Redis.
func (uc *UserController) LoginUserController(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		config.Logger.Error("Error parsing login request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	user, err := uc.UserRepo.GetUserByEmail(req.Email)
	if err != nil || !services.CheckPasswordHash(req.Password, user.Password) {
		config.Logger.Warn("Failed login attempt", zap.String("email", req.Email))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Authentication failed",
			"error":   "Invalid email or password",
		})
	}
	if !user.Active {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Account is disabled",
			"error":   "account disabled",
		})
	}

	accessToken, err := uc.PasetoMaker.CreateToken(user.ID.String(), user.Email, user.Role, middleware.AccessTokenDuration)
	if err != nil {
		config.Logger.Error("Could not generate access token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Something went wrong",
			"error":   "failed to create session",
		})
	}
	refreshToken, err := uc.PasetoMaker.CreateToken(user.ID.String(), user.Email, user.Role, middleware.RefreshTokenDuration)
	if err != nil {
		config.Logger.Error("Could not generate refresh token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Something went wrong",
			"error":   "failed to create session",
		})
	}

	err = uc.RedisClient.Set(uc.Ctx, "refresh_token:"+refreshToken, user.ID.String(), middleware.RefreshTokenDuration).Err()
	if err != nil {
		config.Logger.Error("Error storing refresh token in Redis", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Something went wrong",
			"error":   "failed to create session",
		})
	}

	if err := uc.UserRepo.UpdateLastLogin(user.ID.String()); err != nil {
		config.Logger.Warn("Failed to stamp last login", zap.String("email", user.Email), zap.Error(err))
	}

	middleware.SetAuthCookies(c, accessToken, refreshToken)

	config.Logger.Info("User logged in", zap.String("email", user.Email))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logged in successfully",
		"data":    user,
	})
}

// LogoutUserController invalidates the refresh token and clears cookies.
func (uc *UserController) LogoutUserController(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken != "" {
		if err := uc.RedisClient.Del(uc.Ctx, "refresh_token:"+refreshToken).Err(); err != nil {
			config.Logger.Warn("Error deleting refresh token from Redis", zap.Error(err))
		}
	}

	middleware.ClearAuthCookies(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GetProfileController returns the caller's own account record.
func (uc *UserController) GetProfileController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Unauthorized",
			"error":   "missing token payload",
		})
	}

	user, err := uc.UserRepo.GetUserByID(payload.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
				"error":   err.Error(),
			})
		}
		config.Logger.Error("Failed to fetch profile", zap.String("userID", payload.UserID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch profile",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Profile fetched successfully",
		"data":    user,
	})
}

// GetFilteredUsersController pages the admin user directory.
func (uc *UserController) GetFilteredUsersController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid pagination parameters",
			"error":   err.Error(),
		})
	}

	filters := make(map[string]string)
	for _, key := range []string{"role", "active", "email"} {
		if value := c.Query(key); value != "" {
			filters[key] = value
		}
	}

	users, total, err := uc.UserRepo.GetFilteredUsers(params.PageSize, params.Offset(), filters)
	if err != nil {
		config.Logger.Error("Failed to fetch filtered users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch users",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Users fetched successfully",
		"data":    pagination.NewPaginatedResponse(c, users, total, params),
	})
}
