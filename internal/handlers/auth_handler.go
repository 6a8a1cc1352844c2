package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and user administration.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the authentication routes. limit guards the credential endpoints.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authn, limit fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", limit, h.HandleRegister)
	authRoutes.Get("/confirm-registration/:token", h.HandleConfirmRegistration)
	authRoutes.Post("/login", limit, h.HandleLogin)
	authRoutes.Post("/recover-password", limit, h.HandleRecoverPassword)
	authRoutes.Get("/reset-password/:token", h.HandleVerifyResetToken)
	authRoutes.Post("/change-password", limit, h.HandleChangePassword)
	authRoutes.Post("/google", limit, h.HandleGoogleLogin)
	authRoutes.Get("/check-status", authn, h.HandleCheckStatus)

	admin := middleware.RequireRoles(models.RoleAdmin)
	authRoutes.Get("/", authn, admin, h.HandleListUsers)
	authRoutes.Get("/user_by_email", authn, admin, h.HandleFindUserByEmail)
	authRoutes.Patch("/update_user", authn, admin, h.HandleUpdateUser)
	authRoutes.Delete("/delete_user", authn, admin, h.HandleDeactivateUser)
	authRoutes.Get("/:id", authn, admin, h.HandleFindUserByID)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.authService.RegisterWithEmail(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully, check your email to activate the account",
		"user":    user,
	})
}

func (h *AuthHandler) HandleConfirmRegistration(c *fiber.Ctx) error {
	user, err := h.authService.ConfirmRegistration(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Account confirmed", "user": user})
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) HandleRecoverPassword(c *fiber.Ctx) error {
	var req models.RecoverPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.authService.RecoverPassword(c.UserContext(), req); err != nil {
		return err
	}
	return message(c, "Check your email to reset your password")
}

func (h *AuthHandler) HandleVerifyResetToken(c *fiber.Ctx) error {
	user, err := h.authService.VerifyResetToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"email": user.Email, "token": c.Params("token")})
}

func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req models.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if _, err := h.authService.ChangePassword(c.UserContext(), req); err != nil {
		return err
	}
	return message(c, "Password updated")
}

func (h *AuthHandler) HandleGoogleLogin(c *fiber.Ctx) error {
	var req models.GoogleLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resp, err := h.authService.LoginWithGoogle(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// HandleCheckStatus re-issues a session token for the caller.
func (h *AuthHandler) HandleCheckStatus(c *fiber.Ctx) error {
	resp, err := h.authService.RefreshToken(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) HandleListUsers(c *fiber.Ctx) error {
	p, err := parsePagination(c)
	if err != nil {
		return err
	}
	page, err := h.authService.ListUsers(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *AuthHandler) HandleFindUserByEmail(c *fiber.Ctx) error {
	user, err := h.authService.FindUserByEmail(c.UserContext(), c.Query("email"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *AuthHandler) HandleFindUserByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "User")
	if err != nil {
		return err
	}
	user, err := h.authService.FindUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *AuthHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req models.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.authService.UpdateUser(c.UserContext(), c.Query("email"), req)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *AuthHandler) HandleDeactivateUser(c *fiber.Ctx) error {
	user, err := h.authService.DeactivateUser(c.UserContext(), c.Query("email"))
	if err != nil {
		return err
	}
	return message(c, user.Email+" deactivated successfully")
}
