package handler

import (
	"github.com/gofiber/fiber/v2"

	"evo/internal/http/middleware"
	"evo/internal/service"
)

// Register creates a user account.
//
// @Summary  Register
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body service.RegisterInput true "account"
// @Success  201 {object} map[string]string
// @Failure  400 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		if _, err := svc.Register(c.UserContext(), in); err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "Registered"})
	}
}

// Login exchanges credentials for a bearer token.
//
// @Summary  Login
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body service.LoginInput true "credentials"
// @Success  200 {object} map[string]any
// @Failure  401 {object} errorPayload
// @Router   /login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.LoginInput
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		res, err := svc.Login(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{
			"status": "Success",
			"token":  res.Token,
			"user":   res.User,
		})
	}
}

// Logout revokes the caller's token.
//
// @Summary  Logout
// @Tags     auth
// @Security BearerAuth
// @Success  200 {object} map[string]string
// @Router   /logout [post]
func Logout(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		if err := svc.Logout(c.UserContext(), actor); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"status": "Logged out"})
	}
}

// Me returns the authenticated user.
//
// @Summary  Current user
// @Tags     auth
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} model.User
// @Router   /me [get]
func Me(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		u, err := svc.Me(c.UserContext(), actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(u)
	}
}
