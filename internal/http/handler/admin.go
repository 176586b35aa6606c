package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"evo/internal/service"
)

// ListUsers pages through accounts with limit & offset.
//
// @Summary  List users
// @Tags     admin
// @Security BearerAuth
// @Produce  json
// @Param    limit  query int false "page size" default(50)
// @Param    offset query int false "offset"    default(0)
// @Success  200 {object} service.UserListResult
// @Failure  403 {object} errorPayload
// @Router   /admin/users [get]
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "50"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}

// UpdateUser edits an account. An empty password keeps the current one.
//
// @Summary  Update user
// @Tags     admin
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id   path string                  true "user id"
// @Param    body body service.UserUpdateInput true "user"
// @Success  200 {object} map[string]any
// @Router   /admin/users/{id} [put]
func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !validID(id) {
			return invalidID(c)
		}
		var in service.UserUpdateInput
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		u, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{
			"status": "Updated",
			"user":   u,
		})
	}
}

// DeleteUser removes an account with its vehicles, costs and receipts.
//
// @Summary  Delete user
// @Tags     admin
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "user id"
// @Success  200 {object} map[string]string
// @Router   /admin/users/{id} [delete]
func DeleteUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !validID(id) {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"status": "Deleted"})
	}
}
