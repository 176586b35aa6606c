package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"evo/internal/http/middleware"
	"evo/internal/service"
)

// Dashboard returns recent costs and this year's totals for the caller.
//
// @Summary  Dashboard
// @Tags     vehicles
// @Security BearerAuth
// @Produce  json
// @Success  200 {object} service.Dashboard
// @Router   /dashboard [get]
func Dashboard(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		d, err := svc.Dashboard(c.UserContext(), actor)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(d)
	}
}

// ListVehicles lists the caller's vehicles. Admins may pass userId.
//
// @Summary  List vehicles
// @Tags     vehicles
// @Security BearerAuth
// @Produce  json
// @Param    userId query string false "owner (admin only)"
// @Success  200 {array} model.Vehicle
// @Failure  403 {object} errorPayload
// @Router   /vehicles [get]
func ListVehicles(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		userID := c.Query("userId")
		if userID != "" && !validID(userID) {
			return invalidID(c)
		}
		vehicles, err := svc.List(c.UserContext(), actor, userID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(vehicles)
	}
}

// CreateVehicle adds a vehicle for the caller.
//
// @Summary  Create vehicle
// @Tags     vehicles
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    body body service.VehicleInput true "vehicle"
// @Success  201 {object} model.Vehicle
// @Failure  400 {object} errorPayload
// @Router   /vehicles [post]
func CreateVehicle(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		var in service.VehicleInput
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		v, err := svc.Create(c.UserContext(), actor, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(v)
	}
}

// GetVehicle returns a vehicle with its costs and service reminders.
//
// @Summary  Vehicle detail
// @Tags     vehicles
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "vehicle id"
// @Success  200 {object} service.VehicleDetail
// @Failure  404 {object} errorPayload
// @Router   /vehicles/{id} [get]
func GetVehicle(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		id := c.Params("id")
		if !validID(id) {
			return invalidID(c)
		}
		v, err := svc.Get(c.UserContext(), actor, id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(v)
	}
}

// UpdateVehicle edits brand, model, year and registration.
//
// @Summary  Update vehicle
// @Tags     vehicles
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id   path string               true "vehicle id"
// @Param    body body service.VehicleInput true "vehicle"
// @Success  200 {object} model.Vehicle
// @Router   /vehicles/{id} [put]
func UpdateVehicle(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		id := c.Params("id")
		if !validID(id) {
			return invalidID(c)
		}
		var in service.VehicleInput
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		v, err := svc.Update(c.UserContext(), actor, id, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(v)
	}
}

// DeleteVehicle removes a vehicle with its costs and receipts.
//
// @Summary  Delete vehicle
// @Tags     vehicles
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "vehicle id"
// @Success  200 {object} map[string]string
// @Router   /vehicles/{id} [delete]
func DeleteVehicle(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		id := c.Params("id")
		if !validID(id) {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), actor, id); err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{"status": "Deleted"})
	}
}

// UpdateOdometer sets the current odometer reading.
//
// @Summary  Update odometer
// @Tags     vehicles
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id   path string                true "vehicle id"
// @Param    body body service.OdometerInput true "reading"
// @Success  200 {object} model.Vehicle
// @Router   /vehicles/{id}/odometer [patch]
func UpdateOdometer(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		id := c.Params("id")
		if !validID(id) {
			return invalidID(c)
		}
		var in service.OdometerInput
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		v, err := svc.UpdateOdometer(c.UserContext(), actor, id, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(v)
	}
}

// UpdateServiceCounter edits the small, big or brakes counter.
//
// @Summary  Update service counter
// @Tags     vehicles
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id   path string true "vehicle id"
// @Param    kind path string true "small, big or brakes"
// @Param    body body counterRequest true "counter"
// @Success  200 {object} model.Vehicle
// @Router   /vehicles/{id}/service-counters/{kind} [put]
func UpdateServiceCounter(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		id := c.Params("id")
		if !validID(id) {
			return invalidID(c)
		}
		var req counterRequest
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
		in, err := req.input()
		if err != nil {
			return serviceError(c, err)
		}
		v, err := svc.UpdateServiceCounter(c.UserContext(), actor, id, c.Params("kind"), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(v)
	}
}

// VehicleAnalytics returns totals per category and month.
//
// @Summary  Vehicle analytics
// @Tags     vehicles
// @Security BearerAuth
// @Produce  json
// @Param    id path string true "vehicle id"
// @Success  200 {object} service.VehicleAnalytics
// @Router   /vehicles/{id}/analytics [get]
func VehicleAnalytics(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		id := c.Params("id")
		if !validID(id) {
			return invalidID(c)
		}
		a, err := svc.Analytics(c.UserContext(), actor, id)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(a)
	}
}

// VehicleReport renders the expense report as PDF.
//
// @Summary  Expense report
// @Tags     vehicles
// @Security BearerAuth
// @Produce  application/pdf
// @Param    id path string true "vehicle id"
// @Success  200 {file} binary
// @Router   /vehicles/{id}/report.pdf [get]
func VehicleReport(svc service.VehicleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		id := c.Params("id")
		if !validID(id) {
			return invalidID(c)
		}
		r, err := svc.Report(c.UserContext(), actor, id)
		if err != nil {
			return serviceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", r.Filename))
		return c.Send(r.Content)
	}
}
