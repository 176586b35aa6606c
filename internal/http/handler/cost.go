package handler

import (
	"github.com/gofiber/fiber/v2"

	"evo/internal/http/middleware"
	"evo/internal/service"
)

// AddCost records an expense and returns the updated vehicle.
//
// @Summary  Add cost
// @Tags     costs
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id   path string      true "vehicle id"
// @Param    body body costRequest true "cost"
// @Success  201 {object} map[string]any
// @Failure  400 {object} errorPayload
// @Router   /vehicles/{id}/costs [post]
func AddCost(svc service.CostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		vehicleID := c.Params("id")
		if !validID(vehicleID) {
			return invalidID(c)
		}
		var req costRequest
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
		in, err := req.input()
		if err != nil {
			return serviceError(c, err)
		}
		res, err := svc.Add(c.UserContext(), actor, vehicleID, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"status":  "Added",
			"vehicle": res.Vehicle,
			"cost":    res.Cost,
		})
	}
}

// UpdateCost edits an expense.
//
// @Summary  Update cost
// @Tags     costs
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    id     path string      true "vehicle id"
// @Param    costId path string      true "cost id"
// @Param    body   body costRequest true "cost"
// @Success  200 {object} map[string]any
// @Router   /vehicles/{id}/costs/{costId} [put]
func UpdateCost(svc service.CostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		vehicleID, costID := c.Params("id"), c.Params("costId")
		if !validID(vehicleID) || !validID(costID) {
			return invalidID(c)
		}
		var req costRequest
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
		in, err := req.input()
		if err != nil {
			return serviceError(c, err)
		}
		res, err := svc.Update(c.UserContext(), actor, vehicleID, costID, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{
			"status":  "Updated",
			"vehicle": res.Vehicle,
			"cost":    res.Cost,
		})
	}
}

// DeleteCost removes an expense and its receipt.
//
// @Summary  Delete cost
// @Tags     costs
// @Security BearerAuth
// @Produce  json
// @Param    id     path string true "vehicle id"
// @Param    costId path string true "cost id"
// @Success  200 {object} map[string]any
// @Router   /vehicles/{id}/costs/{costId} [delete]
func DeleteCost(svc service.CostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		vehicleID, costID := c.Params("id"), c.Params("costId")
		if !validID(vehicleID) || !validID(costID) {
			return invalidID(c)
		}
		v, err := svc.Delete(c.UserContext(), actor, vehicleID, costID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{
			"status":  "Deleted",
			"vehicle": v,
		})
	}
}

// UploadReceipt attaches a receipt file (multipart field "file") to a cost.
//
// @Summary  Upload receipt
// @Tags     costs
// @Security BearerAuth
// @Accept   multipart/form-data
// @Produce  json
// @Param    id     path     string true "vehicle id"
// @Param    costId path     string true "cost id"
// @Param    file   formData file   true "receipt"
// @Success  200 {object} map[string]any
// @Router   /vehicles/{id}/costs/{costId}/receipt [post]
func UploadReceipt(svc service.CostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		vehicleID, costID := c.Params("id"), c.Params("costId")
		if !validID(vehicleID) || !validID(costID) {
			return invalidID(c)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		cost, err := svc.UploadReceipt(c.UserContext(), actor, vehicleID, costID, service.ReceiptUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(fiber.Map{
			"status": "Uploaded",
			"cost":   cost,
		})
	}
}

// GetReceipt redirects to a pre-signed download URL.
//
// @Summary  Download receipt
// @Tags     costs
// @Security BearerAuth
// @Param    id     path string true "vehicle id"
// @Param    costId path string true "cost id"
// @Success  302
// @Router   /vehicles/{id}/costs/{costId}/receipt [get]
func GetReceipt(svc service.CostService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return unauthorized(c)
		}
		vehicleID, costID := c.Params("id"), c.Params("costId")
		if !validID(vehicleID) || !validID(costID) {
			return invalidID(c)
		}
		url, err := svc.ReceiptURL(c.UserContext(), actor, vehicleID, costID)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}
