package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"evo/internal/http/middleware"
	"evo/internal/model"
	"evo/internal/service"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth     service.AuthService
	Users    service.UserService
	Vehicles service.VehicleService
	Costs    service.CostService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Auth middleware is attached per route so unknown paths still answer 404.
func RegisterRoutes(app *fiber.App, db *sql.DB, s Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", Liveness())

	authn := middleware.RequireAuth(s.Auth)
	admin := middleware.RequireRole(model.RoleAdmin)

	app.Post("/register", Register(s.Auth))
	app.Post("/login", Login(s.Auth))
	app.Post("/logout", authn, Logout(s.Auth))
	app.Get("/me", authn, Me(s.Auth))

	app.Get("/dashboard", authn, Dashboard(s.Vehicles))

	app.Get("/vehicles", authn, ListVehicles(s.Vehicles))
	app.Post("/vehicles", authn, CreateVehicle(s.Vehicles))
	app.Get("/vehicles/:id", authn, GetVehicle(s.Vehicles))
	app.Put("/vehicles/:id", authn, UpdateVehicle(s.Vehicles))
	app.Delete("/vehicles/:id", authn, DeleteVehicle(s.Vehicles))
	app.Patch("/vehicles/:id/odometer", authn, UpdateOdometer(s.Vehicles))
	app.Put("/vehicles/:id/service-counters/:kind", authn, UpdateServiceCounter(s.Vehicles))
	app.Get("/vehicles/:id/analytics", authn, VehicleAnalytics(s.Vehicles))
	app.Get("/vehicles/:id/report.pdf", authn, VehicleReport(s.Vehicles))

	app.Post("/vehicles/:id/costs", authn, AddCost(s.Costs))
	app.Put("/vehicles/:id/costs/:costId", authn, UpdateCost(s.Costs))
	app.Delete("/vehicles/:id/costs/:costId", authn, DeleteCost(s.Costs))
	app.Post("/vehicles/:id/costs/:costId/receipt", authn, UploadReceipt(s.Costs))
	app.Get("/vehicles/:id/costs/:costId/receipt", authn, GetReceipt(s.Costs))

	app.Get("/admin/users", authn, admin, ListUsers(s.Users))
	app.Put("/admin/users/:id", authn, admin, UpdateUser(s.Users))
	app.Delete("/admin/users/:id", authn, admin, DeleteUser(s.Users))
}
