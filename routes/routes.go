package routes

import (
	"github.com/gofiber/fiber/v2"

	"billing-backend/controllers"
	"billing-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then per-request transaction (commits/rolls back)
	protected.Use(middlewares.RequestTx())

	protected.Get("/settings", controllers.GetSettings)

	// Customers and suppliers
	protected.Post("/party", controllers.CreateParty)
	protected.Get("/parties", controllers.GetParties)
	protected.Get("/party/:id", controllers.GetParty)
	protected.Put("/party/:id", controllers.UpdateParty)
	protected.Get("/party/:id/balance", controllers.GetPartyBalance)

	// Products
	protected.Post("/products", controllers.CreateProducts) // batch create
	protected.Get("/products", controllers.GetProducts)
	protected.Put("/products/:id", controllers.UpdateProduct)

	// Form calculator (stateless)
	protected.Post("/invoices/normalize-line", controllers.NormalizeLine)
	protected.Post("/invoices/calculate", controllers.Calculate)

	// Invoices (versioned model with payments)
	protected.Post("/invoices", controllers.CreateInvoice)
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Get("/invoice/:id", controllers.GetInvoice)
	protected.Get("/invoice/:id/summary", controllers.GetInvoiceSummary)
	protected.Put("/invoices/:id", controllers.UpdateInvoice)
	protected.Get("/invoices/:id/versions", controllers.GetInvoiceVersions)
	protected.Post("/invoices/:id/payments", controllers.CreatePayment)
	protected.Get("/invoices/:id/payments", controllers.ListPayments)
}
