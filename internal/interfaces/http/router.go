package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/routiva/routiva-api/internal/application/inventory"
	"github.com/routiva/routiva-api/internal/application/orders"
	"github.com/routiva/routiva-api/internal/application/usecase"
	"github.com/routiva/routiva-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	SellerUC   *usecase.SellerUseCase
	LedgerUC   *inventory.LedgerUseCase
	TransferUC *inventory.TransferUseCase
	OrderUC    *orders.OrderUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las de
// administración (catálogo, vendedores, movimientos, transferencias) exigen
// además rol de dueño, y la venta en parada exige rol de vendedor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	ownerOnly := RequireRole(jwt.RoleOwner)

	// Products (catálogo y precios)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", ownerOnly, productHandler.Create)
	products.Delete("/:id", ownerOnly, productHandler.Deactivate)
	products.Get("/:id/prices", productHandler.ListPrices)
	products.Post("/:id/prices", ownerOnly, productHandler.AddPrice)

	// Sellers (registro de vendedores, solo dueño)
	sellers := api.Group("/sellers", ownerOnly)
	sellerHandler := NewSellerHandler(deps.SellerUC)
	sellers.Get("/", sellerHandler.List)
	sellers.Post("/", sellerHandler.Create)
	sellers.Put("/:id/status", sellerHandler.UpdateStatus)

	// Inventory (existencias, movimientos, transferencias)
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.TransferUC)
	invGroup.Get("/summary", inventoryHandler.WarehouseSummary)
	invGroup.Get("/sellers", inventoryHandler.SellerHoldings)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Post("/movements", ownerOnly, inventoryHandler.RegisterMovement)
	invGroup.Post("/transfers", ownerOnly, inventoryHandler.Transfer)

	// Orders (pedidos)
	ordersGroup := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/", orderHandler.CreateDraft)
	ordersGroup.Post("/stop", RequireRole(jwt.RoleVendedor), orderHandler.ConfirmAtStop)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/:id/confirm", orderHandler.Confirm)
}
