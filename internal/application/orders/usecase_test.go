package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routiva/routiva-api/internal/application/orders"
	"github.com/routiva/routiva-api/internal/application/pricing"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/testsupport/memstore"
)

const (
	testCompanyID = "00000000-0000-0000-0000-00000000000a"
	testActorID   = "00000000-0000-0000-0000-00000000000b"
	testClientID  = "00000000-0000-0000-0000-00000000000c"
	testPOSID     = "00000000-0000-0000-0000-00000000000d"
)

type fixture struct {
	store    *memstore.Store
	uc       *orders.OrderUseCase
	sellerID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	resolver := pricing.NewResolver(store.Prices())
	uc := orders.NewOrderUseCase(store, resolver, store.Orders(), store.Sellers())

	sellerID := uuid.New().String()
	require.NoError(t, store.Sellers().Create(context.Background(), &entity.Seller{
		ID:        sellerID,
		CompanyID: testCompanyID,
		FullName:  "María López",
		Status:    entity.SellerActivo,
		CreatedAt: time.Now(),
	}))
	return &fixture{store: store, uc: uc, sellerID: sellerID}
}

// addProduct registra un producto con precio vigente desde ayer.
func (f *fixture) addProduct(t *testing.T, name string, price float64) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.New().String()
	require.NoError(t, f.store.Products().Create(ctx, &entity.Product{
		ID:        id,
		CompanyID: testCompanyID,
		Name:      name,
		Unit:      "pieza",
		Active:    true,
		CreatedAt: time.Now(),
	}))
	require.NoError(t, f.store.Prices().Create(ctx, &entity.ProductPrice{
		ID:            uuid.New().String(),
		CompanyID:     testCompanyID,
		ProductID:     id,
		Price:         decimal.NewFromFloat(price),
		EffectiveFrom: time.Now().Add(-24 * time.Hour),
		CreatedAt:     time.Now(),
	}))
	return id
}

func (f *fixture) setWarehouse(t *testing.T, productID string, qty int64) {
	t.Helper()
	require.NoError(t, f.store.Stocks().Upsert(context.Background(), &entity.Stock{
		CompanyID:    testCompanyID,
		ProductID:    productID,
		LocationKind: entity.LocationAlmacen,
		LocationID:   testCompanyID,
		Quantity:     qty,
		UpdatedAt:    time.Now(),
	}))
}

func (f *fixture) warehouseQty(t *testing.T, productID string) int64 {
	t.Helper()
	stock, err := f.store.Stocks().Get(context.Background(), testCompanyID, productID, entity.LocationAlmacen, testCompanyID)
	require.NoError(t, err)
	return stock.Quantity
}

func (f *fixture) draftInput(lines ...orders.LineRequest) orders.CreateDraftInput {
	return orders.CreateDraftInput{
		CompanyID:     testCompanyID,
		ActorID:       testActorID,
		ClientID:      testClientID,
		PointOfSaleID: testPOSID,
		SellerID:      f.sellerID,
		Lines:         lines,
	}
}

// Línea (P, 2) a $25.50: total $51.00. El borrador no toca inventario.
func TestCreateDraft_CongelaPreciosYNoTocaInventario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.addProduct(t, "Agua 600ml", 25.50)
	f.setWarehouse(t, productID, 1)

	orderID, err := f.uc.CreateDraft(ctx, f.draftInput(orders.LineRequest{ProductID: productID, Quantity: 2}))
	require.NoError(t, err)

	order, err := f.uc.GetOrder(ctx, testCompanyID, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderBorrador, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromFloat(51.00)), "total esperado 51.00, fue %s", order.Total)

	items, err := f.uc.ListItems(ctx, testCompanyID, orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromFloat(25.50)), "la línea congela el precio vigente")

	assert.Equal(t, int64(1), f.warehouseQty(t, productID), "el borrador no reserva ni descuenta existencia")
}

// El redondeo es por línea; el total es la suma exacta de los subtotales.
func TestCreateDraft_RedondeoPorLinea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := f.addProduct(t, "Galletas", 10.333)
	p2 := f.addProduct(t, "Chicles", 0.335)

	orderID, err := f.uc.CreateDraft(ctx, f.draftInput(
		orders.LineRequest{ProductID: p1, Quantity: 3},
		orders.LineRequest{ProductID: p2, Quantity: 7},
	))
	require.NoError(t, err)

	order, err := f.uc.GetOrder(ctx, testCompanyID, orderID)
	require.NoError(t, err)
	items, err := f.uc.ListItems(ctx, testCompanyID, orderID)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, it := range items {
		assert.True(t, it.Subtotal.Equal(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)).Round(2)),
			"cada subtotal se redondea a 2 decimales")
		sum = sum.Add(it.Subtotal)
	}
	assert.True(t, order.Total.Equal(sum), "el total debe ser la suma exacta de los subtotales redondeados")
}

// Producto sin precio vigente: MISSING_PRICE y no se crea nada.
func TestCreateDraft_SinPrecioNoCreaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conPrecio := f.addProduct(t, "Agua 600ml", 25.50)
	sinPrecio := uuid.New().String()
	require.NoError(t, f.store.Products().Create(ctx, &entity.Product{
		ID: sinPrecio, CompanyID: testCompanyID, Name: "Nuevo", Unit: "pieza", Active: true,
	}))

	_, err := f.uc.CreateDraft(ctx, f.draftInput(
		orders.LineRequest{ProductID: conPrecio, Quantity: 1},
		orders.LineRequest{ProductID: sinPrecio, Quantity: 1},
	))
	assert.ErrorIs(t, err, domain.ErrMissingPrice)

	list, err := f.uc.ListOrders(ctx, testCompanyID, "", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list, "no debe quedar ningún pedido ni línea parcial")
}

func TestCreateDraft_PedidoVacio(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateDraft(context.Background(), f.draftInput())
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func TestCreateDraft_CantidadInvalida(t *testing.T) {
	f := newFixture(t)
	productID := f.addProduct(t, "Agua 600ml", 25.50)
	_, err := f.uc.CreateDraft(context.Background(), f.draftInput(
		orders.LineRequest{ProductID: productID, Quantity: 0},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// Almacén 1, línea de 2: confirmar falla, el pedido sigue en BORRADOR y el
// saldo no cambia.
func TestConfirm_InsuficienteNoCambiaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.addProduct(t, "Agua 600ml", 25.50)
	f.setWarehouse(t, productID, 1)

	orderID, err := f.uc.CreateDraft(ctx, f.draftInput(orders.LineRequest{ProductID: productID, Quantity: 2}))
	require.NoError(t, err)

	err = f.uc.Confirm(ctx, testCompanyID, testActorID, orderID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	order, _ := f.uc.GetOrder(ctx, testCompanyID, orderID)
	assert.Equal(t, entity.OrderBorrador, order.Status, "el pedido debe seguir en borrador")
	assert.Equal(t, int64(1), f.warehouseQty(t, productID), "el saldo no debe cambiar")

	movs, _ := f.store.Movements().ListByCompany(ctx, testCompanyID, 10, 0)
	assert.Empty(t, movs, "una confirmación rechazada no deja bitácora")
}

// Con saldo suficiente la confirmación descuenta, registra VENTA con referencia
// al pedido y deja el pedido CONFIRMADO; la segunda confirmación falla y el
// inventario se descuenta una sola vez.
func TestConfirm_DescuentaYNoEsIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.addProduct(t, "Agua 600ml", 25.50)
	f.setWarehouse(t, productID, 5)

	orderID, err := f.uc.CreateDraft(ctx, f.draftInput(orders.LineRequest{ProductID: productID, Quantity: 2}))
	require.NoError(t, err)

	require.NoError(t, f.uc.Confirm(ctx, testCompanyID, testActorID, orderID))

	assert.Equal(t, int64(3), f.warehouseQty(t, productID))

	order, _ := f.uc.GetOrder(ctx, testCompanyID, orderID)
	assert.Equal(t, entity.OrderConfirmado, order.Status)

	movs, err := f.store.Movements().ListByCompany(ctx, testCompanyID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementVenta, movs[0].Type)
	assert.Equal(t, int64(2), movs[0].Quantity)
	require.NotNil(t, movs[0].ReferenceKind)
	assert.Equal(t, entity.ReferencePedido, *movs[0].ReferenceKind)
	require.NotNil(t, movs[0].ReferenceID)
	assert.Equal(t, orderID, *movs[0].ReferenceID)

	err = f.uc.Confirm(ctx, testCompanyID, testActorID, orderID)
	assert.ErrorIs(t, err, domain.ErrNotConfirmable, "confirmar dos veces no es idempotente")
	assert.Equal(t, int64(3), f.warehouseQty(t, productID), "el inventario se descuenta una sola vez")
}

// Confirmar es todo o nada: si a una línea le falta inventario, ninguna se descuenta.
func TestConfirm_TodoONada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	conSaldo := f.addProduct(t, "Agua 600ml", 10.00)
	sinSaldo := f.addProduct(t, "Refresco 2L", 20.00)
	f.setWarehouse(t, conSaldo, 100)
	f.setWarehouse(t, sinSaldo, 1)

	orderID, err := f.uc.CreateDraft(ctx, f.draftInput(
		orders.LineRequest{ProductID: conSaldo, Quantity: 5},
		orders.LineRequest{ProductID: sinSaldo, Quantity: 2},
	))
	require.NoError(t, err)

	err = f.uc.Confirm(ctx, testCompanyID, testActorID, orderID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(100), f.warehouseQty(t, conSaldo), "la línea con saldo tampoco debe descontarse")
	assert.Equal(t, int64(1), f.warehouseQty(t, sinSaldo))
}

// Un pedido puede repetir el mismo producto en varias líneas; la verificación
// de existencia va contra la demanda agregada, no línea por línea.
func TestConfirm_LineasRepetidasSumanDemanda(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.addProduct(t, "Agua 600ml", 25.50)
	f.setWarehouse(t, productID, 5)

	orderID, err := f.uc.CreateDraft(ctx, f.draftInput(
		orders.LineRequest{ProductID: productID, Quantity: 3},
		orders.LineRequest{ProductID: productID, Quantity: 3},
	))
	require.NoError(t, err)

	err = f.uc.Confirm(ctx, testCompanyID, testActorID, orderID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"dos líneas de 3 suman 6 y solo hay 5: cada línea por separado sí alcanza")
	assert.Equal(t, int64(5), f.warehouseQty(t, productID), "el rechazo no toca el inventario")

	order, err := f.uc.GetOrder(ctx, testCompanyID, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderBorrador, order.Status)

	// Con existencia para la suma, el mismo pedido sí confirma.
	f.setWarehouse(t, productID, 6)
	require.NoError(t, f.uc.Confirm(ctx, testCompanyID, testActorID, orderID))
	assert.Equal(t, int64(0), f.warehouseQty(t, productID))
}

func TestConfirm_PedidoInexistente(t *testing.T) {
	f := newFixture(t)
	err := f.uc.Confirm(context.Background(), testCompanyID, testActorID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrders_FiltraPorVendedor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.addProduct(t, "Agua 600ml", 25.50)

	_, err := f.uc.CreateDraft(ctx, f.draftInput(orders.LineRequest{ProductID: productID, Quantity: 1}))
	require.NoError(t, err)

	otherSeller := uuid.New().String()
	require.NoError(t, f.store.Sellers().Create(ctx, &entity.Seller{
		ID: otherSeller, CompanyID: testCompanyID, FullName: "Pedro Gómez", Status: entity.SellerActivo,
	}))
	input := f.draftInput(orders.LineRequest{ProductID: productID, Quantity: 1})
	input.SellerID = otherSeller
	_, err = f.uc.CreateDraft(ctx, input)
	require.NoError(t, err)

	all, err := f.uc.ListOrders(ctx, testCompanyID, "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.uc.ListOrders(ctx, testCompanyID, f.sellerID, 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.sellerID, mine[0].SellerID)
}
