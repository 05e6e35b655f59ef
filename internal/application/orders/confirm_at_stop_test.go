package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routiva/routiva-api/internal/application/orders"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
)

func (f *fixture) stopInput(lines ...orders.LineRequest) orders.ConfirmAtStopInput {
	return orders.ConfirmAtStopInput{
		CompanyID:     testCompanyID,
		SellerID:      f.sellerID,
		ClientID:      testClientID,
		PointOfSaleID: testPOSID,
		Lines:         lines,
	}
}

func (f *fixture) setSellerStock(t *testing.T, productID string, qty int64) {
	t.Helper()
	require.NoError(t, f.store.Stocks().Upsert(context.Background(), &entity.Stock{
		CompanyID:    testCompanyID,
		ProductID:    productID,
		LocationKind: entity.LocationVendedor,
		LocationID:   f.sellerID,
		Quantity:     qty,
		UpdatedAt:    time.Now(),
	}))
}

func (f *fixture) sellerQty(t *testing.T, productID string) int64 {
	t.Helper()
	stock, err := f.store.Stocks().Get(context.Background(), testCompanyID, productID, entity.LocationVendedor, f.sellerID)
	require.NoError(t, err)
	return stock.Quantity
}

// El pedido de parada nace CONFIRMADO y sale de la carga del vendedor cuando
// este trae existencia de lo pedido; el almacén no se toca.
func TestConfirmAtStop_SaleDeLaCargaDelVendedor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.addProduct(t, "Agua 600ml", 25.50)
	f.setWarehouse(t, productID, 50)
	f.setSellerStock(t, productID, 10)

	orderID, err := f.uc.ConfirmAtStop(ctx, f.stopInput(orders.LineRequest{ProductID: productID, Quantity: 4}))
	require.NoError(t, err)

	order, err := f.uc.GetOrder(ctx, testCompanyID, orderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmado, order.Status, "el pedido nace confirmado, sin pasar por borrador")
	assert.Equal(t, f.sellerID, order.SellerID)

	assert.Equal(t, int64(6), f.sellerQty(t, productID), "la venta sale de la carga del vendedor")
	assert.Equal(t, int64(50), f.warehouseQty(t, productID), "el almacén no se toca")

	movs, err := f.store.Movements().ListByCompany(ctx, testCompanyID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementVenta, movs[0].Type)
	assert.Equal(t, f.sellerID, movs[0].CreatedBy, "el movimiento queda firmado por el vendedor")
}

// Si el vendedor no trae nada de lo pedido, la venta sale del almacén.
func TestConfirmAtStop_SinCargaUsaAlmacen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.addProduct(t, "Agua 600ml", 25.50)
	f.setWarehouse(t, productID, 50)

	orderID, err := f.uc.ConfirmAtStop(ctx, f.stopInput(orders.LineRequest{ProductID: productID, Quantity: 4}))
	require.NoError(t, err)

	order, _ := f.uc.GetOrder(ctx, testCompanyID, orderID)
	assert.Equal(t, entity.OrderConfirmado, order.Status)
	assert.Equal(t, int64(46), f.warehouseQty(t, productID))
	assert.Equal(t, int64(0), f.sellerQty(t, productID))
}

// La fuente se elige una vez por pedido: si el vendedor trae existencia de
// algún producto pedido, TODO el pedido sale de su carga; una línea que no le
// alcance hace fallar el pedido completo en vez de mezclar fuentes.
func TestConfirmAtStop_FuenteUnicaPorPedido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	enCarga := f.addProduct(t, "Agua 600ml", 10.00)
	soloAlmacen := f.addProduct(t, "Refresco 2L", 20.00)
	f.setWarehouse(t, enCarga, 50)
	f.setWarehouse(t, soloAlmacen, 50)
	f.setSellerStock(t, enCarga, 10)

	_, err := f.uc.ConfirmAtStop(ctx, f.stopInput(
		orders.LineRequest{ProductID: enCarga, Quantity: 2},
		orders.LineRequest{ProductID: soloAlmacen, Quantity: 1},
	))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"no se mezclan fuentes: todo el pedido debe salir de la carga del vendedor")

	assert.Equal(t, int64(10), f.sellerQty(t, enCarga), "el rechazo no deja cambios parciales")
	assert.Equal(t, int64(50), f.warehouseQty(t, soloAlmacen))
}

// Carga insuficiente del vendedor: falla sin efectos, aunque el almacén tenga saldo.
func TestConfirmAtStop_CargaInsuficienteNoCaeAlAlmacen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.addProduct(t, "Agua 600ml", 25.50)
	f.setWarehouse(t, productID, 50)
	f.setSellerStock(t, productID, 2)

	_, err := f.uc.ConfirmAtStop(ctx, f.stopInput(orders.LineRequest{ProductID: productID, Quantity: 5}))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"si el vendedor trae algo del producto, la fuente es su carga y no hay fallback")

	assert.Equal(t, int64(2), f.sellerQty(t, productID))
	assert.Equal(t, int64(50), f.warehouseQty(t, productID))

	list, _ := f.uc.ListOrders(ctx, testCompanyID, "", 10, 0)
	assert.Empty(t, list, "el pedido rechazado no se crea")
}

func TestConfirmAtStop_ValidacionesBasicas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.addProduct(t, "Agua 600ml", 25.50)

	_, err := f.uc.ConfirmAtStop(ctx, f.stopInput())
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)

	_, err = f.uc.ConfirmAtStop(ctx, f.stopInput(orders.LineRequest{ProductID: productID, Quantity: -1}))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	input := f.stopInput(orders.LineRequest{ProductID: productID, Quantity: 1})
	input.SellerID = uuid.New().String()
	_, err = f.uc.ConfirmAtStop(ctx, input)
	assert.ErrorIs(t, err, domain.ErrNotFound, "vendedor inexistente")
}
