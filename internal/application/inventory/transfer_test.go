package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routiva/routiva-api/internal/application/inventory"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
	"github.com/routiva/routiva-api/internal/testsupport/memstore"
)

// seedSeller registra un vendedor de la empresa de prueba.
func seedSeller(t *testing.T, store *memstore.Store, status string) string {
	t.Helper()
	id := uuid.New().String()
	err := store.Sellers().Create(context.Background(), &entity.Seller{
		ID:        id,
		CompanyID: testCompanyID,
		FullName:  "Juan Pérez",
		Status:    status,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	return id
}

func newTransfer(store *memstore.Store) *inventory.TransferUseCase {
	return inventory.NewTransferUseCase(store, store.Products(), store.Sellers())
}

func transferInput(productID, sellerID, direction string, qty int64) inventory.TransferInput {
	return inventory.TransferInput{
		CompanyID: testCompanyID,
		ActorID:   testActorID,
		ProductID: productID,
		SellerID:  sellerID,
		Direction: direction,
		Quantity:  qty,
	}
}

// totalUnits suma almacén + todas las cargas de vendedor para un producto.
func totalUnits(t *testing.T, store *memstore.Store, productID string) int64 {
	t.Helper()
	ctx := context.Background()
	warehouse, err := store.Stocks().Get(ctx, testCompanyID, productID, entity.LocationAlmacen, testCompanyID)
	require.NoError(t, err)
	total := warehouse.Quantity
	holdings, err := store.Stocks().ListSellerHoldings(ctx, testCompanyID)
	require.NoError(t, err)
	for _, h := range holdings {
		if h.ProductID == productID {
			total += h.Quantity
		}
	}
	return total
}

// Almacén 6, vendedor 0: ASIGNAR 6 deja almacén 0 y vendedor 6, con una sola
// fila SALIDA/AJUSTE en bitácora. Un ASIGNAR más falla y no cambia nada.
func TestTransfer_AsignarMueveYConserva(t *testing.T) {
	store := memstore.New()
	productID := seedProduct(t, store)
	sellerID := seedSeller(t, store, entity.SellerActivo)
	seedWarehouseStock(t, store, productID, 6)
	uc := newTransfer(store)
	ctx := context.Background()

	require.NoError(t, uc.Transfer(ctx, transferInput(productID, sellerID, inventory.DirectionAsignar, 6)))

	warehouse, _ := store.Stocks().Get(ctx, testCompanyID, productID, entity.LocationAlmacen, testCompanyID)
	sellerStock, _ := store.Stocks().Get(ctx, testCompanyID, productID, entity.LocationVendedor, sellerID)
	assert.Equal(t, int64(0), warehouse.Quantity)
	assert.Equal(t, int64(6), sellerStock.Quantity)
	assert.Equal(t, int64(6), totalUnits(t, store, productID), "la transferencia no crea ni destruye unidades")

	movs, err := store.Movements().ListByCompany(ctx, testCompanyID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1, "una transferencia registra una sola fila de bitácora")
	assert.Equal(t, entity.MovementSalida, movs[0].Type)
	require.NotNil(t, movs[0].ReferenceKind)
	assert.Equal(t, entity.ReferenceAjuste, *movs[0].ReferenceKind)
	require.NotNil(t, movs[0].ReferenceID)
	assert.Equal(t, sellerID, *movs[0].ReferenceID)

	// El almacén quedó en cero: asignar una unidad más debe fallar sin efectos.
	err = uc.Transfer(ctx, transferInput(productID, sellerID, inventory.DirectionAsignar, 1))
	assert.ErrorIs(t, err, domain.ErrInsufficientWarehouseStock)
	assert.Equal(t, int64(6), totalUnits(t, store, productID))

	movs, _ = store.Movements().ListByCompany(ctx, testCompanyID, 10, 0)
	assert.Len(t, movs, 1, "la transferencia rechazada no deja bitácora")
}

func TestTransfer_DevolverRegresaAlAlmacen(t *testing.T) {
	store := memstore.New()
	productID := seedProduct(t, store)
	sellerID := seedSeller(t, store, entity.SellerActivo)
	seedWarehouseStock(t, store, productID, 10)
	uc := newTransfer(store)
	ctx := context.Background()

	require.NoError(t, uc.Transfer(ctx, transferInput(productID, sellerID, inventory.DirectionAsignar, 4)))
	require.NoError(t, uc.Transfer(ctx, transferInput(productID, sellerID, inventory.DirectionDevolver, 3)))

	warehouse, _ := store.Stocks().Get(ctx, testCompanyID, productID, entity.LocationAlmacen, testCompanyID)
	sellerStock, _ := store.Stocks().Get(ctx, testCompanyID, productID, entity.LocationVendedor, sellerID)
	assert.Equal(t, int64(9), warehouse.Quantity)
	assert.Equal(t, int64(1), sellerStock.Quantity)
	assert.Equal(t, int64(10), totalUnits(t, store, productID))

	movs, _ := store.Movements().ListByCompany(ctx, testCompanyID, 10, 0)
	require.Len(t, movs, 2)
	var devolucion *entity.StockMovement
	for _, m := range movs {
		if m.Type == entity.MovementEntrada {
			devolucion = m
		}
	}
	require.NotNil(t, devolucion, "la devolución registra una ENTRADA")
	require.NotNil(t, devolucion.ReferenceKind)
	assert.Equal(t, entity.ReferenceDevolucion, *devolucion.ReferenceKind)
}

func TestTransfer_DevolverMasDeLoQueTrae(t *testing.T) {
	store := memstore.New()
	productID := seedProduct(t, store)
	sellerID := seedSeller(t, store, entity.SellerActivo)
	seedWarehouseStock(t, store, productID, 10)
	uc := newTransfer(store)
	ctx := context.Background()

	require.NoError(t, uc.Transfer(ctx, transferInput(productID, sellerID, inventory.DirectionAsignar, 2)))

	err := uc.Transfer(ctx, transferInput(productID, sellerID, inventory.DirectionDevolver, 3))
	assert.ErrorIs(t, err, domain.ErrInsufficientSellerStock)
	assert.Equal(t, int64(10), totalUnits(t, store, productID))
}

// Reintentar una transferencia con el mismo request_id no vuelve a mover existencia.
func TestTransfer_ReintentoConRequestIDEsIdempotente(t *testing.T) {
	store := memstore.New()
	productID := seedProduct(t, store)
	sellerID := seedSeller(t, store, entity.SellerActivo)
	seedWarehouseStock(t, store, productID, 10)
	uc := newTransfer(store)
	ctx := context.Background()

	input := transferInput(productID, sellerID, inventory.DirectionAsignar, 4)
	input.RequestID = uuid.New().String()

	require.NoError(t, uc.Transfer(ctx, input))
	require.NoError(t, uc.Transfer(ctx, input), "el reintento debe aceptarse sin error")

	warehouse, _ := store.Stocks().Get(ctx, testCompanyID, productID, entity.LocationAlmacen, testCompanyID)
	sellerStock, _ := store.Stocks().Get(ctx, testCompanyID, productID, entity.LocationVendedor, sellerID)
	assert.Equal(t, int64(6), warehouse.Quantity, "la existencia se mueve una sola vez")
	assert.Equal(t, int64(4), sellerStock.Quantity)

	movs, _ := store.Movements().ListByCompany(ctx, testCompanyID, 10, 0)
	assert.Len(t, movs, 1, "el reintento no duplica la bitácora")
}

// blindMovements oculta la verificación previa de idempotencia, simulando al
// perdedor de una carrera: su lectura corrió antes de que el ganador
// confirmara, así que el choque se detecta recién al insertar el movimiento.
type blindMovements struct {
	repository.MovementRepository
}

func (blindMovements) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	return nil, nil
}

type blindRunner struct {
	store *memstore.Store
}

func (r blindRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
) error) error {
	return r.store.Run(ctx, func(stocks repository.StockRepository, movs repository.MovementRepository) error {
		return fn(stocks, blindMovements{movs})
	})
}

// Dos reintentos concurrentes del mismo request: ambos pasan la verificación
// previa y el perdedor choca con la PK al insertar el movimiento. Su
// transacción se revierte y el resultado es el mismo no-op, no un error.
func TestTransfer_ReintentoQuePierdeLaCarrera(t *testing.T) {
	store := memstore.New()
	productID := seedProduct(t, store)
	sellerID := seedSeller(t, store, entity.SellerActivo)
	seedWarehouseStock(t, store, productID, 10)
	ctx := context.Background()

	input := transferInput(productID, sellerID, inventory.DirectionAsignar, 6)
	input.RequestID = uuid.New().String()

	// El "ganador" aplica la transferencia completa.
	require.NoError(t, newTransfer(store).Transfer(ctx, input))

	// El "perdedor" no ve el movimiento en su verificación previa.
	loser := inventory.NewTransferUseCase(blindRunner{store}, store.Products(), store.Sellers())
	require.NoError(t, loser.Transfer(ctx, input), "perder la carrera es el mismo no-op")

	warehouse, _ := store.Stocks().Get(ctx, testCompanyID, productID, entity.LocationAlmacen, testCompanyID)
	sellerStock, _ := store.Stocks().Get(ctx, testCompanyID, productID, entity.LocationVendedor, sellerID)
	assert.Equal(t, int64(4), warehouse.Quantity, "la existencia se mueve una sola vez")
	assert.Equal(t, int64(6), sellerStock.Quantity)

	movs, _ := store.Movements().ListByCompany(ctx, testCompanyID, 10, 0)
	assert.Len(t, movs, 1, "el perdedor no duplica la bitácora")
}

// A un vendedor inactivo no se le asigna carga nueva, pero sí puede devolver.
func TestTransfer_VendedorInactivo(t *testing.T) {
	store := memstore.New()
	productID := seedProduct(t, store)
	sellerID := seedSeller(t, store, entity.SellerActivo)
	seedWarehouseStock(t, store, productID, 10)
	uc := newTransfer(store)
	ctx := context.Background()

	require.NoError(t, uc.Transfer(ctx, transferInput(productID, sellerID, inventory.DirectionAsignar, 5)))
	require.NoError(t, store.Sellers().UpdateStatus(ctx, testCompanyID, sellerID, entity.SellerInactivo))

	err := uc.Transfer(ctx, transferInput(productID, sellerID, inventory.DirectionAsignar, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se asigna carga a un vendedor inactivo")

	err = uc.Transfer(ctx, transferInput(productID, sellerID, inventory.DirectionDevolver, 5))
	assert.NoError(t, err, "el vendedor inactivo sí devuelve la carga que trae")
	assert.Equal(t, int64(10), totalUnits(t, store, productID))
}

func TestTransfer_ValidacionesBasicas(t *testing.T) {
	store := memstore.New()
	productID := seedProduct(t, store)
	sellerID := seedSeller(t, store, entity.SellerActivo)
	uc := newTransfer(store)
	ctx := context.Background()

	err := uc.Transfer(ctx, transferInput(productID, sellerID, "LATERAL", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "dirección desconocida")

	err = uc.Transfer(ctx, transferInput(productID, sellerID, inventory.DirectionAsignar, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad cero")

	err = uc.Transfer(ctx, transferInput(uuid.New().String(), sellerID, inventory.DirectionAsignar, 1))
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente")

	err = uc.Transfer(ctx, transferInput(productID, uuid.New().String(), inventory.DirectionAsignar, 1))
	assert.ErrorIs(t, err, domain.ErrNotFound, "vendedor inexistente")
}
