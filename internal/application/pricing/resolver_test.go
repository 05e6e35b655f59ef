package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/testsupport/memstore"
)

const testCompanyID = "00000000-0000-0000-0000-00000000000a"

// seedPrice agrega una entrada al historial con la vigencia indicada.
func seedPrice(t *testing.T, store *memstore.Store, productID string, price float64, effectiveFrom time.Time) {
	t.Helper()
	err := store.Prices().Create(context.Background(), &entity.ProductPrice{
		ID:            uuid.New().String(),
		CompanyID:     testCompanyID,
		ProductID:     productID,
		Price:         decimal.NewFromFloat(price),
		EffectiveFrom: effectiveFrom,
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)
}

// resolverAt crea un resolver con el reloj congelado en now.
func resolverAt(store *memstore.Store, now time.Time) *Resolver {
	r := NewResolver(store.Prices())
	r.now = func() time.Time { return now }
	return r
}

// El precio vigente es el de vigente_desde más reciente, no el último insertado.
func TestCurrentPrice_GanaLaVigenciaMasReciente(t *testing.T) {
	store := memstore.New()
	productID := uuid.New().String()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedPrice(t, store, productID, 25.50, now.AddDate(0, -2, 0))
	seedPrice(t, store, productID, 27.00, now.AddDate(0, -1, 0))
	seedPrice(t, store, productID, 26.00, now.AddDate(0, -3, 0))

	r := resolverAt(store, now)
	price, err := r.CurrentPrice(context.Background(), testCompanyID, productID)
	require.NoError(t, err)
	assert.True(t, price.Price.Equal(decimal.NewFromFloat(27.00)),
		"debe ganar la entrada con vigente_desde más reciente, no la última insertada")
}

// Un precio con vigencia futura queda programado pero todavía no aplica.
func TestCurrentPrice_IgnoraPreciosFuturos(t *testing.T) {
	store := memstore.New()
	productID := uuid.New().String()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedPrice(t, store, productID, 25.50, now.AddDate(0, -1, 0))
	seedPrice(t, store, productID, 99.99, now.AddDate(0, 0, 5)) // programado a futuro

	r := resolverAt(store, now)
	price, err := r.CurrentPrice(context.Background(), testCompanyID, productID)
	require.NoError(t, err)
	assert.True(t, price.Price.Equal(decimal.NewFromFloat(25.50)),
		"el precio programado a futuro no debe aplicar todavía")
}

// Producto sin ninguna entrada de precio: NOT_FOUND.
func TestCurrentPrice_SinHistorial_RetornaNotFound(t *testing.T) {
	store := memstore.New()
	r := resolverAt(store, time.Now())

	_, err := r.CurrentPrice(context.Background(), testCompanyID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// En lote, los productos sin precio vigente simplemente no aparecen en el mapa.
func TestCurrentPrices_ProductosSinPrecioAusentesDelMapa(t *testing.T) {
	store := memstore.New()
	conPrecio := uuid.New().String()
	sinPrecio := uuid.New().String()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	seedPrice(t, store, conPrecio, 10.00, now.AddDate(0, -1, 0))

	r := resolverAt(store, now)
	prices, err := r.CurrentPrices(context.Background(), testCompanyID, []string{conPrecio, sinPrecio})
	require.NoError(t, err)

	assert.Contains(t, prices, conPrecio)
	assert.NotContains(t, prices, sinPrecio,
		"el producto sin precio no debe aparecer; el caller decide si es error")
}

func TestCurrentPrices_ListaVacia(t *testing.T) {
	store := memstore.New()
	r := resolverAt(store, time.Now())

	prices, err := r.CurrentPrices(context.Background(), testCompanyID, nil)
	require.NoError(t, err)
	assert.Empty(t, prices)
}
