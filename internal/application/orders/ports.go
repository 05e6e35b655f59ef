package orders

import (
	"context"

	"github.com/routiva/routiva-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de pedidos e inventario atados a esa tx, para que confirmar un
// pedido (estatus + existencias + bitácora) sea todo-o-nada.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error) error
}
