// Package memstore implementa los puertos de persistencia en memoria para
// pruebas de casos de uso, con la misma semántica que los adaptadores de
// PostgreSQL: ausencia de existencia = cero, bitácora append-only y precios
// resueltos por vigencia.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
)

// Store guarda todo en mapas protegidos por mutex. Cada puerto de repositorio
// se obtiene como una vista (Products(), Stocks(), ...) sobre el mismo estado;
// el Store además implementa los runners transaccionales de inventario y pedidos.
type Store struct {
	mu sync.Mutex
	// txMu serializa las "transacciones" igual que lo harían los bloqueos de
	// fila en PostgreSQL.
	txMu sync.Mutex

	products  map[string]*entity.Product
	prices    []*entity.ProductPrice
	stocks    map[string]*entity.Stock
	movements []*entity.StockMovement
	orders    map[string]*entity.Order
	items     map[string][]*entity.OrderItem
	sellers   map[string]*entity.Seller
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		products: make(map[string]*entity.Product),
		stocks:   make(map[string]*entity.Stock),
		orders:   make(map[string]*entity.Order),
		items:    make(map[string][]*entity.OrderItem),
		sellers:  make(map[string]*entity.Seller),
	}
}

// Vistas por puerto.
func (s *Store) Products() repository.ProductRepository   { return productRepo{s} }
func (s *Store) Prices() repository.PriceRepository       { return priceRepo{s} }
func (s *Store) Stocks() repository.StockRepository       { return stockRepo{s} }
func (s *Store) Movements() repository.MovementRepository { return movementRepo{s} }
func (s *Store) Orders() repository.OrderRepository       { return orderRepo{s} }
func (s *Store) Sellers() repository.SellerRepository     { return sellerRepo{s} }

func stockKey(companyID, productID, locationKind, locationID string) string {
	return strings.Join([]string{companyID, productID, locationKind, locationID}, "|")
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r productRepo) Create(ctx context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r productRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r productRepo) ListByCompany(ctx context.Context, companyID string, onlyActive bool) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID != companyID || (onlyActive && !p.Active) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r productRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		p.Active = active
	}
	return nil
}

// ── PriceRepository ───────────────────────────────────────────────────────────

type priceRepo struct{ s *Store }

func (r priceRepo) Create(ctx context.Context, price *entity.ProductPrice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *price
	r.s.prices = append(r.s.prices, &cp)
	return nil
}

func (r priceRepo) CurrentPrices(ctx context.Context, companyID string, productIDs []string, asOf time.Time) (map[string]*entity.ProductPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	out := make(map[string]*entity.ProductPrice)
	for _, p := range r.s.prices {
		if p.CompanyID != companyID || !wanted[p.ProductID] || p.EffectiveFrom.After(asOf) {
			continue
		}
		best, ok := out[p.ProductID]
		// Empates por vigente_desde: gana la primera fila registrada.
		if !ok || p.EffectiveFrom.After(best.EffectiveFrom) {
			cp := *p
			out[p.ProductID] = &cp
		}
	}
	return out, nil
}

func (r priceRepo) ListByProduct(ctx context.Context, companyID, productID string, limit int) ([]*entity.ProductPrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ProductPrice
	for _, p := range r.s.prices {
		if p.CompanyID == companyID && p.ProductID == productID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EffectiveFrom.After(out[j].EffectiveFrom) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── StockRepository ───────────────────────────────────────────────────────────

type stockRepo struct{ s *Store }

func (r stockRepo) Get(ctx context.Context, companyID, productID, locationKind, locationID string) (*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.stocks[stockKey(companyID, productID, locationKind, locationID)]; ok {
		cp := *st
		return &cp, nil
	}
	// Sin fila: cantidad cero, igual que el adaptador de PostgreSQL.
	return &entity.Stock{
		CompanyID:    companyID,
		ProductID:    productID,
		LocationKind: locationKind,
		LocationID:   locationID,
	}, nil
}

func (r stockRepo) GetForUpdate(ctx context.Context, companyID, productID, locationKind, locationID string) (*entity.Stock, error) {
	return r.Get(ctx, companyID, productID, locationKind, locationID)
}

func (r stockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *stock
	r.s.stocks[stockKey(stock.CompanyID, stock.ProductID, stock.LocationKind, stock.LocationID)] = &cp
	return nil
}

func (r stockRepo) ListByLocation(ctx context.Context, companyID, locationKind, locationID string) ([]*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Stock
	for _, st := range r.s.stocks {
		if st.CompanyID == companyID && st.LocationKind == locationKind && st.LocationID == locationID {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r stockRepo) ListSellerHoldings(ctx context.Context, companyID string) ([]*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Stock
	for _, st := range r.s.stocks {
		if st.CompanyID == companyID && st.LocationKind == entity.LocationVendedor {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LocationID != out[j].LocationID {
			return out[i].LocationID < out[j].LocationID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

// ── MovementRepository ────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r movementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	// Misma semántica que la PK en PostgreSQL: un ID repetido choca.
	for _, m := range r.s.movements {
		if m.ID == movement.ID {
			return domain.ErrDuplicate
		}
	}
	cp := *movement
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r movementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r movementRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(companyID, "", limit, offset)
}

func (r movementRepo) ListByProduct(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(companyID, productID, limit, offset)
}

func (r movementRepo) list(companyID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.CompanyID != companyID || (productID != "" && m.ProductID != productID) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── OrderRepository ───────────────────────────────────────────────────────────

type orderRepo struct{ s *Store }

func (r orderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *order
	r.s.orders[order.ID] = &cp
	return nil
}

func (r orderRepo) CreateItem(ctx context.Context, item *entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *item
	r.s.items[item.OrderID] = append(r.s.items[item.OrderID], &cp)
	return nil
}

func (r orderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok || o.CompanyID != companyID {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r orderRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Order, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r orderRepo) ListItems(ctx context.Context, companyID, orderID string) ([]*entity.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.OrderItem
	for _, it := range r.s.items[orderID] {
		if it.CompanyID == companyID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r orderRepo) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orders[id]; ok && o.CompanyID == companyID {
		o.Status = status
	}
	return nil
}

func (r orderRepo) ListByCompany(ctx context.Context, companyID, sellerID string, limit, offset int) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.CompanyID != companyID || (sellerID != "" && o.SellerID != sellerID) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── SellerRepository ──────────────────────────────────────────────────────────

type sellerRepo struct{ s *Store }

func (r sellerRepo) Create(ctx context.Context, seller *entity.Seller) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *seller
	r.s.sellers[seller.ID] = &cp
	return nil
}

func (r sellerRepo) GetByID(ctx context.Context, id string) (*entity.Seller, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sl, ok := r.s.sellers[id]
	if !ok {
		return nil, nil
	}
	cp := *sl
	return &cp, nil
}

func (r sellerRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Seller, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Seller
	for _, sl := range r.s.sellers {
		if sl.CompanyID == companyID {
			cp := *sl
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r sellerRepo) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sl, ok := r.s.sellers[id]; ok && sl.CompanyID == companyID {
		sl.Status = status
	}
	return nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// snapshot es una copia profunda del estado, para revertir una "transacción"
// fallida igual que haría el Rollback de PostgreSQL.
type snapshot struct {
	products  map[string]*entity.Product
	prices    []*entity.ProductPrice
	stocks    map[string]*entity.Stock
	movements []*entity.StockMovement
	orders    map[string]*entity.Order
	items     map[string][]*entity.OrderItem
	sellers   map[string]*entity.Seller
}

func (s *Store) snapshot() *snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn := &snapshot{
		products:  make(map[string]*entity.Product, len(s.products)),
		prices:    make([]*entity.ProductPrice, len(s.prices)),
		stocks:    make(map[string]*entity.Stock, len(s.stocks)),
		movements: make([]*entity.StockMovement, len(s.movements)),
		orders:    make(map[string]*entity.Order, len(s.orders)),
		items:     make(map[string][]*entity.OrderItem, len(s.items)),
		sellers:   make(map[string]*entity.Seller, len(s.sellers)),
	}
	for k, v := range s.products {
		cp := *v
		sn.products[k] = &cp
	}
	for i, v := range s.prices {
		cp := *v
		sn.prices[i] = &cp
	}
	for k, v := range s.stocks {
		cp := *v
		sn.stocks[k] = &cp
	}
	for i, v := range s.movements {
		cp := *v
		sn.movements[i] = &cp
	}
	for k, v := range s.orders {
		cp := *v
		sn.orders[k] = &cp
	}
	for k, list := range s.items {
		cpList := make([]*entity.OrderItem, len(list))
		for i, it := range list {
			cp := *it
			cpList[i] = &cp
		}
		sn.items[k] = cpList
	}
	for k, v := range s.sellers {
		cp := *v
		sn.sellers[k] = &cp
	}
	return sn
}

func (s *Store) restore(sn *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = sn.products
	s.prices = sn.prices
	s.stocks = sn.stocks
	s.movements = sn.movements
	s.orders = sn.orders
	s.items = sn.items
	s.sellers = sn.sellers
}

// Run serializa el callback igual que lo harían los bloqueos de fila y, si el
// callback falla, revierte todas sus escrituras (equivalente al Rollback).
func (s *Store) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	sn := s.snapshot()
	if err := fn(s.Stocks(), s.Movements()); err != nil {
		s.restore(sn)
		return err
	}
	return nil
}

// RunOrder serializa el callback de pedidos, con reversión en caso de error.
func (s *Store) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	sn := s.snapshot()
	if err := fn(s.Orders(), s.Stocks(), s.Movements()); err != nil {
		s.restore(sn)
		return err
	}
	return nil
}
