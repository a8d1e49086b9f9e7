// Package cart holds the device-resident shopping cart: an in-memory
// reducer over line items with best-effort snapshot persistence. The
// stock carried on each line is advisory only; the server re-checks it
// against the live inventory at checkout.
package cart

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/felipe25/tienda-backend/pkg/errors"
	"github.com/felipe25/tienda-backend/pkg/logger"
	"github.com/felipe25/tienda-backend/pkg/money"
)

// LineItem is one product inside the cart. KnownStock is the stock
// figure from the last catalog read, not an authoritative count.
type LineItem struct {
	ID         int             `json:"id"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Cantidad   int             `json:"cantidad"`
	KnownStock int             `json:"known_stock"`
	Categoria  string          `json:"categoria,omitempty"`
	Color      string          `json:"color,omitempty"`
	Talla      string          `json:"talla,omitempty"`
	Marca      int             `json:"marca,omitempty"`
	ImagenURL  string          `json:"imagen_url,omitempty"`
}

// State is the full cart snapshot. Total and ItemCount are maintained
// incrementally by every mutation and must always equal the sums over
// Items.
type State struct {
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Storage persists cart snapshots between process runs.
type Storage interface {
	Save(ctx context.Context, state State) error
	Load(ctx context.Context) (State, bool, error)
}

const persistTimeout = 5 * time.Second

// Store owns the cart state. Mutations are serialized with a mutex so
// the asynchronous persister can read a consistent snapshot.
type Store struct {
	mu      sync.Mutex
	state   State
	storage Storage
	logg    *logger.Logger

	// persistMu serializes snapshot writes so overlapping saves cannot
	// interleave on the storage backend.
	persistMu sync.Mutex
	wg        sync.WaitGroup
}

// NewStore builds an empty cart. A nil storage disables persistence,
// which is what the reducer tests use.
func NewStore(storage Storage, logg *logger.Logger) (*Store, error) {
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "cart"})
	}
	return &Store{storage: storage, logg: logg}, nil
}

// AddItem inserts the product with cantidad 1, or increments the
// existing line when the id is already in the cart. The add is refused
// when it would push cantidad past the item's known stock.
func (s *Store) AddItem(item LineItem) error {
	if item.ID <= 0 {
		return errors.New(errors.CodeValidation, "producto inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Items {
		existing := &s.state.Items[i]
		if existing.ID != item.ID {
			continue
		}
		if existing.Cantidad+1 > existing.KnownStock {
			return errors.New(errors.CodeCapacity, "no hay más unidades disponibles de este producto")
		}
		existing.Cantidad++
		s.state.Total = money.Round(s.state.Total.Add(existing.Precio))
		s.state.ItemCount++
		s.persistAsync()
		return nil
	}

	if item.KnownStock < 1 {
		return errors.New(errors.CodeCapacity, "este producto está agotado")
	}
	item.Cantidad = 1
	s.state.Items = append(s.state.Items, item)
	s.state.Total = money.Round(s.state.Total.Add(item.Precio))
	s.state.ItemCount++
	s.persistAsync()
	return nil
}

// RemoveItem drops the whole line. Unknown ids are a no-op.
func (s *Store) RemoveItem(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Items {
		item := s.state.Items[i]
		if item.ID != id {
			continue
		}
		s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
		s.state.Total = money.Round(s.state.Total.Sub(money.Line(item.Precio, item.Cantidad)))
		s.state.ItemCount -= item.Cantidad
		s.persistAsync()
		return
	}
}

// UpdateQuantity sets the line's cantidad, clamped into [1, KnownStock].
// It returns the quantity actually applied and whether clamping changed
// the request. A line whose known stock has dropped to zero is removed.
func (s *Store) UpdateQuantity(id, cantidad int) (applied int, adjusted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Items {
		item := &s.state.Items[i]
		if item.ID != id {
			continue
		}
		applied = cantidad
		if applied > item.KnownStock {
			applied = item.KnownStock
		}
		if applied < 1 {
			applied = 1
		}
		if applied > item.KnownStock {
			// known stock is zero, the line can no longer be bought
			s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
			s.state.Total = money.Round(s.state.Total.Sub(money.Line(item.Precio, item.Cantidad)))
			s.state.ItemCount -= item.Cantidad
			s.persistAsync()
			return 0, true, nil
		}
		adjusted = applied != cantidad
		delta := applied - item.Cantidad
		if delta != 0 {
			s.state.Total = money.Round(s.state.Total.Add(item.Precio.Mul(decimal.NewFromInt(int64(delta)))))
			s.state.ItemCount += delta
			item.Cantidad = applied
			s.persistAsync()
		}
		return applied, adjusted, nil
	}
	return 0, false, errors.New(errors.CodeNotFound, "el producto no está en el carrito")
}

// Clear resets the cart to its empty initial state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	s.persistAsync()
}

// Load replaces the state with a persisted snapshot. Totals are
// recomputed from the lines so a damaged snapshot cannot smuggle in an
// inconsistent aggregate.
func (s *Store) Load(snapshot State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]LineItem, 0, len(snapshot.Items))
	total := decimal.Zero
	count := 0
	for _, item := range snapshot.Items {
		if item.ID <= 0 || item.Cantidad < 1 {
			continue
		}
		items = append(items, item)
		total = total.Add(money.Line(item.Precio, item.Cantidad))
		count += item.Cantidad
	}
	s.state = State{Items: items, Total: money.Round(total), ItemCount: count}
}

// Restore loads the snapshot held by the configured storage, if any.
func (s *Store) Restore(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	snapshot, found, err := s.storage.Load(ctx)
	if err != nil {
		return err
	}
	if found {
		s.Load(snapshot)
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyStateLocked()
}

// Flush waits for in-flight persists. Tests and shutdown paths use it.
func (s *Store) Flush() {
	s.wg.Wait()
}

func (s *Store) copyStateLocked() State {
	items := make([]LineItem, len(s.state.Items))
	copy(items, s.state.Items)
	return State{Items: items, Total: s.state.Total, ItemCount: s.state.ItemCount}
}

// persistAsync writes the state in the background. Persistence is
// best-effort: failures are logged and the in-memory state stands. The
// snapshot is read under persistMu at write time so the newest save
// always carries the newest state.
func (s *Store) persistAsync() {
	if s.storage == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.persistMu.Lock()
		defer s.persistMu.Unlock()
		snapshot := s.Snapshot()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.storage.Save(ctx, snapshot); err != nil {
			s.logg.Error(ctx, "cart.persist_failed", err)
		}
	}()
}
