// Package memory implementa los puertos de persistencia en memoria. Se usa con APP_STORAGE=memory
// (demos, desarrollo local) y en los tests de casos de uso y handlers.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu           sync.RWMutex
	products     map[string]*entity.Product
	boms         map[string]*entity.BillOfMaterials
	orders       map[string]*entity.Order
	requirements map[string]*entity.MaterialRequirement
	users        map[string]*entity.User
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:     make(map[string]*entity.Product),
		boms:         make(map[string]*entity.BillOfMaterials),
		orders:       make(map[string]*entity.Order),
		requirements: make(map[string]*entity.MaterialRequirement),
		users:        make(map[string]*entity.User),
	}
}

// guard controla el acceso al store. Dentro de una transacción el lock ya lo tiene el TxRunner.
type guard struct {
	s    *Store
	inTx bool
}

func (g guard) read() func() {
	if g.inTx {
		return func() {}
	}
	g.s.mu.RLock()
	return g.s.mu.RUnlock
}

func (g guard) write() func() {
	if g.inTx {
		return func() {}
	}
	g.s.mu.Lock()
	return g.s.mu.Unlock
}

// snapshot copia profunda del estado, usada como punto de rollback.
func (s *Store) snapshot() *Store {
	c := NewStore()
	for k, v := range s.products {
		c.products[k] = cloneProduct(v)
	}
	for k, v := range s.boms {
		c.boms[k] = cloneBOM(v)
	}
	for k, v := range s.orders {
		c.orders[k] = cloneOrder(v)
	}
	for k, v := range s.requirements {
		c.requirements[k] = cloneRequirement(v)
	}
	for k, v := range s.users {
		u := *v
		c.users[k] = &u
	}
	return c
}

func (s *Store) restore(from *Store) {
	s.products = from.products
	s.boms = from.boms
	s.orders = from.orders
	s.requirements = from.requirements
	s.users = from.users
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	if p.Price != nil {
		v := *p.Price
		c.Price = &v
	}
	return &c
}

func cloneBOM(b *entity.BillOfMaterials) *entity.BillOfMaterials {
	c := *b
	c.Items = append([]entity.BOMItem(nil), b.Items...)
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.RequiredDate = cloneTime(o.RequiredDate)
	c.EstimatedCompletionDate = cloneTime(o.EstimatedCompletionDate)
	c.ActualCompletionDate = cloneTime(o.ActualCompletionDate)
	c.Items = make([]entity.OrderItem, len(o.Items))
	for i, it := range o.Items {
		c.Items[i] = it
		if it.UnitPrice != nil {
			v := *it.UnitPrice
			c.Items[i].UnitPrice = &v
		}
	}
	return &c
}

func cloneRequirement(m *entity.MaterialRequirement) *entity.MaterialRequirement {
	c := *m
	c.CalculationDate = cloneTime(m.CalculationDate)
	c.PlanningEndDate = cloneTime(m.PlanningEndDate)
	c.SourceOrderIDs = append([]string(nil), m.SourceOrderIDs...)
	c.Items = append([]entity.MaterialRequirementItem(nil), m.Items...)
	return &c
}

// paginate aplica limit/offset sobre una lista ya ordenada. limit <= 0 devuelve todo desde offset.
func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortedProducts(list []*entity.Product) {
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
}
