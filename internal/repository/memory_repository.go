package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/locvowork/employee_details/internal/domain"
)

// MemoryEmployeeRepository keeps employees in process memory (for testing/dev).
type MemoryEmployeeRepository struct {
	mu     sync.RWMutex
	rows   map[int64]domain.Employee
	nextID int64
}

// NewMemoryEmployeeRepository creates an empty in-memory store.
func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{
		rows:   make(map[int64]domain.Employee),
		nextID: 1,
	}
}

// clone detaches ReportsTo so callers cannot mutate stored rows.
func clone(e domain.Employee) domain.Employee {
	if e.ReportsTo != nil {
		id := *e.ReportsTo
		e.ReportsTo = &id
	}
	return e
}

func (m *MemoryEmployeeRepository) FindAll(_ context.Context) ([]domain.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]domain.Employee, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(m.rows[id]))
	}
	return out, nil
}

func (m *MemoryEmployeeRepository) FindByID(_ context.Context, id int64) (domain.Employee, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.rows[id]
	if !ok {
		return domain.Employee{}, false, nil
	}
	return clone(e), true, nil
}

func (m *MemoryEmployeeRepository) Save(_ context.Context, e domain.Employee) (domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rows[e.ID]; e.IsNew() || !exists {
		e.ID = m.nextID
		m.nextID++
	}
	m.rows[e.ID] = clone(e)
	return clone(e), nil
}

func (m *MemoryEmployeeRepository) DeleteByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}
