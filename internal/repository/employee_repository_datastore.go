package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/employee_details/internal/domain"
)

// employeeEntity is the Datastore representation of an employee. The id lives in the key.
type employeeEntity struct {
	Name         string  `datastore:"Name"`
	Department   string  `datastore:"Department"`
	Salary       float64 `datastore:"Salary"`
	ReportsTo    int64   `datastore:"ReportsTo,noindex"`
	HasReportsTo bool    `datastore:"HasReportsTo,noindex"`
}

func toEmployeeEntity(e domain.Employee) *employeeEntity {
	ent := &employeeEntity{
		Name:       e.Name,
		Department: string(e.Department),
		Salary:     e.Salary,
	}
	if e.ReportsTo != nil {
		ent.ReportsTo = *e.ReportsTo
		ent.HasReportsTo = true
	}
	return ent
}

func fromEmployeeEntity(key *datastore.Key, ent employeeEntity) domain.Employee {
	e := domain.Employee{
		ID:         key.ID,
		Name:       ent.Name,
		Department: domain.Department(ent.Department),
		Salary:     ent.Salary,
	}
	if ent.HasReportsTo {
		id := ent.ReportsTo
		e.ReportsTo = &id
	}
	return e
}

type datastoreEmployeeRepository struct {
	client *datastore.Client
	kind   string
}

// NewDatastoreEmployeeRepository stores employees as entities of kind with
// Datastore-allocated numeric ids.
func NewDatastoreEmployeeRepository(client *datastore.Client, kind string) domain.EmployeeRepository {
	return &datastoreEmployeeRepository{client: client, kind: kind}
}

func (r *datastoreEmployeeRepository) FindAll(ctx context.Context) ([]domain.Employee, error) {
	var entities []employeeEntity
	q := datastore.NewQuery(r.kind).Order("__key__")

	keys, err := r.client.GetAll(ctx, q, &entities)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}

	employees := make([]domain.Employee, 0, len(keys))
	for i, key := range keys {
		employees = append(employees, fromEmployeeEntity(key, entities[i]))
	}
	return employees, nil
}

func (r *datastoreEmployeeRepository) FindByID(ctx context.Context, id int64) (domain.Employee, bool, error) {
	key := datastore.IDKey(r.kind, id, nil)

	var ent employeeEntity
	err := r.client.Get(ctx, key, &ent)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return domain.Employee{}, false, nil
	}
	if err != nil {
		return domain.Employee{}, false, fmt.Errorf("failed to get employee %d: %w", id, err)
	}
	return fromEmployeeEntity(key, ent), true, nil
}

func (r *datastoreEmployeeRepository) Save(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	key := datastore.IncompleteKey(r.kind, nil)
	if !e.IsNew() {
		_, exists, err := r.FindByID(ctx, e.ID)
		if err != nil {
			return domain.Employee{}, err
		}
		if exists {
			key = datastore.IDKey(r.kind, e.ID, nil)
		}
	}

	saved, err := r.client.Put(ctx, key, toEmployeeEntity(e))
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to save employee: %w", err)
	}
	e.ID = saved.ID
	return e, nil
}

func (r *datastoreEmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, datastore.IDKey(r.kind, id, nil)); err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	return nil
}
