package domain

import "context"

// EmployeeRepository is the storage collaborator behind the employee service.
// Implementations serialize writes themselves; callers hold no locks.
type EmployeeRepository interface {
	// FindAll returns every employee ordered by ascending id.
	FindAll(ctx context.Context) ([]Employee, error)
	// FindByID returns the employee with the given id. The bool is false when absent.
	FindByID(ctx context.Context, id int64) (Employee, bool, error)
	// Save inserts e when e.ID is zero, otherwise overwrites the row with e.ID.
	Save(ctx context.Context, e Employee) (Employee, error)
	// DeleteByID removes the row. Deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id int64) error
}
