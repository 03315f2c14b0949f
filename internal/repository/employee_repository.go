package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/locvowork/employee_details/internal/database"
	"github.com/locvowork/employee_details/internal/domain"
	"github.com/locvowork/employee_details/internal/repository/builder"
)

var employeeColumns = []string{"id", "name", "department", "salary", "reports_to"}

type sqlEmployeeRepository struct {
	db *sql.DB
}

// NewSQLEmployeeRepository creates an EmployeeRepository over PostgreSQL or SQLite.
func NewSQLEmployeeRepository(db *sql.DB) domain.EmployeeRepository {
	return &sqlEmployeeRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (domain.Employee, error) {
	var (
		e          domain.Employee
		department string
		reportsTo  sql.NullInt64
	)
	if err := row.Scan(&e.ID, &e.Name, &department, &e.Salary, &reportsTo); err != nil {
		return domain.Employee{}, err
	}
	e.Department = domain.Department(department)
	if reportsTo.Valid {
		id := reportsTo.Int64
		e.ReportsTo = &id
	}
	return e, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func (r *sqlEmployeeRepository) FindAll(ctx context.Context) ([]domain.Employee, error) {
	query, args := builder.NewSQLBuilder().
		Select(employeeColumns...).
		From(database.EmployeeTable).
		OrderBy("id ASC").
		Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return employees, nil
}

func (r *sqlEmployeeRepository) FindByID(ctx context.Context, id int64) (domain.Employee, bool, error) {
	query, args := builder.NewSQLBuilder().
		Select(employeeColumns...).
		From(database.EmployeeTable).
		Where("id = ?", id).
		Limit(1).
		Build()

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Employee{}, false, nil
	}
	if err != nil {
		return domain.Employee{}, false, fmt.Errorf("failed to get employee %d: %w", id, err)
	}
	return e, true, nil
}

// Save updates the row with e.ID when it exists; otherwise it inserts a new
// row and the database assigns the id.
func (r *sqlEmployeeRepository) Save(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	if !e.IsNew() {
		updated, err := r.update(ctx, e)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return domain.Employee{}, fmt.Errorf("failed to update employee %d: %w", e.ID, err)
		}
	}
	return r.insert(ctx, e)
}

func (r *sqlEmployeeRepository) update(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	query, args := builder.NewSQLBuilder().
		Update(database.EmployeeTable).
		Set("name", e.Name).
		Set("department", string(e.Department)).
		Set("salary", e.Salary).
		Set("reports_to", nullableID(e.ReportsTo)).
		Where("id = ?", e.ID).
		Returning(employeeColumns...).
		Build()

	return scanEmployee(r.db.QueryRowContext(ctx, query, args...))
}

func (r *sqlEmployeeRepository) insert(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	query, args := builder.NewSQLBuilder().
		Insert(database.EmployeeTable, "name", "department", "salary", "reports_to").
		Values(e.Name, string(e.Department), e.Salary, nullableID(e.ReportsTo)).
		Returning(employeeColumns...).
		Build()

	saved, err := scanEmployee(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return saved, nil
}

func (r *sqlEmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	query, args := builder.NewSQLBuilder().
		Delete(database.EmployeeTable).
		Where("id = ?", id).
		Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	return nil
}
