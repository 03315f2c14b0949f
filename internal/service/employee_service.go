package service

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/locvowork/employee_details/internal/domain"
	"github.com/locvowork/employee_details/internal/logger"
)

// EmployeeService holds the business rules over the employee store.
// Every operation re-reads from the repository; nothing is cached between calls.
type EmployeeService interface {
	GetAll(ctx context.Context) ([]domain.Employee, error)
	GetByID(ctx context.Context, id int64) (domain.Employee, bool, error)
	Save(ctx context.Context, e domain.Employee) (domain.Employee, error)
	DeleteByID(ctx context.Context, id int64) error
	GetByDepartment(ctx context.Context, d domain.Department) ([]domain.Employee, error)
	AverageSalary(ctx context.Context) (float64, error)
	SortedBySalaryDesc(ctx context.Context) ([]domain.Employee, error)
	IncreaseSalaries(ctx context.Context, percentage float64) error
	HighestPaid(ctx context.Context) (domain.Employee, bool, error)
	CountByDepartment(ctx context.Context) (map[domain.Department]int64, error)
	Export(ctx context.Context, w io.Writer) error
}

type employeeService struct {
	repo domain.EmployeeRepository
}

// NewEmployeeService creates a new EmployeeService backed by repo.
func NewEmployeeService(repo domain.EmployeeRepository) EmployeeService {
	return &employeeService{repo: repo}
}

func (s *employeeService) GetAll(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.FindAll(ctx)
}

func (s *employeeService) GetByID(ctx context.Context, id int64) (domain.Employee, bool, error) {
	return s.repo.FindByID(ctx, id)
}

// Save rejects employees outside the known departments with
// domain.ErrUnknownDepartment before touching the store.
func (s *employeeService) Save(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	if !e.Department.Valid() {
		return domain.Employee{}, fmt.Errorf("%w: %q", domain.ErrUnknownDepartment, e.Department)
	}
	saved, err := s.repo.Save(ctx, e)
	if err != nil {
		return domain.Employee{}, err
	}
	logger.DebugLog(ctx, "saved employee %d", saved.ID)
	return saved, nil
}

func (s *employeeService) DeleteByID(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	logger.DebugLog(ctx, "deleted employee %d", id)
	return nil
}

// GetByDepartment keeps the employees of department d in storage order.
func (s *employeeService) GetByDepartment(ctx context.Context, d domain.Department) ([]domain.Employee, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Employee, 0, len(all))
	for _, e := range all {
		if e.Department == d {
			out = append(out, e)
		}
	}
	return out, nil
}

// AverageSalary is 0 when there are no employees.
func (s *employeeService) AverageSalary(ctx context.Context) (float64, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, nil
	}
	var sum float64
	for _, e := range all {
		sum += e.Salary
	}
	return sum / float64(len(all)), nil
}

// SortedBySalaryDesc orders highest salary first. Equal salaries keep storage order.
func (s *employeeService) SortedBySalaryDesc(ctx context.Context) ([]domain.Employee, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Salary > all[j].Salary
	})
	return all, nil
}

// IncreaseSalaries multiplies every salary by (1 + percentage/100) and saves
// each row on its own. There is no transaction: on failure the rows already
// saved stay updated and the error of the failing row is returned.
func (s *employeeService) IncreaseSalaries(ctx context.Context, percentage float64) error {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	factor := 1 + percentage/100
	for _, e := range all {
		e.Salary = e.Salary * factor
		if _, err := s.repo.Save(ctx, e); err != nil {
			return fmt.Errorf("failed to update salary of employee %d: %w", e.ID, err)
		}
	}
	logger.InfoLog(ctx, "increased salaries of %d employees by %g%%", len(all), percentage)
	return nil
}

// HighestPaid returns the employee with the largest salary; the first one in
// storage order wins a tie.
func (s *employeeService) HighestPaid(ctx context.Context) (domain.Employee, bool, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return domain.Employee{}, false, err
	}
	if len(all) == 0 {
		return domain.Employee{}, false, nil
	}
	best := all[0]
	for _, e := range all[1:] {
		if e.Salary > best.Salary {
			best = e
		}
	}
	return best, true, nil
}

// CountByDepartment only contains departments that have at least one employee.
func (s *employeeService) CountByDepartment(ctx context.Context) (map[domain.Department]int64, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.Department]int64)
	for _, e := range all {
		counts[e.Department]++
	}
	return counts, nil
}
