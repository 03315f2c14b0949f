package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDepartment is returned when a department value is outside the closed set.
var ErrUnknownDepartment = errors.New("unknown department")

// Department is the closed set of departments an employee can belong to.
type Department string

const (
	DepartmentCSE   Department = "CSE"
	DepartmentIT    Department = "IT"
	DepartmentECE   Department = "ECE"
	DepartmentEEE   Department = "EEE"
	DepartmentMECH  Department = "MECH"
	DepartmentCIVIL Department = "CIVIL"
)

var departments = []Department{
	DepartmentCSE,
	DepartmentIT,
	DepartmentECE,
	DepartmentEEE,
	DepartmentMECH,
	DepartmentCIVIL,
}

// Departments returns every known department in declaration order.
func Departments() []Department {
	out := make([]Department, len(departments))
	copy(out, departments)
	return out
}

// Valid reports whether d is one of the known departments.
func (d Department) Valid() bool {
	for _, known := range departments {
		if d == known {
			return true
		}
	}
	return false
}

func (d Department) String() string {
	return string(d)
}

// ParseDepartment converts s into a Department. Matching is exact.
func ParseDepartment(s string) (Department, error) {
	d := Department(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDepartment, s)
	}
	return d, nil
}

// UnmarshalJSON rejects values outside the closed set.
func (d *Department) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("department must be a string: %w", err)
	}
	parsed, err := ParseDepartment(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Employee is the single persisted entity of the service.
// ID is zero until the store assigns one on insert.
type Employee struct {
	ID         int64      `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Department Department `json:"department" db:"department"`
	Salary     float64    `json:"salary" db:"salary"`
	ReportsTo  *int64     `json:"reportsTo" db:"reports_to"`
}

// IsNew reports whether the employee has not been persisted yet.
func (e Employee) IsNew() bool {
	return e.ID == 0
}
