package service

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/locvowork/employee_details/internal/domain"
	"github.com/locvowork/employee_details/internal/logger"
	"github.com/locvowork/employee_details/pkg/simpleexcel"
)

const (
	EmployeeSheetName = "Employees"
	SummarySheetName  = "Summary"
)

type departmentCount struct {
	Department string
	Count      int64
}

type summaryLine struct {
	Label string
	Value string
}

func formatMoney(v interface{}) interface{} {
	salary, ok := v.(float64)
	if !ok {
		return v
	}
	return decimal.NewFromFloat(salary).StringFixed(2)
}

// Export writes all employees plus a per-department summary as an xlsx workbook.
func (s *employeeService) Export(ctx context.Context, w io.Writer) error {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}

	counts := make(map[domain.Department]int64)
	total := decimal.Zero
	for _, e := range all {
		counts[e.Department]++
		total = total.Add(decimal.NewFromFloat(e.Salary))
	}
	average := decimal.Zero
	if len(all) > 0 {
		average = total.Div(decimal.NewFromInt(int64(len(all))))
	}

	// fixed department order keeps the summary stable between exports
	byDepartment := make([]departmentCount, 0, len(counts))
	for _, d := range domain.Departments() {
		if n, ok := counts[d]; ok {
			byDepartment = append(byDepartment, departmentCount{Department: d.String(), Count: n})
		}
	}

	err = simpleexcel.NewDataExporter().
		AddSheet(EmployeeSheetName).
		AddSection(&simpleexcel.SectionConfig{
			Title:      "Employees",
			ShowHeader: true,
			Data:       all,
			Columns: []simpleexcel.ColumnConfig{
				{FieldName: "ID", Header: "ID", Width: 10},
				{FieldName: "Name", Header: "Name", Width: 30},
				{FieldName: "Department", Header: "Department", Width: 14},
				{FieldName: "Salary", Header: "Salary", Width: 16, Formatter: formatMoney},
				{FieldName: "ReportsTo", Header: "Reports To", Width: 12},
			},
		}).
		Build().
		AddSheet(SummarySheetName).
		AddSection(&simpleexcel.SectionConfig{
			Title:      "Employees by department",
			ShowHeader: true,
			Data:       byDepartment,
			Columns: []simpleexcel.ColumnConfig{
				{FieldName: "Department", Header: "Department", Width: 26},
				{FieldName: "Count", Header: "Count", Width: 16},
			},
		}).
		AddSection(&simpleexcel.SectionConfig{
			Data: []summaryLine{
				{Label: "Total employees", Value: fmt.Sprintf("%d", len(all))},
				{Label: "Average salary", Value: average.StringFixed(2)},
			},
			Columns: []simpleexcel.ColumnConfig{
				{FieldName: "Label"},
				{FieldName: "Value"},
			},
		}).
		Build().
		ToWriter(w)
	if err != nil {
		return fmt.Errorf("failed to export employees: %w", err)
	}

	logger.InfoLog(ctx, "exported %d employees", len(all))
	return nil
}
