package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/employee_details/internal/domain"
	"github.com/locvowork/employee_details/internal/observability/metrics"
	"github.com/locvowork/employee_details/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EmployeeHandler serves the employee API on top of an EmployeeService.
type EmployeeHandler struct {
	svc service.EmployeeService
}

// NewEmployeeHandler creates an EmployeeHandler.
func NewEmployeeHandler(svc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// Register mounts every employee route on g, usually the /api/v1/employee group.
func (h *EmployeeHandler) Register(g *echo.Group) {
	g.GET("/all", h.ListHandler)
	g.GET("/department/:department", h.ListByDepartmentHandler)
	g.GET("/average-salary", h.AverageSalaryHandler)
	g.GET("/sorted-by-salary", h.SortedBySalaryHandler)
	g.GET("/highest-paid", h.HighestPaidHandler)
	g.GET("/count-by-department", h.CountByDepartmentHandler)
	g.GET("/export", h.ExportHandler)
	g.PUT("/update-salaries/:percentageIncrease", h.IncreaseSalariesHandler)
	g.POST("/save", h.CreateHandler)
	g.GET("/:id", h.GetHandler)
	g.PUT("/:id", h.UpdateHandler)
	g.DELETE("/:id", h.DeleteHandler)
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// bindEmployee decodes the request body. A missing department is rejected the
// same way as an unknown one.
func bindEmployee(c echo.Context) (domain.Employee, error) {
	var req domain.Employee
	if err := c.Bind(&req); err != nil {
		return domain.Employee{}, err
	}
	if !req.Department.Valid() {
		return domain.Employee{}, fmt.Errorf("%w: %q", domain.ErrUnknownDepartment, req.Department)
	}
	return req, nil
}

func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	employees, err := h.svc.GetAll(c.Request().Context())
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to list employees", err)
	}
	return c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) GetHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return responseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	emp, ok, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to get employee", err)
	}
	if !ok {
		return responseError(c, http.StatusNotFound, fmt.Sprintf("Employee %d not found", id), nil)
	}
	return c.JSON(http.StatusOK, emp)
}

func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	req, err := bindEmployee(c)
	if err != nil {
		return responseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	saved, err := h.svc.Save(c.Request().Context(), req)
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to save employee", err)
	}
	return c.JSON(http.StatusCreated, saved)
}

// UpdateHandler overwrites an existing employee. The id in the path wins over
// any id in the body.
func (h *EmployeeHandler) UpdateHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return responseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	req, err := bindEmployee(c)
	if err != nil {
		return responseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	ctx := c.Request().Context()
	_, ok, err := h.svc.GetByID(ctx, id)
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to get employee", err)
	}
	if !ok {
		return responseError(c, http.StatusNotFound, fmt.Sprintf("Employee %d not found", id), nil)
	}

	req.ID = id
	saved, err := h.svc.Save(ctx, req)
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to update employee", err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *EmployeeHandler) DeleteHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return responseError(c, http.StatusBadRequest, "Invalid employee ID", err)
	}

	ctx := c.Request().Context()
	_, ok, err := h.svc.GetByID(ctx, id)
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to get employee", err)
	}
	if !ok {
		return responseError(c, http.StatusNotFound, fmt.Sprintf("Employee %d not found", id), nil)
	}

	if err := h.svc.DeleteByID(ctx, id); err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to delete employee", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EmployeeHandler) ListByDepartmentHandler(c echo.Context) error {
	dept, err := domain.ParseDepartment(c.Param("department"))
	if err != nil {
		return responseError(c, http.StatusBadRequest, "Invalid department", err)
	}

	employees, err := h.svc.GetByDepartment(c.Request().Context(), dept)
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to list employees by department", err)
	}
	return c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) AverageSalaryHandler(c echo.Context) error {
	avg, err := h.svc.AverageSalary(c.Request().Context())
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to compute average salary", err)
	}
	return c.JSON(http.StatusOK, avg)
}

func (h *EmployeeHandler) SortedBySalaryHandler(c echo.Context) error {
	employees, err := h.svc.SortedBySalaryDesc(c.Request().Context())
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to sort employees", err)
	}
	return c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) IncreaseSalariesHandler(c echo.Context) error {
	percentage, err := strconv.ParseFloat(c.Param("percentageIncrease"), 64)
	if err != nil {
		return responseError(c, http.StatusBadRequest, "Invalid percentage", err)
	}

	if err := h.svc.IncreaseSalaries(c.Request().Context(), percentage); err != nil {
		metrics.ObserveSalaryUpdate("error")
		return responseError(c, http.StatusInternalServerError, "Failed to update salaries", err)
	}
	metrics.ObserveSalaryUpdate("success")
	return c.NoContent(http.StatusOK)
}

func (h *EmployeeHandler) HighestPaidHandler(c echo.Context) error {
	emp, ok, err := h.svc.HighestPaid(c.Request().Context())
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to get highest paid employee", err)
	}
	if !ok {
		return responseError(c, http.StatusNotFound, "No employees found", nil)
	}
	return c.JSON(http.StatusOK, emp)
}

func (h *EmployeeHandler) CountByDepartmentHandler(c echo.Context) error {
	counts, err := h.svc.CountByDepartment(c.Request().Context())
	if err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to count employees", err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *EmployeeHandler) ExportHandler(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.svc.Export(c.Request().Context(), &buf); err != nil {
		return responseError(c, http.StatusInternalServerError, "Failed to generate excel file", err)
	}

	filename := fmt.Sprintf("employees_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().Header().Set("Content-Transfer-Encoding", "binary")
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
