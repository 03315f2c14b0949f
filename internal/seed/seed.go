// Package seed loads employee fixtures from YAML and writes them through the
// employee service.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/locvowork/employee_details/internal/domain"
	"github.com/locvowork/employee_details/internal/logger"
	"github.com/locvowork/employee_details/pkg/dataflow"
)

// Record is one employee entry of a fixture file.
type Record struct {
	Name       string  `yaml:"name"`
	Department string  `yaml:"department"`
	Salary     float64 `yaml:"salary"`
	ReportsTo  *int64  `yaml:"reportsTo"`
}

type fixture struct {
	Employees []Record `yaml:"employees"`
}

// Store is the subset of the employee service the seeder writes through.
type Store interface {
	GetAll(ctx context.Context) ([]domain.Employee, error)
	Save(ctx context.Context, e domain.Employee) (domain.Employee, error)
	DeleteByID(ctx context.Context, id int64) error
}

type Options struct {
	Workers int
	Retries int
	Backoff time.Duration
}

// DefaultOptions saves with four workers and three retries per record.
func DefaultOptions() Options {
	return Options{Workers: 4, Retries: 3, Backoff: 200 * time.Millisecond}
}

type Result struct {
	Saved   int64
	Skipped int64
	Failed  int64
}

// Parse decodes a fixture document.
func Parse(r io.Reader) ([]Record, error) {
	var f fixture
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if f.Employees == nil {
		return []Record{}, nil
	}
	return f.Employees, nil
}

// LoadFile reads and decodes the fixture at path.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open yaml file: %w", err)
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ToEmployee converts r into a new, unsaved employee.
func (r Record) ToEmployee() (domain.Employee, error) {
	d, err := domain.ParseDepartment(strings.TrimSpace(r.Department))
	if err != nil {
		return domain.Employee{}, err
	}
	return domain.Employee{
		Name:       r.Name,
		Department: d,
		Salary:     r.Salary,
		ReportsTo:  r.ReportsTo,
	}, nil
}

// Run saves every record of every source. Records with an unknown department
// are skipped and records whose save still fails after the retries are
// counted as failed; neither stops the run.
func Run(ctx context.Context, store Store, sources [][]Record, opts Options) (Result, error) {
	var res Result

	streams := make([]dataflow.Stream[Record], 0, len(sources))
	for _, records := range sources {
		streams = append(streams, dataflow.From(ctx, records...))
	}

	valid := dataflow.Filter(ctx, dataflow.FanIn(ctx, streams...), func(r Record) bool {
		if _, err := r.ToEmployee(); err != nil {
			logger.WarnLog(ctx, "skipping %q: %v", r.Name, err)
			atomic.AddInt64(&res.Skipped, 1)
			return false
		}
		return true
	})

	employees := dataflow.Map(ctx, valid, Record.ToEmployee)

	err := dataflow.ForEach(ctx, employees, func(e domain.Employee) error {
		saved, err := store.Save(ctx, e)
		if err != nil {
			return fmt.Errorf("save %q: %w", e.Name, err)
		}
		atomic.AddInt64(&res.Saved, 1)
		logger.DebugLog(ctx, "seeded employee %d (%s)", saved.ID, saved.Name)
		return nil
	},
		dataflow.WithWorkers(opts.Workers),
		dataflow.WithRetry(opts.Retries, dataflow.ConstantBackoff(opts.Backoff)),
		dataflow.WithErrorHandler(func(err error) bool {
			logger.ErrorLog(ctx, "failed to seed employee", err)
			atomic.AddInt64(&res.Failed, 1)
			return true
		}),
	)
	return res, err
}

// Clear deletes every stored employee and returns how many were removed,
// including on a failure partway.
func Clear(ctx context.Context, store Store) (int, error) {
	all, err := store.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	for i, e := range all {
		if err := store.DeleteByID(ctx, e.ID); err != nil {
			return i, fmt.Errorf("delete employee %d: %w", e.ID, err)
		}
	}
	return len(all), nil
}
