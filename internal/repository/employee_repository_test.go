package repository

import (
	"context"
	"sort"
	"testing"

	"github.com/locvowork/employee_details/internal/database"
	"github.com/locvowork/employee_details/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func newSQLiteRepository(t *testing.T) domain.EmployeeRepository {
	t.Helper()
	db, err := database.NewSQLiteDB(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLEmployeeRepository(db)
}

func newMemoryRepository(t *testing.T) domain.EmployeeRepository {
	t.Helper()
	return NewMemoryEmployeeRepository()
}

func TestEmployeeRepositories(t *testing.T) {
	stores := map[string]func(*testing.T) domain.EmployeeRepository{
		"Memory": newMemoryRepository,
		"SQLite": newSQLiteRepository,
	}
	for name, newRepo := range stores {
		t.Run(name, func(t *testing.T) {
			runRepositoryContract(t, newRepo)
		})
	}
}

func runRepositoryContract(t *testing.T, newRepo func(*testing.T) domain.EmployeeRepository) {
	ctx := context.Background()

	t.Run("EmptyFindAll", func(t *testing.T) {
		repo := newRepo(t)
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("SaveAssignsIDAndRoundTrips", func(t *testing.T) {
		repo := newRepo(t)
		in := domain.Employee{Name: "Jane Smith", Department: domain.DepartmentCSE, Salary: 60000, ReportsTo: int64Ptr(1)}

		saved, err := repo.Save(ctx, in)
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)

		got, ok, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, saved, got)
		require.NotNil(t, got.ReportsTo)
		assert.Equal(t, int64(1), *got.ReportsTo)
	})

	t.Run("FindByIDAbsent", func(t *testing.T) {
		repo := newRepo(t)
		_, ok, err := repo.FindByID(ctx, 999)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("SaveExistingOverwrites", func(t *testing.T) {
		repo := newRepo(t)
		saved, err := repo.Save(ctx, domain.Employee{Name: "John Doe", Department: domain.DepartmentIT, Salary: 50000})
		require.NoError(t, err)

		saved.Name = "John Q. Doe"
		saved.Salary = 51000
		saved.ReportsTo = int64Ptr(7)
		updated, err := repo.Save(ctx, saved)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, updated.ID)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "John Q. Doe", all[0].Name)
		assert.Equal(t, 51000.0, all[0].Salary)
	})

	t.Run("SaveUnknownIDInsertsNewRow", func(t *testing.T) {
		repo := newRepo(t)
		first, err := repo.Save(ctx, domain.Employee{Name: "A", Department: domain.DepartmentIT, Salary: 1})
		require.NoError(t, err)

		saved, err := repo.Save(ctx, domain.Employee{ID: 4242, Name: "B", Department: domain.DepartmentECE, Salary: 2})
		require.NoError(t, err)
		assert.NotEqual(t, int64(4242), saved.ID)
		assert.NotEqual(t, first.ID, saved.ID)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("FindAllOrderedByID", func(t *testing.T) {
		repo := newRepo(t)
		byID := map[int64]string{}
		ids := make([]int64, 0, 3)
		for _, name := range []string{"first", "second", "third"} {
			saved, err := repo.Save(ctx, domain.Employee{Name: name, Department: domain.DepartmentCSE, Salary: 10})
			require.NoError(t, err)
			byID[saved.ID] = name
			ids = append(ids, saved.ID)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i, e := range all {
			assert.Equal(t, ids[i], e.ID)
			assert.Equal(t, byID[e.ID], e.Name)
		}
	})

	t.Run("DeleteByID", func(t *testing.T) {
		repo := newRepo(t)
		saved, err := repo.Save(ctx, domain.Employee{Name: "Gone", Department: domain.DepartmentMECH, Salary: 5})
		require.NoError(t, err)

		require.NoError(t, repo.DeleteByID(ctx, saved.ID))
		_, ok, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		// Deleting again is a no-op.
		assert.NoError(t, repo.DeleteByID(ctx, saved.ID))
	})

	t.Run("ReturnedRowsAreDetached", func(t *testing.T) {
		repo := newRepo(t)
		saved, err := repo.Save(ctx, domain.Employee{Name: "C", Department: domain.DepartmentEEE, Salary: 3, ReportsTo: int64Ptr(1)})
		require.NoError(t, err)

		*saved.ReportsTo = 99
		got, _, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), *got.ReportsTo)
	})
}
