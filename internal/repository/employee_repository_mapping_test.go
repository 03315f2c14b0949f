package repository

import (
	"testing"

	"cloud.google.com/go/datastore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/locvowork/employee_details/internal/domain"
)

func TestDatastoreEntityMapping(t *testing.T) {
	in := domain.Employee{Name: "Alice", Department: domain.DepartmentCSE, Salary: 50000, ReportsTo: int64Ptr(3)}
	ent := toEmployeeEntity(in)
	assert.True(t, ent.HasReportsTo)

	out := fromEmployeeEntity(datastore.IDKey("Employee", 9, nil), *ent)
	in.ID = 9
	assert.Equal(t, in, out)

	// a zero manager id is still a manager
	ent = toEmployeeEntity(domain.Employee{Name: "Bob", Department: domain.DepartmentIT, ReportsTo: int64Ptr(0)})
	out = fromEmployeeEntity(datastore.IDKey("Employee", 1, nil), *ent)
	if assert.NotNil(t, out.ReportsTo) {
		assert.Equal(t, int64(0), *out.ReportsTo)
	}

	out = fromEmployeeEntity(datastore.IDKey("Employee", 2, nil), *toEmployeeEntity(domain.Employee{Name: "Carol"}))
	assert.Nil(t, out.ReportsTo)
}

func TestRedisKeys(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer rdb.Close()

	r := NewRedisEmployeeRepository(rdb, "employees").(*redisEmployeeRepository)
	assert.Equal(t, "employees:42", r.rowKey(42))
	assert.Equal(t, "employees:ids", r.idsKey())
	assert.Equal(t, "employees:seq", r.seqKey())
}

func TestElasticDocID(t *testing.T) {
	assert.Equal(t, "17", docID(17))
}
