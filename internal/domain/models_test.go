package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDepartment(t *testing.T) {
	t.Run("Known", func(t *testing.T) {
		for _, d := range Departments() {
			got, err := ParseDepartment(string(d))
			require.NoError(t, err)
			assert.Equal(t, d, got)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := ParseDepartment("HR")
		assert.True(t, errors.Is(err, ErrUnknownDepartment))
	})

	t.Run("CaseSensitive", func(t *testing.T) {
		_, err := ParseDepartment("cse")
		assert.Error(t, err)
	})
}

func TestEmployeeJSON(t *testing.T) {
	t.Run("DecodeWithoutID", func(t *testing.T) {
		var e Employee
		err := json.Unmarshal([]byte(`{"id":null,"name":"John Doe","department":"CSE","salary":50000,"reportsTo":null}`), &e)
		require.NoError(t, err)
		assert.True(t, e.IsNew())
		assert.Equal(t, DepartmentCSE, e.Department)
		assert.Nil(t, e.ReportsTo)
	})

	t.Run("DecodeReportsTo", func(t *testing.T) {
		var e Employee
		err := json.Unmarshal([]byte(`{"id":2,"name":"Jane Smith","department":"IT","salary":60000,"reportsTo":1}`), &e)
		require.NoError(t, err)
		require.NotNil(t, e.ReportsTo)
		assert.Equal(t, int64(1), *e.ReportsTo)
	})

	t.Run("RejectUnknownDepartment", func(t *testing.T) {
		var e Employee
		err := json.Unmarshal([]byte(`{"name":"X","department":"SALES","salary":1}`), &e)
		assert.True(t, errors.Is(err, ErrUnknownDepartment))
	})

	t.Run("EncodeFieldNames", func(t *testing.T) {
		data, err := json.Marshal(Employee{ID: 7, Name: "A", Department: DepartmentIT, Salary: 1.5})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":7,"name":"A","department":"IT","salary":1.5,"reportsTo":null}`, string(data))
	})
}
