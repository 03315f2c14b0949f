package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/locvowork/employee_details/internal/domain"
	"github.com/redis/go-redis/v9"
)

// redisEmployeeRepository keeps each employee as a JSON string under
// "<prefix>:<id>", an id sorted set under "<prefix>:ids" for ordered scans and
// an INCR counter under "<prefix>:seq".
type redisEmployeeRepository struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisEmployeeRepository creates an EmployeeRepository on top of Redis.
func NewRedisEmployeeRepository(rdb *redis.Client, prefix string) domain.EmployeeRepository {
	return &redisEmployeeRepository{rdb: rdb, prefix: prefix}
}

func (r *redisEmployeeRepository) rowKey(id int64) string {
	return r.prefix + ":" + strconv.FormatInt(id, 10)
}

func (r *redisEmployeeRepository) idsKey() string {
	return r.prefix + ":ids"
}

func (r *redisEmployeeRepository) seqKey() string {
	return r.prefix + ":seq"
}

func (r *redisEmployeeRepository) FindAll(ctx context.Context) ([]domain.Employee, error) {
	ids, err := r.rdb.ZRange(ctx, r.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list employee ids: %w", err)
	}
	employees := make([]domain.Employee, 0, len(ids))
	if len(ids) == 0 {
		return employees, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.prefix + ":" + id
	}
	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Deleted between ZRANGE and MGET.
			continue
		}
		var e domain.Employee
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal employee %s: %w", ids[i], err)
		}
		employees = append(employees, e)
	}
	return employees, nil
}

func (r *redisEmployeeRepository) FindByID(ctx context.Context, id int64) (domain.Employee, bool, error) {
	raw, err := r.rdb.Get(ctx, r.rowKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Employee{}, false, nil
	}
	if err != nil {
		return domain.Employee{}, false, fmt.Errorf("failed to get employee %d: %w", id, err)
	}

	var e domain.Employee
	if err := json.Unmarshal(raw, &e); err != nil {
		return domain.Employee{}, false, fmt.Errorf("failed to unmarshal employee %d: %w", id, err)
	}
	return e, true, nil
}

func (r *redisEmployeeRepository) Save(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	exists := false
	if !e.IsNew() {
		n, err := r.rdb.Exists(ctx, r.rowKey(e.ID)).Result()
		if err != nil {
			return domain.Employee{}, fmt.Errorf("failed to check employee %d: %w", e.ID, err)
		}
		exists = n > 0
	}
	if !exists {
		id, err := r.rdb.Incr(ctx, r.seqKey()).Result()
		if err != nil {
			return domain.Employee{}, fmt.Errorf("failed to allocate employee id: %w", err)
		}
		e.ID = id
	}

	data, err := json.Marshal(e)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to marshal employee: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.rowKey(e.ID), data, 0)
		pipe.ZAdd(ctx, r.idsKey(), redis.Z{Score: float64(e.ID), Member: strconv.FormatInt(e.ID, 10)})
		return nil
	})
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to store employee %d: %w", e.ID, err)
	}
	return e, nil
}

func (r *redisEmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.rowKey(id))
		pipe.ZRem(ctx, r.idsKey(), strconv.FormatInt(id, 10))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	return nil
}
