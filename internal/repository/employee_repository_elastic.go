package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/locvowork/employee_details/internal/domain"
	"github.com/olivere/elastic/v7"
)

const employeeIndexMapping = `{
	"mappings": {
		"properties": {
			"id":         {"type": "long"},
			"name":       {"type": "text"},
			"department": {"type": "keyword"},
			"salary":     {"type": "double"},
			"reportsTo":  {"type": "long"}
		}
	}
}`

// sequenceDocID is the document whose _version serves as the id counter.
const sequenceDocID = "employee"

type elasticEmployeeRepository struct {
	client        *elastic.Client
	index         string
	sequenceIndex string
}

// NewElasticEmployeeRepository stores employees as documents of index, creating
// the index on first use. Ids come from the version counter of a document in
// "<index>_sequence".
func NewElasticEmployeeRepository(ctx context.Context, client *elastic.Client, index string) (domain.EmployeeRepository, error) {
	r := &elasticEmployeeRepository{
		client:        client,
		index:         index,
		sequenceIndex: index + "_sequence",
	}

	exists, err := client.IndexExists(index).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check index %s: %w", index, err)
	}
	if !exists {
		if _, err := client.CreateIndex(index).BodyString(employeeIndexMapping).Do(ctx); err != nil {
			return nil, fmt.Errorf("failed to create index %s: %w", index, err)
		}
	}
	return r, nil
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// FindAll scrolls the whole index sorted by id.
func (r *elasticEmployeeRepository) FindAll(ctx context.Context) ([]domain.Employee, error) {
	employees := make([]domain.Employee, 0)

	scroll := r.client.Scroll(r.index).
		Size(1000).
		KeepAlive("1m").
		Sort("id", true)
	defer scroll.Clear(context.Background())

	for {
		results, err := scroll.Do(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scroll error: %w", err)
		}

		for _, hit := range results.Hits.Hits {
			var e domain.Employee
			if err := json.Unmarshal(hit.Source, &e); err != nil {
				return nil, fmt.Errorf("failed to unmarshal employee %s: %w", hit.Id, err)
			}
			employees = append(employees, e)
		}
	}
	return employees, nil
}

func (r *elasticEmployeeRepository) FindByID(ctx context.Context, id int64) (domain.Employee, bool, error) {
	result, err := r.client.Get().
		Index(r.index).
		Id(docID(id)).
		Do(ctx)
	if elastic.IsNotFound(err) {
		return domain.Employee{}, false, nil
	}
	if err != nil {
		return domain.Employee{}, false, fmt.Errorf("failed to get employee %d: %w", id, err)
	}
	if !result.Found {
		return domain.Employee{}, false, nil
	}

	var e domain.Employee
	if err := json.Unmarshal(result.Source, &e); err != nil {
		return domain.Employee{}, false, fmt.Errorf("failed to unmarshal employee %d: %w", id, err)
	}
	return e, true, nil
}

func (r *elasticEmployeeRepository) nextID(ctx context.Context) (int64, error) {
	resp, err := r.client.Index().
		Index(r.sequenceIndex).
		Id(sequenceDocID).
		BodyJson(map[string]interface{}{}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate employee id: %w", err)
	}
	return resp.Version, nil
}

func (r *elasticEmployeeRepository) Save(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	exists := false
	if !e.IsNew() {
		var err error
		exists, err = r.client.Exists().Index(r.index).Id(docID(e.ID)).Do(ctx)
		if err != nil {
			return domain.Employee{}, fmt.Errorf("failed to check employee %d: %w", e.ID, err)
		}
	}
	if !exists {
		id, err := r.nextID(ctx)
		if err != nil {
			return domain.Employee{}, err
		}
		e.ID = id
	}

	_, err := r.client.Index().
		Index(r.index).
		Id(docID(e.ID)).
		BodyJson(e).
		Refresh("true"). // Make changes immediately visible to FindAll
		Do(ctx)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("failed to index employee %d: %w", e.ID, err)
	}
	return e, nil
}

func (r *elasticEmployeeRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.client.Delete().
		Index(r.index).
		Id(docID(id)).
		Refresh("true").
		Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	return nil
}
