package database

import (
	"context"
	"fmt"

	"github.com/olivere/elastic/v7"
)

// NewElasticClient creates a client for Elasticsearch 7.x and checks the node answers.
func NewElasticClient(ctx context.Context, url string) (*elastic.Client, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false), // Essential when using Docker or cloud
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	if _, _, err := client.Ping(url).Do(ctx); err != nil {
		client.Stop()
		return nil, fmt.Errorf("failed to ping Elasticsearch: %w", err)
	}
	return client, nil
}
