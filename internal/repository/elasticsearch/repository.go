// internal/repository/elasticsearch/repository.go
package elasticsearch

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/goccy/go-json"

	"property-matching/internal/common/errors"
	"property-matching/internal/common/logger"
	"property-matching/internal/models"
)

// Repository is a read-only property catalog over an Elasticsearch index.
type Repository struct {
	client *es.Client
	index  string
	logger logger.Logger
}

func NewRepository(client *es.Client, index string, log logger.Logger) *Repository {
	return &Repository{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"repository": "elasticsearch", "index": index}),
	}
}

// document mirrors the indexed field names.
type document struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	Price        int64            `json:"price"`
	PropertyType string           `json:"property_type"`
	Bedrooms     *int             `json:"bedrooms"`
	Bathrooms    *int             `json:"bathrooms"`
	Surface      *int             `json:"surface"`
	Location     string           `json:"location"`
	Latitude     *float64         `json:"latitude"`
	Longitude    *float64         `json:"longitude"`
	Features     []models.Feature `json:"features"`
	Available    bool             `json:"available"`
	YearBuilt    *int             `json:"year_built"`
	CreatedAt    time.Time        `json:"created_at"`
}

func (d document) property() models.Property {
	return models.Property{
		ID:        d.ID,
		Title:     d.Title,
		Price:     d.Price,
		Type:      models.NormalizePropertyType(d.PropertyType),
		Bedrooms:  d.Bedrooms,
		Bathrooms: d.Bathrooms,
		Surface:   d.Surface,
		Location:  d.Location,
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
		Features:  d.Features,
		Available: d.Available,
		YearBuilt: d.YearBuilt,
		CreatedAt: d.CreatedAt,
	}
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Hits []struct {
			Source document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type getResponse struct {
	Found  bool     `json:"found"`
	Source document `json:"_source"`
}

type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func (r *Repository) Search(ctx context.Context, c models.SearchCriteria) ([]models.Property, error) {
	body, err := json.Marshal(buildSearchQuery(c))
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(string(models.QueryTypePropertySearch), err)
	}

	req := esapi.SearchRequest{
		Index: []string{r.index},
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, r.transportError(ctx, models.QueryTypePropertySearch, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, r.responseError(res, models.QueryTypePropertySearch)
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(string(models.QueryTypePropertySearch), fmt.Errorf("decode response: %w", err))
	}

	out := make([]models.Property, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		out = append(out, hit.Source.property())
	}

	r.logger.Debug("search executed", map[string]interface{}{
		"hits":   len(out),
		"tookMs": parsed.Took,
	})
	return out, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	req := esapi.GetRequest{
		Index:      r.index,
		DocumentID: strconv.FormatInt(id, 10),
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		return nil, r.transportError(ctx, models.QueryTypePropertyByID, err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, r.transportError(ctx, models.QueryTypePropertyByID, err)
	}

	if res.StatusCode == http.StatusNotFound {
		var er errorResponse
		if json.Unmarshal(payload, &er) == nil && er.Error.Type == "index_not_found_exception" {
			return nil, errors.NewIndexNotFoundError(r.index)
		}
		return nil, nil
	}
	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(string(models.QueryTypePropertyByID), fmt.Errorf("status %s", res.Status()))
	}

	var parsed getResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(string(models.QueryTypePropertyByID), fmt.Errorf("decode response: %w", err))
	}
	if !parsed.Found {
		return nil, nil
	}
	p := parsed.Source.property()
	return &p, nil
}

func (r *Repository) transportError(ctx context.Context, queryType models.QueryType, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewSearchTimeoutError(string(queryType))
	}
	return errors.NewElasticsearchConnectionFailedError(err)
}

func (r *Repository) responseError(res *esapi.Response, queryType models.QueryType) error {
	var er errorResponse
	_ = json.NewDecoder(res.Body).Decode(&er)

	if res.StatusCode == http.StatusNotFound || er.Error.Type == "index_not_found_exception" {
		return errors.NewIndexNotFoundError(r.index)
	}
	return errors.NewSearchQueryFailedError(string(queryType), fmt.Errorf("%s: %s %s", res.Status(), er.Error.Type, er.Error.Reason))
}
