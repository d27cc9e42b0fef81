package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klokku/okc/internal/config"
	"github.com/klokku/okc/internal/utils"
	log "github.com/sirupsen/logrus"
)

// NotionStore reads and writes bundles in a Notion data source.
type NotionStore struct {
	httpClient   *http.Client
	baseUrl      string
	apiToken     string
	version      string
	dataSourceId string
	clock        utils.Clock
}

func NewNotionStore(cfg config.Notion, httpClient *http.Client, clock utils.Clock) *NotionStore {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &NotionStore{
		httpClient:   httpClient,
		baseUrl:      strings.TrimRight(cfg.BaseUrl, "/"),
		apiToken:     cfg.ApiToken,
		version:      cfg.Version,
		dataSourceId: cfg.BundlesDbId,
		clock:        clock,
	}
}

type queryFilter struct {
	Property string       `json:"property"`
	Title    *equalsValue `json:"title,omitempty"`
	Status   *equalsValue `json:"status,omitempty"`
}

type equalsValue struct {
	Equals string `json:"equals"`
}

type queryRequest struct {
	Filter      queryFilter `json:"filter"`
	Sorts       []Sort      `json:"sorts,omitempty"`
	PageSize    int         `json:"page_size,omitempty"`
	StartCursor string      `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

type updateRequest struct {
	Properties map[string]PropertyValue `json:"properties"`
}

type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FindByName queries the data source for a page whose title equals name
func (s *NotionStore) FindByName(ctx context.Context, name string) (*Bundle, error) {
	response, err := s.query(ctx, queryRequest{
		Filter: queryFilter{Property: "title", Title: &equalsValue{Equals: name}},
	})
	if err != nil {
		return nil, err
	}

	pages := pagesOnly(response.Results)
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no bundle named %q", ErrNotFound, name)
	}
	return Decode(pages[0], s.clock.Now()), nil
}

// ListByStatus returns one page of bundles in the given status
func (s *NotionStore) ListByStatus(ctx context.Context, status Status, opts ListOptions) (ListResult, error) {
	response, err := s.query(ctx, queryRequest{
		Filter:      queryFilter{Property: propertyStatus, Status: &equalsValue{Equals: string(status)}},
		Sorts:       opts.Sorts,
		PageSize:    opts.PageSize,
		StartCursor: opts.StartCursor,
	})
	if err != nil {
		return ListResult{}, err
	}

	now := s.clock.Now()
	pages := pagesOnly(response.Results)
	bundles := make([]*Bundle, 0, len(pages))
	for _, page := range pages {
		bundles = append(bundles, Decode(page, now))
	}

	result := ListResult{Bundles: bundles, HasMore: response.HasMore}
	if response.NextCursor != nil {
		result.NextCursor = *response.NextCursor
	}
	return result, nil
}

// Save updates the bundle's page properties
func (s *NotionStore) Save(ctx context.Context, bundle *Bundle) error {
	if bundle.Id == "" {
		return fmt.Errorf("cannot save bundle %q without a page id", bundle.Name)
	}
	log.Debugf("Saving %s", bundle)
	return s.doRequest(ctx, http.MethodPatch, "/pages/"+bundle.Id, updateRequest{Properties: encode(bundle)}, nil)
}

func (s *NotionStore) query(ctx context.Context, request queryRequest) (queryResponse, error) {
	var response queryResponse
	path := fmt.Sprintf("/data_sources/%s/query", s.dataSourceId)
	if err := s.doRequest(ctx, http.MethodPost, path, request, &response); err != nil {
		return queryResponse{}, err
	}
	return response, nil
}

func (s *NotionStore) doRequest(ctx context.Context, method, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("unable to encode Notion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseUrl+path, bytes.NewReader(payload))
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiToken)
	req.Header.Set("Notion-Version", s.version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return err
	}
	return nil
}

func (s *NotionStore) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var details apiError
	message := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &details) == nil && details.Message != "" {
		message = details.Message
	}

	if resp.StatusCode == http.StatusUnauthorized {
		log.Debug("Notion rejected the API token")
		return fmt.Errorf("%w: %s (check notion.apiToken in %s or OKC_NOTION_APITOKEN)",
			ErrUnauthenticated, message, config.DefaultPath())
	}
	err := fmt.Errorf("Notion API returned non-OK status: %d: %s", resp.StatusCode, message)
	log.Error(err)
	return err
}

func pagesOnly(results []Page) []Page {
	pages := make([]Page, 0, len(results))
	for _, result := range results {
		if result.Object == "page" {
			pages = append(pages, result)
		}
	}
	return pages
}
