// Notion API implementation of [RecordSource]
//
// Notion API request/response types based on https://developers.notion.com/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/akoval/topspin/internal/shared"
	"golang.org/x/time/rate"
)

const (
	notionBaseURL = "https://api.notion.com/v1"
	notionVersion = "2022-06-28"

	// Notion caps select-option updates at 100 per request, so a rebuild
	// resubmits the cumulative option list in chunks of that size.
	rankOptionChunkSize     = 100
	rankOptionChunkInterval = 200 * time.Millisecond
)

// queryResponse is one page of a database query.
type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// NotionService implements [RecordSource] against the Notion pages API.
type NotionService struct {
	apiKey        string
	databaseID    string
	fields        shared.FieldsConfig
	baseURL       string
	httpClient    *http.Client
	chunkInterval time.Duration
}

// NewNotionService creates a Notion record source for the given integration
// credentials and database property names.
func NewNotionService(credentials map[string]string, fields shared.FieldsConfig) (*NotionService, error) {
	apiKey, ok := credentials["api_key"]
	if !ok || apiKey == "" {
		return nil, fmt.Errorf("%w: missing api_key in credentials", shared.ErrMissingCredentials)
	}

	databaseID, ok := credentials["database_id"]
	if !ok || databaseID == "" {
		return nil, fmt.Errorf("%w: missing database_id in credentials", shared.ErrMissingDatabaseID)
	}

	return &NotionService{
		apiKey:        apiKey,
		databaseID:    databaseID,
		fields:        fields,
		baseURL:       notionBaseURL,
		httpClient:    http.DefaultClient,
		chunkInterval: rankOptionChunkInterval,
	}, nil
}

func (s *NotionService) Name() string {
	return "Notion"
}

// doRequest performs an authenticated HTTP request to the Notion API.
func (s *NotionService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	apiURL := s.baseURL + endpoint

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: notion status %d: %s", shared.ErrAPIRequest, resp.StatusCode, detail)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// FetchAll queries every page of the album database, following has_more/next_cursor
// pagination and preserving the order pages are returned in.
func (s *NotionService) FetchAll(ctx context.Context) ([]Page, error) {
	var pages []Page
	var cursor *string

	for {
		body := map[string]any{}
		if cursor != nil {
			body["start_cursor"] = *cursor
		}

		var response queryResponse
		endpoint := fmt.Sprintf("/databases/%s/query", s.databaseID)
		if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &response); err != nil {
			return nil, err
		}

		pages = append(pages, response.Results...)

		if !response.HasMore || response.NextCursor == nil {
			break
		}
		cursor = response.NextCursor
	}

	return pages, nil
}

// UpdateRank writes the album title and formatted rank label back to a page.
func (s *NotionService) UpdateRank(ctx context.Context, pageID, name, label string) error {
	if pageID == "" {
		return fmt.Errorf("%w: empty page id", shared.ErrInvalidArgument)
	}

	body := map[string]any{
		"properties": map[string]any{
			s.fields.Album: map[string]any{
				"title": []map[string]any{
					{"text": map[string]any{"content": name}},
				},
			},
			s.fields.Rank: map[string]any{
				"select": map[string]any{"name": label},
			},
		},
	}

	endpoint := fmt.Sprintf("/pages/%s", pageID)
	return s.doRequest(ctx, http.MethodPatch, endpoint, body, nil)
}

// RebuildRankOptions clears the rank property's select options on the database
// schema and re-adds the given labels. Labels are resubmitted cumulatively in
// chunks, spaced by a rate limiter, because Notion rejects large option lists
// in a single update.
func (s *NotionService) RebuildRankOptions(ctx context.Context, labels []string) error {
	if err := s.patchRankOptions(ctx, []map[string]string{}); err != nil {
		return fmt.Errorf("failed to clear rank options: %w", err)
	}

	limiter := rate.NewLimiter(rate.Every(s.chunkInterval), 1)

	options := make([]map[string]string, 0, len(labels))
	for start := 0; start < len(labels); start += rankOptionChunkSize {
		end := min(start+rankOptionChunkSize, len(labels))
		for _, label := range labels[start:end] {
			options = append(options, map[string]string{"name": label})
		}

		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if err := s.patchRankOptions(ctx, options); err != nil {
			return fmt.Errorf("failed to rebuild rank options: %w", err)
		}
	}

	return nil
}

// patchRankOptions submits a full replacement option list for the rank property.
func (s *NotionService) patchRankOptions(ctx context.Context, options []map[string]string) error {
	body := map[string]any{
		"properties": map[string]any{
			s.fields.Rank: map[string]any{
				"select": map[string]any{"options": options},
			},
		},
	}

	endpoint := fmt.Sprintf("/databases/%s", s.databaseID)
	return s.doRequest(ctx, http.MethodPatch, endpoint, body, nil)
}

// UpdateMedia sets a page's external cover and/or icon. Both URLs empty is a no-op.
func (s *NotionService) UpdateMedia(ctx context.Context, pageID, coverURL, iconURL string) error {
	if pageID == "" {
		return fmt.Errorf("%w: empty page id", shared.ErrInvalidArgument)
	}

	body := map[string]any{}
	if coverURL != "" {
		body["cover"] = map[string]any{
			"type":     "external",
			"external": map[string]any{"url": coverURL},
		}
	}
	if iconURL != "" {
		body["icon"] = map[string]any{
			"type":     "external",
			"external": map[string]any{"url": iconURL},
		}
	}

	if len(body) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("/pages/%s", pageID)
	return s.doRequest(ctx, http.MethodPatch, endpoint, body, nil)
}
