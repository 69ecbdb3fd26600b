// Package wikipedia collects concepts from the Japanese Wikipedia REST summary and
// the MediaWiki full-text search API.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/at-ishikawa/rensou/internal/concept"
	"github.com/at-ishikawa/rensou/internal/source"
	"resty.dev/v3"
)

const (
	DefaultBaseURL = "https://ja.wikipedia.org"

	summaryPathPrefix = "/api/rest_v1/page/summary/"
	searchPath        = "/w/api.php"
	searchLimit       = 5

	// Only the top hits feed the concept list, three concepts each.
	searchHitsUsed = 3
	conceptsPerHit = 3
)

var _ source.Adapter = (*Client)(nil)

type Client struct {
	httpClient *resty.Client
	cache      *source.ResponseCache
	baseURL    string
	logger     *slog.Logger
}

func NewClient(opts source.HTTPOptions) *Client {
	opts = opts.WithDefaults(DefaultBaseURL)

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)

	return &Client{
		httpClient: client,
		cache:      opts.Cache,
		baseURL:    opts.BaseURL,
		logger:     slog.Default().With("source", concept.SourceWikipedia.ID()),
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// Summary is the part of the REST page summary we use.
type Summary struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

type SearchResponse struct {
	Query SearchQuery `json:"query"`
}

type SearchQuery struct {
	Search []SearchHit `json:"search"`
}

type SearchHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Summary fetches the page summary for word.
func (client *Client) Summary(ctx context.Context, word string) (Summary, error) {
	var summary Summary
	body, err := client.get(ctx, summaryPathPrefix+url.PathEscape(word), nil)
	if err != nil {
		return summary, fmt.Errorf("client.get(summary) > %w", err)
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		return summary, fmt.Errorf("json.Unmarshal(summary) > %w", err)
	}
	return summary, nil
}

// SearchPages runs a full-text search and returns at most limit hits.
func (client *Client) SearchPages(ctx context.Context, word string, limit int) ([]SearchHit, error) {
	params := map[string]string{
		"action":   "query",
		"format":   "json",
		"list":     "search",
		"srsearch": word,
		"srlimit":  strconv.Itoa(limit),
	}
	body, err := client.get(ctx, searchPath, params)
	if err != nil {
		return nil, fmt.Errorf("client.get(search) > %w", err)
	}

	var response SearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("json.Unmarshal(search) > %w", err)
	}
	return response.Query.Search, nil
}

// Search implements source.Adapter.
// Half of the budget goes to the summary text, the rest comes from the top search hits.
// When a request fails the concepts gathered so far are returned with the error.
func (client *Client) Search(ctx context.Context, word string, maxConcepts int) ([]string, error) {
	var concepts []string

	summary, err := client.Summary(ctx, word)
	switch {
	case source.IsStatusError(err):
		client.logger.Debug("no summary", "word", word, "error", err)
	case err != nil:
		return concept.Truncate(concept.Dedupe(concepts), maxConcepts), fmt.Errorf("client.Summary(%s) > %w", word, err)
	default:
		concepts = append(concepts, concept.Extract(summary.Extract, maxConcepts/2)...)
	}

	hits, err := client.SearchPages(ctx, word, searchLimit)
	switch {
	case source.IsStatusError(err):
		client.logger.Debug("no search results", "word", word, "error", err)
	case err != nil:
		return concept.Truncate(concept.Dedupe(concepts), maxConcepts), fmt.Errorf("client.SearchPages(%s) > %w", word, err)
	default:
		for i, hit := range hits {
			if i >= searchHitsUsed {
				break
			}
			concepts = append(concepts, concept.Extract(hit.Title+" "+hit.Snippet, conceptsPerHit)...)
		}
	}

	return concept.Truncate(concept.Dedupe(concepts), maxConcepts), nil
}

func (client *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	key := client.baseURL + path
	if len(params) > 0 {
		query := url.Values{}
		for name, value := range params {
			query.Set(name, value)
		}
		key += "?" + query.Encode()
	}

	return client.cache.Fetch(key, func() ([]byte, error) {
		request := client.httpClient.R().SetContext(ctx)
		if len(params) > 0 {
			request.SetQueryParams(params)
		}
		response, err := request.Get(path)
		if err != nil {
			return nil, fmt.Errorf("httpClient.Get > %w", err)
		}
		if response.StatusCode() != http.StatusOK {
			return nil, &source.StatusError{URL: key, StatusCode: response.StatusCode()}
		}
		return []byte(response.String()), nil
	})
}
