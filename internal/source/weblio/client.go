// Package weblio scrapes concept candidates from Weblio dictionary pages.
package weblio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/at-ishikawa/rensou/internal/concept"
	"github.com/at-ishikawa/rensou/internal/source"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://www.weblio.jp"

	contentPathPrefix = "/content/"
	contentSelector   = "div.kiji, div.NetDicBody"
	blocksUsed        = 2
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

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("User-Agent", opts.UserAgent).
		SetTimeout(opts.Timeout)

	return &Client{
		httpClient: client,
		cache:      opts.Cache,
		baseURL:    opts.BaseURL,
		logger:     slog.Default().With("source", concept.SourceWeblio.ID()),
	}
}

// Page fetches the raw dictionary page for word.
func (client *Client) Page(ctx context.Context, word string) ([]byte, error) {
	path := contentPathPrefix + url.PathEscape(word)
	key := client.baseURL + path
	return client.cache.Fetch(key, func() ([]byte, error) {
		response, err := client.httpClient.R().
			SetContext(ctx).
			Get(path)
		if err != nil {
			return nil, fmt.Errorf("httpClient.R.Get > %w", err)
		}
		if response.StatusCode() != http.StatusOK {
			return nil, &source.StatusError{URL: key, StatusCode: response.StatusCode()}
		}
		return response.Body(), nil
	})
}

// Blocks returns the text of the definition blocks of a dictionary page, in document order.
func Blocks(page []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader > %w", err)
	}

	var blocks []string
	doc.Find(contentSelector).Each(func(_ int, selection *goquery.Selection) {
		blocks = append(blocks, selection.Text())
	})
	return blocks, nil
}

// Search implements source.Adapter.
// The first two definition blocks are extracted with half of the budget each.
func (client *Client) Search(ctx context.Context, word string, maxConcepts int) ([]string, error) {
	page, err := client.Page(ctx, word)
	if source.IsStatusError(err) {
		client.logger.Debug("no dictionary page", "word", word, "error", err)
		return []string{}, nil
	}
	if err != nil {
		return []string{}, fmt.Errorf("client.Page(%s) > %w", word, err)
	}

	blocks, err := Blocks(page)
	if err != nil {
		return []string{}, fmt.Errorf("Blocks(%s) > %w", word, err)
	}

	var concepts []string
	for i, block := range blocks {
		if i >= blocksUsed {
			break
		}
		concepts = append(concepts, concept.Extract(block, maxConcepts/2)...)
	}
	return concept.Truncate(concept.Dedupe(concepts), maxConcepts), nil
}
