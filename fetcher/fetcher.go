// Package fetcher resolves baseline catalog items against the remote
// pricing endpoint of the ERP, one lookup per item, under a bounded retry
// policy. A batch never aborts because of one item: every input item ends
// up either resolved or in the failure list, exactly once.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"pricewatch/catalog"
)

// RemoteRecord is the current state of one item as reported by the pricing
// endpoint. Field tags follow the ERP's wire format.
type RemoteRecord struct {
	ItemCode     int64   `json:"CodigoDoItem"`
	Fabrication  string  `json:"CodigoDeFabricacao"`
	Name         string  `json:"NomeDoItem"`
	SalePrice    float64 `json:"PrecoDeVendaVigente"`
	Cost         float64 `json:"ValorDeCusto"`
	StockBalance float64 `json:"SaldoEmEstoque"`
	CategoryCode int64   `json:"CodigoGrupoItem"`
}

// FetchFailure records an item whose lookup exhausted its retry budget.
// Failures are always surfaced to the caller, never dropped.
type FetchFailure struct {
	ItemCode int64  `json:"item_code"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
}

// BatchResult partitions a batch into resolved records and failed lookups.
// The two sets are disjoint and together cover the input exactly once.
type BatchResult struct {
	Resolved []RemoteRecord
	Failed   []FetchFailure
}

// LookupParams are the fixed query parameters the pricing endpoint expects
// besides the search term.
type LookupParams struct {
	DepositCode  int
	StoreCode    int
	DeliveryType int
	PriceTable   int
}

// DefaultLookupParams matches the store's production configuration.
var DefaultLookupParams = LookupParams{
	DepositCode:  1,
	StoreCode:    1,
	DeliveryType: 2,
	PriceTable:   1,
}

// ClientConfig configures the fetch client.
type ClientConfig struct {
	BaseURL    string        // endpoint base, e.g. https://host/store/rot.mvc/R11
	Credential string        // opaque session credential, sent as the Cookie header
	Timeout    time.Duration // per-call timeout (default 10s)
	RateLimit  rate.Limit    // lookups per second (default 2/s)
	Retry      RetryPolicy
	Params     LookupParams
	Progress   ProgressSink
	Logger     *slog.Logger
}

// Client performs the per-item lookups. One logical worker walks the batch
// in order; suspension points are the remote call and the retry backoff.
type Client struct {
	baseURL    string
	credential string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      RetryPolicy
	params     LookupParams
	progress   ProgressSink
	logger     *slog.Logger
}

// NewClient creates a fetch client with the given configuration.
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(500 * time.Millisecond)
	}
	if config.Params == (LookupParams{}) {
		config.Params = DefaultLookupParams
	}
	if config.Progress == nil {
		config.Progress = NopSink{}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		credential: config.Credential,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(config.RateLimit, 1),
		retry:      config.Retry.normalized(),
		params:     config.Params,
		progress:   config.Progress,
		logger:     config.Logger,
	}
}

// FetchAll resolves every item in the batch. Per-item failures are
// accumulated, not propagated: the returned result always covers the full
// input set, |Resolved| + |Failed| == len(items).
func (c *Client) FetchAll(ctx context.Context, items []catalog.ItemSnapshot) *BatchResult {
	result := &BatchResult{
		Resolved: make([]RemoteRecord, 0, len(items)),
		Failed:   make([]FetchFailure, 0),
	}

	c.progress.Start(len(items))
	defer c.progress.Done()

	for _, item := range items {
		record, err := c.fetchOne(ctx, item)
		if err != nil {
			c.logger.Error("Lookup failed",
				"item", item.Code, "name", item.Name, "error", err)
			result.Failed = append(result.Failed, FetchFailure{
				ItemCode: item.Code,
				Name:     item.Name,
				Reason:   err.Error(),
			})
		} else {
			result.Resolved = append(result.Resolved, *record)
		}
		c.progress.Increment()
	}

	return result
}

// fetchOne runs the retry loop for a single item and returns the matched
// record or the last attempt's error once the budget is exhausted.
func (c *Client) fetchOne(ctx context.Context, item catalog.ItemSnapshot) (*RemoteRecord, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		record, err := c.lookup(ctx, item)
		if err == nil {
			return record, nil
		}
		lastErr = err
		c.logger.Warn("Lookup attempt failed",
			"item", item.Code,
			"attempt", attempt,
			"max_attempts", c.retry.MaxAttempts,
			"error", err)

		if attempt == c.retry.MaxAttempts {
			break
		}
		select {
		case <-time.After(c.retry.Backoff):
		case <-ctx.Done():
			return nil, transportError(item.Code, ctx.Err())
		}
	}

	return nil, lastErr
}

// lookup issues one remote call and matches the candidate whose item code
// equals the expected one. Absence of a match is a resolution failure, not
// a transport error; both are retryable.
func (c *Client) lookup(ctx context.Context, item catalog.ItemSnapshot) (*RemoteRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, transportError(item.Code, err)
	}

	params := url.Values{}
	params.Set("termo", strings.TrimSpace(item.Fabrication))
	params.Set("codigoDeposito", strconv.Itoa(c.params.DepositCode))
	params.Set("codigoDaLoja", strconv.Itoa(c.params.StoreCode))
	params.Set("tipoLocalEntrega", strconv.Itoa(c.params.DeliveryType))
	params.Set("tabelaDePreco", strconv.Itoa(c.params.PriceTable))

	fullURL := fmt.Sprintf("%s/BuscarItens?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, transportError(item.Code, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Cookie", c.credential)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(item.Code, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, transportError(item.Code, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(item.Code, fmt.Errorf("failed to read response: %w", err))
	}

	var candidates []RemoteRecord
	if err := json.Unmarshal(body, &candidates); err != nil {
		return nil, resolutionError(item.Code, fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}

	for _, candidate := range candidates {
		if candidate.ItemCode == item.Code {
			return &candidate, nil
		}
	}
	return nil, resolutionError(item.Code, fmt.Errorf("%w: %d candidates for term %q", ErrNoMatch, len(candidates), item.Fabrication))
}
