package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mkhairi/backend-quotation/internal/db"
	"github.com/mkhairi/backend-quotation/internal/resilience"
)

// RateSource resolves the conversion rate for a currency pair. Implementations
// return ErrUnknownCurrencyPair when neither direction is known.
type RateSource interface {
	GetRate(ctx context.Context, from, to Code) (decimal.Decimal, error)
}

type queryProvider interface {
	GetCurrencyRate(ctx context.Context, arg db.GetCurrencyRateParams) (db.CurrencyRate, error)
	ListCurrencyRates(ctx context.Context) ([]db.CurrencyRate, error)
	UpsertCurrencyRate(ctx context.Context, arg db.UpsertCurrencyRateParams) error
}

// Service resolves rates from the database and can assemble a full Table for
// batch conversion.
type Service struct {
	Q queryProvider
}

// GetRate returns the direct rate for the pair, or the reciprocal of the
// inverse pair when only that is stored.
func (s *Service) GetRate(ctx context.Context, from, to Code) (decimal.Decimal, error) {
	if s == nil || s.Q == nil {
		return decimal.Zero, errors.New("currency rate queries not configured")
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	row, err := s.Q.GetCurrencyRate(ctx, db.GetCurrencyRateParams{FromCode: string(from), ToCode: string(to)})
	if err == nil {
		return decimal.New(row.RateMicros, -6), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, err
	}
	inverse, err := s.Q.GetCurrencyRate(ctx, db.GetCurrencyRateParams{FromCode: string(to), ToCode: string(from)})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrUnknownCurrencyPair
		}
		return decimal.Zero, err
	}
	rate := decimal.New(inverse.RateMicros, -6)
	if !rate.IsPositive() {
		return decimal.Zero, ErrUnknownCurrencyPair
	}
	return decimal.NewFromInt(1).Div(rate), nil
}

// LoadTable reads every stored rate into an in-memory Table.
func (s *Service) LoadTable(ctx context.Context) (*Table, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("currency rate queries not configured")
	}
	rows, err := s.Q.ListCurrencyRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list currency rates: %w", err)
	}
	table := NewTable()
	for _, row := range rows {
		from, err := ParseCode(row.FromCode)
		if err != nil {
			continue
		}
		to, err := ParseCode(row.ToCode)
		if err != nil {
			continue
		}
		table.Set(from, to, decimal.New(row.RateMicros, -6))
	}
	return table, nil
}

// Refresher pulls rates from an external provider and upserts them into the
// rate table. The HTTP client is traced via otelhttp; an optional resilience
// wrapper adds retries and a circuit breaker for flaky providers.
type Refresher struct {
	Q       queryProvider
	BaseURL string
	APIKey  string
	Timeout time.Duration
	HTTP    *resilience.HTTPClient
	client  *http.Client
}

type providerRate struct {
	From string `json:"from"`
	To   string `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

type providerResponse struct {
	Rates []providerRate `json:"rates"`
}

func (r *Refresher) httpClient() *http.Client {
	if r.client != nil {
		return r.client
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	r.client = &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return r.client
}

// Refresh fetches the latest rates and stores them. Unsupported codes in the
// provider payload are skipped.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	if r == nil || r.Q == nil {
		return 0, errors.New("rate refresher not configured")
	}
	if r.BaseURL == "" {
		return 0, errors.New("rate provider base url is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/v1/rates", nil)
	if err != nil {
		return 0, err
	}
	if r.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.APIKey)
	}
	var resp *http.Response
	if r.HTTP != nil {
		resp, err = r.HTTP.Do(ctx, req)
	} else {
		resp, err = r.httpClient().Do(req)
	}
	if err != nil {
		return 0, fmt.Errorf("fetch rates: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}
	var payload providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode rate payload: %w", err)
	}
	stored := 0
	for _, entry := range payload.Rates {
		from, err := ParseCode(entry.From)
		if err != nil {
			continue
		}
		to, err := ParseCode(entry.To)
		if err != nil {
			continue
		}
		if !entry.Rate.IsPositive() {
			continue
		}
		if err := r.Q.UpsertCurrencyRate(ctx, db.UpsertCurrencyRateParams{
			FromCode:   string(from),
			ToCode:     string(to),
			RateMicros: entry.Rate.Shift(6).Round(0).IntPart(),
		}); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}
