package fx

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fiscal/date"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultURL is the public Frankfurter API serving European Central Bank reference rates.
const DefaultURL = "https://api.frankfurter.app"

// MaxRetries is the number of previous days tried when no rate is published on a day.
const MaxRetries = 5

// Frankfurter is a Converter backed by the Frankfurter API.
//
// Rates are memoized per requested day, so that a statement converting many
// amounts on the same days only fetches each day once. It is safe for
// concurrent use.
type Frankfurter struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger

	mu   sync.Mutex
	memo map[pair]map[date.Date]decimal.Decimal
}

// Option configures a Frankfurter client.
type Option func(*Frankfurter)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option { return func(f *Frankfurter) { f.log = log } }

// WithClient sets the http client used to query the API.
func WithClient(c *http.Client) Option { return func(f *Frankfurter) { f.client = c } }

// NewFrankfurter returns a client querying baseURL, or DefaultURL if empty.
func NewFrankfurter(baseURL string, opts ...Option) *Frankfurter {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	f := &Frankfurter{
		baseURL: baseURL,
		client:  http.DefaultClient,
		log:     zerolog.Nop(),
		memo:    make(map[pair]map[date.Date]decimal.Decimal),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Convert implements Converter.
func (f *Frankfurter) Convert(amount decimal.Decimal, from, to string, on date.Date) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	r, err := f.Rate(from, to, on)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(r), nil
}

// Rate returns the rate published on 'on', or on one of the previous days when none was.
func (f *Frankfurter) Rate(from, to string, on date.Date) (decimal.Decimal, error) {
	k := pair{from, to}
	f.mu.Lock()
	r, ok := f.memo[k][on]
	f.mu.Unlock()
	if ok {
		return r, nil
	}

	day := on
	var lastErr error
	for i := 0; i <= MaxRetries; i++ {
		r, found, err := f.fetch(from, to, day)
		if err != nil {
			return decimal.Zero, err
		}
		if found {
			if day != on {
				f.log.Debug().Str("pair", from+"/"+to).Stringer("requested", on).Stringer("used", day).Msg("rate fallback")
			}
			f.mu.Lock()
			if f.memo[k] == nil {
				f.memo[k] = make(map[date.Date]decimal.Decimal)
			}
			f.memo[k][on] = r
			f.mu.Unlock()
			return r, nil
		}
		lastErr = fmt.Errorf("%w for %s/%s on %v", ErrNoRate, from, to, day)
		day = day.Add(-1)
	}
	return decimal.Zero, fmt.Errorf("after %d retries: %w", MaxRetries, lastErr)
}

// fetch queries a single day. A missing day or currency is reported as not found.
func (f *Frankfurter) fetch(from, to string, on date.Date) (decimal.Decimal, bool, error) {
	addr := fmt.Sprintf("%s/%s?from=%s&to=%s", f.baseURL, on, from, to)
	resp, err := f.client.Get(addr)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("cannot http GET %s: %w", addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return decimal.Zero, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, false, fmt.Errorf("cannot http GET %s: %s", addr, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, false, err
	}

	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid rate response for %s: %w", on, err)
	}
	path := fmt.Sprintf("$.rates.%s", to)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		// unknown key: the currency is not quoted that day.
		return decimal.Zero, false, nil
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		return decimal.Zero, false, fmt.Errorf("error parsing %q: not a number %v", path, jval)
	}
	return decimal.NewFromFloat(val), true, nil
}

var _ Converter = (*Frankfurter)(nil)
