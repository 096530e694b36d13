package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/randomnamegen/namegen-backend/internal/names/domain"
	"github.com/randomnamegen/namegen-backend/internal/platform/logger"
	"golang.org/x/time/rate"
)

// BehindTheNameClient talks to the behindthename.com name database
type BehindTheNameClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// BehindTheNameOptions configures a BehindTheNameClient
type BehindTheNameOptions struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
	Logger    *logger.Logger
}

// NewBehindTheNameClient creates a new name database client. All calls share
// one limiter so the process stays under the database's request quota.
func NewBehindTheNameClient(opts BehindTheNameOptions) *BehindTheNameClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &BehindTheNameClient{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter: rate.NewLimiter(limit, opts.Burst),
		log:     opts.Logger,
	}
}

// errorPayload is the body the name database sends instead of results
type errorPayload struct {
	ErrorCode int    `json:"error_code"`
	Error     string `json:"error"`
}

// randomName accepts either a bare string or an object with a name field
type randomName struct {
	Name string
}

func (r *randomName) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &r.Name)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	r.Name = obj.Name
	return nil
}

type randomResponse struct {
	errorPayload
	Names []randomName `json:"names"`
	Name  *randomName  `json:"name,omitempty"`
}

// Random fetches req.Number random names. The returned slice holds the bare
// names in upstream order.
func (c *BehindTheNameClient) Random(ctx context.Context, req domain.GenerateRequest) ([]string, error) {
	q := url.Values{}
	if req.Gender != domain.GenderAny {
		q.Set("gender", req.Gender)
	}
	q.Set("usage", req.Usage)
	q.Set("number", strconv.Itoa(req.Number))
	q.Set("randomsurname", yesNo(req.IncludeSurname))

	var out randomResponse
	if err := c.getJSON(ctx, "random", "/random.json", q, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, &domain.UpstreamError{Service: ServiceBehindTheName, Code: out.ErrorCode, Message: out.Error}
	}

	names := make([]string, 0, len(out.Names))
	for _, n := range out.Names {
		if n.Name != "" {
			names = append(names, n.Name)
		}
	}
	if len(names) == 0 && out.Name != nil && out.Name.Name != "" {
		names = append(names, out.Name.Name)
	}
	if len(names) == 0 {
		return nil, domain.ErrEmptyResult
	}
	return names, nil
}

// LookupUsage is one usage entry of a lookup record
type LookupUsage struct {
	Code   string `json:"usage_code"`
	Full   string `json:"usage_full"`
	Gender string `json:"usage_gender"`
}

// LookupRecord is one record returned by lookup.json
type LookupRecord struct {
	Name      string        `json:"name"`
	Gender    string        `json:"gender"`
	Meaning   string        `json:"meaning,omitempty"`
	Etymology string        `json:"etymology,omitempty"`
	Usages    []LookupUsage `json:"usages"`
}

// Lookup returns the records matching name. An unknown name yields
// domain.ErrNotFound.
func (c *BehindTheNameClient) Lookup(ctx context.Context, req domain.LookupRequest) ([]LookupRecord, error) {
	q := url.Values{}
	q.Set("name", req.Name)
	q.Set("exact", yesNo(req.Exact))

	var raw json.RawMessage
	if err := c.getJSON(ctx, "lookup", "/lookup.json", q, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var ep errorPayload
		if err := json.Unmarshal(trimmed, &ep); err != nil {
			return nil, fmt.Errorf("decode lookup error payload: %w", err)
		}
		if ep.Error != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, ep.Error)
		}
		var single LookupRecord
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("decode lookup record: %w", err)
		}
		if single.Name == "" {
			return nil, domain.ErrNotFound
		}
		return []LookupRecord{single}, nil
	}

	var records []LookupRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("decode lookup records: %w", err)
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}
	return records, nil
}

type relatedResponse struct {
	errorPayload
	Names []string `json:"names"`
}

// Related returns names related to req.Name. An empty upstream list is not an error.
func (c *BehindTheNameClient) Related(ctx context.Context, req domain.RelatedRequest) ([]string, error) {
	q := url.Values{}
	q.Set("name", req.Name)
	if req.Usage != "" {
		q.Set("usage", req.Usage)
	}
	if req.Gender != domain.GenderAny {
		q.Set("gender", req.Gender)
	}

	var out relatedResponse
	if err := c.getJSON(ctx, "related", "/related.json", q, &out); err != nil {
		var upErr *domain.UpstreamError
		if errors.As(err, &upErr) && noRelatedNames(upErr.Message) {
			return []string{}, nil
		}
		return nil, err
	}
	if out.Error != "" {
		if noRelatedNames(out.Error) {
			return []string{}, nil
		}
		return nil, &domain.UpstreamError{Service: ServiceBehindTheName, Code: out.ErrorCode, Message: out.Error}
	}
	if out.Names == nil {
		return []string{}, nil
	}
	return out.Names, nil
}

func (c *BehindTheNameClient) getJSON(ctx context.Context, operation, path string, q url.Values, dst any) error {
	log := logger.FromContext(ctx, c.log)

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	q.Set("key", c.apiKey)
	reqURL := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		recordCall(ServiceBehindTheName, time.Since(start), err)
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordCall(ServiceBehindTheName, time.Since(start), err)
		log.Error("upstream request failed", "service", ServiceBehindTheName, "operation", operation, "error", err)
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	if err != nil {
		recordCall(ServiceBehindTheName, duration, err)
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		statusErr := fmt.Errorf("status %d", resp.StatusCode)
		recordCall(ServiceBehindTheName, duration, statusErr)
		log.Warn("upstream returned error status", "service", ServiceBehindTheName, "operation", operation, "status", resp.StatusCode)

		// The database reports bad parameters with a JSON error body; keep its
		// message. A 5xx is an outage whatever the body says.
		var ep errorPayload
		if resp.StatusCode < 500 && json.Unmarshal(body, &ep) == nil && ep.Error != "" {
			return &domain.UpstreamError{Service: ServiceBehindTheName, Code: ep.ErrorCode, Message: ep.Error}
		}
		return fmt.Errorf("name database returned status %d: %s", resp.StatusCode, truncate(body))
	}

	if err := json.Unmarshal(body, dst); err != nil {
		recordCall(ServiceBehindTheName, duration, err)
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	recordCall(ServiceBehindTheName, duration, nil)
	log.Debug("upstream call", "service", ServiceBehindTheName, "operation", operation, "latency", duration)
	return nil
}

// noRelatedNames reports whether an error payload only says the name has no
// relations, which callers treat as an empty list.
func noRelatedNames(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "no related names")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
