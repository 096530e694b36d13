package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/randomnamegen/namegen-backend/internal/names/domain"
	"github.com/randomnamegen/namegen-backend/internal/platform/logger"
)

// NamsorClient handles communication with the name-origin classifier
type NamsorClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewNamsorClient creates a new origin classifier client. An empty apiKey is
// allowed; every Origin call then fails with domain.ErrMissingCredential.
func NewNamsorClient(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *NamsorClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &NamsorClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Configured reports whether an API key is present
func (c *NamsorClient) Configured() bool {
	return c.apiKey != ""
}

type originBatchEntry struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type originBatchRequest struct {
	PersonalNames []originBatchEntry `json:"personalNames"`
}

type originBatchResult struct {
	ID                    string  `json:"id"`
	CountryOrigin         string  `json:"countryOrigin"`
	CountryOriginAlt      string  `json:"countryOriginAlt"`
	RegionOrigin          string  `json:"regionOrigin"`
	SubRegionOrigin       string  `json:"subRegionOrigin"`
	ProbabilityCalibrated float64 `json:"probabilityCalibrated"`
	Score                 float64 `json:"score"`
}

type originBatchResponse struct {
	PersonalNames []originBatchResult `json:"personalNames"`
}

// Origin classifies a single name by submitting a one-entry batch.
func (c *NamsorClient) Origin(ctx context.Context, req domain.OriginRequest) (*domain.OriginResult, error) {
	if !c.Configured() {
		return nil, domain.ErrMissingCredential
	}
	log := logger.FromContext(ctx, c.log)

	reqBody := originBatchRequest{
		PersonalNames: []originBatchEntry{{
			ID:        uuid.NewString(),
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()
	url := fmt.Sprintf("%s/api2/json/originBatch", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		recordCall(ServiceNamsor, time.Since(start), err)
		log.Error("upstream request failed", "service", ServiceNamsor, "operation", "origin", "error", err)
		return nil, fmt.Errorf("failed to call origin classifier: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	if err != nil {
		recordCall(ServiceNamsor, duration, err)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		recordCall(ServiceNamsor, duration, fmt.Errorf("status %d", resp.StatusCode))
		log.Warn("upstream returned error status", "service", ServiceNamsor, "operation", "origin", "status", resp.StatusCode)
		return nil, &domain.UpstreamError{
			Service: ServiceNamsor,
			Code:    resp.StatusCode,
			Message: truncate(body),
		}
	}

	var batch originBatchResponse
	if err := json.Unmarshal(body, &batch); err != nil {
		recordCall(ServiceNamsor, duration, err)
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	recordCall(ServiceNamsor, duration, nil)

	if len(batch.PersonalNames) == 0 {
		return nil, domain.ErrNotFound
	}
	first := batch.PersonalNames[0]
	return &domain.OriginResult{
		CountryOrigin:         first.CountryOrigin,
		CountryOriginAlt:      first.CountryOriginAlt,
		RegionOrigin:          first.RegionOrigin,
		SubRegionOrigin:       first.SubRegionOrigin,
		ProbabilityCalibrated: first.ProbabilityCalibrated,
		Score:                 first.Score,
	}, nil
}
