// Package dataverse fetches cloud flow definitions from the Dataverse Web API.
package dataverse

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/olusolaa/flow-drift-detector/internal/core/domain"
	"github.com/olusolaa/flow-drift-detector/internal/core/ports"
	"github.com/olusolaa/flow-drift-detector/internal/errors"
)

// cloudFlowCategory is the workflow category Dataverse uses for Power Automate cloud flows.
const cloudFlowCategory = 5

const (
	backoffStep = 250 * time.Millisecond
	backoffCap  = 5 * time.Second
)

var json = jsoniter.Config{UseNumber: true}.Froze()

type workflowRecord struct {
	WorkflowID string  `json:"workflowid"`
	Name       string  `json:"name"`
	ClientData *string `json:"clientdata"`
}

// odataPage is either a collection page or, for a single-entity response, the
// record itself.
type odataPage struct {
	Value      []workflowRecord `json:"value"`
	NextLink   string           `json:"@odata.nextLink"`
	WorkflowID string           `json:"workflowid"`
	Name       string           `json:"name"`
	ClientData *string          `json:"clientdata"`
}

type Source struct {
	cfg     Config
	client  *http.Client
	tokens  ports.TokenProvider
	limiter *apiLimiter
	logger  ports.Logger
	// sleep waits between retries; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

var _ ports.FlowSource = (*Source)(nil)

func NewSource(cfg *Config, tokens ports.TokenProvider, client *http.Client, logger ports.Logger) (*Source, error) {
	if tokens == nil {
		return nil, errors.New(errors.CodeConfigValidation, "dataverse source requires a token provider")
	}
	resolved := cfg.withDefaults()
	if client == nil {
		client = &http.Client{Timeout: resolved.Timeout}
	}
	logger = logger.WithFields(map[string]any{"component": "dataverse_source"})
	return &Source{
		cfg:     resolved,
		client:  client,
		tokens:  tokens,
		limiter: newAPILimiter(resolved.RequestsPerSecond, logger),
		logger:  logger,
		sleep:   sleepContext,
	}, nil
}

func (s *Source) Type() string {
	return SourceTypeDataverse
}

func (s *Source) FetchFlows(ctx context.Context, env domain.Environment, nameFilter string) ([]domain.FlowRecord, error) {
	baseURL := NormalizeBaseURL(env.URL)
	if baseURL == "" {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("%s environment URL is empty", env.Label),
			"Set --source/--target or source.url/target.url in the config file.")
	}

	token, err := s.tokens.Token(ctx, baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeAuthError, "failed to acquire token for "+baseURL)
	}

	log := s.logger.WithFields(map[string]any{"environment": env.Label})
	apiURL := s.workflowsURL(baseURL, nameFilter)
	records := make([]domain.FlowRecord, 0)

	for page := 1; apiURL != ""; page++ {
		body, err := s.getWithRetry(ctx, apiURL, token)
		if err != nil {
			return nil, handleError(ctx, baseURL, err)
		}

		var p odataPage
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, errors.Wrap(err, errors.CodeSourceParseError,
				fmt.Sprintf("failed to decode workflows page %d from %s", page, baseURL))
		}

		switch {
		case p.Value != nil:
			for _, w := range p.Value {
				records = append(records, w.toFlowRecord())
			}
		case p.WorkflowID != "":
			records = append(records, workflowRecord{WorkflowID: p.WorkflowID, Name: p.Name, ClientData: p.ClientData}.toFlowRecord())
		}

		apiURL = p.NextLink
		if apiURL != "" {
			log.Debugf(ctx, "Page %d: %d flows fetched so far", page, len(records))
		}
	}

	log.Infof(ctx, "Fetched %d cloud flows from %s", len(records), baseURL)
	return records, nil
}

func (s *Source) workflowsURL(baseURL, nameFilter string) string {
	filter := fmt.Sprintf("category eq %d", cloudFlowCategory)
	if nameFilter != "" {
		filter += fmt.Sprintf(" and name eq '%s'", EscapeODataString(nameFilter))
	}
	query := url.Values{}
	query.Set("$select", "workflowid,name,clientdata")
	query.Set("$filter", filter)
	return fmt.Sprintf("%s/api/data/v%s/workflows?%s", baseURL, s.cfg.APIVersion, query.Encode())
}

// getWithRetry retries 429 and 5xx responses with a linear backoff capped at backoffCap.
func (s *Source) getWithRetry(ctx context.Context, apiURL, token string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries+1; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := s.get(ctx, apiURL, token)
		if err == nil {
			return body, nil
		}
		lastErr = err

		statusErr, ok := err.(*StatusError)
		if !ok || !statusErr.Transient() || attempt > s.cfg.MaxRetries {
			return nil, err
		}

		wait := backoff(attempt)
		s.logger.Warnf(ctx, "Status %d from Dataverse, retrying in %s (attempt %d/%d)",
			statusErr.StatusCode, wait, attempt, s.cfg.MaxRetries)
		if err := s.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (s *Source) get(ctx context.Context, apiURL, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("OData-MaxVersion", "4.0")
	req.Header.Set("OData-Version", "4.0")
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (w workflowRecord) toFlowRecord() domain.FlowRecord {
	rec := domain.FlowRecord{FlowID: w.WorkflowID, Name: w.Name}
	if w.ClientData != nil {
		rec.RawDefinition = *w.ClientData
	}
	return rec
}

// NormalizeBaseURL adds an https scheme when none is given and trims trailing slashes.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "http://") {
		u = "https://" + u
	}
	return strings.TrimRight(u, "/")
}

// EscapeODataString doubles single quotes for use inside an OData string literal.
func EscapeODataString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func backoff(attempt int) time.Duration {
	d := backoffStep * time.Duration(attempt)
	if d > backoffCap {
		return backoffCap
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
