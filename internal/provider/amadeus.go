package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mic325hkg/CathayPriceChecker/internal/domain"
	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
	"github.com/mic325hkg/CathayPriceChecker/internal/utils"
)

// Amadeus API hosts.
const (
	AmadeusTestURL       = "https://test.api.amadeus.com"
	AmadeusProductionURL = "https://api.amadeus.com"
)

const (
	tokenPath        = "/v1/security/oauth2/token"
	flightOffersPath = "/v2/shopping/flight-offers"
	// tokenSkew renews the token this long before it expires.
	tokenSkew = 30 * time.Second
	// maxErrorBody bounds how much of a failed response ends up in an error.
	maxErrorBody = 4 << 10
)

// AmadeusOptions configures an AmadeusClient.
type AmadeusOptions struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
	Logger       logger.Logger
}

// AmadeusClient calls the Amadeus Flight Offers Search API. The OAuth2 token
// is fetched lazily and shared by concurrent calls.
type AmadeusClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	hc           *http.Client
	logger       logger.Logger
	now          func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// AmadeusBaseURL maps "production" to the live host and anything else to the test host.
func AmadeusBaseURL(env string) string {
	if strings.EqualFold(env, "production") {
		return AmadeusProductionURL
	}
	return AmadeusTestURL
}

func NewAmadeusClient(opts AmadeusOptions) *AmadeusClient {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = AmadeusTestURL
	}
	return &AmadeusClient{
		baseURL:      base,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		hc:           hc,
		logger:       log,
		now:          time.Now,
	}
}

func (c *AmadeusClient) Name() string {
	return "amadeus"
}

// Search runs a GET flight-offers search.
func (c *AmadeusClient) Search(ctx context.Context, req SearchRequest) ([]domain.RawOffer, error) {
	u := c.baseURL + flightOffersPath + "?" + SearchQuery(req).Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("amadeus new request: %w", err)
	}
	return c.doOffers(ctx, httpReq)
}

// SearchMultiCity runs a POST flight-offers search over req.Legs.
func (c *AmadeusClient) SearchMultiCity(ctx context.Context, req MultiCityRequest) ([]domain.RawOffer, error) {
	if len(req.Legs) == 0 {
		return nil, errors.New("amadeus multi-city search needs at least one leg")
	}
	b, err := json.Marshal(BuildMultiCityBody(req))
	if err != nil {
		return nil, fmt.Errorf("amadeus marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+flightOffersPath, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("amadeus new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-HTTP-Method-Override", http.MethodGet)
	return c.doOffers(ctx, httpReq)
}

type offersResponse struct {
	Data   []domain.RawOffer `json:"data"`
	Errors []apiError        `json:"errors"`
}

type apiError struct {
	Status int    `json:"status"`
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// doOffers sends req with a bearer token. A 401 drops the cached token and
// the request is replayed once with a fresh one.
func (c *AmadeusClient) doOffers(ctx context.Context, req *http.Request) ([]domain.RawOffer, error) {
	resp, token, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		utils.Close(resp.Body)
		c.invalidateToken(token)
		c.logger.Debug("amadeus token rejected, retrying with a new one")

		retry, err := rewind(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp, token, err = c.send(ctx, retry); err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.invalidateToken(token)
		}
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.decodeError(resp)
	}

	var out offersResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("amadeus decode: %w", err)
	}
	if out.Data == nil {
		out.Data = []domain.RawOffer{}
	}
	return out.Data, nil
}

// send returns the response and the token it was sent with.
func (c *AmadeusClient) send(ctx context.Context, req *http.Request) (*http.Response, string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.amadeus+json, application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		return nil, "", fmt.Errorf("amadeus request failed: %v: %w", err, ErrTemporary)
	}

	c.logger.Debug("amadeus flight-offers",
		logger.String("method", req.Method),
		logger.Int("status", resp.StatusCode),
		logger.Duration("latency", time.Since(start)))
	return resp, token, nil
}

// rewind copies req with a fresh body for a second attempt.
func rewind(ctx context.Context, req *http.Request) (*http.Request, error) {
	retry := req.Clone(ctx)
	if req.Body == nil || req.GetBody == nil {
		return retry, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("amadeus replay request: %w", err)
	}
	retry.Body = body
	return retry, nil
}

func (c *AmadeusClient) decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	perr := &Error{Provider: c.Name(), Status: resp.StatusCode}

	var out offersResponse
	if json.Unmarshal(body, &out) == nil && len(out.Errors) > 0 {
		first := out.Errors[0]
		if first.Code != 0 {
			perr.Code = fmt.Sprint(first.Code)
		}
		perr.Detail = strings.TrimSpace(first.Title + " " + first.Detail)
		return perr
	}
	perr.Detail = strings.TrimSpace(string(body))
	return perr
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// accessToken returns a cached token or fetches a new one. The lock is held
// during the fetch so concurrent callers share one token request.
func (c *AmadeusClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expires) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("amadeus token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("amadeus token request failed: %v: %w", err, ErrTemporary)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &Error{Provider: c.Name(), Status: resp.StatusCode, Code: "auth", Detail: strings.TrimSpace(string(body))}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("amadeus token decode: %w", err)
	}
	if tr.AccessToken == "" {
		return "", errors.New("amadeus token response has no access_token")
	}

	ttl := time.Duration(tr.ExpiresIn)*time.Second - tokenSkew
	if ttl < 0 {
		ttl = 0
	}
	c.token = tr.AccessToken
	c.expires = c.now().Add(ttl)
	c.logger.Debug("amadeus token refreshed", logger.Duration("ttl", ttl))
	return c.token, nil
}

// invalidateToken drops token unless another caller already replaced it.
func (c *AmadeusClient) invalidateToken(token string) {
	c.mu.Lock()
	if c.token == token {
		c.token = ""
	}
	c.mu.Unlock()
}
