// Package client is a typed Go client for the federation's digital credential
// API. Every operation returns either a value or an *APIError; callers never
// have to duck-type a response to find out whether it failed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TokenSource supplies the bearer token for authenticated calls. An empty
// string means the request goes out unauthenticated.
type TokenSource func() string

type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource TokenSource

	cache credentialCache
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets the bearer token supplier.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokenSource = ts }
}

// New creates a client for the API at baseURL (e.g. "https://api.example.org/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the server's standard response wrapper.
type envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, *APIError) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Kind: KindUnknown, Message: "encode request: " + err.Error()}
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokenSource != nil {
		if tok := c.tokenSource(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}

	var env envelope
	if len(raw) > 0 {
		// A body that is not the standard envelope is tolerated; the raw
		// payload is stashed in Data for shape-aware callers like Verify.
		if jsonErr := json.Unmarshal(raw, &env); jsonErr != nil || len(env.Data) == 0 {
			env.Data = raw
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp.StatusCode, errorMessage(raw, env.Message))
	}
	return &env, nil
}

// errorMessage digs the human-readable message out of an error body.
func errorMessage(raw []byte, fallback string) string {
	var shape struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &shape); err == nil {
		if shape.Message != "" {
			return shape.Message
		}
		if shape.Error != "" {
			return shape.Error
		}
	}
	return fallback
}

// Create issues the caller's credential. The new credential becomes the cached
// "my credential".
func (c *Client) Create(ctx context.Context) (*Credential, error) {
	seq := c.cache.nextSeq()
	env, apiErr := c.do(ctx, http.MethodPost, "/digital-credentials", nil)
	if apiErr != nil {
		return nil, apiErr
	}
	var cred Credential
	if err := json.Unmarshal(env.Data, &cred); err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: "decode credential: " + err.Error()}
	}
	c.cache.set(seq, &cred)
	return &cred, nil
}

// GetMyCredential fetches the caller's credential and refreshes the cache.
func (c *Client) GetMyCredential(ctx context.Context) (*Credential, error) {
	seq := c.cache.nextSeq()
	env, apiErr := c.do(ctx, http.MethodGet, "/digital-credentials/my-credential", nil)
	if apiErr != nil {
		return nil, apiErr
	}
	var cred Credential
	if err := json.Unmarshal(env.Data, &cred); err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: "decode credential: " + err.Error()}
	}
	c.cache.set(seq, &cred)
	return &cred, nil
}

// Verify resolves a verification code publicly. It tolerates the three
// response shapes historical deployments have produced: an explicit
// success/data wrapper, a bare data wrapper, and a naked credential object.
func (c *Client) Verify(ctx context.Context, verificationCode string) (*VerifyResult, error) {
	code := strings.ToUpper(strings.TrimSpace(verificationCode))
	if code == "" {
		return nil, &APIError{Kind: KindNotFound, Message: "verification code is empty"}
	}
	env, apiErr := c.do(ctx, http.MethodGet, "/digital-credentials/verify/"+url.PathEscape(code), nil)
	if apiErr != nil {
		return nil, apiErr
	}
	return normalizeVerifyPayload(env.Data)
}

// normalizeVerifyPayload maps any of the accepted payload shapes onto a
// VerifyResult.
func normalizeVerifyPayload(raw []byte) (*VerifyResult, error) {
	// Shape 1 and 2: a wrapper carrying data, with or without a success flag.
	var wrapper struct {
		Success *bool           `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Data) > 0 {
		if wrapper.Success != nil && !*wrapper.Success {
			return nil, &APIError{Kind: KindUnknown, Message: "verification reported failure"}
		}
		return normalizeVerifyPayload(wrapper.Data)
	}

	// Canonical shape: {credential, verification}.
	var result VerifyResult
	if err := json.Unmarshal(raw, &result); err == nil && result.Credential != nil && result.Credential.CredentialNumber != "" {
		return &result, nil
	}

	// Fallback: a naked credential object.
	var cred Credential
	if err := json.Unmarshal(raw, &cred); err == nil && cred.CredentialNumber != "" {
		return &VerifyResult{
			Credential: &cred,
			Verification: Verification{
				Valid:      cred.AffiliationStatus == "active",
				VerifiedAt: time.Now(),
				Method:     "manual",
			},
		}, nil
	}

	return nil, &APIError{Kind: KindUnknown, Message: "unrecognized verification response shape"}
}

// Update applies a partial update to the credential with the given id. If the
// updated credential is the cached one, the cache is replaced.
func (c *Client) Update(ctx context.Context, id string, req UpdateRequest) (*Credential, error) {
	if id == "" {
		return nil, &APIError{Kind: KindUnknown, Message: "credential id is required"}
	}
	seq := c.cache.nextSeq()
	env, apiErr := c.do(ctx, http.MethodPut, "/digital-credentials/"+url.PathEscape(id), req)
	if apiErr != nil {
		return nil, apiErr
	}
	var cred Credential
	if err := json.Unmarshal(env.Data, &cred); err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: "decode credential: " + err.Error()}
	}
	c.cache.replaceIfSame(seq, &cred)
	return &cred, nil
}

// RegenerateQR asks the server for a fresh QR asset. Only qr_code_url and
// qr_code_data are merged into the cached credential, and only when the
// response's id matches the cached credential's id; a stale or mismatched
// response never clobbers the cache.
func (c *Client) RegenerateQR(ctx context.Context, id string) (*Credential, error) {
	if id == "" {
		return nil, &APIError{Kind: KindUnknown, Message: "credential id is required"}
	}
	seq := c.cache.nextSeq()
	env, apiErr := c.do(ctx, http.MethodPost, "/digital-credentials/"+url.PathEscape(id)+"/regenerate-qr", nil)
	if apiErr != nil {
		return nil, apiErr
	}
	var cred Credential
	if err := json.Unmarshal(env.Data, &cred); err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: "decode credential: " + err.Error()}
	}
	c.cache.mergeQR(seq, cred.ID, cred.QRCodeURL, cred.QRCodeData)
	return &cred, nil
}

// GetAll lists credentials (admin). Filters and paging run server-side; only
// the requested page comes back.
func (c *Client) GetAll(ctx context.Context, params ListParams) ([]Credential, *Pagination, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.AffiliationStatus != "" {
		q.Set("affiliation_status", params.AffiliationStatus)
	}
	if params.StateAffiliation != "" {
		q.Set("state_affiliation", params.StateAffiliation)
	}
	if params.IsVerified != nil {
		q.Set("is_verified", strconv.FormatBool(*params.IsVerified))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}

	path := "/digital-credentials"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	env, apiErr := c.do(ctx, http.MethodGet, path, nil)
	if apiErr != nil {
		return nil, nil, apiErr
	}
	var creds []Credential
	if err := json.Unmarshal(env.Data, &creds); err != nil {
		return nil, nil, &APIError{Kind: KindUnknown, Message: "decode credentials: " + err.Error()}
	}
	return creds, env.Pagination, nil
}

// Cached returns a copy of the cached "my credential", or nil if nothing has
// been fetched yet.
func (c *Client) Cached() *Credential {
	return c.cache.get()
}

// VerificationURL builds the public deep link for a verification code, the
// same link the credential's QR encodes.
func VerificationURL(frontendBase, verificationCode string) string {
	return fmt.Sprintf("%s/verify-credential/%s", strings.TrimRight(frontendBase, "/"), verificationCode)
}
