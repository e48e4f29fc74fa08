// Package client is a Go mirror of the front-end state layer: a REST
// wrapper over the API plus an in-memory store with snapshot persistence,
// for CLI and mobile shells.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/onenightdrink/api/internal/domain"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client calls the OneNightDrink API. Safe for concurrent use; the bearer
// token may be swapped at any time.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token
}

// LoginResult mirrors the server's login payload.
type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", input, &out)

	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)

	return out, err
}

func (c *Client) AdminLogin(ctx context.Context, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/admin/login", map[string]string{
		"password": password,
	}, &out)

	return out.Token, err
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)

	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.User, error) {
	body := map[string]any{}
	if update.Name != nil {
		body["name"] = *update.Name
	}
	if update.Phone != nil {
		body["phone"] = *update.Phone
	}
	if update.Avatar != nil {
		body["avatar"] = *update.Avatar
	}
	if update.DisplayName != nil {
		body["displayName"] = *update.DisplayName
	}
	if update.Gender != nil {
		body["gender"] = *update.Gender
	}

	var out domain.User
	err := c.do(ctx, http.MethodPut, "/api/auth/profile", body, &out)

	return out, err
}

func (c *Client) ListBars(ctx context.Context) ([]domain.Bar, error) {
	var out []domain.Bar
	err := c.do(ctx, http.MethodGet, "/api/bars", nil, &out)

	return out, err
}

func (c *Client) ListFeaturedBars(ctx context.Context) ([]domain.Bar, error) {
	var out []domain.Bar
	err := c.do(ctx, http.MethodGet, "/api/bars/featured", nil, &out)

	return out, err
}

func (c *Client) GetBar(ctx context.Context, id string) (domain.Bar, error) {
	var out domain.Bar
	err := c.do(ctx, http.MethodGet, "/api/bars/"+url.PathEscape(id), nil, &out)

	return out, err
}

type CreateBarInput struct {
	Name       string   `json:"name"`
	NameEn     string   `json:"nameEn,omitempty"`
	DistrictID string   `json:"districtId,omitempty"`
	Address    string   `json:"address,omitempty"`
	Image      string   `json:"image,omitempty"`
	Rating     float64  `json:"rating,omitempty"`
	Drinks     []string `json:"drinks,omitempty"`
}

// CreateBar requires an admin token.
func (c *Client) CreateBar(ctx context.Context, input CreateBarInput) (domain.Bar, error) {
	var out domain.Bar
	err := c.do(ctx, http.MethodPost, "/api/bars", input, &out)

	return out, err
}

func (c *Client) ListPasses(ctx context.Context) ([]domain.Pass, error) {
	var out []domain.Pass
	err := c.do(ctx, http.MethodGet, "/api/passes", nil, &out)

	return out, err
}

func (c *Client) ListActivePasses(ctx context.Context) ([]domain.Pass, error) {
	var out []domain.Pass
	err := c.do(ctx, http.MethodGet, "/api/passes/active", nil, &out)

	return out, err
}

type PurchasePassInput struct {
	BarID         string  `json:"barId"`
	PersonCount   int     `json:"personCount"`
	TotalPrice    float64 `json:"totalPrice"`
	TransactionID string  `json:"transactionId,omitempty"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
}

func (c *Client) PurchasePass(ctx context.Context, input PurchasePassInput) (domain.Pass, error) {
	var out domain.Pass
	err := c.do(ctx, http.MethodPost, "/api/passes", input, &out)

	return out, err
}

func (c *Client) ListParties(ctx context.Context, status domain.PartyStatus) ([]domain.Party, error) {
	path := "/api/parties"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}

	var out []domain.Party
	err := c.do(ctx, http.MethodGet, path, nil, &out)

	return out, err
}

func (c *Client) ListHostedParties(ctx context.Context) ([]domain.Party, error) {
	var out []domain.Party
	err := c.do(ctx, http.MethodGet, "/api/parties/my-hosted", nil, &out)

	return out, err
}

func (c *Client) ListJoinedParties(ctx context.Context) ([]domain.Party, error) {
	var out []domain.Party
	err := c.do(ctx, http.MethodGet, "/api/parties/my-joined", nil, &out)

	return out, err
}

type CreatePartyInput struct {
	PassID          string    `json:"passId"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	MaxFemaleGuests int       `json:"maxFemaleGuests"`
	PartyTime       time.Time `json:"partyTime"`
}

func (c *Client) CreateParty(ctx context.Context, input CreatePartyInput) (domain.Party, error) {
	var out domain.Party
	err := c.do(ctx, http.MethodPost, "/api/parties", input, &out)

	return out, err
}

func (c *Client) JoinParty(ctx context.Context, partyID string) (domain.Party, error) {
	var out domain.Party
	err := c.do(ctx, http.MethodPost, "/api/parties/"+url.PathEscape(partyID)+"/join", nil, &out)

	return out, err
}

func (c *Client) LeaveParty(ctx context.Context, partyID string) error {
	return c.do(ctx, http.MethodDelete, "/api/parties/"+url.PathEscape(partyID)+"/leave", nil, nil)
}

func (c *Client) CancelParty(ctx context.Context, partyID string) error {
	return c.do(ctx, http.MethodDelete, "/api/parties/"+url.PathEscape(partyID), nil, nil)
}

func (c *Client) ListMembers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := c.do(ctx, http.MethodGet, "/api/admin/members", nil, &out)

	return out, err
}

func (c *Client) ListAllPasses(ctx context.Context) ([]domain.Pass, error) {
	var out []domain.Pass
	err := c.do(ctx, http.MethodGet, "/api/admin/passes", nil, &out)

	return out, err
}

func (c *Client) GetPaymentSettings(ctx context.Context) (domain.PaymentSettings, error) {
	var out domain.PaymentSettings
	err := c.do(ctx, http.MethodGet, "/api/admin/payment-settings", nil, &out)

	return out, err
}

func (c *Client) GetAdSettings(ctx context.Context) (domain.AdSettings, error) {
	var out domain.AdSettings
	err := c.do(ctx, http.MethodGet, "/api/admin/ad-settings", nil, &out)

	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json.Marshal -> %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("c.http.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}

		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json.Decode -> %w", err)
	}

	return nil
}
