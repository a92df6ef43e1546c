package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/primesolution/invoicer/internal/api"
	"github.com/primesolution/invoicer/internal/client/models"
	"github.com/primesolution/invoicer/internal/common"
)

// DefaultRequestTimeout bounds every remote call. A timeout is treated by
// callers exactly like any other transport failure.
const DefaultRequestTimeout = 15 * time.Second

// HTTPClient talks to the ledger store over its single-endpoint JSON POST
// protocol.
type HTTPClient struct {
	endpoint string
	http     *http.Client
}

func NewHTTPClient(endpoint string) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: DefaultRequestTimeout},
	}
}

// post sends one action envelope and decodes the JSON reply into out.
// token, when non-empty, is attached as the session header.
func (c *HTTPClient) post(ctx context.Context, token string, reqBody api.Request, out any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.SessionTokenHeaderName, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected response %s: %s", resp.Status, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp api.Response
	if err := c.post(ctx, "", api.Request{Action: api.ActionPing}, &resp); err != nil {
		return err
	}
	if resp.Status != api.StatusSuccess {
		return fmt.Errorf("ping rejected: %s", resp.Message)
	}
	return nil
}

func (c *HTTPClient) SyncInvoices(ctx context.Context, invs []models.Invoice) (*api.SyncResponse, error) {
	raw := make([]json.RawMessage, 0, len(invs))
	for i := range invs {
		b, err := json.Marshal(&invs[i])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal invoice %s: %w", invs[i].Id, err)
		}
		raw = append(raw, b)
	}

	var resp api.SyncResponse
	if err := c.post(ctx, "", api.Request{Action: api.ActionSyncInvoices, Invoices: raw}, &resp); err != nil {
		return nil, err
	}
	if resp.Status != api.StatusSuccess {
		return nil, fmt.Errorf("sync rejected: %s", resp.Message)
	}
	return &resp, nil
}

func (c *HTTPClient) GetAllInvoices(ctx context.Context) (*api.InvoicesResponse, error) {
	var resp api.InvoicesResponse
	if err := c.post(ctx, "", api.Request{Action: api.ActionGetAllInvoices}, &resp); err != nil {
		return nil, err
	}
	if resp.Status != api.StatusSuccess {
		return nil, fmt.Errorf("fetch rejected: %s", resp.Message)
	}
	return &resp, nil
}

func (c *HTTPClient) GetNextID(ctx context.Context) (int64, error) {
	var resp api.NextIDResponse
	if err := c.post(ctx, "", api.Request{Action: api.ActionGetNextID}, &resp); err != nil {
		return 0, err
	}
	if resp.Status != api.StatusSuccess {
		return 0, fmt.Errorf("fetch rejected: %s", resp.Message)
	}
	return resp.NextID, nil
}

func (c *HTTPClient) GetProducts(ctx context.Context) ([]models.Product, error) {
	var resp api.ProductsResponse
	if err := c.post(ctx, "", api.Request{Action: api.ActionGetProducts}, &resp); err != nil {
		return nil, err
	}
	if resp.Status != api.StatusSuccess {
		return nil, fmt.Errorf("fetch rejected: %s", resp.Message)
	}

	out := make([]models.Product, 0, len(resp.Products))
	for _, p := range resp.Products {
		out = append(out, productFromWire(p))
	}
	return out, nil
}

func (c *HTTPClient) SaveProduct(ctx context.Context, token string, p models.Product) (*models.Product, error) {
	req := api.Request{
		Action: api.ActionSaveProduct,
		Product: &api.Product{
			ID:            p.ID,
			Description:   p.Description,
			DescriptionEn: p.DescriptionEn,
			Price:         p.Price,
		},
	}

	var resp api.ProductsResponse
	if err := c.post(ctx, token, req, &resp); err != nil {
		return nil, err
	}
	if resp.Status != api.StatusSuccess || resp.Product == nil {
		return nil, fmt.Errorf("save rejected: %s", resp.Message)
	}
	saved := productFromWire(*resp.Product)
	return &saved, nil
}

func (c *HTTPClient) DeleteProduct(ctx context.Context, token string, id string) error {
	var resp api.Response
	if err := c.post(ctx, token, api.Request{Action: api.ActionDeleteProduct, ProductID: id}, &resp); err != nil {
		return err
	}
	if resp.Status != api.StatusSuccess {
		return fmt.Errorf("delete rejected: %s", resp.Message)
	}
	return nil
}

// Login authenticates and returns the full response so the caller can tell
// a bad password from a suspended account.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	err := c.post(ctx, "", api.Request{Action: api.ActionLogin, Username: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetUsers(ctx context.Context, token string) ([]api.User, error) {
	var resp api.UsersResponse
	if err := c.post(ctx, token, api.Request{Action: api.ActionGetUsers}, &resp); err != nil {
		return nil, err
	}
	if resp.Status != api.StatusSuccess {
		return nil, fmt.Errorf("fetch rejected: %s", resp.Message)
	}
	return resp.Users, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, token string, u api.User) error {
	return c.userMutation(ctx, token, api.Request{Action: api.ActionCreateUser, User: &u})
}

func (c *HTTPClient) UpdateUser(ctx context.Context, token string, u api.User) error {
	return c.userMutation(ctx, token, api.Request{Action: api.ActionUpdateUser, User: &u})
}

func (c *HTTPClient) DeleteUser(ctx context.Context, token string, username string) error {
	return c.userMutation(ctx, token, api.Request{Action: api.ActionDeleteUser, User: &api.User{Username: username}})
}

func (c *HTTPClient) userMutation(ctx context.Context, token string, req api.Request) error {
	var resp api.UsersResponse
	if err := c.post(ctx, token, req, &resp); err != nil {
		return err
	}
	if resp.Status != api.StatusSuccess {
		return fmt.Errorf("%s rejected: %s", req.Action, resp.Message)
	}
	return nil
}

func (c *HTTPClient) GetActivity(ctx context.Context, token string) ([]api.ActivityEntry, error) {
	var resp api.ActivityResponse
	if err := c.post(ctx, token, api.Request{Action: api.ActionGetActivity}, &resp); err != nil {
		return nil, err
	}
	if resp.Status != api.StatusSuccess {
		return nil, fmt.Errorf("fetch rejected: %s", resp.Message)
	}
	return resp.Activity, nil
}

func (c *HTTPClient) GetGlobalDefaults(ctx context.Context) (map[string]string, error) {
	var resp api.DefaultsResponse
	if err := c.post(ctx, "", api.Request{Action: api.ActionGetGlobalDefaults}, &resp); err != nil {
		return nil, err
	}
	if resp.Status != api.StatusSuccess {
		return nil, fmt.Errorf("fetch rejected: %s", resp.Message)
	}
	return resp.Defaults, nil
}

func (c *HTTPClient) SaveGlobalDefaults(ctx context.Context, token string, d map[string]string) (map[string]string, error) {
	var resp api.DefaultsResponse
	if err := c.post(ctx, token, api.Request{Action: api.ActionSaveGlobalDefault, Defaults: d}, &resp); err != nil {
		return nil, err
	}
	if resp.Status != api.StatusSuccess {
		return nil, fmt.Errorf("save rejected: %s", resp.Message)
	}
	return resp.Defaults, nil
}

func productFromWire(p api.Product) models.Product {
	return models.Product{
		ID:            p.ID,
		Description:   p.Description,
		DescriptionEn: p.DescriptionEn,
		Price:         p.Price,
	}
}
