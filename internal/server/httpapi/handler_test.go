package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primesolution/invoicer/internal/api"
	"github.com/primesolution/invoicer/internal/common"
	"github.com/primesolution/invoicer/internal/logging"
	"github.com/primesolution/invoicer/internal/server/config"
	"github.com/primesolution/invoicer/internal/server/repositories"
	"github.com/primesolution/invoicer/internal/server/sequence"
	"github.com/primesolution/invoicer/internal/server/services"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

// newTestHandler wires a full handler over an in-memory ledger with the
// default admin account seeded.
func newTestHandler(t *testing.T) (*Handler, *services.UserService) {
	t.Helper()
	ctx := context.Background()
	logger := testLogger()

	repos, err := repositories.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		SequenceLockWait:      time.Second,
	}

	users := services.NewUserService(repos.Users, cfg, logger)
	require.NoError(t, users.EnsureAdmin(ctx))

	h := NewHandler(
		services.NewInvoiceService(repos.DB(), sequence.NewLock(), cfg, logger),
		users,
		services.NewCatalogService(repos.Products, logger),
		services.NewActivityService(repos.Activity, logger),
		services.NewDefaultsService(repos.Defaults, logger),
		logger,
	)
	return h, users
}

// newTestStore brings up a full store over an in-memory ledger and returns
// its base URL plus an admin token.
func newTestStore(t *testing.T) (string, string) {
	t.Helper()
	h, users := newTestHandler(t)

	e := echo.New()
	e.Use(middleware.Recover())
	e.POST("/api", func(c *echo.Context) error { return h.Dispatch(c) })

	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)

	_, token, err := users.Login(context.Background(), "admin", "admin")
	require.NoError(t, err)

	return ts.URL + "/api", token
}

func post(t *testing.T, url, token string, req api.Request, out any) {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set(common.SessionTokenHeaderName, token)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestDispatch_Ping(t *testing.T) {
	url, _ := newTestStore(t)

	var res api.Response
	post(t, url, "", api.Request{Action: api.ActionPing}, &res)
	assert.Equal(t, api.StatusSuccess, res.Status)
}

func TestDispatch_UnknownAction(t *testing.T) {
	url, _ := newTestStore(t)

	var res api.Response
	post(t, url, "", api.Request{Action: "EXPLODE"}, &res)
	assert.Equal(t, api.StatusError, res.Status)
	assert.Contains(t, res.Message, "EXPLODE")
}

func TestDispatch_SyncAndFetch(t *testing.T) {
	url, _ := newTestStore(t)

	draft, _ := json.Marshal(map[string]any{
		"id":            "uuid-1",
		"invoiceNumber": "OFF-A",
		"tempId":        "OFF-A",
		"syncStatus":    "pending",
		"clientName":    "ACME",
		"total":         120.0,
		"createdAt":     "2026-02-01T09:00:00Z",
	})

	var sync api.SyncResponse
	post(t, url, "", api.Request{
		Action:   api.ActionSyncInvoices,
		Invoices: []json.RawMessage{draft},
	}, &sync)

	require.Equal(t, api.StatusSuccess, sync.Status)
	assert.Equal(t, 1, sync.SyncedCount)
	assert.Equal(t, "001", sync.IDMapping["OFF-A"])
	assert.EqualValues(t, 2, sync.NextID)

	var all api.InvoicesResponse
	post(t, url, "", api.Request{Action: api.ActionGetAllInvoices}, &all)
	require.Equal(t, api.StatusSuccess, all.Status)
	require.Len(t, all.Invoices, 1)
	assert.EqualValues(t, 1, all.MaxID)

	var stored map[string]any
	require.NoError(t, json.Unmarshal(all.Invoices[0], &stored))
	assert.Equal(t, "001", stored["invoiceNumber"])
	assert.Equal(t, "synced", stored["syncStatus"])

	var next api.NextIDResponse
	post(t, url, "", api.Request{Action: api.ActionGetNextID}, &next)
	assert.EqualValues(t, 2, next.NextID)
}

func TestDispatch_LoginFlows(t *testing.T) {
	url, token := newTestStore(t)

	var ok api.LoginResponse
	post(t, url, "", api.Request{Action: api.ActionLogin, Username: "admin", Password: "admin"}, &ok)
	require.Equal(t, api.StatusSuccess, ok.Status)
	require.NotNil(t, ok.User)
	assert.Equal(t, "admin", ok.User.Username)
	assert.NotEmpty(t, ok.Token)

	var bad api.LoginResponse
	post(t, url, "", api.Request{Action: api.ActionLogin, Username: "admin", Password: "nope"}, &bad)
	assert.Equal(t, api.StatusError, bad.Status)

	// suspend a second account and watch the status flip
	post(t, url, token, api.Request{
		Action: api.ActionCreateUser,
		User:   &api.User{Username: "amr", Password: "pw", Status: api.UserStatusSuspended},
	}, &api.Response{})

	var susp api.LoginResponse
	post(t, url, "", api.Request{Action: api.ActionLogin, Username: "amr", Password: "pw"}, &susp)
	assert.Equal(t, api.StatusSuspended, susp.Status)
}

func TestDispatch_ProductsRequireAdminToMutate(t *testing.T) {
	url, token := newTestStore(t)

	var denied api.ProductsResponse
	post(t, url, "", api.Request{
		Action:  api.ActionSaveProduct,
		Product: &api.Product{Description: "Widget", Price: 9.5},
	}, &denied)
	assert.Equal(t, api.StatusError, denied.Status)
	assert.Equal(t, "unauthorized", denied.Message)

	var saved api.ProductsResponse
	post(t, url, token, api.Request{
		Action:  api.ActionSaveProduct,
		Product: &api.Product{Description: "Widget", Price: 9.5},
	}, &saved)
	require.Equal(t, api.StatusSuccess, saved.Status)
	require.NotNil(t, saved.Product)
	assert.NotEmpty(t, saved.Product.ID, "store assigns ids to new products")

	// reads stay open
	var list api.ProductsResponse
	post(t, url, "", api.Request{Action: api.ActionGetProducts}, &list)
	require.Equal(t, api.StatusSuccess, list.Status)
	require.Len(t, list.Products, 1)

	var deleted api.Response
	post(t, url, token, api.Request{Action: api.ActionDeleteProduct, ProductID: saved.Product.ID}, &deleted)
	assert.Equal(t, api.StatusSuccess, deleted.Status)
}

func TestDispatch_UserAdministration(t *testing.T) {
	url, token := newTestStore(t)

	var created api.Response
	post(t, url, token, api.Request{
		Action: api.ActionCreateUser,
		User:   &api.User{Username: "amr", Name: "Amr H.", Password: "pw"},
	}, &created)
	require.Equal(t, api.StatusSuccess, created.Status)

	var list api.UsersResponse
	post(t, url, token, api.Request{Action: api.ActionGetUsers}, &list)
	require.Equal(t, api.StatusSuccess, list.Status)
	require.Len(t, list.Users, 2)
	for _, u := range list.Users {
		assert.Empty(t, u.Password)
	}

	var selfDelete api.Response
	post(t, url, token, api.Request{
		Action: api.ActionDeleteUser,
		User:   &api.User{Username: "admin"},
	}, &selfDelete)
	assert.Equal(t, api.StatusError, selfDelete.Status, "deleting the active account is refused")

	var deleted api.Response
	post(t, url, token, api.Request{
		Action: api.ActionDeleteUser,
		User:   &api.User{Username: "amr"},
	}, &deleted)
	assert.Equal(t, api.StatusSuccess, deleted.Status)
}

func TestDispatch_ActivityTrailsActions(t *testing.T) {
	url, token := newTestStore(t)

	var saved api.ProductsResponse
	post(t, url, token, api.Request{
		Action:  api.ActionSaveProduct,
		Product: &api.Product{Description: "Widget", Price: 1},
	}, &saved)
	require.Equal(t, api.StatusSuccess, saved.Status)

	var act api.ActivityResponse
	post(t, url, token, api.Request{Action: api.ActionGetActivity}, &act)
	require.Equal(t, api.StatusSuccess, act.Status)
	require.NotEmpty(t, act.Activity)

	// newest first
	assert.Equal(t, api.ActionSaveProduct, act.Activity[0].Action)
	assert.Equal(t, "admin", act.Activity[0].Username)
}

func TestDispatch_GlobalDefaults(t *testing.T) {
	url, token := newTestStore(t)

	var empty api.DefaultsResponse
	post(t, url, "", api.Request{Action: api.ActionGetGlobalDefaults}, &empty)
	require.Equal(t, api.StatusSuccess, empty.Status)
	assert.Empty(t, empty.Defaults)

	var saved api.DefaultsResponse
	post(t, url, token, api.Request{
		Action:   api.ActionSaveGlobalDefault,
		Defaults: map[string]string{"currency": "EUR", "taxRate": "19"},
	}, &saved)
	require.Equal(t, api.StatusSuccess, saved.Status)
	assert.Equal(t, "EUR", saved.Defaults["currency"])

	// partial saves merge into the existing set
	var merged api.DefaultsResponse
	post(t, url, token, api.Request{
		Action:   api.ActionSaveGlobalDefault,
		Defaults: map[string]string{"currency": "USD"},
	}, &merged)
	require.Equal(t, api.StatusSuccess, merged.Status)
	assert.Equal(t, "USD", merged.Defaults["currency"])
	assert.Equal(t, "19", merged.Defaults["taxRate"])
}
