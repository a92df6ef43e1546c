// Package httpapi exposes the ledger over its single-endpoint action
// protocol: every operation is a JSON POST with an "action" field, every
// reply is JSON with HTTP 200. Failures travel in the body's status field;
// non-200 responses are reserved for transport-level breakage.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/primesolution/invoicer/internal/api"
	"github.com/primesolution/invoicer/internal/common"
	"github.com/primesolution/invoicer/internal/logging"
	"github.com/primesolution/invoicer/internal/server/models"
	"github.com/primesolution/invoicer/internal/server/services"
)

// Handler dispatches action envelopes to the services.
type Handler struct {
	invoices *services.InvoiceService
	users    *services.UserService
	catalog  *services.CatalogService
	activity *services.ActivityService
	defaults *services.DefaultsService
	logger   logging.Logger
}

func NewHandler(inv *services.InvoiceService, users *services.UserService, catalog *services.CatalogService,
	act *services.ActivityService, def *services.DefaultsService, logger logging.Logger) *Handler {
	return &Handler{
		invoices: inv,
		users:    users,
		catalog:  catalog,
		activity: act,
		defaults: def,
		logger:   logger.With("component", "httpapi"),
	}
}

// Dispatch is the single entry point for every action.
func (h *Handler) Dispatch(c *echo.Context) error {
	var req api.Request
	if err := (*c).Bind(&req); err != nil {
		return (*c).JSON(http.StatusOK, api.Response{Status: api.StatusError, Message: "malformed request"})
	}

	switch req.Action {
	case api.ActionPing:
		return (*c).JSON(http.StatusOK, api.Response{Status: api.StatusSuccess})

	case api.ActionSyncInvoices:
		return h.syncInvoices(c, &req)
	case api.ActionGetAllInvoices:
		return h.getAllInvoices(c)
	case api.ActionGetNextID:
		return h.getNextID(c)

	case api.ActionGetProducts:
		return h.getProducts(c)
	case api.ActionSaveProduct:
		return h.saveProduct(c, &req)
	case api.ActionDeleteProduct:
		return h.deleteProduct(c, &req)

	case api.ActionLogin:
		return h.login(c, &req)

	case api.ActionGetUsers:
		return h.getUsers(c)
	case api.ActionCreateUser:
		return h.createUser(c, &req)
	case api.ActionUpdateUser:
		return h.updateUser(c, &req)
	case api.ActionDeleteUser:
		return h.deleteUser(c, &req)

	case api.ActionGetActivity:
		return h.getActivity(c)

	case api.ActionGetGlobalDefaults:
		return h.getDefaults(c)
	case api.ActionSaveGlobalDefault:
		return h.saveDefaults(c, &req)

	default:
		return (*c).JSON(http.StatusOK, api.Response{
			Status: api.StatusError, Message: fmt.Sprintf("unknown action %q", req.Action),
		})
	}
}

func (h *Handler) syncInvoices(c *echo.Context, req *api.Request) error {
	ctx := (*c).Request().Context()

	res, err := h.invoices.Sync(ctx, req.Invoices)
	if err != nil {
		return h.fail(c, err)
	}

	h.activity.Record(ctx, h.username(c), api.ActionSyncInvoices, fmt.Sprintf("%d invoices", res.SyncedCount))
	return (*c).JSON(http.StatusOK, api.SyncResponse{
		Response:    api.Response{Status: api.StatusSuccess},
		SyncedCount: res.SyncedCount,
		IDMapping:   res.IDMapping,
		NextID:      res.NextID,
	})
}

func (h *Handler) getAllInvoices(c *echo.Context) error {
	docs, max, err := h.invoices.GetAll((*c).Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return (*c).JSON(http.StatusOK, api.InvoicesResponse{
		Response: api.Response{Status: api.StatusSuccess},
		Invoices: docs,
		MaxID:    max,
		NextID:   max + 1,
	})
}

func (h *Handler) getNextID(c *echo.Context) error {
	next, err := h.invoices.NextID((*c).Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return (*c).JSON(http.StatusOK, api.NextIDResponse{
		Response: api.Response{Status: api.StatusSuccess},
		NextID:   next,
	})
}

func (h *Handler) getProducts(c *echo.Context) error {
	ps, err := h.catalog.List((*c).Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]api.Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, productToAPI(p))
	}
	return (*c).JSON(http.StatusOK, api.ProductsResponse{
		Response: api.Response{Status: api.StatusSuccess},
		Products: out,
	})
}

func (h *Handler) saveProduct(c *echo.Context, req *api.Request) error {
	claims, err := h.users.RequireAdmin(h.token(c))
	if err != nil {
		return h.fail(c, err)
	}
	if req.Product == nil {
		return h.fail(c, fmt.Errorf("%w: product is required", common.ErrorValidation))
	}

	ctx := (*c).Request().Context()
	saved, err := h.catalog.Save(ctx, models.Product{
		ID:            req.Product.ID,
		Description:   req.Product.Description,
		DescriptionEn: req.Product.DescriptionEn,
		Price:         req.Product.Price,
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.activity.Record(ctx, claims.Username, api.ActionSaveProduct, saved.Description)
	p := productToAPI(*saved)
	return (*c).JSON(http.StatusOK, api.ProductsResponse{
		Response: api.Response{Status: api.StatusSuccess},
		Product:  &p,
	})
}

func (h *Handler) deleteProduct(c *echo.Context, req *api.Request) error {
	claims, err := h.users.RequireAdmin(h.token(c))
	if err != nil {
		return h.fail(c, err)
	}

	ctx := (*c).Request().Context()
	if err := h.catalog.Delete(ctx, req.ProductID); err != nil {
		return h.fail(c, err)
	}

	h.activity.Record(ctx, claims.Username, api.ActionDeleteProduct, req.ProductID)
	return (*c).JSON(http.StatusOK, api.Response{Status: api.StatusSuccess})
}

func (h *Handler) login(c *echo.Context, req *api.Request) error {
	ctx := (*c).Request().Context()

	u, token, err := h.users.Login(ctx, req.Username, req.Password)
	if errors.Is(err, common.ErrUserSuspended) {
		return (*c).JSON(http.StatusOK, api.LoginResponse{
			Response: api.Response{Status: api.StatusSuspended, Message: "account suspended"},
		})
	}
	if errors.Is(err, common.ErrorUnauthorized) {
		return (*c).JSON(http.StatusOK, api.LoginResponse{
			Response: api.Response{Status: api.StatusError, Message: "invalid credentials"},
		})
	}
	if err != nil {
		return h.fail(c, err)
	}

	h.activity.Record(ctx, u.Username, api.ActionLogin, "")
	return (*c).JSON(http.StatusOK, api.LoginResponse{
		Response: api.Response{Status: api.StatusSuccess},
		User:     &api.User{Username: u.Username, Name: u.Name, Role: u.Role, Status: u.Status},
		Token:    token,
	})
}

func (h *Handler) getUsers(c *echo.Context) error {
	if _, err := h.users.RequireAdmin(h.token(c)); err != nil {
		return h.fail(c, err)
	}

	all, err := h.users.List((*c).Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	// password hashes never leave the server
	out := make([]api.User, 0, len(all))
	for _, u := range all {
		out = append(out, api.User{Username: u.Username, Name: u.Name, Role: u.Role, Status: u.Status})
	}
	return (*c).JSON(http.StatusOK, api.UsersResponse{
		Response: api.Response{Status: api.StatusSuccess},
		Users:    out,
	})
}

func (h *Handler) createUser(c *echo.Context, req *api.Request) error {
	claims, err := h.users.RequireAdmin(h.token(c))
	if err != nil {
		return h.fail(c, err)
	}
	if req.User == nil {
		return h.fail(c, fmt.Errorf("%w: user is required", common.ErrorValidation))
	}

	ctx := (*c).Request().Context()
	if err := h.users.Create(ctx, req.User.Username, req.User.Name, req.User.Role, req.User.Status, req.User.Password); err != nil {
		return h.fail(c, err)
	}

	h.activity.Record(ctx, claims.Username, api.ActionCreateUser, req.User.Username)
	return (*c).JSON(http.StatusOK, api.Response{Status: api.StatusSuccess})
}

func (h *Handler) updateUser(c *echo.Context, req *api.Request) error {
	claims, err := h.users.RequireAdmin(h.token(c))
	if err != nil {
		return h.fail(c, err)
	}
	if req.User == nil {
		return h.fail(c, fmt.Errorf("%w: user is required", common.ErrorValidation))
	}

	ctx := (*c).Request().Context()
	if err := h.users.Update(ctx, req.User.Username, req.User.Name, req.User.Role, req.User.Status, req.User.Password); err != nil {
		return h.fail(c, err)
	}

	h.activity.Record(ctx, claims.Username, api.ActionUpdateUser, req.User.Username)
	return (*c).JSON(http.StatusOK, api.Response{Status: api.StatusSuccess})
}

func (h *Handler) deleteUser(c *echo.Context, req *api.Request) error {
	claims, err := h.users.RequireAdmin(h.token(c))
	if err != nil {
		return h.fail(c, err)
	}

	username := ""
	if req.User != nil {
		username = req.User.Username
	}
	if username == claims.Username {
		return h.fail(c, fmt.Errorf("%w: refusing to delete the active account", common.ErrorValidation))
	}

	ctx := (*c).Request().Context()
	if err := h.users.Delete(ctx, username); err != nil {
		return h.fail(c, err)
	}

	h.activity.Record(ctx, claims.Username, api.ActionDeleteUser, username)
	return (*c).JSON(http.StatusOK, api.Response{Status: api.StatusSuccess})
}

func (h *Handler) getActivity(c *echo.Context) error {
	if _, err := h.users.RequireAdmin(h.token(c)); err != nil {
		return h.fail(c, err)
	}

	entries, err := h.activity.Recent((*c).Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	out := make([]api.ActivityEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, api.ActivityEntry{
			ID:       fmt.Sprintf("%d", e.ID),
			At:       e.At.Format("2006-01-02T15:04:05Z07:00"),
			Username: e.Username,
			Action:   e.Action,
			Details:  e.Details,
		})
	}
	return (*c).JSON(http.StatusOK, api.ActivityResponse{
		Response: api.Response{Status: api.StatusSuccess},
		Activity: out,
	})
}

func (h *Handler) getDefaults(c *echo.Context) error {
	d, err := h.defaults.Get((*c).Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return (*c).JSON(http.StatusOK, api.DefaultsResponse{
		Response: api.Response{Status: api.StatusSuccess},
		Defaults: d,
	})
}

func (h *Handler) saveDefaults(c *echo.Context, req *api.Request) error {
	claims, err := h.users.RequireAdmin(h.token(c))
	if err != nil {
		return h.fail(c, err)
	}

	ctx := (*c).Request().Context()
	merged, err := h.defaults.Save(ctx, req.Defaults)
	if err != nil {
		return h.fail(c, err)
	}

	h.activity.Record(ctx, claims.Username, api.ActionSaveGlobalDefault, "")
	return (*c).JSON(http.StatusOK, api.DefaultsResponse{
		Response: api.Response{Status: api.StatusSuccess},
		Defaults: merged,
	})
}

func (h *Handler) token(c *echo.Context) string {
	return (*c).Request().Header.Get(common.SessionTokenHeaderName)
}

func (h *Handler) username(c *echo.Context) string {
	claims, err := h.users.Authenticate(h.token(c))
	if err != nil {
		return ""
	}
	return claims.Username
}

// fail maps a service error into a body-level error reply. The message for
// busy rejections is stable; clients key retry hints off it.
func (h *Handler) fail(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorServerBusy):
		return (*c).JSON(http.StatusOK, api.Response{Status: api.StatusError, Message: common.ErrorServerBusy.Error()})
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return (*c).JSON(http.StatusOK, api.Response{Status: api.StatusError, Message: "unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		return (*c).JSON(http.StatusOK, api.Response{Status: api.StatusError, Message: "not found"})
	case errors.Is(err, common.ErrorAlreadyExists):
		return (*c).JSON(http.StatusOK, api.Response{Status: api.StatusError, Message: "already exists"})
	case errors.Is(err, common.ErrorValidation):
		return (*c).JSON(http.StatusOK, api.Response{Status: api.StatusError, Message: err.Error()})
	default:
		h.logger.Error((*c).Request().Context(), "action failed", "error", err.Error())
		return (*c).JSON(http.StatusOK, api.Response{Status: api.StatusError, Message: "internal error"})
	}
}

func productToAPI(p models.Product) api.Product {
	return api.Product{ID: p.ID, Description: p.Description, DescriptionEn: p.DescriptionEn, Price: p.Price}
}
