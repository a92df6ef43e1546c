package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	stdsync "sync"

	"github.com/primesolution/invoicer/internal/api"
	"github.com/primesolution/invoicer/internal/client/models"
	"github.com/primesolution/invoicer/internal/client/sync"
	"github.com/primesolution/invoicer/internal/common"
	"github.com/primesolution/invoicer/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

// fakeReconciler satisfies Reconciler with a canned outcome.
type fakeReconciler struct {
	outcome *sync.Outcome
	err     error
	calls   int
}

func (f *fakeReconciler) Reconcile(ctx context.Context) (*sync.Outcome, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.outcome == nil {
		return &sync.Outcome{}, nil
	}
	return f.outcome, nil
}

// fakeRemote fails every call unless a behavior was set for it.
type fakeRemote struct {
	loginFunc       func(username, password string) (*api.LoginResponse, error)
	productsFunc    func() ([]models.Product, error)
	saveProductFunc func(token string, p models.Product) (*models.Product, error)
	deleteFunc      func(token, id string) error
	defaultsFunc    func() (map[string]string, error)
	saveDefFunc     func(token string, d map[string]string) (map[string]string, error)
}

func (f *fakeRemote) Ping(ctx context.Context) error { return nil }
func (f *fakeRemote) SyncInvoices(ctx context.Context, invs []models.Invoice) (*api.SyncResponse, error) {
	return nil, errors.New("unexpected SyncInvoices call")
}
func (f *fakeRemote) GetAllInvoices(ctx context.Context) (*api.InvoicesResponse, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRemote) GetNextID(ctx context.Context) (int64, error) {
	return 0, errors.New("not implemented")
}
func (f *fakeRemote) GetProducts(ctx context.Context) ([]models.Product, error) {
	if f.productsFunc == nil {
		return nil, errors.New("unexpected GetProducts call")
	}
	return f.productsFunc()
}
func (f *fakeRemote) SaveProduct(ctx context.Context, token string, p models.Product) (*models.Product, error) {
	if f.saveProductFunc == nil {
		return nil, errors.New("unexpected SaveProduct call")
	}
	return f.saveProductFunc(token, p)
}
func (f *fakeRemote) DeleteProduct(ctx context.Context, token, id string) error {
	if f.deleteFunc == nil {
		return errors.New("unexpected DeleteProduct call")
	}
	return f.deleteFunc(token, id)
}
func (f *fakeRemote) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	if f.loginFunc == nil {
		return nil, errors.New("unexpected Login call")
	}
	return f.loginFunc(username, password)
}
func (f *fakeRemote) GetUsers(ctx context.Context, token string) ([]api.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRemote) CreateUser(ctx context.Context, token string, u api.User) error {
	return errors.New("not implemented")
}
func (f *fakeRemote) UpdateUser(ctx context.Context, token string, u api.User) error {
	return errors.New("not implemented")
}
func (f *fakeRemote) DeleteUser(ctx context.Context, token, username string) error {
	return errors.New("not implemented")
}
func (f *fakeRemote) GetActivity(ctx context.Context, token string) ([]api.ActivityEntry, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRemote) GetGlobalDefaults(ctx context.Context) (map[string]string, error) {
	if f.defaultsFunc == nil {
		return nil, errors.New("unexpected GetGlobalDefaults call")
	}
	return f.defaultsFunc()
}
func (f *fakeRemote) SaveGlobalDefaults(ctx context.Context, token string, d map[string]string) (map[string]string, error) {
	if f.saveDefFunc == nil {
		return nil, errors.New("unexpected SaveGlobalDefaults call")
	}
	return f.saveDefFunc(token, d)
}

// memSettings is an in-memory settings.Repository.
type memSettings struct {
	mu   stdsync.Mutex
	vals map[string]string
}

func newMemSettings() *memSettings {
	return &memSettings{vals: map[string]string{}}
}

func (m *memSettings) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	if !ok {
		return "", common.ErrorNotFound
	}
	return v, nil
}

func (m *memSettings) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = value
	return nil
}

func (m *memSettings) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vals, key)
	return nil
}

// memInvoices is an in-memory invoices.Repository.
type memInvoices struct {
	mu   stdsync.Mutex
	byID map[string]models.Invoice
}

func newMemInvoices() *memInvoices {
	return &memInvoices{byID: map[string]models.Invoice{}}
}

func (m *memInvoices) Upsert(ctx context.Context, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[inv.Id] = *inv
	return nil
}

func (m *memInvoices) GetAll(ctx context.Context) ([]models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Invoice, 0, len(m.byID))
	for _, inv := range m.byID {
		out = append(out, inv)
	}
	return out, nil
}

func (m *memInvoices) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &inv, nil
}

func (m *memInvoices) GetAllPending(ctx context.Context) ([]models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Invoice
	for _, inv := range m.byID {
		if inv.SyncStatus == models.SyncStatusPending {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memInvoices) Search(ctx context.Context, query string) ([]models.Invoice, error) {
	return m.GetAll(ctx)
}

func (m *memInvoices) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memInvoices) ReplaceAll(ctx context.Context, invs []models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = map[string]models.Invoice{}
	for _, inv := range invs {
		m.byID[inv.Id] = inv
	}
	return nil
}

// memProducts is an in-memory products.Repository.
type memProducts struct {
	mu   stdsync.Mutex
	byID map[string]models.Product
}

func newMemProducts() *memProducts {
	return &memProducts{byID: map[string]models.Product{}}
}

func (m *memProducts) Upsert(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.ID] = *p
	return nil
}

func (m *memProducts) GetAll(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memProducts) ReplaceAll(ctx context.Context, ps []models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = map[string]models.Product{}
	for _, p := range ps {
		m.byID[p.ID] = p
	}
	return nil
}
