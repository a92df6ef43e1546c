package sync

import (
	"context"
	"errors"
	stdsync "sync"

	"github.com/primesolution/invoicer/internal/api"
	"github.com/primesolution/invoicer/internal/client/models"
	"github.com/primesolution/invoicer/internal/common"
)

// fakeRemote implements remote.Client in memory. Individual calls can be
// overridden per test; everything else fails loudly so a test never leans
// on behavior it did not declare.
type fakeRemote struct {
	mu        stdsync.Mutex
	pingErr   error
	pingCalls int
	syncFunc  func(invs []models.Invoice) (*api.SyncResponse, error)
	syncCalls int
	batches   [][]models.Invoice
}

func (f *fakeRemote) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingCalls++
	return f.pingErr
}

func (f *fakeRemote) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeRemote) pings() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingCalls
}

func (f *fakeRemote) SyncInvoices(ctx context.Context, invs []models.Invoice) (*api.SyncResponse, error) {
	f.mu.Lock()
	f.syncCalls++
	batch := make([]models.Invoice, len(invs))
	copy(batch, invs)
	f.batches = append(f.batches, batch)
	f.mu.Unlock()

	if f.syncFunc == nil {
		return nil, errors.New("unexpected SyncInvoices call")
	}
	return f.syncFunc(invs)
}

func (f *fakeRemote) GetAllInvoices(ctx context.Context) (*api.InvoicesResponse, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRemote) GetNextID(ctx context.Context) (int64, error) {
	return 0, errors.New("not implemented")
}
func (f *fakeRemote) GetProducts(ctx context.Context) ([]models.Product, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRemote) SaveProduct(ctx context.Context, token string, p models.Product) (*models.Product, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRemote) DeleteProduct(ctx context.Context, token, id string) error {
	return errors.New("not implemented")
}
func (f *fakeRemote) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	return nil, errors.New("not implemented")
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
	return nil, errors.New("not implemented")
}
func (f *fakeRemote) SaveGlobalDefaults(ctx context.Context, token string, d map[string]string) (map[string]string, error) {
	return nil, errors.New("not implemented")
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
