package repository

import (
	"sync"

	"github.com/profitpilotai/controlplane/internal/errs"
	"github.com/profitpilotai/controlplane/internal/models"
)

// In-memory repositories with the same contracts as the Mongo ones, used by
// the test suite.

type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
	order    []string
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[string]*models.Account)}
}

func (r *MemoryAccountRepository) Create(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.LoginID]; exists {
		return errs.ErrConflict
	}
	cp := *account
	r.accounts[account.LoginID] = &cp
	r.order = append(r.order, account.LoginID)
	return nil
}

func (r *MemoryAccountRepository) GetByLoginID(loginID string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[loginID]
	if !ok {
		return nil, nil
	}
	cp := *account
	return &cp, nil
}

func (r *MemoryAccountRepository) List() ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*models.Account, 0, len(r.order))
	for _, loginID := range r.order {
		if account, ok := r.accounts[loginID]; ok {
			cp := *account
			accounts = append(accounts, &cp)
		}
	}
	return accounts, nil
}

func (r *MemoryAccountRepository) Update(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.LoginID]; !exists {
		return errs.ErrNotFound
	}
	cp := *account
	r.accounts[account.LoginID] = &cp
	return nil
}

func (r *MemoryAccountRepository) Delete(loginID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[loginID]; !exists {
		return errs.ErrNotFound
	}
	delete(r.accounts, loginID)
	for i, id := range r.order {
		if id == loginID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type MemoryConfigRepository struct {
	mu      sync.RWMutex
	configs map[string]*models.UserConfig
}

func NewMemoryConfigRepository() *MemoryConfigRepository {
	return &MemoryConfigRepository{configs: make(map[string]*models.UserConfig)}
}

func (r *MemoryConfigRepository) Get(loginID string) (*models.UserConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, ok := r.configs[loginID]
	if !ok {
		return nil, nil
	}
	cp := *config
	cp.SelectedPairs = append([]string(nil), config.SelectedPairs...)
	return &cp, nil
}

func (r *MemoryConfigRepository) Save(config *models.UserConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *config
	cp.SelectedPairs = append([]string(nil), config.SelectedPairs...)
	r.configs[config.LoginID] = &cp
	return nil
}

func (r *MemoryConfigRepository) Delete(loginID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.configs, loginID)
	return nil
}

type MemoryAuditRepository struct {
	mu      sync.RWMutex
	entries []*models.AuditEntry
}

func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) Insert(entry *models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *MemoryAuditRepository) List(limit int64) ([]*models.AuditEntry, error) {
	return r.filter(func(*models.AuditEntry) bool { return true }, limit)
}

func (r *MemoryAuditRepository) ListByLogin(loginID string, limit int64) ([]*models.AuditEntry, error) {
	return r.filter(func(e *models.AuditEntry) bool { return e.LoginID == loginID }, limit)
}

func (r *MemoryAuditRepository) filter(keep func(*models.AuditEntry) bool, limit int64) ([]*models.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.AuditEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if !keep(r.entries[i]) {
			continue
		}
		cp := *r.entries[i]
		out = append(out, &cp)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}
