package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/profitpilotai/controlplane/internal/errs"
	"github.com/profitpilotai/controlplane/internal/models"
	"github.com/profitpilotai/controlplane/internal/repository"
)

// SubscriptionCloser tears down an account's live status subscriptions.
type SubscriptionCloser interface {
	CloseAccount(loginID string)
}

// UserUpdate carries the optional fields of an admin user update; nil means
// leave unchanged.
type UserUpdate struct {
	Password          *string
	PreferredStrategy *string
	IsActive          *bool
}

type AdminService interface {
	ListUsers() ([]*models.Account, error)
	CreateUser(loginID, password string, role models.Role, derivAPIToken string) (*models.Account, error)
	UpdateUser(loginID string, update UserUpdate) (*models.Account, error)
	DeleteUser(loginID string) error
	// EnsureAdmin creates the bootstrap admin account if it does not exist.
	EnsureAdmin(loginID, password string) error
}

type adminService struct {
	accounts repository.AccountRepository
	configs  repository.ConfigRepository
	sessions SessionService
	bots     *BotService
	subs     SubscriptionCloser
	log      *zap.Logger
}

func NewAdminService(accounts repository.AccountRepository, configs repository.ConfigRepository, sessions SessionService, bots *BotService, subs SubscriptionCloser, log *zap.Logger) AdminService {
	return &adminService{
		accounts: accounts,
		configs:  configs,
		sessions: sessions,
		bots:     bots,
		subs:     subs,
		log:      log,
	}
}

func (s *adminService) ListUsers() ([]*models.Account, error) {
	return s.accounts.List()
}

func (s *adminService) CreateUser(loginID, password string, role models.Role, derivAPIToken string) (*models.Account, error) {
	if loginID == "" {
		return nil, errs.Validation("login_id", "must not be empty")
	}
	if password == "" {
		return nil, errs.Validation("password", "must not be empty")
	}
	if !role.Valid() || role == models.RoleAdmin {
		return nil, errs.Validation("account_type", fmt.Sprintf("unknown account type %q", role))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		LoginID:      loginID,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.accounts.Create(account); err != nil {
		return nil, err
	}

	config := models.DefaultConfig(loginID)
	config.DerivAPIToken = derivAPIToken
	if err := s.configs.Save(config); err != nil {
		// Roll the account back so a user never exists without its config.
		if delErr := s.accounts.Delete(loginID); delErr != nil {
			s.log.Error("failed to roll back account after config save failure",
				zap.String("login_id", loginID),
				zap.Error(delErr))
		}
		return nil, err
	}
	s.bots.Ensure(loginID)

	s.log.Info("user created",
		zap.String("login_id", loginID),
		zap.String("role", string(role)))
	return account, nil
}

func (s *adminService) UpdateUser(loginID string, update UserUpdate) (*models.Account, error) {
	account, err := s.accounts.GetByLoginID(loginID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errs.ErrNotFound
	}

	if update.Password != nil {
		if *update.Password == "" {
			return nil, errs.Validation("password", "must not be empty")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = string(hash)
	}
	if update.PreferredStrategy != nil {
		account.PreferredStrategy = *update.PreferredStrategy
	}
	deactivated := false
	if update.IsActive != nil {
		deactivated = account.IsActive && !*update.IsActive
		account.IsActive = *update.IsActive
	}

	if err := s.accounts.Update(account); err != nil {
		return nil, err
	}

	if deactivated {
		// Existing tokens die on their next validation; live subscriptions
		// are closed here.
		s.subs.CloseAccount(loginID)
		s.log.Info("user deactivated", zap.String("login_id", loginID))
	}
	return account, nil
}

func (s *adminService) DeleteUser(loginID string) error {
	account, err := s.accounts.GetByLoginID(loginID)
	if err != nil {
		return err
	}
	if account == nil {
		return errs.ErrNotFound
	}

	if err := s.accounts.Delete(loginID); err != nil {
		return err
	}
	s.sessions.RevokeAccount(loginID)
	if err := s.configs.Delete(loginID); err != nil {
		s.log.Warn("failed to delete user config",
			zap.String("login_id", loginID),
			zap.Error(err))
	}
	s.bots.Remove(loginID)
	s.subs.CloseAccount(loginID)

	s.log.Info("user deleted", zap.String("login_id", loginID))
	return nil
}

func (s *adminService) EnsureAdmin(loginID, password string) error {
	existing, err := s.accounts.GetByLoginID(loginID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	account := &models.Account{
		LoginID:      loginID,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.accounts.Create(account); err != nil {
		return err
	}
	s.log.Info("bootstrap admin created", zap.String("login_id", loginID))
	return nil
}
