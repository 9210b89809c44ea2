package service

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/profitpilotai/controlplane/internal/errs"
	"github.com/profitpilotai/controlplane/internal/models"
	"github.com/profitpilotai/controlplane/internal/repository"
)

// dummyHash keeps Login doing one bcrypt compare even when the account does
// not exist, so missing and wrong-password lookups take the same time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type SessionService interface {
	// Login verifies credentials and issues a new session token.
	Login(loginID, password string) (string, *models.Account, error)
	// Validate resolves a bearer token to its active account.
	Validate(token string) (*models.Account, error)
	// Logout destroys the session if present; unknown tokens are a no-op.
	Logout(token string)
	// RevokeAccount destroys every session of the account.
	RevokeAccount(loginID string)
}

type sessionService struct {
	accounts  repository.AccountRepository
	jwtSecret []byte
	ttl       time.Duration
	log       *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewSessionService(accounts repository.AccountRepository, jwtSecret string, ttl time.Duration, log *zap.Logger) SessionService {
	return &sessionService{
		accounts:  accounts,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		log:       log,
		sessions:  make(map[string]*models.Session),
	}
}

func (s *sessionService) Login(loginID, password string) (string, *models.Account, error) {
	account, err := s.accounts.GetByLoginID(loginID)
	if err != nil {
		return "", nil, err
	}

	hash := dummyHash
	if account != nil {
		hash = account.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if account == nil || !account.IsActive || compareErr != nil {
		return "", nil, errs.ErrInvalidCredentials
	}

	now := time.Now()
	session := &models.Session{
		ID:        uuid.New().String(),
		LoginID:   account.LoginID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": account.LoginID,
		"jti": session.ID,
		"iat": now.Unix(),
		"exp": session.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.log.Info("session issued",
		zap.String("login_id", account.LoginID),
		zap.Time("expires_at", session.ExpiresAt))
	return signed, account, nil
}

func (s *sessionService) Validate(token string) (*models.Account, error) {
	sessionID, ok := s.parse(token)
	if !ok {
		return nil, errs.ErrUnauthenticated
	}

	s.mu.RLock()
	session, found := s.sessions[sessionID]
	s.mu.RUnlock()
	if !found {
		return nil, errs.ErrUnauthenticated
	}

	if session.Expired(time.Now()) {
		s.drop(sessionID)
		return nil, errs.ErrUnauthenticated
	}

	// Re-read the account each time so deactivation and deletion revoke
	// outstanding tokens on the very next call.
	account, err := s.accounts.GetByLoginID(session.LoginID)
	if err != nil {
		return nil, err
	}
	if account == nil || !account.IsActive {
		s.drop(sessionID)
		return nil, errs.ErrUnauthenticated
	}
	return account, nil
}

func (s *sessionService) Logout(token string) {
	sessionID, ok := s.parse(token)
	if !ok {
		return
	}
	s.drop(sessionID)
}

func (s *sessionService) RevokeAccount(loginID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if session.LoginID == loginID {
			delete(s.sessions, id)
		}
	}
}

func (s *sessionService) drop(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

func (s *sessionService) parse(tokenStr string) (sessionID string, ok bool) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, castOK := token.Claims.(jwt.MapClaims)
	if !castOK {
		return "", false
	}
	sessionID, castOK = claims["jti"].(string)
	if !castOK || sessionID == "" {
		return "", false
	}
	return sessionID, true
}
