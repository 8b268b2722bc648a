// Package services contains server-side business logic. AuthService
// handles sign-up, sign-in, sign-out and resolving access tokens to live
// sessions.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carTloyal123/shoppi/internal/common"
	"github.com/carTloyal123/shoppi/internal/dbx"
	"github.com/carTloyal123/shoppi/internal/logging"
	"github.com/carTloyal123/shoppi/internal/server/auth"
	"github.com/carTloyal123/shoppi/internal/server/config"
	"github.com/carTloyal123/shoppi/internal/server/models"
	"github.com/carTloyal123/shoppi/internal/server/repositories/repomanager"
	"github.com/carTloyal123/shoppi/internal/server/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

type AuthService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	sessions                    sessions.Store
	validate                    *validator.Validate
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int
}

// NewAuthService constructs an AuthService using repositories, the session
// store and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, st sessions.Store, cfg *config.Config, l logging.Logger) *AuthService {
	return &AuthService{
		db:                          db,
		repomanager:                 m,
		sessions:                    st,
		validate:                    validator.New(),
		logger:                      l.With("module", "auth_service"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  bcrypt.DefaultCost,
	}
}

func (s *AuthService) check(email, password string) (string, error) {
	email = common.NormalizeEmail(email)
	if err := s.validate.Struct(credentials{Email: email, Password: password}); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return email, nil
}

// SignUp creates an identity for email and opens a session for it.
// An email that is already registered yields common.ErrorAlreadyExists.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*models.IssuedSession, error) {
	email, err := s.check(email, password)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	identity, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Identity, error) {
		repo := s.repomanager.Identities(tx)

		_, err := repo.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return nil, common.ErrorAlreadyExists
		case !errors.Is(err, common.ErrorNotFound):
			return nil, err
		}

		return repo.Create(ctx, &models.Identity{ID: uuid.NewString(), Email: email, PasswordHash: string(hash)})
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating identity: %w", err)
	}

	s.logger.Info(ctx, "identity registered", "identity_id", identity.ID)
	return s.issue(ctx, identity)
}

// SignIn checks the credentials and opens a session. Unknown emails and
// wrong passwords both yield common.ErrorUnauthorized.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.IssuedSession, error) {
	email, err := s.check(email, password)
	if err != nil {
		return nil, err
	}

	identity, err := s.repomanager.Identities(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading identity: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(ctx, identity)
}

func (s *AuthService) issue(ctx context.Context, identity *models.Identity) (*models.IssuedSession, error) {
	sessionID := uuid.NewString()

	token, expires, err := auth.GenerateToken(identity.ID, sessionID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	sess := models.Session{ID: sessionID, IdentityID: identity.ID, Email: identity.Email, ExpiresAt: expires.UTC()}
	if err := s.sessions.Save(ctx, &sess); err != nil {
		return nil, fmt.Errorf("error saving session: %w", err)
	}

	return &models.IssuedSession{AccessToken: token, Session: sess}, nil
}

// Authenticate resolves an access token to its live session. Expired,
// forged and signed-out tokens all yield common.ErrorUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, common.ErrSessionRevoked) {
			return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
		}
		return nil, err
	}
	if sess.IdentityID != claims.IdentityID {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}
	return sess, nil
}

// SignOut ends sessionID.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
