package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Brightboard-Labs/brightboard/backend/database"
	"github.com/Brightboard-Labs/brightboard/backend/errs"
	"github.com/Brightboard-Labs/brightboard/backend/models"
)

const minPasswordLength = 8

// AuthService registers accounts, verifies credentials, and issues the
// stateless bearer tokens the access gate resolves. A token binds only the
// user id; there is no server-side session store.
type AuthService struct {
	users    *database.UserRepo
	secret   []byte
	tokenTTL time.Duration
	logger   zerolog.Logger
}

func NewAuthService(db database.Database, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    db.UserRepo(),
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   log.With().Str("serviceName", "authService").Logger(),
	}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type ProfileInput struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// Register creates an account and returns it with a fresh token.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", errs.NewValidationError("email", "a valid email address is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, "", errs.NewValidationError("name", "name is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", errs.NewValidationError("password", "password must be at least 8 characters")
	}

	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, "", errs.EmailTaken()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", errs.NewDatabaseError("find user", "user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errs.NewInternalErrorWithCause("failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hash),
		Role:         models.UserRoleOrdinary,
		IsActive:     true,
	}
	if err := s.users.Add(user); err != nil {
		if errs.IsUniqueViolation(err) {
			return nil, "", errs.EmailTaken()
		}
		return nil, "", errs.NewDatabaseError("create", "user", err)
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", errs.InvalidCredentials()
	}
	if err != nil {
		return nil, "", errs.NewDatabaseError("find user", "user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errs.InvalidCredentials()
	}
	if !user.IsActive {
		return nil, "", errs.AccountDeactivated()
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(user.ID, now); err != nil {
		s.logger.Error().Err(err).Msg("failed to record last login")
	} else {
		user.LastLoginAt = &now
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me returns the caller's own user record.
func (s *AuthService) Me(userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.Unauthorized()
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find user", "user", err)
	}
	return user, nil
}

// UpdateProfile changes the caller's display name and avatar.
func (s *AuthService) UpdateProfile(userID uuid.UUID, input ProfileInput) (*models.User, error) {
	user, err := s.Me(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errs.NewValidationError("name", "name cannot be empty")
		}
		user.Name = name
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}

	if err := s.users.Update(user); err != nil {
		return nil, errs.NewDatabaseError("update", "user", err)
	}
	return user, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *AuthService) ChangePassword(userID uuid.UUID, current, updated string) error {
	user, err := s.Me(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return errs.InvalidCredentials()
	}
	if len(updated) < minPasswordLength {
		return errs.NewValidationError("password", "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(updated), bcrypt.DefaultCost)
	if err != nil {
		return errs.NewInternalErrorWithCause("failed to hash password", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Update(user); err != nil {
		return errs.NewDatabaseError("update", "user", err)
	}
	return nil
}

// Deactivate soft-disables the account. Records are never hard-deleted here.
func (s *AuthService) Deactivate(userID uuid.UUID) error {
	user, err := s.Me(userID)
	if err != nil {
		return err
	}
	user.IsActive = false
	if err := s.users.Update(user); err != nil {
		return errs.NewDatabaseError("update", "user", err)
	}
	return nil
}

// IssueToken signs an HS256 token whose subject is the user id.
func (s *AuthService) IssueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to sign token", err)
	}
	return signed, nil
}

// VerifyToken validates signature and expiry and returns the bound user id.
func (s *AuthService) VerifyToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errs.Unauthorized()
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return uuid.Nil, errs.Unauthorized()
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.Unauthorized()
	}
	return userID, nil
}

// ResolveUser is the access gate: it turns a bearer token into an active
// user record or fails with Unauthorized / AccountDeactivated.
func (s *AuthService) ResolveUser(tokenString string) (*models.User, error) {
	userID, err := s.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.Unauthorized()
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find user", "user", err)
	}
	if !user.IsActive {
		return nil, errs.AccountDeactivated()
	}
	return user, nil
}

// SearchUsers finds active users by name or email fragment.
func (s *AuthService) SearchUsers(query string, limit int) ([]*models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.NewValidationError("q", "search query is required")
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	users, err := s.users.Search(query, limit)
	if err != nil {
		return nil, errs.NewDatabaseError("search", "users", err)
	}
	return users, nil
}
