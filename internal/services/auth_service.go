package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/mailer"
	"storefront/pkg/oauth"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	purposeConfirm  = "confirm"
	purposeReset    = "reset"
	confirmTokenTTL = 24 * time.Hour
	resetTokenTTL   = time.Hour

	msgInvalidCredentials = "Invalid user credentials"
	msgTokenNotValid      = "Token not valid"
	msgUserInactive       = "User is inactive, talk with your administrator"
	msgNotVerified        = "Your email account could not be verified"
	msgResetLinkInvalid   = "Password reset link is invalid or has expired"
)

// EmailDispatcher delivers templated emails, either directly or through a queue.
type EmailDispatcher interface {
	Dispatch(ctx context.Context, msg mailer.Message) error
}

// OAuthVerifier turns a provider token into a verified profile.
type OAuthVerifier interface {
	Verify(ctx context.Context, token string) (*oauth.Profile, error)
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	PublicBaseURL string
}

// AuthService handles registration, login, tokens and user administration.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	baseURL   string
	mail      EmailDispatcher
	google    OAuthVerifier
	log       *zap.Logger
}

// NewAuthService creates a new AuthService. google may be nil when Google sign-in is disabled.
func NewAuthService(userRepo repositories.UserRepository, cfg AuthConfig, mail EmailDispatcher, google OAuthVerifier, log *zap.Logger) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  ttl,
		baseURL:   cfg.PublicBaseURL,
		mail:      mail,
		google:    google,
		log:       log,
	}
}

func (s *AuthService) sign(claims jwt.MapClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

func (s *AuthService) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// sessionToken signs {user_id, roles, exp, iat}.
func (s *AuthService) sessionToken(user *models.User) (string, error) {
	return s.sign(jwt.MapClaims{
		"user_id": user.ID,
		"roles":   []string(user.Roles),
	}, s.tokenTTL)
}

func (s *AuthService) emailToken(email, purpose string, ttl time.Duration) (string, error) {
	return s.sign(jwt.MapClaims{"email": email, "purpose": purpose}, ttl)
}

// emailFromToken returns the email of a token signed for purpose.
func (s *AuthService) emailFromToken(token, purpose string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	if p, _ := claims["purpose"].(string); p != purpose {
		return "", fmt.Errorf("token purpose %q, want %q", p, purpose)
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", errors.New("token carries no email")
	}
	return email, nil
}

func (s *AuthService) session(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	token, err := s.sessionToken(user)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &models.AuthResponse{User: user, Token: token}, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	return string(hashed), nil
}

// RegisterWithEmail creates an inactive account and mails a 24h confirmation link.
func (s *AuthService) RegisterWithEmail(ctx context.Context, req models.RegisterUserRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict("Email %s is already registered", req.Email)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storageFailure(ctx, s.log, "get user by email", err)
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Roles:     models.StringArray{models.RoleUser},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, writeFailure(ctx, s.log, "create user", err, "Email %s is already registered", req.Email)
	}

	token, err := s.emailToken(user.Email, purposeConfirm, confirmTokenTTL)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	msg := mailer.Message{
		To:       user.Email,
		Template: mailer.TemplateConfirmRegistration,
		Vars: map[string]string{
			"name": user.FirstName,
			"link": s.baseURL + "/auth/confirm-registration/" + token,
		},
	}
	if err := s.mail.Dispatch(ctx, msg); err != nil {
		// the account exists; the user can still be activated by an administrator
		logger.FromContext(ctx, s.log).Error("failed to dispatch confirmation email",
			zap.Uint("user_id", user.ID), zap.Error(err))
	}
	return user, nil
}

// ConfirmRegistration activates the account a confirmation token was issued for.
func (s *AuthService) ConfirmRegistration(ctx context.Context, token string) (*models.User, error) {
	email, err := s.emailFromToken(token, purposeConfirm)
	if err != nil {
		return nil, apperror.BadRequest(msgNotVerified)
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.BadRequest(msgNotVerified)
		}
		return nil, storageFailure(ctx, s.log, "get user by email", err)
	}
	if user.IsActive {
		return user, nil
	}
	user.IsActive = true
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, storageFailure(ctx, s.log, "activate user", err)
	}
	return user, nil
}

// Login checks credentials of an active account and issues a session token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, storageFailure(ctx, s.log, "get user by email", err)
	}
	if err != nil || !user.IsActive ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		metrics.RecordAuthAttempt("email", false)
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	metrics.RecordAuthAttempt("email", true)
	return s.session(ctx, user)
}

// RecoverPassword mails a 1h reset link to an active account.
func (s *AuthService) RecoverPassword(ctx context.Context, req models.RecoverPasswordRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return lookupFailure(ctx, s.log, "get user by email", err, "User with email %s not found", req.Email)
	}
	if !user.IsActive {
		return apperror.NotFound("User with email %s not found", req.Email)
	}

	token, err := s.emailToken(user.Email, purposeReset, resetTokenTTL)
	if err != nil {
		return apperror.Internal(err)
	}
	msg := mailer.Message{
		To:       user.Email,
		Template: mailer.TemplateRecoverPassword,
		Vars: map[string]string{
			"name": user.FirstName,
			"link": s.baseURL + "/auth/reset-password/" + token,
		},
	}
	if err := s.mail.Dispatch(ctx, msg); err != nil {
		logger.FromContext(ctx, s.log).Error("failed to dispatch recovery email",
			zap.Uint("user_id", user.ID), zap.Error(err))
		return apperror.Internal(err)
	}
	return nil
}

// VerifyResetToken returns the active user a reset token was issued for.
func (s *AuthService) VerifyResetToken(ctx context.Context, token string) (*models.User, error) {
	email, err := s.emailFromToken(token, purposeReset)
	if err != nil {
		return nil, apperror.BadRequest(msgResetLinkInvalid)
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.BadRequest(msgResetLinkInvalid)
		}
		return nil, storageFailure(ctx, s.log, "get user by email", err)
	}
	if !user.IsActive {
		return nil, apperror.BadRequest(msgResetLinkInvalid)
	}
	return user, nil
}

// ChangePassword sets a new password for the holder of a valid reset token.
func (s *AuthService) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	user, err := s.VerifyResetToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hashed
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, storageFailure(ctx, s.log, "change password", err)
	}
	return user, nil
}

// RegisterWithOAuth logs in the provider-verified user, creating an active account on first sight.
func (s *AuthService) RegisterWithOAuth(ctx context.Context, profile *oauth.Profile) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, profile.Email)
	if err == nil {
		if !user.IsActive {
			return nil, apperror.Unauthorized(msgUserInactive)
		}
		return s.session(ctx, user)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storageFailure(ctx, s.log, "get user by email", err)
	}

	// OAuth accounts never log in with a password; store an unguessable one.
	hashed, err := hashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}
	user = &models.User{
		Email:     profile.Email,
		Password:  hashed,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Roles:     models.StringArray{models.RoleUser},
		Google:    profile.Provider == oauth.ProviderGoogle,
		Facebook:  profile.Provider == oauth.ProviderFacebook,
		IsActive:  true,
	}
	if profile.Picture != "" {
		user.Picture = &profile.Picture
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, writeFailure(ctx, s.log, "create oauth user", err, "Email %s is already registered", profile.Email)
	}
	return s.session(ctx, user)
}

// LoginWithGoogle verifies a Google ID token and signs the user in.
func (s *AuthService) LoginWithGoogle(ctx context.Context, req models.GoogleLoginRequest) (*models.AuthResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if s.google == nil {
		return nil, apperror.BadRequest("Google sign-in is not enabled")
	}
	profile, err := s.google.Verify(ctx, req.IDToken)
	if err != nil {
		metrics.RecordAuthAttempt(oauth.ProviderGoogle, false)
		logger.FromContext(ctx, s.log).Info("google token rejected", zap.Error(err))
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	metrics.RecordAuthAttempt(oauth.ProviderGoogle, true)
	return s.RegisterWithOAuth(ctx, profile)
}

// ValidateToken parses a session token and loads its user.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, apperror.Unauthorized(msgTokenNotValid)
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return nil, apperror.Unauthorized(msgTokenNotValid)
	}
	user, err := s.userRepo.GetByID(ctx, uint(rawID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.Unauthorized(msgTokenNotValid)
		}
		return nil, storageFailure(ctx, s.log, "get user by id", err)
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized(msgUserInactive)
	}
	return user, nil
}

// RefreshToken issues a fresh session token for an authenticated user.
func (s *AuthService) RefreshToken(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	return s.session(ctx, user)
}

// ListUsers pages through active users.
func (s *AuthService) ListUsers(ctx context.Context, p models.Pagination) (models.Page[models.User], error) {
	return findAllPaginated(ctx, nil, s.log, listSource[models.User]{
		entity: "users",
		stamp:  s.userRepo.Stamp,
		load:   s.userRepo.List,
	}, nil, p)
}

func (s *AuthService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, lookupFailure(ctx, s.log, "get user by email", err, "User with email %s not found", email)
	}
	return user, nil
}

func (s *AuthService) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFailure(ctx, s.log, "get user by id", err, "User with id %d not found", id)
	}
	return user, nil
}

// UpdateUser merges the provided name and phone fields.
func (s *AuthService) UpdateUser(ctx context.Context, email string, req models.UpdateUserRequest) (*models.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, storageFailure(ctx, s.log, "update user", err)
	}
	return user, nil
}

// DeactivateUser soft-deletes the account.
func (s *AuthService) DeactivateUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	user.IsActive = false
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, storageFailure(ctx, s.log, "deactivate user", err)
	}
	return user, nil
}
