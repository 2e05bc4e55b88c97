package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"vidtube/internal/apperrors"
	"vidtube/internal/ids"
	"vidtube/internal/media/sniffer"
	"vidtube/internal/models"
	"vidtube/internal/repository"
	"vidtube/internal/security"
)

type AuthService struct {
	users        UserStore
	media        MediaStore
	assets       assetJanitor
	tokens       *security.TokenIssuer
	hashPassword func(string) ([]byte, error)
	log          zerolog.Logger
}

func NewAuthService(
	users UserStore,
	media MediaStore,
	tasks TaskQueue,
	tokens *security.TokenIssuer,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:        users,
		media:        media,
		assets:       assetJanitor{media: media, tasks: tasks, log: log},
		tokens:       tokens,
		hashPassword: security.HashPassword,
		log:          log,
	}
}

type RegisterInput struct {
	FullName       string `validate:"required,max=100"`
	Username       string `validate:"required,min=3,max=30,alphanum"`
	Email          string `validate:"required,email"`
	Password       string `validate:"required,min=8,max=128"`
	AvatarPath     string
	CoverImagePath string
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

type ChangePasswordInput struct {
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,min=8,max=128"`
}

// AuthResult is what a successful login or refresh hands back to the
// transport layer.
type AuthResult struct {
	Tokens security.TokenPair
	User   models.User
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Username = normalize(input.Username)
	input.Email = normalize(input.Email)
	if err := validateInput("all fields are required", input); err != nil {
		return models.User{}, err
	}

	if _, err := s.users.FindByUsernameOrEmail(ctx, input.Username, input.Email); err == nil {
		return models.User{}, apperrors.Conflict("user with email or username already exists")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, apperrors.Internal("check existing user", err)
	}

	if input.AvatarPath == "" {
		return models.User{}, apperrors.Validation("avatar file is required")
	}

	passwordHash, err := s.hashPassword(input.Password)
	if err != nil {
		return models.User{}, apperrors.Internal("hash password", err)
	}

	avatar, err := s.media.Upload(ctx, input.AvatarPath)
	if err != nil || avatar.URL == "" {
		s.log.Warn().Err(err).Str("username", input.Username).Msg("avatar upload failed")
		return models.User{}, apperrors.Validation("avatar file is required")
	}
	if avatar.Kind != sniffer.KindImage {
		s.assets.discard(ctx, avatar.URL, "avatar is not an image")
		return models.User{}, apperrors.Validation("avatar must be an image")
	}

	coverURL := ""
	if input.CoverImagePath != "" {
		cover, err := s.media.Upload(ctx, input.CoverImagePath)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("username", input.Username).Msg("cover image upload failed, continuing without it")
		case cover.Kind != sniffer.KindImage:
			s.assets.discard(ctx, cover.URL, "cover image is not an image")
		default:
			coverURL = cover.URL
		}
	}

	created, err := s.users.Create(ctx, models.User{
		ID:            ids.New(),
		Username:      input.Username,
		Email:         input.Email,
		FullName:      input.FullName,
		PasswordHash:  passwordHash,
		AvatarURL:     avatar.URL,
		CoverImageURL: coverURL,
	})
	if err != nil {
		s.assets.discard(ctx, avatar.URL, "registration failed")
		s.assets.discard(ctx, coverURL, "registration failed")
		if errors.Is(err, repository.ErrConflict) {
			return models.User{}, apperrors.Conflict("user with email or username already exists")
		}
		return models.User{}, apperrors.Internal("something went wrong while registering the user", err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	username := normalize(input.Username)
	email := normalize(input.Email)
	if username == "" && email == "" {
		return AuthResult{}, apperrors.Validation("username or email is required")
	}
	if input.Password == "" {
		return AuthResult{}, apperrors.Validation("password is required")
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return AuthResult{}, storeError(err, "user does not exist", "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return AuthResult{}, apperrors.Internal("verify password", err)
	}
	if !ok {
		return AuthResult{}, apperrors.Unauthorized("invalid user credentials")
	}

	return s.issueTokens(ctx, user.ID)
}

// Refresh exchanges a refresh token for a new pair. Only the most recently
// issued refresh token of an account is accepted; using it rotates it out.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if refreshToken == "" {
		return AuthResult{}, apperrors.Unauthorized("unauthorized request")
	}

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return AuthResult{}, apperrors.Unauthorized("invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, apperrors.Unauthorized("invalid refresh token")
		}
		return AuthResult{}, apperrors.Internal("load user", err)
	}

	if !security.RefreshTokenMatches(refreshToken, user.RefreshTokenHash) {
		return AuthResult{}, apperrors.Unauthorized("refresh token is expired or used")
	}

	return s.issueTokens(ctx, user.ID)
}

// Logout forgets the account's refresh token. Logging out an account that no
// longer exists is not an error.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	err := s.users.ClearRefreshToken(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return apperrors.Internal("clear refresh token", err)
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	if err := validateInput("invalid password change", input); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return storeError(err, "user does not exist", "load user")
	}

	ok, err := security.VerifyPassword(input.OldPassword, user.PasswordHash)
	if err != nil {
		return apperrors.Internal("verify password", err)
	}
	if !ok {
		return apperrors.Unauthorized("invalid old password")
	}

	passwordHash, err := s.hashPassword(input.NewPassword)
	if err != nil {
		return apperrors.Internal("hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return storeError(err, "user does not exist", "update password")
	}
	return nil
}

// Authenticate resolves an access token to its account.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	if accessToken == "" {
		return models.User{}, apperrors.Unauthorized("unauthorized request")
	}

	claims, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return models.User{}, apperrors.Unauthorized("invalid access token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperrors.Unauthorized("invalid access token")
		}
		return models.User{}, apperrors.Internal("load user", err)
	}
	return user, nil
}

// CurrentUser reloads the authenticated account.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, storeError(err, "user does not exist", "load user")
	}
	return user, nil
}

// issueTokens mints a pair for the account and persists the refresh token
// digest. It is the only place a refresh token is written.
func (s *AuthService) issueTokens(ctx context.Context, userID string) (AuthResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return AuthResult{}, apperrors.Internal("something went wrong while generating tokens", err)
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, apperrors.Internal("something went wrong while generating tokens", err)
	}

	digest := security.HashRefreshToken(pair.RefreshToken)
	if err := s.users.SetRefreshToken(ctx, user.ID, digest); err != nil {
		return AuthResult{}, apperrors.Internal("something went wrong while generating tokens", err)
	}
	user.RefreshTokenHash = digest

	return AuthResult{Tokens: pair, User: user}, nil
}
