package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"vidtube/internal/config"
	"vidtube/internal/media/sniffer"
	"vidtube/internal/middleware"
	"vidtube/internal/mocks"
	"vidtube/internal/security"
	"vidtube/internal/staging"
	"vidtube/internal/storage"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

type HandlersSuite struct {
	suite.Suite
	users   *mocks.MemoryUsers
	media   *mocks.MediaStore
	videos  *mocks.VideoStore
	subs    *mocks.SubscriptionStore
	staging *staging.Area
	engine  *gin.Engine
}

func (s *HandlersSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.users = mocks.NewMemoryUsers()
	s.media = &mocks.MediaStore{}
	s.videos = &mocks.VideoStore{}
	s.subs = &mocks.SubscriptionStore{}

	area, err := staging.NewArea(s.T().TempDir())
	s.Require().NoError(err)
	s.staging = area

	cfg := &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTAccessSecret:  "access-secret-for-tests",
			JWTRefreshSecret: "refresh-secret-for-tests",
			JWTAccessTTL:     15 * time.Minute,
			JWTRefreshTTL:    240 * time.Hour,
			SecureCookies:    true,
		},
		Uploads: config.UploadConfig{MaxFileBytes: 1 << 20},
	}

	h := NewHandlerSet(zerolog.Nop(), cfg, Dependencies{
		Users:         s.users,
		Videos:        s.videos,
		Subscriptions: s.subs,
		Media:         s.media,
		Tokens:        security.NewTokenIssuer(cfg.Security),
		Staging:       area,
		Checks: []HealthCheck{
			{Name: "postgres", Ping: func(context.Context) error { return nil }},
		},
	})

	engine := gin.New()
	engine.Use(middleware.Errors(zerolog.Nop()))
	h.Register(engine.Group("/api"))
	s.engine = engine
}

func (s *HandlersSuite) do(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var body envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func jsonRequest(method, path string, payload any) *http.Request {
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(method, path string, fields map[string]string, files map[string][]byte) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	for field, content := range files {
		part, _ := w.CreateFormFile(field, field+".png")
		_, _ = part.Write(content)
	}
	_ = w.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func cookieValue(rec *httptest.ResponseRecorder, name string) (*http.Cookie, bool) {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func (s *HandlersSuite) stagedFiles() []os.DirEntry {
	entries, err := os.ReadDir(s.staging.Dir())
	s.Require().NoError(err)
	return entries
}

func (s *HandlersSuite) register(username string) {
	s.media.On("Upload", mock.Anything, mock.Anything).Return(storage.Asset{
		URL:  "http://media.local/images/" + username + ".png",
		Kind: sniffer.KindImage,
	}, nil).Once()

	rec, body := s.do(multipartRequest(http.MethodPost, "/api/v1/users/register", map[string]string{
		"fullName": "Alice",
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse",
	}, map[string][]byte{"avatar": pngBytes}))

	s.Require().Equal(http.StatusCreated, rec.Code, body.Message)
}

func (s *HandlersSuite) TestSessionScenario() {
	s.register("alice")
	s.Empty(s.stagedFiles(), "staged uploads are removed when the request ends")

	rec, body := s.do(jsonRequest(http.MethodPost, "/api/v1/users/login", map[string]string{
		"username": "alice", "password": "correct-horse",
	}))
	s.Require().Equal(http.StatusOK, rec.Code, body.Message)
	s.True(body.Success)
	s.NotContains(string(body.Data), "password")

	access, ok := cookieValue(rec, middleware.AccessTokenCookie)
	s.Require().True(ok)
	s.True(access.HttpOnly)
	s.True(access.Secure)
	refresh, ok := cookieValue(rec, middleware.RefreshTokenCookie)
	s.Require().True(ok)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.AddCookie(access)
	rec, body = s.do(req)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(string(body.Data), `"username":"alice"`)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(refresh)
	rec, body = s.do(req)
	s.Require().Equal(http.StatusOK, rec.Code, body.Message)
	rotated, ok := cookieValue(rec, middleware.RefreshTokenCookie)
	s.Require().True(ok)
	s.NotEqual(refresh.Value, rotated.Value)

	rec, body = s.do(jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", map[string]string{"refreshToken": refresh.Value}))
	s.Equal(http.StatusUnauthorized, rec.Code, "rotated-out token is rejected")
	s.False(body.Success)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)
	req.AddCookie(access)
	rec, _ = s.do(req)
	s.Equal(http.StatusOK, rec.Code)
	cleared, ok := cookieValue(rec, middleware.AccessTokenCookie)
	s.Require().True(ok)
	s.Empty(cleared.Value)
	s.Less(cleared.MaxAge, 0)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(rotated)
	rec, body = s.do(req)
	s.Equal(http.StatusUnauthorized, rec.Code, "refresh after logout fails")
	s.Equal(http.StatusUnauthorized, body.StatusCode)
}

func (s *HandlersSuite) TestDuplicateRegistrationIsConflict() {
	s.register("alice")

	rec, body := s.do(multipartRequest(http.MethodPost, "/api/v1/users/register", map[string]string{
		"fullName": "Other",
		"username": "alice",
		"email":    "other@example.com",
		"password": "correct-horse",
	}, map[string][]byte{"avatar": pngBytes}))

	s.Equal(http.StatusConflict, rec.Code)
	s.False(body.Success)
	s.Empty(s.stagedFiles())
}

func (s *HandlersSuite) TestRegisterWithoutAvatarIsBadRequest() {
	rec, body := s.do(multipartRequest(http.MethodPost, "/api/v1/users/register", map[string]string{
		"fullName": "Bob",
		"username": "bob",
		"email":    "bob@example.com",
		"password": "correct-horse",
	}, nil))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("avatar file is required", body.Message)
}

func (s *HandlersSuite) TestAvatarUploadFailureLeavesAvatarUnchanged() {
	s.register("alice")
	user, err := s.users.FindByUsernameOrEmail(context.Background(), "alice", "")
	s.Require().NoError(err)

	pair, err := security.NewTokenIssuer(config.SecurityConfig{
		JWTAccessSecret:  "access-secret-for-tests",
		JWTRefreshSecret: "refresh-secret-for-tests",
		JWTAccessTTL:     time.Minute,
		JWTRefreshTTL:    time.Hour,
	}).Issue(user)
	s.Require().NoError(err)

	s.media.On("Upload", mock.Anything, mock.Anything).Return(storage.Asset{}, errors.New("store down")).Once()

	req := multipartRequest(http.MethodPatch, "/api/v1/users/avatar", nil, map[string][]byte{"avatar": pngBytes})
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec, _ := s.do(req)

	s.Equal(http.StatusBadRequest, rec.Code)
	after, err := s.users.GetByID(context.Background(), user.ID)
	s.Require().NoError(err)
	s.Equal(user.AvatarURL, after.AvatarURL)
	s.Empty(s.stagedFiles())
}

func (s *HandlersSuite) registrationWithAvatarOf(size int) *http.Request {
	avatar := append(append([]byte{}, pngBytes...), make([]byte, size)...)
	return multipartRequest(http.MethodPost, "/api/v1/users/register", map[string]string{
		"fullName": "Big",
		"username": "big",
		"email":    "big@example.com",
		"password": "correct-horse",
	}, map[string][]byte{"avatar": avatar})
}

func (s *HandlersSuite) TestOversizedBodyIsCutOffBeforeStaging() {
	// Two files of 1 MiB plus form overhead is the register cap.
	rec, body := s.do(s.registrationWithAvatarOf(4 << 20))

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.False(body.Success)
	s.Empty(s.stagedFiles())
	s.media.AssertNotCalled(s.T(), "Upload", mock.Anything, mock.Anything)
}

func (s *HandlersSuite) TestOversizedFileWithinBodyCapIsRejected() {
	rec, body := s.do(s.registrationWithAvatarOf(1<<20 + 1))

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Equal("avatar exceeds the maximum upload size", body.Message)
	s.Empty(s.stagedFiles())
	s.media.AssertNotCalled(s.T(), "Upload", mock.Anything, mock.Anything)
}

func (s *HandlersSuite) TestProtectedRoutesRequireToken() {
	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/users/logout"},
		{http.MethodGet, "/api/v1/users/current-user"},
		{http.MethodGet, "/api/v1/users/history"},
		{http.MethodPost, "/api/v1/videos"},
		{http.MethodDelete, "/api/v1/videos/2aUysH7kq5Pz0gLw8N4R1cT6dVf"},
		{http.MethodPost, "/api/v1/subscriptions/c/2aUysH7kq5Pz0gLw8N4R1cT6dVf"},
	} {
		rec, body := s.do(httptest.NewRequest(route.method, route.path, nil))
		s.Equal(http.StatusUnauthorized, rec.Code, route.path)
		s.False(body.Success)
	}
}

func (s *HandlersSuite) TestUnknownChannelIsNotFound() {
	rec, body := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/users/c/ghost", nil))

	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("channel does not exist", body.Message)
}

func (s *HandlersSuite) TestHealth() {
	rec, body := s.do(httptest.NewRequest(http.MethodGet, "/api/healthz", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.True(body.Success)
	s.True(strings.Contains(string(body.Data), `"postgres":"ok"`))
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

func TestMaxAgeIsAtLeastOneSecond(t *testing.T) {
	assert.Equal(t, 1, maxAge(time.Now().Add(-time.Hour)))
	assert.InDelta(t, 3600, maxAge(time.Now().Add(time.Hour)), 2)
	require.NotPanics(t, func() { maxAge(time.Time{}) })
}
