package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vidtube/internal/apperrors"
	"vidtube/internal/middleware"
	"vidtube/internal/response"
)

func handle(fn response.HandlerFunc) gin.HandlerFunc {
	return response.Handle(fn)
}

// stageFile saves the multipart file in field to the staging area. It
// returns "" when the field is absent. Callers remove the staged file when
// the request ends.
func (h HandlerSet) stageFile(c *gin.Context, field string) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", apperrors.PayloadTooLarge("request body exceeds the maximum upload size")
		}
		return "", apperrors.Validation("invalid multipart form", err.Error())
	}

	if limit := h.cfg.Uploads.MaxFileBytes; limit > 0 && header.Size > limit {
		return "", apperrors.PayloadTooLarge(field + " exceeds the maximum upload size")
	}

	path := h.staging.Path(header.Filename)
	if err := c.SaveUploadedFile(header, path); err != nil {
		return "", apperrors.Internal("stage upload", err)
	}
	return path, nil
}

// multipartOverhead covers form fields and part headers around the files.
const multipartOverhead = 1 << 20

// uploadLimit bounds the body of a route carrying up to files uploads, so
// oversized requests are cut off while being read instead of after being
// spilled to disk.
func (h HandlerSet) uploadLimit(files int64) gin.HandlerFunc {
	perFile := h.cfg.Uploads.MaxFileBytes
	if perFile <= 0 {
		return middleware.BodyLimit(0)
	}
	return middleware.BodyLimit(perFile*files + multipartOverhead)
}

func (h HandlerSet) unstage(paths ...string) {
	for _, path := range paths {
		if err := h.staging.Remove(path); err != nil {
			h.log.Warn().Err(err).Str("path", path).Msg("remove staged file failed")
		}
	}
}

func (h HandlerSet) setSessionCookies(c *gin.Context, accessToken string, accessExpires time.Time, refreshToken string, refreshExpires time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, accessToken, maxAge(accessExpires), "/", "", h.cfg.Security.SecureCookies, true)
	c.SetCookie(middleware.RefreshTokenCookie, refreshToken, maxAge(refreshExpires), "/", "", h.cfg.Security.SecureCookies, true)
}

func (h HandlerSet) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cfg.Security.SecureCookies, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", h.cfg.Security.SecureCookies, true)
}

func maxAge(expires time.Time) int {
	seconds := int(time.Until(expires).Seconds())
	if seconds < 1 {
		return 1
	}
	return seconds
}

// bindJSON decodes an optional JSON body. An empty body leaves dst untouched.
func bindJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.Validation("invalid request body", err.Error())
	}
	return nil
}

func currentUserID(c *gin.Context) string {
	return middleware.UserID(c)
}
