package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/internal/apperrors"
	"vidtube/internal/middleware"
	"vidtube/internal/response"
	"vidtube/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) error {
	avatarPath, err := h.stageFile(c, "avatar")
	defer h.unstage(avatarPath)
	if err != nil {
		return err
	}
	coverPath, err := h.stageFile(c, "coverImage")
	defer h.unstage(coverPath)
	if err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		FullName:       c.PostForm("fullName"),
		Username:       c.PostForm("username"),
		Email:          c.PostForm("email"),
		Password:       c.PostForm("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusCreated, newUserResponse(user), "User registered successfully")
}

func (h HandlerSet) Login(c *gin.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	tokens := result.Tokens
	h.setSessionCookies(c, tokens.AccessToken, tokens.AccessExpiresAt, tokens.RefreshToken, tokens.RefreshExpiresAt)
	return response.OK(c, http.StatusOK, authResponse{
		User:         newUserResponse(result.User),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "User logged in successfully")
}

func (h HandlerSet) RefreshToken(c *gin.Context) error {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req refreshRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		token = req.RefreshToken
	}

	result, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		return err
	}

	tokens := result.Tokens
	h.setSessionCookies(c, tokens.AccessToken, tokens.AccessExpiresAt, tokens.RefreshToken, tokens.RefreshExpiresAt)
	return response.OK(c, http.StatusOK, tokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "Access token refreshed")
}

// Logout clears the cookies even when forgetting the stored refresh token
// fails.
func (h HandlerSet) Logout(c *gin.Context) error {
	h.clearSessionCookies(c)
	if err := h.auth.Logout(c.Request.Context(), currentUserID(c)); err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, nil, "User logged out")
}

func (h HandlerSet) ChangePassword(c *gin.Context) error {
	var req changePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.Request.Context(), currentUserID(c), service.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, nil, "Password changed successfully")
}

func (h HandlerSet) CurrentUser(c *gin.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return apperrors.Unauthorized("unauthorized request")
	}
	return response.OK(c, http.StatusOK, newUserResponse(user), "Current user fetched successfully")
}

func (h HandlerSet) UpdateAccount(c *gin.Context) error {
	var req updateAccountRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateDetails(c.Request.Context(), currentUserID(c), service.UpdateDetailsInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newUserResponse(user), "Account details updated successfully")
}

func (h HandlerSet) UpdateAvatar(c *gin.Context) error {
	path, err := h.stageFile(c, "avatar")
	defer h.unstage(path)
	if err != nil {
		return err
	}

	user, err := h.accounts.UpdateAvatar(c.Request.Context(), currentUserID(c), path)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newUserResponse(user), "Avatar image updated successfully")
}

func (h HandlerSet) UpdateCoverImage(c *gin.Context) error {
	path, err := h.stageFile(c, "coverImage")
	defer h.unstage(path)
	if err != nil {
		return err
	}

	user, err := h.accounts.UpdateCoverImage(c.Request.Context(), currentUserID(c), path)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newUserResponse(user), "Cover image updated successfully")
}

func (h HandlerSet) ChannelProfile(c *gin.Context) error {
	channel, err := h.channels.Profile(c.Request.Context(), c.Param("username"), currentUserID(c))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newChannelResponse(channel), "User channel fetched successfully")
}

func (h HandlerSet) WatchHistory(c *gin.Context) error {
	history, err := h.channels.WatchHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, newHistoryResponse(history), "Watch history fetched successfully")
}
