package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	"vidtube/internal/config"
	"vidtube/internal/middleware"
	"vidtube/internal/security"
	"vidtube/internal/service"
	"vidtube/internal/staging"
)

// Dependencies are the stores and clients the handlers are built from.
type Dependencies struct {
	Users         service.UserStore
	Videos        service.VideoStore
	Subscriptions service.SubscriptionStore
	Media         service.MediaStore
	Tasks         service.TaskQueue
	Tokens        *security.TokenIssuer
	Staging       *staging.Area
	// LoginLimiter throttles login attempts per client IP; nil disables it.
	LoginLimiter *limiter.Limiter
	Checks       []HealthCheck
}

type HandlerSet struct {
	log          zerolog.Logger
	cfg          *config.AppConfig
	auth         *service.AuthService
	accounts     *service.AccountService
	videos       *service.VideoService
	channels     *service.ChannelService
	staging      *staging.Area
	loginLimiter *limiter.Limiter
	checks       []HealthCheck
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, deps Dependencies) HandlerSet {
	return HandlerSet{
		log:          log,
		cfg:          cfg,
		auth:         service.NewAuthService(deps.Users, deps.Media, deps.Tasks, deps.Tokens, log),
		accounts:     service.NewAccountService(deps.Users, deps.Media, deps.Tasks, log),
		videos:       service.NewVideoService(deps.Videos, deps.Users, deps.Media, deps.Tasks, log),
		channels:     service.NewChannelService(deps.Users, deps.Subscriptions),
		staging:      deps.Staging,
		loginLimiter: deps.LoginLimiter,
		checks:       deps.Checks,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	requireAuth := middleware.Auth(h.auth)
	optionalAuth := middleware.OptionalAuth(h.auth)

	v1 := router.Group("/v1")

	users := v1.Group("/users")
	{
		login := []gin.HandlerFunc{}
		if h.loginLimiter != nil {
			login = append(login, middleware.RateLimit(h.loginLimiter, h.log))
		}
		login = append(login, handle(h.Login))

		users.POST("/register", h.uploadLimit(2), handle(h.RegisterUser))
		users.POST("/login", login...)
		users.POST("/refresh-token", handle(h.RefreshToken))
		users.GET("/c/:username", optionalAuth, handle(h.ChannelProfile))

		users.POST("/logout", requireAuth, handle(h.Logout))
		users.POST("/change-password", requireAuth, handle(h.ChangePassword))
		users.GET("/current-user", requireAuth, handle(h.CurrentUser))
		users.PATCH("/update-account", requireAuth, handle(h.UpdateAccount))
		users.PATCH("/avatar", requireAuth, h.uploadLimit(1), handle(h.UpdateAvatar))
		users.PATCH("/cover-image", requireAuth, h.uploadLimit(1), handle(h.UpdateCoverImage))
		users.GET("/history", requireAuth, handle(h.WatchHistory))
	}

	videos := v1.Group("/videos")
	{
		videos.POST("", requireAuth, h.uploadLimit(2), handle(h.PublishVideo))
		videos.GET("/:videoId", optionalAuth, handle(h.GetVideo))
		videos.PATCH("/:videoId", requireAuth, h.uploadLimit(1), handle(h.UpdateVideo))
		videos.DELETE("/:videoId", requireAuth, handle(h.DeleteVideo))
		videos.PATCH("/toggle/publish/:videoId", requireAuth, handle(h.TogglePublish))
	}

	subscriptions := v1.Group("/subscriptions", requireAuth)
	subscriptions.POST("/c/:channelId", handle(h.ToggleSubscription))
}
