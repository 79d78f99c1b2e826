package router

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/opencodedocs/internal/handler"
	"github.com/opencodedocs/internal/ratelimit"
)

// Options 描述路由层需要的配置。
type Options struct {
	SessionSecret string
	UploadDir     string
	UploadURLPath string
	CORSOrigins   []string
	AuthEnabled   bool
	LoginLimiter  *ratelimit.Limiter
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), cors(opts.CORSOrigins))

	secret := strings.TrimSpace(opts.SessionSecret)
	if secret == "" {
		secret = "opencode-docs-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 7 * 24 * 3600})
	r.Use(sessions.Sessions("opencode_docs_session", store))

	uploadURL := "/" + strings.Trim(strings.TrimSpace(opts.UploadURLPath), "/")
	if uploadURL == "/" {
		uploadURL = "/static/uploads"
	}
	if dir := strings.TrimSpace(opts.UploadDir); dir != "" {
		r.Static(uploadURL, dir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", handler.LoginRateLimit(opts.LoginLimiter), api.Login)
		auth.POST("/logout", api.Logout)
	}

	docs := r.Group("/api/docs")
	{
		docs.GET("/menu", api.GetMenu)
		docs.GET("/menu/tree", api.GetMenuTree)
		docs.GET("/page/:id", api.GetPage)

		editor := docs.Group("")
		editor.Use(handler.EditorRequired(opts.AuthEnabled))
		{
			editor.PUT("/page/:id", api.UpdatePage)
			editor.POST("/cases", api.CreateCase)
			editor.DELETE("/cases/:id", api.DeleteCase)
			editor.PUT("/menu/reorder", api.ReorderMenu)
			editor.PUT("/menu/:id/move", api.MoveEntry)
			editor.POST("/uploads", api.UploadImage)
		}
	}

	return r
}
