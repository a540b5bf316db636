package router

import (
	"net/http"
	"time"

	"github.com/davydshcherba/ReBuild/internal/config"
	"github.com/davydshcherba/ReBuild/internal/handler"
	"github.com/davydshcherba/ReBuild/internal/middleware"
	"github.com/davydshcherba/ReBuild/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures Gin engine, middleware and API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	// 前端跨域带 cookie 访问，必须显式列 origin，不能用 *
	if len(cfg.CORS.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// cookie 策略启动时构造一次，max-age 跟 token 有效期一致
	ttl := time.Duration(cfg.JWT.ExpireHours) * time.Hour
	policy := util.NewCookiePolicy(
		cfg.Cookie.Name,
		int(ttl.Seconds()),
		cfg.Cookie.Secure,
		cfg.Cookie.SameSite,
		cfg.Cookie.AllowHeader,
	)
	storeTimeout := time.Duration(cfg.Security.StoreTimeoutSecs) * time.Second

	// ====== API ======
	api := r.Group("/api")

	// 登录/注册接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(db, cfg, policy)
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, policy, db, storeTimeout))

	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", handler.GetMe(db, storeTimeout))

	exerciseHandler := handler.NewExerciseHandler(db, storeTimeout)
	protected.POST("/exercises", exerciseHandler.CreateExercise)
	protected.GET("/exercises", exerciseHandler.ListExercises)
	protected.PATCH("/exercises/:id", exerciseHandler.UpdateExercise)

	protected.GET("/stats/total", exerciseHandler.StatsTotal)
	protected.GET("/stats/per_day", exerciseHandler.StatsPerDay)
	protected.GET("/stats/per_group", exerciseHandler.StatsPerGroup)

	protected.PATCH("/weight_update", handler.UpdateWeight(db, storeTimeout))
	protected.PATCH("/height_update", handler.UpdateHeight(db, storeTimeout))
	protected.PATCH("/age_update", handler.UpdateAge(db, storeTimeout))

	return r
}
