package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/davydshcherba/ReBuild/internal/models"
	"github.com/davydshcherba/ReBuild/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ContextUserKey 是放进 gin context 的当前用户键名
const ContextUserKey = "currentUser"

// AuthMiddleware 校验会话 token，并在 context 里放入当前用户。
// token 先从 cookie 取，策略允许时再看 Authorization 头。
// 校验是纯计算 + 一次用户查询，无其它副作用，可安全重入。
func AuthMiddleware(jwtSecret string, policy *util.CookiePolicy, db *gorm.DB, storeTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := policy.ExtractToken(c)
		if !ok {
			util.Detail(c, http.StatusUnauthorized, "Not authenticated")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			if errors.Is(err, util.ErrTokenExpired) {
				util.Detail(c, http.StatusUnauthorized, "Token expired")
			} else {
				util.Detail(c, http.StatusUnauthorized, "Invalid token")
			}
			c.Abort()
			return
		}

		// token 合法，再确认 subject 对应的用户还存在
		ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
		defer cancel()

		var user models.User
		if err := db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Detail(c, http.StatusNotFound, "User not found")
			} else {
				util.ServerError(c)
			}
			c.Abort()
			return
		}

		c.Set(ContextUserKey, &user)
		c.Next()
	}
}
