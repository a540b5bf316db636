package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/davydshcherba/ReBuild/internal/middleware"
	"github.com/davydshcherba/ReBuild/internal/models"
	"github.com/davydshcherba/ReBuild/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// currentUser 从 AuthMiddleware 放进 context 的身份取当前用户。
// 所有涉及归属的写操作都以这里的返回值为准，不看请求体里的任何 ID。
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func storeCtx(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}

// GetMe 返回当前登录用户信息和训练记录（需要经过 AuthMiddleware）
func GetMe(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			util.Detail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		ctx, cancel := storeCtx(c, timeout)
		defer cancel()

		// 显式按外键查，不靠模型关联懒加载
		var exercises []models.Exercise
		if err := db.WithContext(ctx).
			Where("user_id = ?", user.ID).
			Order("date DESC, id DESC").
			Find(&exercises).Error; err != nil {
			util.ServerError(c)
			return
		}

		list := make([]gin.H, 0, len(exercises))
		for _, e := range exercises {
			list = append(list, exerciseJSON(e))
		}

		var birthdate string
		if user.Birthdate != nil {
			birthdate = user.Birthdate.Format("2006-01-02")
		}

		c.JSON(http.StatusOK, gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"weight":    user.Weight,
			"height":    user.Height,
			"age":       user.Age,
			"birthdate": birthdate,
			"exercises": list,
		})
	}
}

// ---------- 资料更新 ----------
// 三个接口都只改当前登录用户自己的那一行。

type weightReq struct {
	Weight float64 `json:"weight"`
}

// UpdateWeight PATCH /api/weight_update
func UpdateWeight(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			util.Detail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var req weightReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Message(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := util.ValidateWeight(req.Weight); err != nil {
			util.Message(c, http.StatusBadRequest, err.Error())
			return
		}

		updateProfileField(c, db, timeout, user.ID, "weight", req.Weight, "Weight updated")
	}
}

type heightReq struct {
	Height float64 `json:"height"`
}

// UpdateHeight PATCH /api/height_update
func UpdateHeight(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			util.Detail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var req heightReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Message(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := util.ValidateHeight(req.Height); err != nil {
			util.Message(c, http.StatusBadRequest, err.Error())
			return
		}

		updateProfileField(c, db, timeout, user.ID, "height", req.Height, "Height updated")
	}
}

type ageReq struct {
	Age int `json:"age"`
}

// UpdateAge PATCH /api/age_update
func UpdateAge(db *gorm.DB, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			util.Detail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var req ageReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Message(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := util.ValidateAge(req.Age); err != nil {
			util.Message(c, http.StatusBadRequest, err.Error())
			return
		}

		updateProfileField(c, db, timeout, user.ID, "age", req.Age, "Age updated")
	}
}

// updateProfileField 按主键更新单个标量字段。
// 用户在鉴权之后、更新之前被删掉时返回 404。
func updateProfileField(c *gin.Context, db *gorm.DB, timeout time.Duration, userID uint, column string, value interface{}, okMsg string) {
	ctx, cancel := storeCtx(c, timeout)
	defer cancel()

	res := db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update(column, value)
	if res.Error != nil {
		util.ServerError(c)
		return
	}
	if res.RowsAffected == 0 {
		util.Detail(c, http.StatusNotFound, "User not found")
		return
	}

	util.Message(c, http.StatusOK, okMsg)
}
