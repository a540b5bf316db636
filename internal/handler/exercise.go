package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/davydshcherba/ReBuild/internal/models"
	"github.com/davydshcherba/ReBuild/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ExerciseHandler 负责训练记录接口
type ExerciseHandler struct {
	DB           *gorm.DB
	StoreTimeout time.Duration
}

func NewExerciseHandler(db *gorm.DB, storeTimeout time.Duration) *ExerciseHandler {
	return &ExerciseHandler{DB: db, StoreTimeout: storeTimeout}
}

// createExerciseReq 故意不包含任何归属字段，
// 请求体里就算塞了 user_id 也不会被绑定，归属一律取登录身份。
type createExerciseReq struct {
	Name  string `json:"name" binding:"required"`
	Group string `json:"group" binding:"required"`
	Date  string `json:"date" binding:"required"` // YYYY-MM-DD
}

// CreateExercise POST /api/exercises
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req createExerciseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Group = strings.TrimSpace(req.Group)

	if err := util.ValidateName(req.Name); err != nil {
		util.Message(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := util.ValidateName(req.Group); err != nil {
		util.Message(c, http.StatusBadRequest, err.Error())
		return
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Message(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	ctx, cancel := storeCtx(c, h.StoreTimeout)
	defer cancel()

	exercise := models.Exercise{
		UserID: user.ID, // 归属绑定：只认鉴权结果
		Name:   req.Name,
		Group:  req.Group,
		Date:   date,
	}
	if err := h.DB.WithContext(ctx).Create(&exercise).Error; err != nil {
		util.ServerError(c)
		return
	}

	util.Message(c, http.StatusOK, "Exercise added successfully")
}

// ListExercises GET /api/exercises
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := storeCtx(c, h.StoreTimeout)
	defer cancel()

	var exercises []models.Exercise
	if err := h.DB.WithContext(ctx).
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

	c.JSON(http.StatusOK, gin.H{"exercises": list})
}

// UpdateExercise PATCH /api/exercises/:id
// 目前只开放 is_completed 开关。只能改自己的记录，
// 别人的记录一律 404，不暴露存在性。
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		util.Message(c, http.StatusBadRequest, "Invalid exercise id")
		return
	}

	var req updateExerciseReq
	if err := c.ShouldBindJSON(&req); err != nil || req.IsCompleted == nil {
		util.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := storeCtx(c, h.StoreTimeout)
	defer cancel()

	res := h.DB.WithContext(ctx).Model(&models.Exercise{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Update("is_completed", *req.IsCompleted)
	if res.Error != nil {
		util.ServerError(c)
		return
	}
	if res.RowsAffected == 0 {
		util.Detail(c, http.StatusNotFound, "Exercise not found")
		return
	}

	util.Message(c, http.StatusOK, "Exercise updated successfully")
}

type updateExerciseReq struct {
	IsCompleted *bool `json:"is_completed"`
}

// ---------- 统计 ----------
// 三个接口的响应形状跟前端对齐：total 是对象，另外两个直接返回数组。

// StatsTotal GET /api/stats/total
func (h *ExerciseHandler) StatsTotal(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := storeCtx(c, h.StoreTimeout)
	defer cancel()

	var total int64
	if err := h.DB.WithContext(ctx).Model(&models.Exercise{}).
		Where("user_id = ?", user.ID).
		Count(&total).Error; err != nil {
		util.ServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

type perDayRow struct {
	Date  time.Time `gorm:"column:date"`
	Count int64     `gorm:"column:count"`
}

// StatsPerDay GET /api/stats/per_day，最近 30 天每天的训练条数
func (h *ExerciseHandler) StatsPerDay(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := storeCtx(c, h.StoreTimeout)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -30)
	var rows []perDayRow
	if err := h.DB.WithContext(ctx).Model(&models.Exercise{}).
		Select("date, COUNT(*) AS count").
		Where("user_id = ? AND date >= ?", user.ID, cutoff).
		Group("date").
		Order("date ASC").
		Scan(&rows).Error; err != nil {
		util.ServerError(c)
		return
	}

	list := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		list = append(list, gin.H{
			"date":  row.Date.Format("2006-01-02"),
			"count": row.Count,
		})
	}
	c.JSON(http.StatusOK, list)
}

type perGroupRow struct {
	Group string `gorm:"column:muscle_group"`
	Count int64  `gorm:"column:count"`
}

// StatsPerGroup GET /api/stats/per_group，按训练部位计数
func (h *ExerciseHandler) StatsPerGroup(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	ctx, cancel := storeCtx(c, h.StoreTimeout)
	defer cancel()

	var rows []perGroupRow
	if err := h.DB.WithContext(ctx).Model(&models.Exercise{}).
		Select("muscle_group, COUNT(*) AS count").
		Where("user_id = ?", user.ID).
		Group("muscle_group").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		util.ServerError(c)
		return
	}

	list := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		list = append(list, gin.H{
			"group": row.Group,
			"count": row.Count,
		})
	}
	c.JSON(http.StatusOK, list)
}

func exerciseJSON(e models.Exercise) gin.H {
	return gin.H{
		"id":           e.ID,
		"name":         e.Name,
		"group":        e.Group,
		"date":         e.Date.Format("2006-01-02"),
		"is_completed": e.IsCompleted,
	}
}
