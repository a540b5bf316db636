package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/davydshcherba/ReBuild/internal/config"
	"github.com/davydshcherba/ReBuild/internal/models"
	"github.com/davydshcherba/ReBuild/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler 负责登录/注册相关接口
type AuthHandler struct {
	DB           *gorm.DB
	JWTSecret    string
	TokenTTL     time.Duration
	BcryptCost   int
	Policy       *util.CookiePolicy
	StoreTimeout time.Duration

	// 用户名不存在时拿它烧一次 bcrypt 比较，
	// 让"用户不存在"和"密码错误"两条路径耗时接近。
	// 必须和真实用户哈希用同一个 cost，否则耗时差会暴露用户是否存在。
	dummyHash string
}

// NewAuthHandler 构造函数
func NewAuthHandler(db *gorm.DB, cfg *config.Config, policy *util.CookiePolicy) *AuthHandler {
	ttlHours := cfg.JWT.ExpireHours
	if ttlHours <= 0 {
		ttlHours = 24
	}
	dummyHash, err := util.HashPassword("dummy-password", cfg.Security.BcryptCost)
	if err != nil {
		// 随机源不可用才会走到这，启动期直接失败比带着坏哈希跑强
		panic(fmt.Sprintf("generate dummy hash: %v", err))
	}
	return &AuthHandler{
		DB:           db,
		JWTSecret:    cfg.JWT.Secret,
		TokenTTL:     time.Duration(ttlHours) * time.Hour,
		BcryptCost:   cfg.Security.BcryptCost,
		Policy:       policy,
		StoreTimeout: time.Duration(cfg.Security.StoreTimeoutSecs) * time.Second,
		dummyHash:    dummyHash,
	}
}

func (h *AuthHandler) storeCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.StoreTimeout)
}

// ---------- 注册 ----------

type registerReq struct {
	Username  string  `json:"username" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	Weight    float64 `json:"weight"`
	Height    float64 `json:"height"`
	Age       int     `json:"age"`
	Birthdate string  `json:"birthdate"` // YYYY-MM-DD，可不填
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	// 逐字段显式校验，校验全过才碰数据库
	if err := util.ValidateUsername(req.Username); err != nil {
		util.Message(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := util.ValidateEmail(req.Email); err != nil {
		util.Message(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := util.ValidatePassword(req.Password); err != nil {
		util.Message(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := util.ValidateWeight(req.Weight); err != nil {
		util.Message(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := util.ValidateHeight(req.Height); err != nil {
		util.Message(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := util.ValidateAge(req.Age); err != nil {
		util.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	var birthdate *time.Time
	if req.Birthdate != "" {
		t, err := util.ParseDate(req.Birthdate)
		if err != nil {
			util.Message(c, http.StatusBadRequest, "Invalid birthdate format, expected YYYY-MM-DD")
			return
		}
		birthdate = &t
	}

	ctx, cancel := h.storeCtx(c)
	defer cancel()

	// 不区分大小写预检，给出明确提示；真正的唯一性由数据库约束兜底
	var count int64
	if err := h.DB.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", req.Username).
		Count(&count).Error; err != nil {
		util.ServerError(c)
		return
	}
	if count > 0 {
		util.Message(c, http.StatusBadRequest, "Username already exists")
		return
	}
	if err := h.DB.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(email) = LOWER(?)", req.Email).
		Count(&count).Error; err != nil {
		util.ServerError(c)
		return
	}
	if count > 0 {
		util.Message(c, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		util.ServerError(c)
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Weight:       req.Weight,
		Height:       req.Height,
		Age:          req.Age,
		Birthdate:    birthdate,
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		// 并发注册撞车：预检都通过、插入时唯一索引打回其中一个
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Message(c, http.StatusBadRequest, "Username already exists")
			return
		}
		util.ServerError(c)
		return
	}

	util.Message(c, http.StatusOK, "User registered successfully")
}

// ---------- 登录 ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	ctx, cancel := h.storeCtx(c)
	defer cancel()

	var user models.User
	err := h.DB.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", req.Username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 对外不区分"用户不存在"和"密码错误"
			_ = util.CheckPassword(req.Password, h.dummyHash)
			util.Message(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		util.ServerError(c)
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		util.Message(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.ID, h.TokenTTL)
	if err != nil {
		util.ServerError(c)
		return
	}

	h.Policy.AttachToken(c, token)
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"message":      "Login successful",
	})
}

// ---------- 登出 ----------

// Logout 清除会话 cookie。token 本身无状态，到期自然失效。
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Policy.ClearToken(c)
	util.Message(c, http.StatusOK, "Logout successful")
}
