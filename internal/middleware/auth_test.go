package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/davydshcherba/ReBuild/internal/config"
	"github.com/davydshcherba/ReBuild/internal/database"
	"github.com/davydshcherba/ReBuild/internal/models"
	"github.com/davydshcherba/ReBuild/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const testSecret = "middleware-test-secret"

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("初始化数据库失败: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	return db
}

// 搭一个只有鉴权中间件和探针 handler 的引擎
func setupEngine(t *testing.T, db *gorm.DB, allowHeader bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	policy := util.NewCookiePolicy("access_token_cookie", 3600, false, "lax", allowHeader)

	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret, policy, db, 5*time.Second), func(c *gin.Context) {
		v, _ := c.Get(ContextUserKey)
		user := v.(*models.User)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	return r
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: "irrelevant",
		Weight:       70,
		Height:       175,
		Age:          30,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return user
}

func doRequest(r *gin.Engine, cookie, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "access_token_cookie", Value: cookie})
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是 JSON: %v", err)
	}
	return body["detail"]
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	db := setupDB(t)
	r := setupEngine(t, db, false)

	w := doRequest(r, "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("状态码应为 401，实际 %d", w.Code)
	}
	if d := detailOf(t, w); d != "Not authenticated" {
		t.Errorf("detail 应为 Not authenticated，实际 %q", d)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	db := setupDB(t)
	r := setupEngine(t, db, false)

	w := doRequest(r, "garbage.token.value", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("状态码应为 401，实际 %d", w.Code)
	}
	if d := detailOf(t, w); d != "Invalid token" {
		t.Errorf("detail 应为 Invalid token，实际 %q", d)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "alice")
	r := setupEngine(t, db, false)

	// 手工签过期 token
	claims := &util.Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	w := doRequest(r, token, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("状态码应为 401，实际 %d", w.Code)
	}
	if d := detailOf(t, w); d != "Token expired" {
		t.Errorf("detail 应为 Token expired，实际 %q", d)
	}
}

func TestAuthMiddlewareUserGone(t *testing.T) {
	db := setupDB(t)
	r := setupEngine(t, db, false)

	// token 合法但 subject 已不存在
	token, err := util.GenerateToken(testSecret, 9999, time.Hour)
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	w := doRequest(r, token, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("状态码应为 404，实际 %d", w.Code)
	}
	if d := detailOf(t, w); d != "User not found" {
		t.Errorf("detail 应为 User not found，实际 %q", d)
	}
}

func TestAuthMiddlewareSuccess(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "alice")
	r := setupEngine(t, db, false)

	token, err := util.GenerateToken(testSecret, user.ID, time.Hour)
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	w := doRequest(r, token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("状态码应为 200，实际 %d: %s", w.Code, w.Body.String())
	}

	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["username"] != "alice" {
		t.Errorf("handler 应拿到解析出的用户，实际 %q", body["username"])
	}
}

func TestAuthMiddlewareBearerHeader(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "bob")

	token, err := util.GenerateToken(testSecret, user.ID, time.Hour)
	if err != nil {
		t.Fatalf("签发失败: %v", err)
	}

	// 配置允许 header 时放行
	r := setupEngine(t, db, true)
	if w := doRequest(r, "", token); w.Code != http.StatusOK {
		t.Errorf("允许 header 时应为 200，实际 %d", w.Code)
	}

	// 禁用时同一个请求是 401
	r2 := setupEngine(t, db, false)
	if w := doRequest(r2, "", token); w.Code != http.StatusUnauthorized {
		t.Errorf("禁用 header 时应为 401，实际 %d", w.Code)
	}
}
