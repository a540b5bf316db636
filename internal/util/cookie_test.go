package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

// ============ 会话 cookie 传输测试 ============

func TestAttachToken(t *testing.T) {
	policy := NewCookiePolicy("access_token_cookie", 3600, false, "lax", false)
	c, w := testContext(t)

	policy.AttachToken(c, "tok-123")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("应设置 1 个 cookie，实际 %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != "access_token_cookie" || ck.Value != "tok-123" {
		t.Errorf("cookie 名/值错误: %s=%s", ck.Name, ck.Value)
	}
	if !ck.HttpOnly {
		t.Error("HttpOnly 必须为 true")
	}
	if ck.Path != "/" {
		t.Errorf("path 应为 /，实际 %s", ck.Path)
	}
	if ck.MaxAge != 3600 {
		t.Errorf("max-age 应等于 token 有效期，实际 %d", ck.MaxAge)
	}
	if ck.SameSite != http.SameSiteLaxMode {
		t.Errorf("same-site 应为 Lax，实际 %v", ck.SameSite)
	}
}

func TestClearToken(t *testing.T) {
	policy := NewCookiePolicy("access_token_cookie", 3600, false, "lax", false)
	c, w := testContext(t)

	policy.ClearToken(c)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("应设置 1 个 cookie，实际 %d", len(cookies))
	}
	if cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Error("清除 cookie 应为空值负 max-age")
	}
}

func TestExtractTokenFromCookie(t *testing.T) {
	policy := NewCookiePolicy("access_token_cookie", 3600, false, "lax", false)
	c, _ := testContext(t)
	c.Request.AddCookie(&http.Cookie{Name: "access_token_cookie", Value: "tok-abc"})

	token, ok := policy.ExtractToken(c)
	if !ok || token != "tok-abc" {
		t.Errorf("应从 cookie 取到 token，实际: %q %v", token, ok)
	}
}

func TestExtractTokenHeaderFallback(t *testing.T) {
	// 允许 header 时才看 Authorization
	policy := NewCookiePolicy("access_token_cookie", 3600, false, "lax", true)
	c, _ := testContext(t)
	c.Request.Header.Set("Authorization", "Bearer tok-hdr")

	token, ok := policy.ExtractToken(c)
	if !ok || token != "tok-hdr" {
		t.Errorf("应从 header 取到 token，实际: %q %v", token, ok)
	}

	// 禁用 header 时不取
	policy2 := NewCookiePolicy("access_token_cookie", 3600, false, "lax", false)
	c2, _ := testContext(t)
	c2.Request.Header.Set("Authorization", "Bearer tok-hdr")
	if _, ok := policy2.ExtractToken(c2); ok {
		t.Error("禁用 header 兜底时不应取到 token")
	}
}

// cookie 和 header 同时存在时以 cookie 为准
func TestExtractTokenCookieWins(t *testing.T) {
	policy := NewCookiePolicy("access_token_cookie", 3600, false, "lax", true)
	c, _ := testContext(t)
	c.Request.AddCookie(&http.Cookie{Name: "access_token_cookie", Value: "tok-cookie"})
	c.Request.Header.Set("Authorization", "Bearer tok-hdr")

	token, ok := policy.ExtractToken(c)
	if !ok || token != "tok-cookie" {
		t.Errorf("cookie 应优先于 header，实际: %q", token)
	}
}

func TestExtractTokenMissing(t *testing.T) {
	policy := NewCookiePolicy("access_token_cookie", 3600, false, "lax", true)
	c, _ := testContext(t)
	if _, ok := policy.ExtractToken(c); ok {
		t.Error("无 token 时应返回 false")
	}

	// 非 Bearer 前缀不认
	c2, _ := testContext(t)
	c2.Request.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if _, ok := policy.ExtractToken(c2); ok {
		t.Error("非 Bearer 头不应取到 token")
	}
}
