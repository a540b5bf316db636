package util

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CookiePolicy 描述会话 cookie 的传输策略，启动时根据配置构造一次，
// 之后只读。Secure/SameSite 随部署环境（HTTP/HTTPS）切换。
type CookiePolicy struct {
	Name        string
	Path        string
	MaxAge      int // 秒，等于 token 有效期
	Secure      bool
	SameSite    http.SameSite
	AllowHeader bool // 是否接受 Authorization: Bearer 作为兜底
}

// NewCookiePolicy 构造 cookie 策略。sameSite 取 "lax"/"strict"/"none"。
func NewCookiePolicy(name string, maxAge int, secure bool, sameSite string, allowHeader bool) *CookiePolicy {
	ss := http.SameSiteLaxMode
	switch strings.ToLower(sameSite) {
	case "strict":
		ss = http.SameSiteStrictMode
	case "none":
		ss = http.SameSiteNoneMode
	}
	if name == "" {
		name = "access_token_cookie"
	}
	return &CookiePolicy{
		Name:        name,
		Path:        "/",
		MaxAge:      maxAge,
		Secure:      secure,
		SameSite:    ss,
		AllowHeader: allowHeader,
	}
}

// AttachToken 把签发的 token 写入响应的会话 cookie。
// HttpOnly 始终为 true，不给前端脚本读 token 的机会。
func (p *CookiePolicy) AttachToken(c *gin.Context, token string) {
	c.SetSameSite(p.SameSite)
	c.SetCookie(p.Name, token, p.MaxAge, p.Path, "", p.Secure, true)
}

// ClearToken 清除会话 cookie（登出）。
func (p *CookiePolicy) ClearToken(c *gin.Context) {
	c.SetSameSite(p.SameSite)
	c.SetCookie(p.Name, "", -1, p.Path, "", p.Secure, true)
}

// ExtractToken 从请求中取 token：先查 cookie，
// 配置允许时再查 Authorization 头。两者都有时以 cookie 为准。
func (p *CookiePolicy) ExtractToken(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(p.Name); err == nil && cookie != "" {
		return cookie, true
	}

	if p.AllowHeader {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
				return parts[1], true
			}
		}
	}

	return "", false
}
