package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 响应体保持扁平 JSON：鉴权失败统一 {"detail": ...}，
// 业务结果统一 {"message": ...}，不套外层信封。

// Detail 输出 {"detail": msg}，用于 401/404 鉴权类错误
func Detail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"detail": msg})
}

// Message 输出 {"message": msg}
func Message(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"message": msg})
}

// ServerError 输出 500，不携带任何内部细节
func ServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
