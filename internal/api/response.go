package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dreamycv/internal/errcode"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func Forbidden(c *gin.Context, msg string)  { Error(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)   { Error(c, http.StatusConflict, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

// withStorageWarning 在响应上附加非阻塞的持久化告警。
// 配额耗尽等写入失败不中断会话，内存态仍然可用。
func withStorageWarning(payload gin.H) gin.H {
	payload["warning"] = "changes kept in memory only, persistence failed"
	payload["warning_code"] = errcode.StorageWriteWarn
	return payload
}
