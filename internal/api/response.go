package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误消息原样返回给客户端展示，保持稳定。
const (
	msgDuplicateApplication = "you have already applied to this job"
	msgApplicationLocked    = "application is finalized and can no longer be edited"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func Unauthorized(c *gin.Context)           { Error(c, http.StatusUnauthorized, "unauthorized") }
func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func Forbidden(c *gin.Context, msg string)  { Error(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)   { Error(c, http.StatusConflict, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

// DuplicateApplication / Locked 按约定映射为 400。
func DuplicateApplication(c *gin.Context) { BadRequest(c, msgDuplicateApplication) }
func Locked(c *gin.Context)               { BadRequest(c, msgApplicationLocked) }
