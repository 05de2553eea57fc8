package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carepoint/backend/internal/api/middleware"
	"carepoint/backend/internal/authz"
	"carepoint/backend/internal/service"
	"carepoint/backend/pkg/response"
)

// MustGetPrincipal 从 Gin 上下文中安全提取请求主体。
// 路由未挂载 Require 守卫时主体可能缺失，此时跳转首页并返回 false。
// 调用方应在 ok=false 时直接 return。
func MustGetPrincipal(c *gin.Context) (authz.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/")
		return authz.Principal{}, false
	}
	return p, true
}

// parseID 解析路径参数中的正整数 ID
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "ID 格式无效")
		return 0, false
	}
	return id, true
}

// handleDashboardError 首页加载失败：会话对应账号已被删除时回到登录入口
func handleDashboardError(c *gin.Context, err error, capability authz.Capability) {
	if errors.Is(err, service.ErrAccountNotFound) {
		c.Redirect(http.StatusSeeOther, authz.LoginEntryFor(capability))
		return
	}
	response.FromError(c, err)
}
