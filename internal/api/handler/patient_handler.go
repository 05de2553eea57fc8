package handler

import (
	"github.com/gin-gonic/gin"

	"carepoint/backend/internal/authz"
	"carepoint/backend/internal/service"
	"carepoint/backend/pkg/response"
)

// PatientHandler 患者门户 HTTP 处理器
type PatientHandler struct {
	dashboardSvc    service.DashboardService
	notificationSvc service.NotificationService
}

// NewPatientHandler 创建 PatientHandler
func NewPatientHandler(dashboardSvc service.DashboardService, notificationSvc service.NotificationService) *PatientHandler {
	return &PatientHandler{dashboardSvc: dashboardSvc, notificationSvc: notificationSvc}
}

// Dashboard 患者首页
// GET /patient
func (h *PatientHandler) Dashboard(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	data, err := h.dashboardSvc.Patient(c.Request.Context(), p)
	if err != nil {
		handleDashboardError(c, err, authz.PatientPortal)
		return
	}
	response.OK(c, data)
}

// MarkNotificationRead 标记患者通知已读
// POST /patient/notifications/mark-read/:id
func (h *PatientHandler) MarkNotificationRead(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	updated, err := h.notificationSvc.MarkRead(c.Request.Context(), p, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, gin.H{"updated": updated})
}
