package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"carepoint/backend/internal/authz"
	"carepoint/backend/internal/dto"
	"carepoint/backend/internal/model"
	"carepoint/backend/internal/repository"
	"carepoint/backend/pkg/metrics"
	"carepoint/backend/pkg/storage"
)

// 报告类型默认值
const (
	defaultReportType     = "Report"
	defaultScanReportType = "Scan Result"
)

// FileStore 附件存储（由 storage.LocalStore 实现）
type FileStore interface {
	Save(filename string, content io.Reader) (string, error)
	Remove(name string) error
}

// Attachment 上传的报告附件
type Attachment struct {
	Filename string
	Content  io.Reader
}

// ReportService 患者报告业务接口
type ReportService interface {
	// CreateReport 提交报告；附件被拒绝或缺失时报告照常创建，不带附件
	CreateReport(ctx context.Context, p authz.Principal, req *dto.CreateReportRequest, att *Attachment) (*dto.ReportResponse, error)
	ListByPatient(ctx context.Context, patientID int64, limit int) ([]dto.ReportResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	store  FileStore
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, store FileStore, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, store: store, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *reportService) CreateReport(ctx context.Context, p authz.Principal, req *dto.CreateReportRequest, att *Attachment) (*dto.ReportResponse, error) {
	if !authz.Allows(p, authz.FulfillTasks) {
		return nil, ErrForbidden
	}
	if req.PatientID <= 0 {
		return nil, ErrReportPatientMissing
	}

	reportType := strings.TrimSpace(req.ReportType)
	if reportType == "" {
		reportType = defaultReportType
		if p.Role == model.RoleRadiologist {
			reportType = defaultScanReportType
		}
	}

	if _, err := s.repo.Patient.GetByID(ctx, req.PatientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		s.logger.Error("查询患者失败", zap.Int64("patient_id", req.PatientID), zap.Error(err))
		return nil, err
	}

	imageFilename, err := s.saveAttachment(att)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		PatientID:        req.PatientID,
		CreatedByStaffID: p.UserID,
		ReportType:       reportType,
		ReportText:       strings.TrimSpace(req.ReportText),
		ImageFilename:    imageFilename,
	}
	if err := s.repo.Report.Create(ctx, report); err != nil {
		s.logger.Error("创建报告失败", zap.Error(err))
		s.discardAttachment(imageFilename)
		return nil, err
	}

	metrics.RecordWorkflowEvent(metrics.EventReportCreated)
	s.logger.Info("报告已创建",
		zap.Int64("report_id", report.ReportID),
		zap.Int64("patient_id", report.PatientID),
		zap.Bool("attachment", imageFilename != nil),
	)
	resp := toReportResponse(report)
	return &resp, nil
}

// saveAttachment 保存附件，返回存储名；无附件或附件被拒绝时返回 nil
func (s *reportService) saveAttachment(att *Attachment) (*string, error) {
	if att == nil || att.Filename == "" || att.Content == nil || s.store == nil {
		return nil, nil
	}

	name, err := s.store.Save(att.Filename, att.Content)
	if err != nil {
		if errors.Is(err, storage.ErrRejected) {
			metrics.RecordWorkflowEvent(metrics.EventAttachmentRejected)
			s.logger.Info("附件被拒绝，报告不带附件", zap.String("filename", att.Filename))
			return nil, nil
		}
		s.logger.Error("保存附件失败", zap.String("filename", att.Filename), zap.Error(err))
		return nil, err
	}
	return &name, nil
}

// discardAttachment 报告写入失败时删除已落盘的附件
func (s *reportService) discardAttachment(name *string) {
	if name == nil {
		return
	}
	if err := s.store.Remove(*name); err != nil {
		s.logger.Warn("清理孤立附件失败", zap.String("filename", *name), zap.Error(err))
	}
}

// ────────────────────── List ──────────────────────

func (s *reportService) ListByPatient(ctx context.Context, patientID int64, limit int) ([]dto.ReportResponse, error) {
	list, err := s.repo.Report.ListByPatient(ctx, patientID, limit)
	if err != nil {
		s.logger.Error("查询报告失败", zap.Int64("patient_id", patientID), zap.Error(err))
		return nil, err
	}
	return toReportResponses(list), nil
}
