package repository

import (
	"context"

	"gorm.io/gorm"

	"carepoint/backend/internal/model"
)

// ReportRepository 报告数据访问接口（只增不改）
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	ListByPatient(ctx context.Context, patientID int64, limit int) ([]model.Report, error)
}

// reportRepo ReportRepository 的 GORM 实现
type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo 创建 ReportRepository 实例
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepo) ListByPatient(ctx context.Context, patientID int64, limit int) ([]model.Report, error) {
	var list []model.Report
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("patient_id = ?", patientID).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
