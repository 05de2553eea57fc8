package repository

import (
	"context"

	"gorm.io/gorm"

	"carepoint/backend/internal/model"
)

// NotificationRepository 员工通知数据访问接口
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByStaff(ctx context.Context, staffID int64, limit int) ([]model.Notification, error)
	// MarkRead 仅当通知属于 staffID 时置为已读，返回受影响行数
	MarkRead(ctx context.Context, id, staffID int64) (int64, error)
	CountUnread(ctx context.Context, staffID int64) (int64, error)
}

// notificationRepo NotificationRepository 的 GORM 实现
type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) ListByStaff(ctx context.Context, staffID int64, limit int) ([]model.Notification, error) {
	var list []model.Notification
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, staffID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ? AND staff_id = ?", id, staffID).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepo) CountUnread(ctx context.Context, staffID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("staff_id = ? AND is_read = ?", staffID, false).
		Count(&n).Error
	return n, err
}

// ── 患者通知 ──

// PatientNotificationRepository 患者通知数据访问接口
type PatientNotificationRepository interface {
	Create(ctx context.Context, n *model.PatientNotification) error
	ListByPatient(ctx context.Context, patientID int64, limit int) ([]model.PatientNotification, error)
	MarkRead(ctx context.Context, id, patientID int64) (int64, error)
	CountUnread(ctx context.Context, patientID int64) (int64, error)
}

type patientNotificationRepo struct {
	db *gorm.DB
}

// NewPatientNotificationRepo 创建 PatientNotificationRepository 实例
func NewPatientNotificationRepo(db *gorm.DB) PatientNotificationRepository {
	return &patientNotificationRepo{db: db}
}

func (r *patientNotificationRepo) Create(ctx context.Context, n *model.PatientNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *patientNotificationRepo) ListByPatient(ctx context.Context, patientID int64, limit int) ([]model.PatientNotification, error) {
	var list []model.PatientNotification
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *patientNotificationRepo) MarkRead(ctx context.Context, id, patientID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.PatientNotification{}).
		Where("id = ? AND patient_id = ?", id, patientID).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *patientNotificationRepo) CountUnread(ctx context.Context, patientID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.PatientNotification{}).
		Where("patient_id = ? AND is_read = ?", patientID, false).
		Count(&n).Error
	return n, err
}
