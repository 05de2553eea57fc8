package repository

import (
	"context"

	"gorm.io/gorm"

	"carepoint/backend/internal/model"
)

// OrderRepository 医嘱数据访问接口（只增不改）
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	ListByDoctor(ctx context.Context, doctorID int64, limit int) ([]model.Order, error)
	ListByPatient(ctx context.Context, patientID int64, limit int) ([]model.Order, error)
}

// orderRepo OrderRepository 的 GORM 实现
type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepo 创建 OrderRepository 实例
func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepo) ListByDoctor(ctx context.Context, doctorID int64, limit int) ([]model.Order, error) {
	var list []model.Order
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *orderRepo) ListByPatient(ctx context.Context, patientID int64, limit int) ([]model.Order, error) {
	var list []model.Order
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
