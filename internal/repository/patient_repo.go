package repository

import (
	"context"

	"gorm.io/gorm"

	"carepoint/backend/internal/model"
)

// PatientRepository 患者账号数据访问接口
type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	GetByID(ctx context.Context, id int64) (*model.Patient, error)
	GetByUsername(ctx context.Context, username string) (*model.Patient, error)
	List(ctx context.Context) ([]model.Patient, error)
	CountDependents(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// patientRepo PatientRepository 的 GORM 实现
type patientRepo struct {
	db *gorm.DB
}

// NewPatientRepo 创建 PatientRepository 实例
func NewPatientRepo(db *gorm.DB) PatientRepository {
	return &patientRepo{db: db}
}

func (r *patientRepo) Create(ctx context.Context, patient *model.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *patientRepo) GetByID(ctx context.Context, id int64) (*model.Patient, error) {
	var patient model.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepo) GetByUsername(ctx context.Context, username string) (*model.Patient, error) {
	var patient model.Patient
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&patient).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepo) List(ctx context.Context) ([]model.Patient, error) {
	var list []model.Patient
	err := r.db.WithContext(ctx).Order("id DESC").Find(&list).Error
	return list, err
}

// CountDependents 统计引用该患者的医嘱、工单与报告数量
func (r *patientRepo) CountDependents(ctx context.Context, id int64) (int64, error) {
	var total int64
	db := r.db.WithContext(ctx)
	for _, m := range []interface{}{&model.Order{}, &model.Assignment{}, &model.Report{}} {
		var n int64
		if err := db.Model(m).Where("patient_id = ?", id).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (r *patientRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Patient{}).Error
}
