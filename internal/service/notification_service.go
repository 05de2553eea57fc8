package service

import (
	"context"

	"go.uber.org/zap"

	"carepoint/backend/internal/authz"
	"carepoint/backend/internal/dto"
	"carepoint/backend/internal/repository"
)

// NotificationService 通知收件箱接口
// 按主体类型选择员工通知或患者通知，主体只能读取和标记自己的通知
type NotificationService interface {
	ListFor(ctx context.Context, p authz.Principal, limit int) ([]dto.NotificationResponse, error)
	// MarkRead 通知不属于主体时静默忽略，返回 false
	MarkRead(ctx context.Context, p authz.Principal, notificationID int64) (bool, error)
	UnreadCount(ctx context.Context, p authz.Principal) (int64, error)
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) ListFor(ctx context.Context, p authz.Principal, limit int) ([]dto.NotificationResponse, error) {
	switch p.Kind {
	case authz.KindStaff:
		list, err := s.repo.Notification.ListByStaff(ctx, p.UserID, limit)
		if err != nil {
			s.logger.Error("查询员工通知失败", zap.Int64("staff_id", p.UserID), zap.Error(err))
			return nil, err
		}
		return toStaffNotificationResponses(list), nil
	case authz.KindPatient:
		list, err := s.repo.PatientNotification.ListByPatient(ctx, p.UserID, limit)
		if err != nil {
			s.logger.Error("查询患者通知失败", zap.Int64("patient_id", p.UserID), zap.Error(err))
			return nil, err
		}
		return toPatientNotificationResponses(list), nil
	default:
		return []dto.NotificationResponse{}, nil
	}
}

func (s *notificationService) MarkRead(ctx context.Context, p authz.Principal, notificationID int64) (bool, error) {
	var (
		rows int64
		err  error
	)
	switch p.Kind {
	case authz.KindStaff:
		rows, err = s.repo.Notification.MarkRead(ctx, notificationID, p.UserID)
	case authz.KindPatient:
		rows, err = s.repo.PatientNotification.MarkRead(ctx, notificationID, p.UserID)
	default:
		return false, nil
	}
	if err != nil {
		s.logger.Error("标记通知已读失败",
			zap.String("kind", p.Kind),
			zap.Int64("notification_id", notificationID),
			zap.Error(err),
		)
		return false, err
	}
	return rows > 0, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, p authz.Principal) (int64, error) {
	switch p.Kind {
	case authz.KindStaff:
		return s.repo.Notification.CountUnread(ctx, p.UserID)
	case authz.KindPatient:
		return s.repo.PatientNotification.CountUnread(ctx, p.UserID)
	default:
		return 0, nil
	}
}
