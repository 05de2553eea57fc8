package service

import (
	"errors"

	apperrors "carepoint/backend/pkg/errors"
)

// ── 通用 ──

// ErrForbidden 主体不具备执行该操作的能力
var ErrForbidden = apperrors.New(apperrors.KindForbidden, 10003, "无权执行该操作")

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrSessionInvalid     = errors.New("会话无效或已过期")
)

// ── 账号管理业务错误 ──

var (
	ErrInvalidRole          = apperrors.New(apperrors.KindValidation, 12001, "角色必须为 admin、doctor、nurse 或 radiologist")
	ErrAccountFieldsMissing = apperrors.New(apperrors.KindValidation, 12002, "姓名、用户名和密码为必填项")
	ErrUsernameExists       = apperrors.New(apperrors.KindDuplicate, 12003, "用户名已存在")
	ErrStaffHasDependents   = apperrors.New(apperrors.KindConflict, 12004, "该员工仍有关联的医嘱、工单或报告，无法删除")
	ErrPatientHasDependents = apperrors.New(apperrors.KindConflict, 12005, "该患者仍有关联的医嘱、工单或报告，无法删除")
	ErrAccountNotFound      = apperrors.New(apperrors.KindNotFound, 12006, "账号不存在")
	ErrPasswordTooLong      = apperrors.New(apperrors.KindValidation, 12007, "密码长度不能超过 72 字节")
)

// ── 医嘱 / 工单业务错误 ──

var (
	ErrOrderFieldsMissing      = apperrors.New(apperrors.KindValidation, 13001, "患者和医嘱类型为必填项")
	ErrAssignmentFieldsMissing = apperrors.New(apperrors.KindValidation, 13002, "患者、执行人和任务类型为必填项")
	ErrPatientNotFound         = apperrors.New(apperrors.KindNotFound, 13003, "患者不存在")
	ErrInvalidAssignee         = apperrors.New(apperrors.KindValidation, 13004, "执行人必须是可接单的护士或放射科医生")
	ErrAssignmentClosed        = apperrors.New(apperrors.KindConflict, 13005, "工单已完成，状态不可再变更")
)

// ── 报告业务错误 ──

var ErrReportPatientMissing = apperrors.New(apperrors.KindValidation, 14001, "患者为必填项")

// ── 导出业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
