package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"carepoint/backend/internal/authz"
	"carepoint/backend/internal/dto"
	"carepoint/backend/internal/model"
	apperrors "carepoint/backend/pkg/errors"
)

var adminPrincipal = authz.Principal{Kind: authz.KindStaff, Role: model.RoleAdmin, UserID: 1000, Username: "admin"}

func setupDirectoryService() (DirectoryService, *memDB) {
	repo, db := newMockRepository()
	return NewDirectoryService(repo, zap.NewNop()), db
}

// ────────────────────── CreateStaff ──────────────────────

func TestDirectoryService_CreateStaff_Success(t *testing.T) {
	svc, db := setupDirectoryService()

	resp, err := svc.CreateStaff(context.Background(), adminPrincipal, &dto.CreateStaffRequest{
		Name:           " Nina ",
		Role:           model.RoleNurse,
		CategorySelect: "Other",
		CategoryOther:  "Oncology",
		Username:       "nina",
		Password:       "secret",
		IsAvailable:    "on",
	})
	if err != nil {
		t.Fatalf("期望创建成功，实际: %v", err)
	}
	if resp.Name != "Nina" || resp.Category != "Oncology" || !resp.IsAvailable {
		t.Errorf("响应不符: %+v", resp)
	}

	stored := db.staff[0]
	if stored.PasswordHash == "secret" {
		t.Fatal("密码不应明文存储")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret")); err != nil {
		t.Errorf("存储的哈希无法校验原密码: %v", err)
	}
}

func TestDirectoryService_CreateStaff_InvalidRole(t *testing.T) {
	svc, db := setupDirectoryService()

	_, err := svc.CreateStaff(context.Background(), adminPrincipal, &dto.CreateStaffRequest{
		Name: "X", Role: "janitor", Username: "x", Password: "p",
	})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("期望 ErrInvalidRole，实际: %v", err)
	}
	if len(db.staff) != 0 {
		t.Errorf("非法角色不应写入，实际 %d 条", len(db.staff))
	}
}

func TestDirectoryService_CreateStaff_MissingFields(t *testing.T) {
	svc, _ := setupDirectoryService()

	cases := []dto.CreateStaffRequest{
		{Role: model.RoleDoctor, Username: "u", Password: "p"},
		{Name: "N", Role: model.RoleDoctor, Username: "  ", Password: "p"},
		{Name: "N", Role: model.RoleDoctor, Username: "u"},
	}
	for i := range cases {
		if _, err := svc.CreateStaff(context.Background(), adminPrincipal, &cases[i]); !errors.Is(err, ErrAccountFieldsMissing) {
			t.Errorf("case %d: 期望 ErrAccountFieldsMissing，实际: %v", i, err)
		}
	}
}

func TestDirectoryService_CreateStaff_DuplicateUsername(t *testing.T) {
	svc, db := setupDirectoryService()
	ctx := context.Background()

	req := &dto.CreateStaffRequest{Name: "A", Role: model.RoleDoctor, Username: "dup", Password: "p"}
	if _, err := svc.CreateStaff(ctx, adminPrincipal, req); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}
	before := len(db.staff)

	_, err := svc.CreateStaff(ctx, adminPrincipal, req)
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("期望 ErrUsernameExists，实际: %v", err)
	}
	if len(db.staff) != before {
		t.Errorf("重复用户名不应改变行数: %d -> %d", before, len(db.staff))
	}
}

func TestDirectoryService_CreateStaff_PasswordTooLong(t *testing.T) {
	svc, db := setupDirectoryService()

	_, err := svc.CreateStaff(context.Background(), adminPrincipal, &dto.CreateStaffRequest{
		Name: "N", Role: model.RoleNurse, Username: "n", Password: strings.Repeat("a", 73),
	})
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("期望 ErrPasswordTooLong，实际: %v", err)
	}
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("超长密码应归类为校验错误，实际 kind=%v", apperrors.KindOf(err))
	}
	if len(db.staff) != 0 {
		t.Errorf("超长密码不应写入，实际 %d 条", len(db.staff))
	}

	// 恰好 72 字节仍然允许
	if _, err := svc.CreateStaff(context.Background(), adminPrincipal, &dto.CreateStaffRequest{
		Name: "N", Role: model.RoleNurse, Username: "n", Password: strings.Repeat("a", 72),
	}); err != nil {
		t.Errorf("72 字节密码应创建成功，实际: %v", err)
	}
}

func TestDirectoryService_CreateStaff_Forbidden(t *testing.T) {
	svc, _ := setupDirectoryService()
	doctor := authz.Principal{Kind: authz.KindStaff, Role: model.RoleDoctor, UserID: 1}

	_, err := svc.CreateStaff(context.Background(), doctor, &dto.CreateStaffRequest{Name: "A", Role: model.RoleNurse, Username: "a", Password: "p"})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("期望 ErrForbidden，实际: %v", err)
	}
}

// ────────────────────── CreatePatient ──────────────────────

func TestDirectoryService_CreatePatient(t *testing.T) {
	svc, db := setupDirectoryService()
	ctx := context.Background()

	resp, err := svc.CreatePatient(ctx, adminPrincipal, &dto.CreatePatientRequest{
		Name: "Pat", Username: "pat", Password: "p", DOB: "1990-01-01", Gender: "F",
	})
	if err != nil {
		t.Fatalf("期望创建成功，实际: %v", err)
	}
	if resp.DOB != "1990-01-01" || resp.Gender != "F" {
		t.Errorf("响应不符: %+v", resp)
	}

	before := len(db.patients)
	_, err = svc.CreatePatient(ctx, adminPrincipal, &dto.CreatePatientRequest{Name: "Pat2", Username: "pat", Password: "p"})
	if !errors.Is(err, ErrUsernameExists) {
		t.Errorf("期望 ErrUsernameExists，实际: %v", err)
	}
	if len(db.patients) != before {
		t.Errorf("重复用户名不应改变行数: %d -> %d", before, len(db.patients))
	}
	_, err = svc.CreatePatient(ctx, adminPrincipal, &dto.CreatePatientRequest{Name: "Pat3", Username: "pat3", Password: strings.Repeat("b", 80)})
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("期望 ErrPasswordTooLong，实际: %v", err)
	}
	_, err = svc.CreatePatient(ctx, adminPrincipal, &dto.CreatePatientRequest{Username: "x", Password: "p"})
	if !errors.Is(err, ErrAccountFieldsMissing) {
		t.Errorf("期望 ErrAccountFieldsMissing，实际: %v", err)
	}
	if len(db.patients) != 1 {
		t.Errorf("期望 1 名患者，实际: %d", len(db.patients))
	}
}

// ────────────────────── ToggleAvailability ──────────────────────

func TestDirectoryService_ToggleAvailability(t *testing.T) {
	svc, db := setupDirectoryService()
	ctx := context.Background()
	id := seedStaff(db, "nina", model.RoleNurse, true)

	toggled, err := svc.ToggleAvailability(ctx, adminPrincipal, id)
	if err != nil || !toggled {
		t.Fatalf("期望切换成功，实际: %v, %v", toggled, err)
	}
	if db.staff[0].IsAvailable {
		t.Error("期望变为不可接单")
	}

	_, _ = svc.ToggleAvailability(ctx, adminPrincipal, id)
	if !db.staff[0].IsAvailable {
		t.Error("再次切换期望恢复可接单")
	}
}

func TestDirectoryService_ToggleAvailability_Missing(t *testing.T) {
	svc, _ := setupDirectoryService()

	toggled, err := svc.ToggleAvailability(context.Background(), adminPrincipal, 999)
	if err != nil {
		t.Fatalf("不存在的员工应静默忽略，实际: %v", err)
	}
	if toggled {
		t.Error("不存在的员工不应返回 true")
	}
}

// ────────────────────── Delete ──────────────────────

func TestDirectoryService_DeleteStaff_CascadesNotifications(t *testing.T) {
	svc, db := setupDirectoryService()
	id := seedStaff(db, "nina", model.RoleNurse, true)
	db.notifications = append(db.notifications, model.Notification{NotificationID: db.id(), StaffID: id, Message: "hi"})

	if err := svc.DeleteStaff(context.Background(), adminPrincipal, id); err != nil {
		t.Fatalf("期望删除成功，实际: %v", err)
	}
	if len(db.staff) != 0 {
		t.Error("员工应被删除")
	}
	if len(db.notifications) != 0 {
		t.Error("员工通知应随账号删除")
	}
}

func TestDirectoryService_DeleteStaff_RestrictedByAssignments(t *testing.T) {
	svc, db := setupDirectoryService()
	doctorID := seedStaff(db, "doc", model.RoleDoctor, true)
	nurseID := seedStaff(db, "nina", model.RoleNurse, true)
	patientID := seedPatient(db, "pat")
	db.assignments = append(db.assignments, model.Assignment{
		AssignmentID: db.id(), PatientID: patientID, DoctorID: doctorID, AssigneeStaffID: nurseID,
		TaskType: "Vitals", Status: model.AssignmentStatusAssigned,
	})

	for _, id := range []int64{doctorID, nurseID} {
		if err := svc.DeleteStaff(context.Background(), adminPrincipal, id); !errors.Is(err, ErrStaffHasDependents) {
			t.Errorf("staff %d: 期望 ErrStaffHasDependents，实际: %v", id, err)
		}
	}
	if len(db.staff) != 2 {
		t.Errorf("存在关联工单时不应删除员工，剩余 %d", len(db.staff))
	}
}

func TestDirectoryService_DeletePatient(t *testing.T) {
	svc, db := setupDirectoryService()
	ctx := context.Background()
	doctorID := seedStaff(db, "doc", model.RoleDoctor, true)
	busy := seedPatient(db, "busy")
	free := seedPatient(db, "free")
	db.orders = append(db.orders, model.Order{OrderID: db.id(), PatientID: busy, DoctorID: doctorID, OrderType: "Bloodwork"})
	db.patientNotifications = append(db.patientNotifications, model.PatientNotification{NotificationID: db.id(), PatientID: free, Message: "m"})

	if err := svc.DeletePatient(ctx, adminPrincipal, busy); !errors.Is(err, ErrPatientHasDependents) {
		t.Errorf("期望 ErrPatientHasDependents，实际: %v", err)
	}
	if err := svc.DeletePatient(ctx, adminPrincipal, free); err != nil {
		t.Fatalf("期望删除成功，实际: %v", err)
	}
	if len(db.patients) != 1 || db.patients[0].PatientID != busy {
		t.Errorf("仅应删除无关联的患者: %+v", db.patients)
	}
	if len(db.patientNotifications) != 0 {
		t.Error("患者通知应随账号删除")
	}
}

// ────────────────────── List ──────────────────────

func TestDirectoryService_ListAvailableAssignees(t *testing.T) {
	svc, db := setupDirectoryService()
	seedStaff(db, "zoe", model.RoleNurse, true)
	seedStaff(db, "amy", model.RoleNurse, true)
	seedStaff(db, "off", model.RoleNurse, false)
	seedStaff(db, "rad", model.RoleRadiologist, true)

	nurses, err := svc.ListAvailableAssignees(context.Background(), model.RoleNurse)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(nurses) != 2 || nurses[0].Name != "amy" || nurses[1].Name != "zoe" {
		t.Errorf("期望按姓名排序的 2 名可接单护士，实际: %+v", nurses)
	}

	if _, err := svc.ListAvailableAssignees(context.Background(), model.RoleDoctor); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("医生不是可指派角色，期望 ErrInvalidRole，实际: %v", err)
	}
}
