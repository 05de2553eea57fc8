package service

import (
	"context"
	"strings"
	"testing"

	"carepoint/backend/internal/authz"
	"carepoint/backend/internal/dto"
	"carepoint/backend/internal/model"
)

// 端到端业务场景：管理员开户 → 医生登录开医嘱、派单 → 护士完工 → 医生与患者收到通知

func TestScenario_BloodworkOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Directory.CreateStaff(ctx, adminPrincipal, &dto.CreateStaffRequest{
		Name: "Dr. A", Role: model.RoleDoctor, Username: "dra", Password: "x",
	}); err != nil {
		t.Fatalf("创建医生失败: %v", err)
	}
	p1, err := svc.Directory.CreatePatient(ctx, adminPrincipal, &dto.CreatePatientRequest{Name: "P1", Username: "p1", Password: "y"})
	if err != nil {
		t.Fatalf("创建患者失败: %v", err)
	}

	login, err := svc.Auth.Login(ctx, authz.KindStaff, &dto.LoginRequest{Username: "dra", Password: "x"})
	if err != nil {
		t.Fatalf("医生登录失败: %v", err)
	}
	if _, err := svc.Workflow.CreateOrder(ctx, login.Principal, &dto.CreateOrderRequest{PatientID: p1.ID, OrderType: "Bloodwork"}); err != nil {
		t.Fatalf("开医嘱失败: %v", err)
	}

	orders, err := svc.Workflow.ListOrdersByPatient(ctx, p1.ID, 300)
	if err != nil {
		t.Fatalf("查询医嘱失败: %v", err)
	}
	if len(orders) != 1 || orders[0].OrderType != "Bloodwork" {
		t.Errorf("期望 P1 恰好 1 条 Bloodwork 医嘱，实际: %+v", orders)
	}

	// 患者凭据同样可回环认证
	if _, err := svc.Auth.Authenticate(ctx, authz.KindPatient, "p1", "y"); err != nil {
		t.Errorf("患者认证失败: %v", err)
	}
	if _, err := svc.Auth.Authenticate(ctx, authz.KindPatient, "p1", "x"); err == nil {
		t.Error("错误密码不应通过认证")
	}
}

func TestScenario_VitalsCheckCompletion(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	dra, _ := svc.Directory.CreateStaff(ctx, adminPrincipal, &dto.CreateStaffRequest{Name: "Dr. A", Role: model.RoleDoctor, Username: "dra", Password: "x"})
	n1, _ := svc.Directory.CreateStaff(ctx, adminPrincipal, &dto.CreateStaffRequest{Name: "N1", Role: model.RoleNurse, Username: "n1", Password: "z", IsAvailable: "on"})
	p1, _ := svc.Directory.CreatePatient(ctx, adminPrincipal, &dto.CreatePatientRequest{Name: "P1", Username: "p1", Password: "y"})

	doctor := authz.Principal{Kind: authz.KindStaff, Role: model.RoleDoctor, UserID: dra.ID, Username: "dra"}
	nurse := authz.Principal{Kind: authz.KindStaff, Role: model.RoleNurse, UserID: n1.ID, Username: "n1"}
	patient := authz.Principal{Kind: authz.KindPatient, Role: model.RolePatient, UserID: p1.ID, Username: "p1"}

	a, err := svc.Workflow.CreateAssignment(ctx, doctor, &dto.CreateAssignmentRequest{PatientID: p1.ID, AssigneeStaffID: n1.ID, TaskType: "Vitals Check"})
	if err != nil {
		t.Fatalf("派单失败: %v", err)
	}

	inbox, _ := svc.Notification.ListFor(ctx, nurse, 200)
	if len(inbox) != 1 || inbox[0].IsRead {
		t.Fatalf("N1 应有 1 条未读通知，实际: %+v", inbox)
	}

	doctorBefore, _ := svc.Notification.ListFor(ctx, doctor, 50)
	patientBefore, _ := svc.Notification.ListFor(ctx, patient, 50)

	if _, err := svc.Workflow.UpdateAssignmentStatus(ctx, nurse, a.ID, model.AssignmentStatusCompleted); err != nil {
		t.Fatalf("完工失败: %v", err)
	}

	doctorAfter, _ := svc.Notification.ListFor(ctx, doctor, 50)
	patientAfter, _ := svc.Notification.ListFor(ctx, patient, 50)
	if len(doctorAfter)-len(doctorBefore) != 1 || !strings.Contains(doctorAfter[0].Message, "Vitals Check") {
		t.Errorf("医生应新增 1 条包含 Vitals Check 的通知: %+v", doctorAfter)
	}
	if len(patientAfter)-len(patientBefore) != 1 || !strings.Contains(patientAfter[0].Message, "Vitals Check") {
		t.Errorf("患者应新增 1 条包含 Vitals Check 的通知: %+v", patientAfter)
	}
}

func TestScenario_UnavailableAssigneeRejected(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	dra, _ := svc.Directory.CreateStaff(ctx, adminPrincipal, &dto.CreateStaffRequest{Name: "Dr. A", Role: model.RoleDoctor, Username: "dra", Password: "x"})
	off, _ := svc.Directory.CreateStaff(ctx, adminPrincipal, &dto.CreateStaffRequest{Name: "N2", Role: model.RoleNurse, Username: "n2", Password: "z"})
	p1, _ := svc.Directory.CreatePatient(ctx, adminPrincipal, &dto.CreatePatientRequest{Name: "P1", Username: "p1", Password: "y"})
	doctor := authz.Principal{Kind: authz.KindStaff, Role: model.RoleDoctor, UserID: dra.ID}

	if off.IsAvailable {
		t.Fatal("未勾选时员工应为不可接单")
	}
	if _, err := svc.Workflow.CreateAssignment(ctx, doctor, &dto.CreateAssignmentRequest{PatientID: p1.ID, AssigneeStaffID: off.ID, TaskType: "Vitals Check"}); err == nil {
		t.Fatal("不可接单的执行人应被拒绝")
	}
	if len(db.assignments) != 0 || len(db.notifications) != 0 {
		t.Errorf("不应写入工单或通知: %d / %d", len(db.assignments), len(db.notifications))
	}
}
