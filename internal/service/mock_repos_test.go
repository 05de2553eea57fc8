package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"carepoint/backend/internal/model"
	"carepoint/backend/internal/repository"
)

// memDB 内存数据集，供各 mock Repository 共享以模拟表间关联
type memDB struct {
	nextID               int64
	staff                []model.Staff
	patients             []model.Patient
	orders               []model.Order
	assignments          []model.Assignment
	reports              []model.Report
	notifications        []model.Notification
	patientNotifications []model.PatientNotification
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

// newMockRepository 组装 mock 聚合（db 为 nil，事务退化为直接写入）
func newMockRepository() (*repository.Repository, *memDB) {
	db := &memDB{}
	return &repository.Repository{
		Staff:               &mockStaffRepo{db: db},
		Patient:             &mockPatientRepo{db: db},
		Order:               &mockOrderRepo{db: db},
		Assignment:          &mockAssignmentRepo{db: db},
		Report:              &mockReportRepo{db: db},
		Notification:        &mockNotificationRepo{db: db},
		PatientNotification: &mockPatientNotificationRepo{db: db},
	}, db
}

var errMockDB = errors.New("mock db failure")

func limited[T any](list []T, limit int) []T {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

// newestFirst 按插入顺序倒序筛选
func newestFirst[T any](list []T, keep func(*T) bool) []T {
	out := []T{}
	for i := len(list) - 1; i >= 0; i-- {
		if keep(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}

// filter 保持原有顺序筛选
func filter[T any](list []T, keep func(*T) bool) []T {
	out := []T{}
	for i := range list {
		if keep(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	db *memDB
}

func (m *mockStaffRepo) Create(_ context.Context, staff *model.Staff) error {
	for _, s := range m.db.staff {
		if s.Username == staff.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	staff.StaffID = m.db.id()
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt
	m.db.staff = append(m.db.staff, *staff)
	return nil
}

func (m *mockStaffRepo) find(id int64) *model.Staff {
	for i := range m.db.staff {
		if m.db.staff[i].StaffID == id {
			return &m.db.staff[i]
		}
	}
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id int64) (*model.Staff, error) {
	if s := m.find(id); s != nil {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) GetByUsername(_ context.Context, username string) (*model.Staff, error) {
	for _, s := range m.db.staff {
		if s.Username == username {
			cp := s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) List(_ context.Context) ([]model.Staff, error) {
	return newestFirst(m.db.staff, func(*model.Staff) bool { return true }), nil
}

func (m *mockStaffRepo) ListAvailableByRole(_ context.Context, role string) ([]model.Staff, error) {
	out := newestFirst(m.db.staff, func(s *model.Staff) bool { return s.Role == role && s.IsAvailable })
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockStaffRepo) SetAvailability(_ context.Context, id int64, available bool) error {
	if s := m.find(id); s != nil {
		s.IsAvailable = available
	}
	return nil
}

func (m *mockStaffRepo) CountDependents(_ context.Context, id int64) (int64, error) {
	var n int64
	for _, o := range m.db.orders {
		if o.DoctorID == id {
			n++
		}
	}
	for _, a := range m.db.assignments {
		if a.DoctorID == id || a.AssigneeStaffID == id {
			n++
		}
	}
	for _, r := range m.db.reports {
		if r.CreatedByStaffID == id {
			n++
		}
	}
	return n, nil
}

func (m *mockStaffRepo) Delete(_ context.Context, id int64) error {
	m.db.staff = filter(m.db.staff, func(s *model.Staff) bool { return s.StaffID != id })
	// 通知随收件人级联删除
	m.db.notifications = filter(m.db.notifications, func(n *model.Notification) bool { return n.StaffID != id })
	return nil
}

func (m *mockStaffRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.db.staff)), nil
}

// ── Mock PatientRepository ──

type mockPatientRepo struct {
	db *memDB
}

func (m *mockPatientRepo) Create(_ context.Context, patient *model.Patient) error {
	for _, p := range m.db.patients {
		if p.Username == patient.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	patient.PatientID = m.db.id()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt
	m.db.patients = append(m.db.patients, *patient)
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id int64) (*model.Patient, error) {
	for _, p := range m.db.patients {
		if p.PatientID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPatientRepo) GetByUsername(_ context.Context, username string) (*model.Patient, error) {
	for _, p := range m.db.patients {
		if p.Username == username {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPatientRepo) List(_ context.Context) ([]model.Patient, error) {
	return newestFirst(m.db.patients, func(*model.Patient) bool { return true }), nil
}

func (m *mockPatientRepo) CountDependents(_ context.Context, id int64) (int64, error) {
	var n int64
	for _, o := range m.db.orders {
		if o.PatientID == id {
			n++
		}
	}
	for _, a := range m.db.assignments {
		if a.PatientID == id {
			n++
		}
	}
	for _, r := range m.db.reports {
		if r.PatientID == id {
			n++
		}
	}
	return n, nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id int64) error {
	m.db.patients = filter(m.db.patients, func(p *model.Patient) bool { return p.PatientID != id })
	m.db.patientNotifications = filter(m.db.patientNotifications, func(n *model.PatientNotification) bool { return n.PatientID != id })
	return nil
}

// ── Mock OrderRepository ──

type mockOrderRepo struct {
	db *memDB
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.OrderID = m.db.id()
	order.CreatedAt = time.Now()
	m.db.orders = append(m.db.orders, *order)
	return nil
}

func (m *mockOrderRepo) ListByDoctor(_ context.Context, doctorID int64, limit int) ([]model.Order, error) {
	return limited(newestFirst(m.db.orders, func(o *model.Order) bool { return o.DoctorID == doctorID }), limit), nil
}

func (m *mockOrderRepo) ListByPatient(_ context.Context, patientID int64, limit int) ([]model.Order, error) {
	return limited(newestFirst(m.db.orders, func(o *model.Order) bool { return o.PatientID == patientID }), limit), nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	db        *memDB
	createErr error
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.Assignment) error {
	if m.createErr != nil {
		return m.createErr
	}
	a.AssignmentID = m.db.id()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.db.assignments = append(m.db.assignments, *a)
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id int64) (*model.Assignment, error) {
	for _, a := range m.db.assignments {
		if a.AssignmentID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) UpdateStatus(_ context.Context, id, assigneeID int64, status string) (int64, error) {
	for i := range m.db.assignments {
		a := &m.db.assignments[i]
		if a.AssignmentID == id && a.AssigneeStaffID == assigneeID && a.Status != model.AssignmentStatusCompleted {
			a.Status = status
			a.UpdatedAt = time.Now()
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockAssignmentRepo) ListByDoctor(_ context.Context, doctorID int64, limit int) ([]model.Assignment, error) {
	return limited(newestFirst(m.db.assignments, func(a *model.Assignment) bool { return a.DoctorID == doctorID }), limit), nil
}

func (m *mockAssignmentRepo) ListByAssignee(_ context.Context, staffID int64, limit int) ([]model.Assignment, error) {
	return limited(newestFirst(m.db.assignments, func(a *model.Assignment) bool { return a.AssigneeStaffID == staffID }), limit), nil
}

func (m *mockAssignmentRepo) ListByPatient(_ context.Context, patientID int64, limit int) ([]model.Assignment, error) {
	return limited(newestFirst(m.db.assignments, func(a *model.Assignment) bool { return a.PatientID == patientID }), limit), nil
}

func (m *mockAssignmentRepo) ListRecent(_ context.Context, limit int) ([]model.Assignment, error) {
	return limited(newestFirst(m.db.assignments, func(*model.Assignment) bool { return true }), limit), nil
}

// ── Mock ReportRepository ──

type mockReportRepo struct {
	db        *memDB
	createErr error
}

func (m *mockReportRepo) Create(_ context.Context, report *model.Report) error {
	if m.createErr != nil {
		return m.createErr
	}
	report.ReportID = m.db.id()
	report.CreatedAt = time.Now()
	m.db.reports = append(m.db.reports, *report)
	return nil
}

func (m *mockReportRepo) ListByPatient(_ context.Context, patientID int64, limit int) ([]model.Report, error) {
	return limited(newestFirst(m.db.reports, func(r *model.Report) bool { return r.PatientID == patientID }), limit), nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	db        *memDB
	createErr error
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	n.NotificationID = m.db.id()
	n.CreatedAt = time.Now()
	m.db.notifications = append(m.db.notifications, *n)
	return nil
}

func (m *mockNotificationRepo) ListByStaff(_ context.Context, staffID int64, limit int) ([]model.Notification, error) {
	return limited(newestFirst(m.db.notifications, func(n *model.Notification) bool { return n.StaffID == staffID }), limit), nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, staffID int64) (int64, error) {
	for i := range m.db.notifications {
		n := &m.db.notifications[i]
		if n.NotificationID == id && n.StaffID == staffID {
			n.IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, staffID int64) (int64, error) {
	var c int64
	for _, n := range m.db.notifications {
		if n.StaffID == staffID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

// ── Mock PatientNotificationRepository ──

type mockPatientNotificationRepo struct {
	db *memDB
}

func (m *mockPatientNotificationRepo) Create(_ context.Context, n *model.PatientNotification) error {
	n.NotificationID = m.db.id()
	n.CreatedAt = time.Now()
	m.db.patientNotifications = append(m.db.patientNotifications, *n)
	return nil
}

func (m *mockPatientNotificationRepo) ListByPatient(_ context.Context, patientID int64, limit int) ([]model.PatientNotification, error) {
	return limited(newestFirst(m.db.patientNotifications, func(n *model.PatientNotification) bool { return n.PatientID == patientID }), limit), nil
}

func (m *mockPatientNotificationRepo) MarkRead(_ context.Context, id, patientID int64) (int64, error) {
	for i := range m.db.patientNotifications {
		n := &m.db.patientNotifications[i]
		if n.NotificationID == id && n.PatientID == patientID {
			n.IsRead = true
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockPatientNotificationRepo) CountUnread(_ context.Context, patientID int64) (int64, error) {
	var c int64
	for _, n := range m.db.patientNotifications {
		if n.PatientID == patientID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

// ── 测试数据 ──

// seedStaff 直接写入员工（跳过 bcrypt），返回 ID
func seedStaff(db *memDB, name, role string, available bool) int64 {
	s := model.Staff{StaffID: db.id(), Name: name, Role: role, Username: name, IsAvailable: available, PasswordHash: "x"}
	db.staff = append(db.staff, s)
	return s.StaffID
}

func seedPatient(db *memDB, name string) int64 {
	p := model.Patient{PatientID: db.id(), Name: name, Username: name, PasswordHash: "x"}
	db.patients = append(db.patients, p)
	return p.PatientID
}
