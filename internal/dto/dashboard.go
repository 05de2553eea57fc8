package dto

// NotificationResponse 通知响应（员工与患者共用）
type NotificationResponse struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

// ── 各角色首页 ──

// AdminDashboard 管理员首页
type AdminDashboard struct {
	Staff       []StaffResponse      `json:"staff"`
	Patients    []PatientResponse    `json:"patients"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// DoctorDashboard 医生首页
type DoctorDashboard struct {
	Me            StaffResponse          `json:"me"`
	Patients      []PatientResponse      `json:"patients"`
	Nurses        []StaffResponse        `json:"nurses"`
	Radiologists  []StaffResponse        `json:"radiologists"`
	Orders        []OrderResponse        `json:"orders"`
	Assignments   []AssignmentResponse   `json:"assignments"`
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

// StaffDashboard 护士 / 放射科医生首页
type StaffDashboard struct {
	Me            StaffResponse          `json:"me"`
	Notifications []NotificationResponse `json:"notifications"`
	Assignments   []AssignmentResponse   `json:"assignments"`
	UnreadCount   int64                  `json:"unread_count"`
}

// PatientDashboard 患者门户首页
type PatientDashboard struct {
	Me            PatientResponse        `json:"me"`
	Orders        []OrderResponse        `json:"orders"`
	Assignments   []AssignmentResponse   `json:"assignments"`
	Reports       []ReportResponse       `json:"reports"`
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}
