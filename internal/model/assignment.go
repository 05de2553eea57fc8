package model

// 工单状态
const (
	AssignmentStatusAssigned   = "Assigned"
	AssignmentStatusInProgress = "In Progress"
	AssignmentStatusCompleted  = "Completed"
)

// IsAssignmentStatus 判断是否为合法工单状态
func IsAssignmentStatus(status string) bool {
	switch status {
	case AssignmentStatusAssigned, AssignmentStatusInProgress, AssignmentStatusCompleted:
		return true
	}
	return false
}

// Assignment 工单表，对应 assignments
type Assignment struct {
	AssignmentID    int64  `gorm:"column:id;primaryKey;autoIncrement"             json:"id"`
	PatientID       int64  `gorm:"not null;index"                                 json:"patient_id"`
	DoctorID        int64  `gorm:"not null;index"                                 json:"doctor_id"`
	AssigneeStaffID int64  `gorm:"not null;index"                                 json:"assignee_staff_id"`
	TaskType        string `gorm:"type:varchar(100);not null"                     json:"task_type"`
	Notes           string `gorm:"type:text;not null;default:''"                  json:"notes"`
	Status          string `gorm:"type:varchar(20);not null;default:'Assigned'"   json:"status"` // Assigned | In Progress | Completed
	BaseModel

	// 关联
	Patient  *Patient `gorm:"foreignKey:PatientID;references:PatientID"     json:"patient,omitempty"`
	Doctor   *Staff   `gorm:"foreignKey:DoctorID;references:StaffID"       json:"doctor,omitempty"`
	Assignee *Staff   `gorm:"foreignKey:AssigneeStaffID;references:StaffID" json:"assignee,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// [自证通过] internal/model/assignment.go
