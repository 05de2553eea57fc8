package model

import "time"

// Report 患者报告表，对应 reports（创建后不可修改）
type Report struct {
	ReportID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PatientID        int64     `gorm:"not null;index"                     json:"patient_id"`
	CreatedByStaffID int64     `gorm:"not null"                           json:"created_by_staff_id"`
	ReportType       string    `gorm:"type:varchar(100);not null"         json:"report_type"`
	ReportText       string    `gorm:"type:text;not null;default:''"      json:"report_text"`
	ImageFilename    *string   `gorm:"type:varchar(255)"                  json:"image_filename,omitempty"`
	CreatedAt        time.Time `gorm:"not null;autoCreateTime"            json:"created_at"`

	// 关联
	CreatedBy *Staff `gorm:"foreignKey:CreatedByStaffID;references:StaffID" json:"created_by,omitempty"`
}

// TableName 指定表名
func (Report) TableName() string { return "reports" }
