package model

import "time"

// Order 医嘱表，对应 orders（创建后不可修改）
type Order struct {
	OrderID   int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PatientID int64     `gorm:"not null;index"                     json:"patient_id"`
	DoctorID  int64     `gorm:"not null;index"                     json:"doctor_id"`
	OrderType string    `gorm:"type:varchar(100);not null"         json:"order_type"`
	Notes     string    `gorm:"type:text;not null;default:''"      json:"notes"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"            json:"created_at"`

	// 关联
	Patient *Patient `gorm:"foreignKey:PatientID;references:PatientID" json:"patient,omitempty"`
	Doctor  *Staff   `gorm:"foreignKey:DoctorID;references:StaffID"   json:"doctor,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string { return "orders" }
