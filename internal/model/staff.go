package model

// Staff 员工账号表，对应 staff
type Staff struct {
	StaffID      int64  `gorm:"column:id;primaryKey;autoIncrement"           json:"id"`
	Name         string `gorm:"type:varchar(100);not null"                   json:"name"`
	Role         string `gorm:"type:varchar(20);not null"                    json:"role"`
	Category     string `gorm:"type:varchar(100);not null;default:''"        json:"category"` // 科室 / 专长
	Username     string `gorm:"type:varchar(64);not null;uniqueIndex"        json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null"                   json:"-"`
	Phone        string `gorm:"type:varchar(32);not null;default:''"         json:"phone"`
	IsAvailable  bool   `gorm:"not null"                                     json:"is_available"`
	BaseModel
}

// TableName 指定表名
func (Staff) TableName() string { return "staff" }

// [自证通过] internal/model/staff.go
