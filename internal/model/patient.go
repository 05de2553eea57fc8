package model

// Patient 患者账号表，对应 patients
type Patient struct {
	PatientID    int64  `gorm:"column:id;primaryKey;autoIncrement"    json:"id"`
	Name         string `gorm:"type:varchar(100);not null"            json:"name"`
	Username     string `gorm:"type:varchar(64);not null;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null"            json:"-"`
	Phone        string `gorm:"type:varchar(32);not null;default:''"  json:"phone"`
	DOB          string `gorm:"column:dob;type:varchar(20);not null;default:''" json:"dob"`
	Gender       string `gorm:"type:varchar(20);not null;default:''"  json:"gender"`
	BaseModel
}

// TableName 指定表名
func (Patient) TableName() string { return "patients" }
