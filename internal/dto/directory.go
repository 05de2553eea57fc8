package dto

import "strings"

// ── 账号管理 DTO ──

// CategoryOther 科室下拉框中的“其他”选项
const CategoryOther = "Other"

// CreateStaffRequest 创建员工账号请求
// 科室可直接填写 category，或通过下拉框 category_select / 自定义 category_other 提交
type CreateStaffRequest struct {
	Name           string `form:"name"            json:"name"`
	Role           string `form:"role"            json:"role"`
	Category       string `form:"category"        json:"category"`
	CategorySelect string `form:"category_select" json:"category_select"`
	CategoryOther  string `form:"category_other"  json:"category_other"`
	Username       string `form:"username"        json:"username"`
	Password       string `form:"password"        json:"password"`
	Phone          string `form:"phone"           json:"phone"`
	IsAvailable    string `form:"is_available"    json:"is_available"` // 复选框: "on" / "true" / "1"
}

// ResolveCategory 解析最终科室
// 优先使用 category；为空或为“其他”时回落到下拉框及其自定义输入
func (r *CreateStaffRequest) ResolveCategory() string {
	category := strings.TrimSpace(r.Category)
	if category != "" && category != CategoryOther {
		return category
	}
	selected := strings.TrimSpace(r.CategorySelect)
	custom := strings.TrimSpace(r.CategoryOther)
	switch {
	case selected == CategoryOther && custom != "":
		return custom
	case selected != "" && selected != CategoryOther:
		return selected
	}
	return category
}

// Available 解析可接单勾选状态
func (r *CreateStaffRequest) Available() bool {
	switch strings.ToLower(strings.TrimSpace(r.IsAvailable)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// CreatePatientRequest 创建患者账号请求
type CreatePatientRequest struct {
	Name     string `form:"name"     json:"name"`
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Phone    string `form:"phone"    json:"phone"`
	DOB      string `form:"dob"      json:"dob"`
	Gender   string `form:"gender"   json:"gender"`
}

// StaffResponse 员工信息（脱敏）
type StaffResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Category    string `json:"category"`
	Username    string `json:"username"`
	Phone       string `json:"phone"`
	IsAvailable bool   `json:"is_available"`
	CreatedAt   string `json:"created_at"`
}

// PatientResponse 患者信息（脱敏）
type PatientResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	DOB       string `json:"dob"`
	Gender    string `json:"gender"`
	CreatedAt string `json:"created_at"`
}
