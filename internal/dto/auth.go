package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求（员工与患者共用）
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// LoginResponse 登录成功响应
type LoginResponse struct {
	Redirect  string `json:"redirect"`   // 角色首页
	Kind      string `json:"kind"`       // staff | patient
	Role      string `json:"role"`
	Name      string `json:"name"`
	ExpiresIn int    `json:"expires_in"` // 会话有效期（秒）
}

// HomeResponse 首页响应：未登录时列出登录入口
type HomeResponse struct {
	StaffLogin   string `json:"staff_login"`
	PatientLogin string `json:"patient_login"`
}

// [自证通过] internal/dto/auth.go
