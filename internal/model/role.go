package model

// 员工角色
const (
	RoleAdmin       = "admin"
	RoleDoctor      = "doctor"
	RoleNurse       = "nurse"
	RoleRadiologist = "radiologist"
	// RolePatient 患者主体的角色（患者不在 staff 表中）
	RolePatient = "patient"
)

// StaffRoles 可创建的员工角色
var StaffRoles = []string{RoleAdmin, RoleDoctor, RoleNurse, RoleRadiologist}

// IsStaffRole 判断是否为合法员工角色
func IsStaffRole(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAssigneeRole 判断该角色能否被指派工单
func IsAssigneeRole(role string) bool {
	return role == RoleNurse || role == RoleRadiologist
}
