package models

// Role is the access level stored on every user row
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleTeacher       Role = "teacher"
	RoleStudentLeader Role = "student_leader"
	RoleStudent       Role = "student"
)

var (
	// AllRoles may call any authenticated endpoint
	AllRoles = []Role{RoleSuperAdmin, RoleTeacher, RoleStudentLeader, RoleStudent}
	// ReviewerRoles may read and audit submissions
	ReviewerRoles = []Role{RoleSuperAdmin, RoleTeacher, RoleStudentLeader}
	// GrantableRoles are the targets of a super_admin role grant
	GrantableRoles = []Role{RoleTeacher, RoleStudentLeader}
)

// Valid reports whether r is one of the four enumerated roles
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTeacher, RoleStudentLeader, RoleStudent:
		return true
	}
	return false
}

// In reports whether r is a member of roles
func (r Role) In(roles []Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// IsStaff reports whether r may act on behalf of other students
func (r Role) IsStaff() bool {
	return r.In(ReviewerRoles)
}
