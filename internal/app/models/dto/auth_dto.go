package dto

// RegisterRequest is the self-registration payload
type RegisterRequest struct {
	Name      string `json:"name" binding:"required,max=100" example:"Li Hua"`
	StudentID string `json:"student_id" binding:"required,identifier" example:"2023210001"`
	Password  string `json:"password" binding:"required" example:"secret123"`
}

// RegisterResponse reports the outcome of a registration
type RegisterResponse struct {
	Result
	StudentID string `json:"student_id,omitempty" example:"2023210001"`
}

// LoginRequest is the credential pair submitted on login
type LoginRequest struct {
	StudentID string `json:"student_id" binding:"required" example:"2023210001"`
	Password  string `json:"password" binding:"required" example:"secret123"`
}

// LoginResponse carries the access token on success
type LoginResponse struct {
	Result
	Token     string `json:"token,omitempty"`
	TokenType string `json:"token_type,omitempty" example:"bearer"`
	ExpiresIn int    `json:"expires_in,omitempty" example:"7200"`
	StudentID string `json:"student_id,omitempty" example:"2023210001"`
	Name      string `json:"name,omitempty" example:"Li Hua"`
	Role      string `json:"role,omitempty" example:"student"`
}

// StudentInfo is the profile of the calling user
type StudentInfo struct {
	StudentName string `json:"studentName" example:"Li Hua"`
	StudentID   string `json:"studentId" example:"2023210001"`
	Role        string `json:"role" example:"student"`
}

// GrantRoleRequest asks to set the role of an existing user
type GrantRoleRequest struct {
	TargetID string `json:"target_id" binding:"required" example:"2023210001"`
	NewRole  string `json:"new_role" binding:"required" example:"teacher"`
}

// PromoteRequest asks to promote a student to student leader
type PromoteRequest struct {
	TargetID string `json:"target_id" binding:"required" example:"2023210001"`
}

// RoleChange describes the result of a role mutation
type RoleChange struct {
	StudentID string `json:"student_id" example:"2023210001"`
	Name      string `json:"name" example:"Li Hua"`
	Role      string `json:"role" example:"student_leader"`
}

// RoleChangeResponse reports the outcome of a role grant or promotion
type RoleChangeResponse struct {
	Result
	User *RoleChange `json:"user,omitempty"`
}
