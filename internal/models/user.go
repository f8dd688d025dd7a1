package models

// User is the profile record the backend returns for an authenticated member.
type User struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ProfileImage  string `json:"profileImage,omitempty"`
	Role          string `json:"role,omitempty"`
	CommunityName string `json:"communityName,omitempty"`
}

// Session is the persisted login state: the bearer token plus the user
// record it belongs to. Created on login, mutated on profile refresh,
// destroyed on logout.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	UserInfo    User   `json:"userInfo"`
}

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	CommunityID int    `json:"community_id"`
	Role        string `json:"role"`
}

type SignupResponse struct {
	Token    string `json:"token"`
	UserInfo User   `json:"userInfo"`
}

type EmailVerificationRequest struct {
	Email string `json:"email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
