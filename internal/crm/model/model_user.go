package model

// User 用户表
type User struct {
	BaseModel
	UserId   string `gorm:"column:user_id;uniqueIndex" json:"userId"` // 用户唯一标识
	Email    string `gorm:"column:email;uniqueIndex" json:"email"`    // 登录邮箱
	Name     string `gorm:"column:name" json:"name"`                  // 显示名称
	Password string `gorm:"column:password" json:"-"`                 // bcrypt 密码哈希
}

func (User) TableName() string {
	return "t_user"
}

// RegisterReq 注册请求
type RegisterReq struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	Name             string `json:"name" validate:"required"`
	OrganizationName string `json:"organizationName" validate:"required"`
}

// LoginReq 登录请求
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshReq 刷新令牌请求
type RefreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UserInfo 用户信息（脱敏）
type UserInfo struct {
	UserId string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// AuthResp 认证响应，包含用户信息和令牌对
type AuthResp struct {
	UserInfo     UserInfo          `json:"userInfo"`
	Organization *Organization     `json:"organization,omitempty"`
	Token        map[string]string `json:"token"`
}

func ToUserInfo(u *User) UserInfo {
	return UserInfo{
		UserId: u.UserId,
		Email:  u.Email,
		Name:   u.Name,
	}
}
