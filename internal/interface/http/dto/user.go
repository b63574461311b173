package dto

// RegisterRequest HTTP层注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@livraria.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"senha1234"`
	Nickname string `json:"nickname" binding:"required,min=2,max=50" example:"Maria"`
}

// LoginRequest HTTP层登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@livraria.com"`
	Password string `json:"password" binding:"required" example:"senha1234"`
}

// RefreshRequest 刷新Access Token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
