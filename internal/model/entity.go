package model

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type UserProfile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	UniversityID string `json:"university_id,omitempty"`
}

type RecalculateResponse struct {
	Success              bool    `json:"success"`
	FinancialStressIndex float64 `json:"financialStressIndex"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
