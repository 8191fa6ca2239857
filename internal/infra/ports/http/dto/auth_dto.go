package dto

type RegisterRequest struct {
	Username string `json:"username"`
	Contact  string `json:"contact"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
