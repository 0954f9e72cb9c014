package model

type LoginRequest struct {
	IDToken string `json:"id_token"`
}

type LoginResponse struct {
	AccessToken      string `json:"access_token"`
	User             User   `json:"user"`
	IsNewUser        bool   `json:"is_new_user"`
	EarlyLoginPoints int64  `json:"early_login_points"`
}
