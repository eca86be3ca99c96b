package auth

type (
	RegisterRequest struct {
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
		Password    string `json:"password"`
	}
	LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	TokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
)
