package dto

import "time"

// OAuthSignInRequest carries an identity already verified by the identity provider
type OAuthSignInRequest struct {
	Provider          string  `json:"provider" validate:"required,max=50"`
	ProviderAccountID string  `json:"providerAccountId" validate:"required,max=255"`
	Email             string  `json:"email" validate:"omitempty,email"`
	Name              *string `json:"name" validate:"omitempty,max=100"`
	Image             *string `json:"image" validate:"omitempty,url"`
}

// AuthResponse is returned after a successful sign-in
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType" example:"Bearer"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	IsNewUser   bool         `json:"isNewUser"`
	User        UserResponse `json:"user"`
}
