package auth

import "time"

// Config drives authentication behavior.
type Config struct {
	Secret          string
	TokenTTL        time.Duration
	RefreshTokenTTL time.Duration
	Google          GoogleConfig
}

// GoogleConfig holds OAuth settings for Google sign-in.
type GoogleConfig struct {
	ClientID             string
	ClientSecret         string
	RedirectURL          string
	TokenEncryptionKey   string
	PostLoginRedirectURL string
}

// User is a shopper account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser is the insert payload for AccountStore.CreateUser.
type NewUser struct {
	Email        string
	Nickname     string
	PasswordHash string
}

// Identity links an account to an external sign-in provider. RefreshToken is sealed.
type Identity struct {
	ID              int64
	UserID          int64
	Provider        string
	ProviderSubject string
	ProviderEmail   string
	RefreshToken    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LoginResponse is a signed-in session. NewAccount is set when the sign-in created the
// account, so the storefront can open onboarding.
type LoginResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt"`
	NewAccount   bool      `json:"newAccount,omitempty"`
	User         UserView  `json:"user"`
}

// UserView is the public account shape, with the shopper's storefront profile when known.
type UserView struct {
	ID        int64           `json:"id"`
	Email     string          `json:"email"`
	Nickname  string          `json:"nickname"`
	CreatedAt time.Time       `json:"createdAt"`
	Shopper   *ShopperSummary `json:"shopper,omitempty"`
}

// ShopperSummary condenses saved preferences for account views.
type ShopperSummary struct {
	Style     string `json:"style"`
	Analyzed  bool   `json:"analyzed"`
	Hex       string `json:"hex,omitempty"`
	Undertone string `json:"undertone,omitempty"`
	Depth     string `json:"depth,omitempty"`
}

// Claims are extracted from a verified access or refresh token.
type Claims struct {
	UserID    int64
	Email     string
	TokenType string
	ExpiresAt time.Time
}
