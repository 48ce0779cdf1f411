package token

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Navneet1206/appoint-healers/models"
	"github.com/Navneet1206/appoint-healers/utils"
)

// Service issues and verifies the access/refresh token pair. The refresh
// token's jti is stored on the user record; only the single stored jti can be
// exchanged, so every issuance invalidates the prior refresh token.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssuePair creates a fresh token pair and overwrites the user's stored
// refresh token id. The caller persists the user.
func (s *Service) IssuePair(user *models.User) (*Pair, error) {
	accessClaims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role.Name,
		"exp":   s.now().Add(s.accessTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	jti := utils.GenerateTokenID()
	refreshClaims := jwt.MapClaims{
		"id":  user.ID,
		"jti": jti,
		"exp": s.now().Add(s.refreshTTL).Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	user.RefreshTokenID = jti
	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyRefresh parses a presented refresh token and returns the account id
// and jti it carries.
func (s *Service) VerifyRefresh(tokenString string) (uint, string, error) {
	if tokenString == "" {
		return 0, "", utils.NewUnauthorizedError("Refresh token missing")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", utils.NewUnauthorizedError("Invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", utils.NewUnauthorizedError("Invalid refresh token")
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, "", utils.NewUnauthorizedError("Invalid refresh token")
	}
	jti, ok := claims["jti"].(string)
	if !ok {
		return 0, "", utils.NewUnauthorizedError("Invalid refresh token")
	}
	return uint(id), jti, nil
}

// Rotate exchanges a verified refresh token for a new pair, failing unless
// the presented jti matches the one stored on the account.
func (s *Service) Rotate(user *models.User, presentedJTI string) (*Pair, error) {
	if user.RefreshTokenID == "" || user.RefreshTokenID != presentedJTI {
		return nil, utils.NewUnauthorizedError("Refresh token does not match the active session")
	}
	return s.IssuePair(user)
}
