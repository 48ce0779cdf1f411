package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Navneet1206/appoint-healers/models"
	"github.com/Navneet1206/appoint-healers/utils"
)

const testSecret = "test-secret"

func testService() *Service {
	return NewService(testSecret, 15*time.Minute, 7*24*time.Hour)
}

func testUser() *models.User {
	return &models.User{
		ID:    42,
		Email: "a@x.com",
		Role:  models.Role{Name: models.RolePatron},
	}
}

func TestIssuePairStoresRefreshTokenID(t *testing.T) {
	s := testService()
	user := testUser()

	pair, err := s.IssuePair(user)
	if err != nil {
		t.Fatal(err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("IssuePair returned empty tokens")
	}
	if user.RefreshTokenID == "" {
		t.Fatal("IssuePair did not store a refresh token id on the user")
	}

	id, jti, err := s.VerifyRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefresh rejected a fresh token: %v", err)
	}
	if id != user.ID {
		t.Errorf("refresh token id = %d, want %d", id, user.ID)
	}
	if jti != user.RefreshTokenID {
		t.Errorf("refresh token jti %q does not match stored %q", jti, user.RefreshTokenID)
	}
}

func TestAccessTokenClaims(t *testing.T) {
	s := testService()
	user := testUser()

	pair, err := s.IssuePair(user)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := jwt.Parse(pair.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token does not parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["email"] != "a@x.com" {
		t.Errorf("email claim = %v", claims["email"])
	}
	if claims["role"] != models.RolePatron {
		t.Errorf("role claim = %v", claims["role"])
	}
	if uint(claims["id"].(float64)) != 42 {
		t.Errorf("id claim = %v", claims["id"])
	}
}

func TestRotateAcceptsOnlyStoredToken(t *testing.T) {
	s := testService()
	user := testUser()

	first, err := s.IssuePair(user)
	if err != nil {
		t.Fatal(err)
	}
	_, firstJTI, _ := s.VerifyRefresh(first.RefreshToken)

	second, err := s.Rotate(user, firstJTI)
	if err != nil {
		t.Fatalf("rotate with the active token failed: %v", err)
	}
	if user.RefreshTokenID == firstJTI {
		t.Error("rotate did not replace the stored jti")
	}

	// the superseded token no longer matches
	if _, err := s.Rotate(user, firstJTI); err == nil {
		t.Fatal("rotate accepted a superseded refresh token")
	}

	_, secondJTI, err := s.VerifyRefresh(second.RefreshToken)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Rotate(user, secondJTI); err != nil {
		t.Errorf("rotate with the current token failed: %v", err)
	}
}

func TestRotateRejectsClearedToken(t *testing.T) {
	s := testService()
	user := testUser()

	pair, _ := s.IssuePair(user)
	_, jti, _ := s.VerifyRefresh(pair.RefreshToken)

	// logout clears the stored id
	user.RefreshTokenID = ""
	_, err := s.Rotate(user, jti)
	if err == nil {
		t.Fatal("rotate accepted a token after logout cleared it")
	}
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Status != 401 {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestVerifyRefreshRejectsGarbage(t *testing.T) {
	s := testService()

	cases := []string{"", "not-a-jwt", "a.b.c"}
	for _, tokenString := range cases {
		if _, _, err := s.VerifyRefresh(tokenString); err == nil {
			t.Errorf("VerifyRefresh accepted %q", tokenString)
		}
	}
}

func TestVerifyRefreshRejectsWrongSecret(t *testing.T) {
	other := NewService("different-secret", 15*time.Minute, 7*24*time.Hour)
	user := testUser()
	pair, _ := other.IssuePair(user)

	s := testService()
	if _, _, err := s.VerifyRefresh(pair.RefreshToken); err == nil {
		t.Fatal("VerifyRefresh accepted a token signed with another secret")
	}
}

func TestVerifyRefreshRejectsExpired(t *testing.T) {
	s := testService()
	s.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	user := testUser()
	pair, _ := s.IssuePair(user)

	fresh := testService()
	if _, _, err := fresh.VerifyRefresh(pair.RefreshToken); err == nil {
		t.Fatal("VerifyRefresh accepted an expired refresh token")
	}
}
