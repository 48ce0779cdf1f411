package controllers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Navneet1206/appoint-healers/config"
	"github.com/Navneet1206/appoint-healers/models"
	"github.com/Navneet1206/appoint-healers/services/notification"
	"github.com/Navneet1206/appoint-healers/services/otp"
	"github.com/Navneet1206/appoint-healers/services/token"
	"github.com/Navneet1206/appoint-healers/utils"
)

type AuthController struct {
	db         *gorm.DB
	cfg        *config.Config
	tokens     *token.Service
	otps       *otp.Service
	dispatcher *notification.Dispatcher
}

func NewAuthController(db *gorm.DB, cfg *config.Config, tokens *token.Service, otps *otp.Service, dispatcher *notification.Dispatcher) *AuthController {
	return &AuthController{db: db, cfg: cfg, tokens: tokens, otps: otps, dispatcher: dispatcher}
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
}

// Register creates an unverified account, issues both channel OTPs, and
// returns a token pair immediately. Registration does not block on the codes
// being delivered or verified.
func (h *AuthController) Register(c *fiber.Ctx) error {
	req := new(RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.NewValidationError("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return utils.NewValidationError("date_of_birth must be YYYY-MM-DD")
	}

	var existing models.User
	if h.db.Where("email = ?", req.Email).First(&existing).RowsAffected > 0 {
		return utils.NewConflictError("User with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var patronRole models.Role
	if err := h.db.Where("name = ?", models.RolePatron).First(&patronRole).Error; err != nil {
		log.Printf("Error finding patron role: %v", err)
		return err
	}

	user := models.User{
		Email:       req.Email,
		Password:    string(hashedPassword),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		DateOfBirth: dob,
		RoleID:      patronRole.ID,
		Role:        patronRole,
	}

	emailCode, err := h.otps.Issue(&user, models.ChannelEmail)
	if err != nil {
		return err
	}
	phoneCode, err := h.otps.Issue(&user, models.ChannelPhone)
	if err != nil {
		return err
	}

	if err := h.db.Create(&user).Error; err != nil {
		log.Printf("Error creating user: %v", err)
		return err
	}

	// Token issuance needs the persisted ID; the fresh jti is stored with a
	// follow-up update.
	pair, err := h.tokens.IssuePair(&user)
	if err != nil {
		return err
	}
	if err := h.db.Model(&user).Update("refresh_token_id", user.RefreshTokenID).Error; err != nil {
		return err
	}

	log.Printf("Issued email OTP %s and phone OTP %s for %s", emailCode, phoneCode, user.Email)
	h.dispatcher.EnqueueEmail(user.Email, "Verify your email", verificationEmailBody(user.FullName(), emailCode))
	h.dispatcher.EnqueueSMS(user.Phone, "Your Appoint Healers verification code is "+phoneCode)

	h.setAuthCookies(c, pair)

	user.Sanitize()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"user":         user,
	})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login validates credentials and rotates the account's refresh token.
func (h *AuthController) Login(c *fiber.Ctx) error {
	req := new(LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.NewValidationError("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	var user models.User
	if h.db.Preload("Role").Where("email = ?", req.Email).First(&user).RowsAffected == 0 {
		return utils.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.NewUnauthorizedError("Invalid credentials")
	}

	pair, err := h.tokens.IssuePair(&user)
	if err != nil {
		return err
	}
	if err := h.db.Model(&user).Update("refresh_token_id", user.RefreshTokenID).Error; err != nil {
		return err
	}

	h.setAuthCookies(c, pair)

	return c.JSON(fiber.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"user": fiber.Map{
			"id":             user.ID,
			"first_name":     user.FirstName,
			"last_name":      user.LastName,
			"email":          user.Email,
			"role":           user.Role.Name,
			"email_verified": user.EmailVerified,
			"phone_verified": user.PhoneVerified,
		},
	})
}

// RefreshToken exchanges the presented refresh token for a new pair. Only the
// single stored token for the account is accepted.
func (h *AuthController) RefreshToken(c *fiber.Ctx) error {
	presented := c.Cookies("refreshToken")
	if presented == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.BodyParser(&body); err == nil {
			presented = body.RefreshToken
		}
	}

	userID, jti, err := h.tokens.VerifyRefresh(presented)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.db.Preload("Role").First(&user, userID).Error; err != nil {
		return utils.NewUnauthorizedError("Invalid refresh token")
	}

	pair, err := h.tokens.Rotate(&user, jti)
	if err != nil {
		return err
	}
	if err := h.db.Model(&user).Update("refresh_token_id", user.RefreshTokenID).Error; err != nil {
		return err
	}

	h.setAuthCookies(c, pair)

	return c.JSON(fiber.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Logout clears the stored refresh token and expires the auth cookies. The
// access token stays valid until its own expiry.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := h.db.Model(&models.User{}).Where("id = ?", userID).
		Update("refresh_token_id", "").Error; err != nil {
		return err
	}

	h.clearAuthCookies(c)

	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

// Me returns the current user's profile.
func (h *AuthController) Me(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	if err := h.db.Preload("Role").First(&user, userID).Error; err != nil {
		return utils.NewNotFoundError("User not found")
	}

	user.Sanitize()
	return c.JSON(user)
}

func (h *AuthController) setAuthCookies(c *fiber.Ctx, pair *token.Pair) {
	maxAge := h.cfg.CookieMaxAgeDays * 24 * 60 * 60
	h.setSecureCookie(c, "accessToken", pair.AccessToken, maxAge)
	h.setSecureCookie(c, "refreshToken", pair.RefreshToken, maxAge)
}

func (h *AuthController) clearAuthCookies(c *fiber.Ctx) {
	h.setSecureCookie(c, "accessToken", "", -1)
	h.setSecureCookie(c, "refreshToken", "", -1)
}

func (h *AuthController) setSecureCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: "Strict",
		MaxAge:   maxAge,
	})
}

func verificationEmailBody(name, code string) string {
	return `
		<p>Dear ` + name + `,</p>
		<p>Your email verification code is:</p>
		<h2>` + code + `</h2>
		<p>The code expires in 30 minutes.</p>
		<p>Best regards,</p>
		<p>The Appoint Healers Team</p>
	`
}
