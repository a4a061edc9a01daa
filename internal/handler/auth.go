package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/afdhalrashid/voice-to-text-Manglish/internal/models"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/errors"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/logger"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/middleware"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/notification"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/response"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/util"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// validatePassword enforces the minimum password policy: at least
// eight characters containing both a letter and a digit.
func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain both letters and digits")
	}
	return nil
}

func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid registration payload", nil)
		return
	}
	if err := validatePassword(req.Password); err != nil {
		response.Fail(c, err.Error(), nil)
		return
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if err := user.SetPassword(req.Password); err != nil {
		response.Fail(c, "failed to process password", nil)
		return
	}

	var count int64
	h.db.Model(&models.User{}).
		Where("username = ? OR email = ?", user.Username, user.Email).
		Count(&count)
	if count > 0 {
		response.Fail(c, "username or email already registered", nil)
		return
	}

	if err := h.db.Create(user).Error; err != nil {
		logger.Error("user creation failed", zap.Error(err))
		response.Fail(c, "registration failed", nil)
		return
	}

	h.setSessionUser(c, user.ID)
	util.Sig().Emit(models.SigUserCreate, user)
	logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	response.Created(c, "registration successful", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid login payload", nil)
		return
	}

	ident := strings.TrimSpace(req.Username)
	var user models.User
	err := h.db.Where("username = ? OR email = ?", ident, strings.ToLower(ident)).
		First(&user).Error
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid username or password"})
		return
	}

	h.setSessionUser(c, user.ID)
	logger.Info("user logged in", zap.Uint("user_id", user.ID))
	response.Success(c, "login successful", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *Handlers) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{MaxAge: -1, Path: "/"})
	if err := sess.Save(); err != nil {
		logger.Warn("session teardown failed", zap.Error(err))
	}
	response.Success(c, "logged out", nil)
}

func (h *Handlers) Profile(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		response.FailWith(c, err)
		return
	}

	var total int64
	h.db.Model(&models.Transcription{}).Where("user_id = ?", user.ID).Count(&total)

	response.Success(c, "", gin.H{
		"id":                   user.ID,
		"username":             user.Username,
		"email":                user.Email,
		"created_at":           user.CreatedAt,
		"total_transcriptions": total,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *Handlers) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid payload", nil)
		return
	}
	user, err := h.currentUser(c)
	if err != nil {
		response.FailWith(c, err)
		return
	}
	if !user.CheckPassword(req.CurrentPassword) {
		response.Fail(c, "current password is incorrect", nil)
		return
	}
	if err := validatePassword(req.NewPassword); err != nil {
		response.Fail(c, err.Error(), nil)
		return
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		response.Fail(c, "failed to process password", nil)
		return
	}
	if err := h.db.Save(user).Error; err != nil {
		logger.Error("password update failed", zap.Uint("user_id", user.ID), zap.Error(err))
		response.Fail(c, "failed to update password", nil)
		return
	}
	response.Success(c, "password updated", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword always answers success so the endpoint cannot be used
// to probe which addresses have accounts.
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid payload", nil)
		return
	}

	var user models.User
	err := h.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if err == nil {
		token, terr := user.GenerateResetToken()
		if terr == nil && h.db.Save(&user).Error == nil {
			mail := notification.NewMailNotification(h.cfg.Mail)
			resetURL := fmt.Sprintf("%s/auth/reset-password/%s", strings.TrimRight(h.cfg.BaseURL, "/"), token)
			if merr := mail.SendPasswordResetEmail(user.Email, resetURL); merr != nil {
				logger.Warn("password reset mail not sent", zap.Uint("user_id", user.ID), zap.Error(merr))
			}
		}
	}
	response.Success(c, "if the address is registered, a reset link has been sent", nil)
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *Handlers) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid payload", nil)
		return
	}
	if err := validatePassword(req.Password); err != nil {
		response.Fail(c, err.Error(), nil)
		return
	}

	var user models.User
	err := h.db.Where("reset_token = ?", token).First(&user).Error
	if err != nil || !user.VerifyResetToken(token) {
		response.Fail(c, "invalid or expired reset token", nil)
		return
	}
	if err := user.SetPassword(req.Password); err != nil {
		response.Fail(c, "failed to process password", nil)
		return
	}
	user.ClearResetToken()
	if err := h.db.Save(&user).Error; err != nil {
		logger.Error("password reset failed", zap.Uint("user_id", user.ID), zap.Error(err))
		response.Fail(c, "failed to reset password", nil)
		return
	}
	logger.Info("password reset completed", zap.Uint("user_id", user.ID))
	response.Success(c, "password has been reset", nil)
}

func (h *Handlers) setSessionUser(c *gin.Context, userID uint) {
	sess := sessions.Default(c)
	sess.Set(middleware.SessionUserID, userID)
	sess.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((time.Duration(h.cfg.SessionExpireDays) * 24 * time.Hour).Seconds()),
		HttpOnly: true,
	})
	if err := sess.Save(); err != nil {
		logger.Warn("session save failed", zap.Error(err))
	}
}

func (h *Handlers) currentUser(c *gin.Context) (*models.User, error) {
	uid := middleware.UserID(c)
	var user models.User
	if err := h.db.First(&user, uid).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.WithCode(errors.CodeNotFound, "user not found")
		}
		return nil, errors.Wrap(err, "failed to load user")
	}
	return &user, nil
}
