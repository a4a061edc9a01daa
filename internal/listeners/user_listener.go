package listeners

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/afdhalrashid/voice-to-text-Manglish/internal/models"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/config"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/logger"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/notification"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/util"
)

func InitUserListeners() {
	// send a welcome mail after signup, off the request path
	util.Sig().Connect(models.SigUserCreate, func(sender any, params ...any) {
		user, ok := sender.(*models.User)
		if !ok || user.Email == "" {
			return
		}

		go func() {
			loginURL := fmt.Sprintf("%s/auth/login", strings.TrimRight(config.GlobalConfig.BaseURL, "/"))
			err := notification.NewMailNotification(config.GlobalConfig.Mail).SendWelcomeEmail(
				user.Email,
				user.Username,
				loginURL,
			)
			if err != nil {
				logger.Warn("send mail failed", zap.Error(err))
			}
		}()
	})
}
