package notifications

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"aviauth/backend/pkg/config"
	avilog "aviauth/backend/pkg/log"
)

// EmailNotifier delivers transactional email.
type EmailNotifier interface {
	SendEmail(ctx context.Context, to, subject, bodyHTML, bodyText string) error
}

// SendResetEmail delivers the password reset link for a freshly issued
// token. A nil notifier means email is not configured; the send is
// logged and skipped so the recovery flow still answers normally.
func SendResetEmail(ctx context.Context, notifier EmailNotifier, cfg *config.Config, to, token string) error {
	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", cfg.FrontendBaseURL, token)

	bodyHTML := fmt.Sprintf(`
        <h2>Password Reset Request</h2>
        <p>You requested a password reset. Tap the link below to choose a new password:</p>
        <p><a href="%s">Reset Password</a></p>
        <p>This link expires in %d minutes. If you did not request this, please ignore this email.</p>
    `, resetLink, int(cfg.ResetTokenTTL.Minutes()))
	bodyText := fmt.Sprintf("You requested a password reset. Open %s to choose a new password. The link expires in %d minutes.",
		resetLink, int(cfg.ResetTokenTTL.Minutes()))

	if notifier == nil {
		avilog.L.Info("--- SIMULATING EMAIL SEND (email not configured) ---",
			zap.String("to", to),
			zap.String("subject", "Password Reset Request"))
		return nil
	}
	return notifier.SendEmail(ctx, to, "Password Reset Request", bodyHTML, bodyText)
}
