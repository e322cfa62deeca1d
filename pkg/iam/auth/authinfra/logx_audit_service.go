package authinfra

import (
	"context"

	"github.com/Abraxas-365/nccerp/pkg/iam"
	"github.com/Abraxas-365/nccerp/pkg/iam/auth"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/logx"
)

// LogxAuditService implements auth.AuditService using structured logx logging.
type LogxAuditService struct{}

func NewLogxAuditService() *LogxAuditService {
	return &LogxAuditService{}
}

var _ auth.AuditService = (*LogxAuditService)(nil)

func (s *LogxAuditService) LogLoginAttempt(ctx context.Context, email string, userID kernel.UserID, success bool, ip string, userAgent string) {
	e := logx.WithContext(ctx).WithFields(logx.Fields{
		"audit_event": "login_attempt",
		"email":       email,
		"user_id":     userID,
		"success":     success,
		"ip":          ip,
		"user_agent":  userAgent,
	})
	if success {
		e.Info("Audit: login attempt")
		return
	}
	e.Warn("Audit: login attempt")
}

func (s *LogxAuditService) LogAccountCreated(ctx context.Context, userID kernel.UserID, role iam.Role, actor kernel.UserID) {
	logx.WithContext(ctx).WithFields(logx.Fields{
		"audit_event": "account_created",
		"user_id":     userID,
		"role":        role,
		"actor":       actor,
	}).Info("Audit: account created")
}

func (s *LogxAuditService) LogEvent(ctx context.Context, event string, fields map[string]any) {
	f := logx.Fields{"audit_event": event}
	for k, v := range fields {
		f[k] = v
	}
	logx.WithContext(ctx).WithFields(f).Info("Audit: " + event)
}
