package config

import "time"

// NotifxConfig configures the outbound channels.
type NotifxConfig struct {
	// EmailProvider is console or ses
	EmailProvider string `yaml:"email_provider" validate:"oneof=console ses none"`
	// WhatsAppProvider is console or twilio
	WhatsAppProvider string `yaml:"whatsapp_provider" validate:"oneof=console twilio"`
	FromAddress      string `yaml:"from_address" validate:"omitempty,email"`
	FromName         string `yaml:"from_name"`
	AWSRegion        string `yaml:"aws_region"`
	// DefaultCountryCode is prefixed to numbers written without one
	DefaultCountryCode string `yaml:"default_country_code" validate:"required,numeric"`
	// DispatchMode is sync (send during the request) or queue (send from jobx workers)
	DispatchMode string        `yaml:"dispatch_mode" validate:"oneof=sync queue"`
	SendWorkers  int           `yaml:"send_workers" validate:"min=1"`
	SendTimeout  time.Duration `yaml:"send_timeout"`
}

func defaultNotifxConfig() NotifxConfig {
	return NotifxConfig{
		EmailProvider:      "console",
		WhatsAppProvider:   "console",
		FromAddress:        "noreply@nccerp.local",
		FromName:           "NCC ERP System",
		AWSRegion:          "ap-south-1",
		DefaultCountryCode: "91",
		DispatchMode:       "sync",
		SendWorkers:        5,
		SendTimeout:        15 * time.Second,
	}
}

func (c *NotifxConfig) applyEnv() {
	c.EmailProvider = getEnv("NOTIFX_EMAIL_PROVIDER", c.EmailProvider)
	c.WhatsAppProvider = getEnv("NOTIFX_WHATSAPP_PROVIDER", c.WhatsAppProvider)
	c.FromAddress = getEnv("NOTIFX_FROM_ADDRESS", getEnv("EMAIL_FROM_ADDRESS", c.FromAddress))
	c.FromName = getEnv("NOTIFX_FROM_NAME", getEnv("EMAIL_FROM_NAME", c.FromName))
	c.AWSRegion = getEnv("NOTIFX_AWS_REGION", getEnv("AWS_REGION", c.AWSRegion))
	c.DefaultCountryCode = getEnv("NOTIFX_DEFAULT_COUNTRY_CODE", c.DefaultCountryCode)
	c.DispatchMode = getEnv("NOTIFX_DISPATCH_MODE", c.DispatchMode)
	c.SendWorkers = getEnvInt("NOTIFX_SEND_WORKERS", c.SendWorkers)
	c.SendTimeout = getEnvDuration("NOTIFX_SEND_TIMEOUT", c.SendTimeout)
}
