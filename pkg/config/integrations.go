package config

import "time"

// SheetsConfig points at the spreadsheet contact directory.
type SheetsConfig struct {
	APIKey       string        `yaml:"api_key"`
	AnoSheetID   string        `yaml:"ano_sheet_id"`
	AnoRange     string        `yaml:"ano_range"`
	CadetSheetID string        `yaml:"cadet_sheet_id"`
	CadetRange   string        `yaml:"cadet_range"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

func defaultSheetsConfig() SheetsConfig {
	return SheetsConfig{
		AnoRange:   "Sheet1!A:E",
		CadetRange: "Sheet1!A:E",
		CacheTTL:   5 * time.Minute,
	}
}

func (c *SheetsConfig) applyEnv() {
	c.APIKey = getEnv("SHEETS_API_KEY", c.APIKey)
	c.AnoSheetID = getEnv("SHEETS_ANO_ID", c.AnoSheetID)
	c.AnoRange = getEnv("SHEETS_ANO_RANGE", c.AnoRange)
	c.CadetSheetID = getEnv("SHEETS_CADET_ID", c.CadetSheetID)
	c.CadetRange = getEnv("SHEETS_CADET_RANGE", c.CadetRange)
	c.CacheTTL = getEnvDuration("SHEETS_CACHE_TTL", c.CacheTTL)
}

// Missing lists the unset variables the directory needs
func (c SheetsConfig) Missing() []string {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "SHEETS_API_KEY")
	}
	if c.AnoSheetID == "" {
		missing = append(missing, "SHEETS_ANO_ID")
	}
	return missing
}

// CadetSheet returns the cadet sheet id and range, falling back to the ANO sheet
func (c SheetsConfig) CadetSheet() (id, rng string) {
	if c.CadetSheetID == "" {
		return c.AnoSheetID, c.AnoRange
	}
	return c.CadetSheetID, c.CadetRange
}

// TwilioConfig holds the WhatsApp sender credentials.
type TwilioConfig struct {
	AccountSID     string `yaml:"account_sid"`
	AuthToken      string `yaml:"auth_token"`
	WhatsAppNumber string `yaml:"whatsapp_number"`
}

func (c *TwilioConfig) applyEnv() {
	c.AccountSID = getEnv("TWILIO_ACCOUNT_SID", c.AccountSID)
	c.AuthToken = getEnv("TWILIO_AUTH_TOKEN", c.AuthToken)
	c.WhatsAppNumber = getEnv("TWILIO_WHATSAPP_NUMBER", c.WhatsAppNumber)
}

// Missing lists the unset Twilio variables
func (c TwilioConfig) Missing() []string {
	var missing []string
	if c.AccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if c.AuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if c.WhatsAppNumber == "" {
		missing = append(missing, "TWILIO_WHATSAPP_NUMBER")
	}
	return missing
}

// StorageConfig selects where uploaded files live.
type StorageConfig struct {
	Mode      string        `yaml:"mode" validate:"oneof=local s3"`
	UploadDir string        `yaml:"upload_dir"`
	Bucket    string        `yaml:"bucket" validate:"required_if=Mode s3"`
	Prefix    string        `yaml:"prefix"`
	Region    string        `yaml:"region"`
	URLExpiry time.Duration `yaml:"url_expiry"`
}

func defaultStorageConfig() StorageConfig {
	return StorageConfig{
		Mode:      "local",
		UploadDir: "./uploads",
		Region:    "ap-south-1",
		URLExpiry: 15 * time.Minute,
	}
}

func (c *StorageConfig) applyEnv() {
	c.Mode = getEnv("STORAGE_MODE", c.Mode)
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	c.Bucket = getEnv("AWS_BUCKET", c.Bucket)
	c.Prefix = getEnv("STORAGE_PREFIX", c.Prefix)
	c.Region = getEnv("AWS_REGION", c.Region)
	c.URLExpiry = getEnvDuration("STORAGE_URL_EXPIRY", c.URLExpiry)
}
