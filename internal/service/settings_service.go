package service

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
	"github.com/stockguardian/stock-guardian-backend/internal/model"
	"github.com/stockguardian/stock-guardian-backend/internal/repository"
)

// SettingsService manages user-facing settings: the notification recipient,
// the webhook URL and the SMTP password. The SMTP password is encrypted at
// rest with a fernet key supplied through configuration.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	fernetKey    *fernet.Key
}

// NewSettingsService creates a SettingsService. fernetKey may be empty, in
// which case secret settings cannot be stored.
func NewSettingsService(settingsRepo *repository.SettingsRepository, fernetKey string) (*SettingsService, error) {
	s := &SettingsService{settingsRepo: settingsRepo}

	if fernetKey != "" {
		key, err := fernet.DecodeKey(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode fernet key: %w", err)
		}
		s.fernetKey = key
	}

	return s, nil
}

// RecipientEmail returns the configured notification recipient, or an empty
// string when none has been saved yet.
func (s *SettingsService) RecipientEmail() (string, error) {
	value, err := s.settingsRepo.GetSetting(model.SettingRecipientEmail)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		return "", nil
	}
	return value, err
}

// SetRecipientEmail saves the notification recipient.
func (s *SettingsService) SetRecipientEmail(email string) error {
	return s.settingsRepo.SetSetting(model.SettingRecipientEmail, email)
}

// WebhookURL returns the configured webhook endpoint, or an empty string.
func (s *SettingsService) WebhookURL() (string, error) {
	value, err := s.settingsRepo.GetSetting(model.SettingWebhookURL)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		return "", nil
	}
	return value, err
}

// SetWebhookURL saves the webhook endpoint.
func (s *SettingsService) SetWebhookURL(url string) error {
	return s.settingsRepo.SetSetting(model.SettingWebhookURL, url)
}

// SetSMTPPassword encrypts and stores the SMTP password.
func (s *SettingsService) SetSMTPPassword(password string) error {
	if s.fernetKey == nil {
		return fmt.Errorf("fernet key not configured, cannot store secrets")
	}

	token, err := fernet.EncryptAndSign([]byte(password), s.fernetKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt smtp password: %w", err)
	}

	return s.settingsRepo.SetSetting(model.SettingSMTPPassword, string(token))
}

// SMTPPassword decrypts and returns the stored SMTP password, or an empty
// string when none has been saved.
func (s *SettingsService) SMTPPassword() (string, error) {
	value, err := s.settingsRepo.GetSetting(model.SettingSMTPPassword)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if s.fernetKey == nil {
		return "", fmt.Errorf("fernet key not configured, cannot read secrets")
	}

	// TTL 0: stored secrets do not expire.
	plain := fernet.VerifyAndDecrypt([]byte(value), 0, []*fernet.Key{s.fernetKey})
	if plain == nil {
		return "", fmt.Errorf("failed to decrypt smtp password")
	}

	return string(plain), nil
}
