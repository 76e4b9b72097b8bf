package config

import (
	"fmt"

	"github.com/foxseedlab/kikitorin/internal/asr"
)

type Config struct {
	Env                  string
	ListenURI            string
	Language             string
	AlternativeLanguages []string
	Model                string
	BoostPhrases         []string
	PhraseBoost          float64
	CredentialsFile      string
	TranscriptWebhookURL string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.PhraseBoost < 0 || c.PhraseBoost > 20 {
		return fmt.Errorf("PHRASE_BOOST must be between 0 and 20, got %g", c.PhraseBoost)
	}
	if !asr.IsSupportedLanguage(c.Language) {
		return fmt.Errorf("TRANSCRIBE_LANGUAGE is an unsupported language code %q", c.Language)
	}
	for _, code := range c.AlternativeLanguages {
		if !asr.IsSupportedLanguage(code) {
			return fmt.Errorf("ALTERNATIVE_LANGUAGES contains unsupported language code %q", code)
		}
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "WYOMING_URI", value: c.ListenURI},
		{name: "TRANSCRIBE_LANGUAGE", value: c.Language},
		{name: "SPEECH_MODEL", value: c.Model},
		{name: "GOOGLE_CREDENTIALS_FILE", value: c.CredentialsFile},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
