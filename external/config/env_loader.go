package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/kikitorin/internal/config"
)

type envConfig struct {
	Env                  string   `env:"ENV" envDefault:"production"`
	ListenURI            string   `env:"WYOMING_URI" envDefault:"tcp://0.0.0.0:10300"`
	Language             string   `env:"TRANSCRIBE_LANGUAGE" envDefault:"en-US"`
	AlternativeLanguages []string `env:"ALTERNATIVE_LANGUAGES" envSeparator:"," envDefault:"en-US"`
	Model                string   `env:"SPEECH_MODEL" envDefault:"latest_short"`
	BoostPhrases         []string `env:"BOOST_PHRASES" envSeparator:","`
	PhraseBoost          float64  `env:"PHRASE_BOOST" envDefault:"20"`
	CredentialsFile      string   `env:"GOOGLE_CREDENTIALS_FILE,required"`
	TranscriptWebhookURL string   `env:"TRANSCRIPT_WEBHOOK_URL"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                  raw.Env,
		ListenURI:            raw.ListenURI,
		Language:             raw.Language,
		AlternativeLanguages: raw.AlternativeLanguages,
		Model:                raw.Model,
		BoostPhrases:         raw.BoostPhrases,
		PhraseBoost:          raw.PhraseBoost,
		CredentialsFile:      raw.CredentialsFile,
		TranscriptWebhookURL: raw.TranscriptWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
