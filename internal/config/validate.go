package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically; misconfiguration fails the process at startup
// rather than surfacing at request time.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be positive (got %v)", c.Auth.AccessTokenTTL)
	}
	if c.Auth.VerifyTokenTTL <= 0 {
		return fmt.Errorf("auth.verify_token_ttl must be positive (got %v)", c.Auth.VerifyTokenTTL)
	}

	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}
	if c.OpenAI.ChatModel == "" {
		return fmt.Errorf("openai.chat_model must not be empty")
	}
	if c.TTS.APIKey == "" {
		return fmt.Errorf("tts.api_key is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range (got %d)", c.Server.Port)
	}

	return nil
}
