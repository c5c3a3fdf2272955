package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

// WriteEnvFile stores s as a dotenv file at path so a later Load picks it up.
// An existing file is only replaced when force is set.
func WriteEnvFile(path string, s *Settings, force bool) error {
	if s == nil {
		return fmt.Errorf("settings are required")
	}

	v := viper.New()
	v.SetConfigType("env")

	// quoted so a " #" inside a value is not read back as a comment
	v.Set(KeyOpenAIAPIKey, strconv.Quote(s.OpenAIAPIKey))
	if s.OpenAIAPIKeyFile != "" {
		v.Set(KeyOpenAIAPIKeyFile, strconv.Quote(s.OpenAIAPIKeyFile))
	}
	v.Set(KeyDatabaseURL, strconv.Quote(s.DatabaseURL))
	v.Set(KeyAppName, strconv.Quote(s.AppName))
	v.Set(KeyDebug, strconv.FormatBool(s.Debug))
	v.Set(KeyFrontendURL, strconv.Quote(s.FrontendURL))

	write := v.SafeWriteConfigAs
	if force {
		write = v.WriteConfigAs
	}

	if err := write(path); err != nil {
		return fmt.Errorf("writing env file %q: %w", path, err)
	}

	return nil
}
