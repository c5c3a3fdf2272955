package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/spigell/resume-agent/internal/secrets"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultEnvFile is read when no other env file is configured.
const DefaultEnvFile = ".env"

// Loader resolves Settings from, in increasing priority: code defaults, the
// env file, environment variables and changed command line flags.
type Loader struct {
	// EnvFile is an optional dotenv file. A missing file is skipped.
	EnvFile string
	// Flags may carry flags named after settings keys (for example "debug").
	Flags *pflag.FlagSet
}

func NewLoader(envFile string, flags *pflag.FlagSet) *Loader {
	return &Loader{EnvFile: envFile, Flags: flags}
}

// Load builds and validates a new Settings. Every failure is an *Error.
func (l *Loader) Load() (*Settings, error) {
	v, err := l.viper()
	if err != nil {
		return nil, err
	}

	var settings Settings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(stringToBoolHook),
		WeaklyTypedInput: true,
		Result:           &settings,
	})
	if err != nil {
		return nil, &Error{Err: err}
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, &Error{Err: err}
	}

	settings.OpenAIAPIKey = strings.TrimSpace(settings.OpenAIAPIKey)
	if settings.OpenAIAPIKeyFile != "" {
		key, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: settings.OpenAIAPIKeyFile,
		})
		if err != nil {
			return nil, &Error{Key: KeyOpenAIAPIKeyFile, Err: err}
		}
		settings.OpenAIAPIKey = key
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

func (l *Loader) viper() (*viper.Viper, error) {
	v := viper.New()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if l.EnvFile != "" {
		v.SetConfigFile(l.EnvFile)
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Err: fmt.Errorf("reading env file %q: %w", l.EnvFile, err)}
		}
	}

	for _, key := range Keys {
		names := envNames(key, os.Environ())
		if len(names) == 0 {
			continue
		}

		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, &Error{Key: key, Err: fmt.Errorf("binding environment: %w", err)}
		}
	}

	if l.Flags != nil {
		for _, key := range Keys {
			flag := l.Flags.Lookup(key)
			if flag == nil {
				continue
			}

			if err := v.BindPFlag(key, flag); err != nil {
				return nil, &Error{Key: key, Err: fmt.Errorf("binding flag: %w", err)}
			}
		}
	}

	return v, nil
}

// envNames returns the names of non-empty variables in environ that match key
// ignoring case. The upper-case spelling comes first when present.
func envNames(key string, environ []string) []string {
	upper := strings.ToUpper(key)
	names := make([]string, 0, 1)

	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" || !strings.EqualFold(name, key) {
			continue
		}
		names = append(names, name)
	}

	sort.SliceStable(names, func(i, j int) bool {
		if names[i] == upper || names[j] == upper {
			return names[i] == upper
		}
		return names[i] < names[j]
	})

	return names
}

func stringToBoolHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}

	raw, _ := data.(string)
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "", "0", "f", "false", "n", "no", "off":
		return false, nil
	}

	return nil, fmt.Errorf("%q is not a boolean", raw)
}
