package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	maskChar    = "*"
	maskPrefix  = 8
	visibleTail = 4
	// shortest secret that keeps a visible tail when masked
	minTailLen = 12
)

// ErrEmpty is returned when a secret resolves to an empty value.
var ErrEmpty = errors.New("secret is empty")

// Source describes where a secret comes from. File wins over Value.
type Source struct {
	// Name is used in error messages.
	Name  string
	Value string
	File  string
}

// Load resolves src to a trimmed, non-empty secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	value := src.Value
	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from %q: %w", name, file, err)
		}

		value = string(data)
		if strings.TrimSpace(value) == "" {
			return "", fmt.Errorf("%s file %q: %w", name, file, ErrEmpty)
		}
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s: %w", name, ErrEmpty)
	}

	return value, nil
}

// Mask hides a secret for display. Long secrets keep their last characters so
// operators can tell keys apart.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}

	masked := strings.Repeat(maskChar, maskPrefix)
	if len(secret) < minTailLen {
		return masked
	}

	return masked + secret[len(secret)-visibleTail:]
}
