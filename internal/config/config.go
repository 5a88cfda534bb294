// Package config holds the small set of runtime-wide constants and the
// optional REPL preferences file.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the interpreter's own version, reported by `lox -version`.
const Version = "0.1.0"

// SourceFileExtension is the conventional extension for Lox source files.
const SourceFileExtension = ".lox"

// Prefs are the REPL's user-tunable preferences, loaded from
// ~/.loxrc.yaml if present.
type Prefs struct {
	// Prompt overrides the REPL's leading prompt string (default "> ").
	Prompt string `yaml:"prompt"`
	// NoColor is read from the file but not consulted by the REPL;
	// diagnostics are always printed without color.
	NoColor bool `yaml:"no_color"`
}

func defaultPrefs() Prefs {
	return Prefs{Prompt: "> "}
}

// LoadPrefs reads ~/.loxrc.yaml. A missing file is not an error — it
// just means defaults apply. A present-but-malformed file logs a
// warning and falls back to defaults rather than aborting the REPL.
func LoadPrefs() Prefs {
	prefs := defaultPrefs()

	home, err := os.UserHomeDir()
	if err != nil {
		return prefs
	}
	path := filepath.Join(home, ".loxrc.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}

	var loaded Prefs
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		log.Printf("config: ignoring malformed %s: %v", path, err)
		return prefs
	}
	if loaded.Prompt != "" {
		prefs.Prompt = loaded.Prompt
	}
	prefs.NoColor = loaded.NoColor
	return prefs
}

// String renders Prefs for debug logging.
func (p Prefs) String() string {
	return fmt.Sprintf("Prefs{Prompt:%q, NoColor:%v}", p.Prompt, p.NoColor)
}
