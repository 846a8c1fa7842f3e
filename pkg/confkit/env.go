package confkit

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// ExpandEnv replaces ${VAR} and $VAR like os.ExpandEnv and also understands
// ${VAR:-fallback}, which yields fallback when VAR is unset or empty.
func ExpandEnv(s string) string {
	return os.Expand(s, func(key string) string {
		name, fallback, hasFallback := strings.Cut(key, ":-")
		if v := os.Getenv(name); v != "" || !hasFallback {
			return v
		}
		return fallback
	})
}

// LoadDotenvOnce loads a .env file into the process environment. The first
// call wins. Existing variables are kept unless DOTENV_OVERLOAD=1.
//
// Lookup: ENV_FILE when set, otherwise .env in the working directory and then
// at the project root. NO_DOTENV=1 disables loading.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}
	load := godotenv.Load
	if os.Getenv("DOTENV_OVERLOAD") == "1" {
		load = godotenv.Overload
	}

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		_ = load(envFile)
		return
	}
	for _, candidate := range dotenvCandidates() {
		if fileExists(candidate) {
			_ = load(candidate)
			return
		}
	}
}

func dotenvCandidates() []string {
	candidates := []string{".env"}
	if root, err := ProjectRoot(); err == nil {
		if p := filepath.Join(root, ".env"); p != ".env" {
			candidates = append(candidates, p)
		}
	}
	return candidates
}
