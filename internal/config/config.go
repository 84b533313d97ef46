// Package config reads and lazily creates the two store-scoped
// configuration files: config.yaml (the issue-id prefix) and flags.yaml
// (ID-scheme flags). A missing file returns an empty zero value, never
// nil, so callers can populate and Save it.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "config.yaml"
	FlagsFileName  = "flags.yaml"
	GitignoreName  = ".gitignore"
)

// EnvStoreDir and EnvDBPath are the environment variables consulted when
// the caller delegates store-path lookup to this package.
const (
	EnvStoreDir = "TEXTBEADS_STORE_DIR"
	EnvDBPath   = "TEXTBEADS_DB_PATH"
)

// Config is config.yaml: currently just the issue-id prefix.
type Config struct {
	IssuePrefix string `yaml:"issue-prefix"`
}

// Flags is flags.yaml: the ID-scheme flag plus scheme-adjacent settings
// a migration may flip.
type Flags struct {
	HashIDs  bool `yaml:"hash-ids"`
	HashHex  bool `yaml:"hash-hex,omitempty"`
	MaxGap   int  `yaml:"max-gap,omitempty"`
}

// Load reads config.yaml from storeDir. Config is created lazily on
// first open — a missing file is not an error, it returns a zero-value
// Config so the caller can populate and Save it.
func Load(storeDir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(storeDir, ConfigFileName)) // #nosec G304 - storeDir is caller-controlled, not request input
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &Config{}, nil
	}
	return &cfg, nil
}

// Save atomically rewrites config.yaml.
func (c *Config) Save(storeDir string) error {
	return writeYAMLAtomic(filepath.Join(storeDir, ConfigFileName), c)
}

// LoadFlags reads flags.yaml, defaulting to the sequential scheme
// (HashIDs: false) when the file does not yet exist.
func LoadFlags(storeDir string) (*Flags, error) {
	data, err := os.ReadFile(filepath.Join(storeDir, FlagsFileName)) // #nosec G304 - storeDir is caller-controlled, not request input
	if os.IsNotExist(err) {
		return &Flags{}, nil
	}
	if err != nil {
		return nil, err
	}
	var flags Flags
	if err := yaml.Unmarshal(data, &flags); err != nil {
		return &Flags{}, nil
	}
	return &flags, nil
}

// Save atomically rewrites flags.yaml.
func (f *Flags) Save(storeDir string) error {
	return writeYAMLAtomic(filepath.Join(storeDir, FlagsFileName), f)
}

func writeYAMLAtomic(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// InferPrefix derives an id-prefix from the store directory's parent
// directory name, the fallback used when no prefix was configured.
func InferPrefix(storeDir string) string {
	parent := filepath.Dir(filepath.Clean(storeDir))
	name := filepath.Base(parent)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "issue"
	}
	return sanitizePrefix(name)
}

func sanitizePrefix(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '_' || r == ' ':
			b.WriteRune('-')
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "issue"
	}
	return s
}

// requiredGitignoreEntries keep the lock file and command-history log out
// of version control.
var requiredGitignoreEntries = []string{".textbeads.lock", "command_history.log"}

// EnsureGitignore creates storeDir/.gitignore if absent, or appends any of
// the required entries that are missing, preserving existing content
// otherwise.
func EnsureGitignore(storeDir string) error {
	path := filepath.Join(storeDir, GitignoreName)
	data, err := os.ReadFile(path) // #nosec G304 - storeDir is caller-controlled, not request input
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	existing := strings.Split(string(data), "\n")
	have := make(map[string]bool, len(existing))
	for _, line := range existing {
		have[strings.TrimSpace(line)] = true
	}

	var toAppend []string
	for _, entry := range requiredGitignoreEntries {
		if !have[entry] {
			toAppend = append(toAppend, entry)
		}
	}
	if len(toAppend) == 0 && err == nil {
		return nil
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	for _, entry := range toAppend {
		content += entry + "\n"
	}

	return os.WriteFile(path, []byte(content), 0644) // #nosec G306 - gitignore is not sensitive
}
