package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// Well-known settings keys.
const (
	// KeySheetURL is the default spreadsheet URL used by `extract` when no
	// argument is given.
	KeySheetURL = "sheet.url"
	// KeySheetTab is the preferred tab title, resolved against spreadsheet
	// metadata. Defaults to "Despesas" in the extract service.
	KeySheetTab = "sheet.tab"
	// KeyConsentTimeoutSeconds overrides the interactive consent wait.
	KeyConsentTimeoutSeconds = "auth.consent_timeout_seconds"
)

// ConfigStore keeps user settings in a TOML file under the sheetspend
// config directory. Keys use dot notation ("sheet.url") and map to nested
// TOML tables on disk.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	values   map[string]any
}

// NewConfigStore opens (or initialises) the settings file in configDir.
// An empty configDir means ~/.sheetspend.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".sheetspend")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		values:   make(map[string]any),
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// GetString implements driven.ConfigStore.
func (s *ConfigStore) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key].(string); ok {
		return v
	}
	return ""
}

// GetInt implements driven.ConfigStore.
func (s *ConfigStore) GetInt(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// go-toml decodes integers as int64.
	switch v := s.values[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Set stores a value and writes the file immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	data, err := toml.Marshal(nest(s.values))
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the location of the settings file.
func (s *ConfigStore) Path() string {
	return s.filePath
}

func (s *ConfigStore) reload() error {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var tree map[string]any
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return err
	}
	flatten("", tree, s.values)
	return nil
}

// flatten walks nested TOML tables into dot-notation keys:
// {"sheet": {"url": u}} becomes {"sheet.url": u}.
func flatten(prefix string, tree map[string]any, out map[string]any) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			flatten(full, sub, out)
			continue
		}
		out[full] = value
	}
}

// nest is the inverse of flatten, so the file on disk stays a readable
// nested TOML document rather than a list of quoted dotted keys.
func nest(values map[string]any) map[string]any {
	tree := make(map[string]any)
	for key, value := range values {
		parts := strings.Split(key, ".")
		node := tree
		for _, part := range parts[:len(parts)-1] {
			sub, ok := node[part].(map[string]any)
			if !ok {
				sub = make(map[string]any)
				node[part] = sub
			}
			node = sub
		}
		node[parts[len(parts)-1]] = value
	}
	return tree
}
