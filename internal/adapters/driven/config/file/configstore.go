package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/medagent/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// DefaultFileName is the config file name inside the medagent directory.
const DefaultFileName = "config.toml"

// EnvBinding maps an environment variable onto a config key.
type EnvBinding struct {
	Env string
	Key string

	// Transform converts the raw value. Nil stores the string as is.
	Transform func(string) any
}

// DefaultEnvBindings are the environment variables medagent honours.
func DefaultEnvBindings() []EnvBinding {
	return []EnvBinding{
		{Env: "OPENAI_API_KEY", Key: "openai.api_key"},
		{Env: "ANTHROPIC_API_KEY", Key: "anthropic.api_key"},
		{Env: "OLLAMA_HOST", Key: "ollama.base_url"},
		{Env: "DATABASE_URL", Key: "store.database_url"},
		{Env: "MEDAGENT_STORE", Key: "store.driver"},
		{Env: "MEDAGENT_EMBEDDING_PROVIDER", Key: "embedding.provider"},
		{Env: "MEDAGENT_LLM_PROVIDER", Key: "llm.provider"},
		{Env: "PORT", Key: "server.addr", Transform: func(v string) any {
			if strings.Contains(v, ":") {
				return v
			}
			return ":" + v
		}},
	}
}

// ConfigStore is a file-based implementation of driven.ConfigStore using TOML.
// Values from bound environment variables shadow file values but are never
// written back to the file.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
	env      map[string]any
	bindings []EnvBinding
}

// NewConfigStore creates a new TOML-based config store.
// If path is empty, defaults to ~/.medagent/config.toml. A missing file is
// not an error.
func NewConfigStore(path string, bindings ...EnvBinding) (*ConfigStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".medagent", DefaultFileName)
	}

	s := &ConfigStore{
		filePath: path,
		data:     make(map[string]any),
		bindings: bindings,
	}

	if err := s.Load(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return s, nil
}

// Get retrieves a configuration value by key. Environment values win.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if val, ok := s.env[key]; ok {
		return val, true
	}
	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	// TOML integers are parsed as int64
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

// GetFloat retrieves a floating point configuration value.
func (s *ConfigStore) GetFloat(key string) float64 {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// Set stores a configuration value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(nestMap(s.data))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return err
	}

	// Write with restricted permissions, the file may hold API keys.
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the TOML file and refreshes environment values.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.env = make(map[string]any)
	for _, b := range s.bindings {
		raw, ok := os.LookupEnv(b.Env)
		if !ok || raw == "" {
			continue
		}
		if b.Transform != nil {
			s.env[b.Key] = b.Transform(raw)
		} else {
			s.env[b.Key] = raw
		}
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No config file yet - run on defaults
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	if loaded == nil {
		loaded = make(map[string]any)
	}

	s.data = flattenMap(loaded, "")
	return nil
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// nestMap is the inverse of flattenMap so saved files use TOML tables.
// Keys are applied in sorted order so a scalar and a table sharing a
// prefix resolve the same way on every save.
func nestMap(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = flat[key]
	}
	return root
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
