// Package registry manages named HeySol credential sets stored in a
// dotenv-style file. Every HEYSOL_API_KEY_<name> entry registers an
// instance under <name>; companion HEYSOL_BASE_URL_<name> and
// HEYSOL_DESCRIPTION_<name> entries override the defaults. Names are kept
// verbatim, so email-style instance names work.
package registry

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"heysol.ai/client/internal/config"
	heysolerrors "heysol.ai/client/pkg/errors"
)

const (
	apiKeyPrefix      = "HEYSOL_API_KEY_"
	baseURLPrefix     = "HEYSOL_BASE_URL_"
	descriptionPrefix = "HEYSOL_DESCRIPTION_"
)

// Instance is one named credential set.
type Instance struct {
	Name        string `json:"name"`
	APIKey      string `json:"api_key"`
	BaseURL     string `json:"base_url"`
	Description string `json:"description"`
}

// Registry holds the instances parsed from one dotenv file.
type Registry struct {
	path      string
	logger    *log.Logger
	instances map[string]Instance
}

// Load parses the registry file at path. An empty path searches
// ~/.heysol/.env first, then .env in the working directory. A missing file
// yields an empty registry rather than an error; entries whose key fails
// the rc_pat_ check are skipped with a warning.
func Load(path string, logger *log.Logger) (*Registry, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[heysol] ", log.LstdFlags)
	}
	if path == "" {
		path = defaultPath()
	}

	registry := &Registry{
		path:      path,
		logger:    logger,
		instances: map[string]Instance{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return registry, nil
		}
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	registry.parse(string(data))
	return registry, nil
}

// New returns an empty registry bound to path without touching the
// filesystem. An empty path selects the same default location Load uses.
func New(path string, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(os.Stderr, "[heysol] ", log.LstdFlags)
	}
	if path == "" {
		path = defaultPath()
	}
	return &Registry{
		path:      path,
		logger:    logger,
		instances: map[string]Instance{},
	}
}

// defaultPath prefers the home registry and falls back to the working
// directory. When neither file exists yet, the home path is returned so a
// later Register creates the canonical file.
func defaultPath() string {
	var homePath string
	if homeDir, err := os.UserHomeDir(); err == nil {
		homePath = filepath.Join(homeDir, ".heysol", ".env")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}
	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}
	if homePath != "" {
		return homePath
	}
	return ".env"
}

// parse reads KEY=VALUE lines, ignoring blanks and # comments and stripping
// surrounding quotes from values.
func (r *Registry) parse(content string) {
	values := map[string]string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		values[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}

	for key, value := range values {
		if !strings.HasPrefix(key, apiKeyPrefix) {
			continue
		}
		name := strings.TrimPrefix(key, apiKeyPrefix)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(value, config.APIKeyPrefix) {
			r.logger.Printf("skipping registry instance %q: API key must start with 'rc_pat_'", name)
			continue
		}

		r.instances[name] = Instance{
			Name:        name,
			APIKey:      value,
			BaseURL:     orDefault(values[baseURLPrefix+name], config.DefaultBaseURL),
			Description: orDefault(values[descriptionPrefix+name], "API key for "+name),
		}
	}
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// Path returns the file backing this registry.
func (r *Registry) Path() string {
	return r.path
}

// InstanceNames returns the registered names sorted alphabetically.
func (r *Registry) InstanceNames() []string {
	names := make([]string, 0, len(r.instances))
	for name := range r.instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instance looks up one credential set by name.
func (r *Registry) Instance(name string) (Instance, bool) {
	instance, ok := r.instances[name]
	return instance, ok
}

// RegisteredInstances returns a copy of the instance table; mutating the
// result never touches the registry.
func (r *Registry) RegisteredInstances() map[string]Instance {
	instances := make(map[string]Instance, len(r.instances))
	for name, instance := range r.instances {
		instances[name] = instance
	}
	return instances
}

// Register adds or replaces an instance and rewrites the registry file.
func (r *Registry) Register(name, apiKey, baseURL, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return heysolerrors.NewValidationError("Instance name is required")
	}
	if apiKey == "" {
		return heysolerrors.NewValidationError("API key is required")
	}
	if !strings.HasPrefix(apiKey, config.APIKeyPrefix) {
		return heysolerrors.NewValidationError("API key must start with 'rc_pat_'")
	}
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	if description == "" {
		description = "API key for " + name
	}

	r.instances[name] = Instance{
		Name:        name,
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Description: description,
	}
	return r.save()
}

func (r *Registry) save() error {
	var b strings.Builder
	b.WriteString("# HeySol instance registry\n")
	b.WriteString("# Managed by the heysol CLI.\n")
	for _, name := range r.InstanceNames() {
		instance := r.instances[name]
		fmt.Fprintf(&b, "\n%s%s=%s\n", apiKeyPrefix, name, instance.APIKey)
		fmt.Fprintf(&b, "%s%s=%s\n", baseURLPrefix, name, instance.BaseURL)
		fmt.Fprintf(&b, "%s%s=%s\n", descriptionPrefix, name, instance.Description)
	}

	if dir := filepath.Dir(r.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create registry directory: %w", err)
		}
	}
	if err := os.WriteFile(r.path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
