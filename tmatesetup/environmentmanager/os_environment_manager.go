package environmentmanager

import (
	"fmt"
	"os"
	"strings"
)

// OSEnvironmentManager reads the environment of the current process.
type OSEnvironmentManager struct{}

func (OSEnvironmentManager) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (e OSEnvironmentManager) Get(key string) (string, error) {
	v, ok := e.Lookup(key)
	if !ok {
		return "", fmt.Errorf("%s: %w", key, ErrNotSet)
	}
	return v, nil
}

func (OSEnvironmentManager) List() (map[string]string, error) {
	envs := make(map[string]string)
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			envs[parts[0]] = parts[1]
		}
	}
	return envs, nil
}

// MapEnvironmentManager serves variables from a fixed map.
type MapEnvironmentManager map[string]string

func (m MapEnvironmentManager) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapEnvironmentManager) Get(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, ErrNotSet)
	}
	return v, nil
}

func (m MapEnvironmentManager) List() (map[string]string, error) {
	envs := make(map[string]string, len(m))
	for k, v := range m {
		envs[k] = v
	}
	return envs, nil
}
