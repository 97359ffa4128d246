package environmentmanager

import "errors"

var ErrNotSet = errors.New("environment variable not set")

type EnvironmentManager interface {
	// Lookup reports the value of key and whether it is present at all.
	// A variable set to the empty string is present.
	Lookup(key string) (string, bool)
	Get(key string) (string, error)
	List() (map[string]string, error)
}
