package cache

import (
	"strings"
)

// Namespace prefixes logical cache keys stored in a shared backend such as Redis,
// so that clearing or scanning the cache never touches foreign keys.
type Namespace string

// DefaultNamespace is used when no namespace is configured.
const DefaultNamespace Namespace = "catalog"

// Key generates the backend key for a logical key name.
// Format: namespace:name
//
// Example:
//
//	catalog:cache_de_productos
func (n Namespace) Key(name string) string {
	name = strings.TrimSpace(name)
	if n == "" {
		return name
	}
	return string(n) + ":" + name
}

// Name strips the namespace from a backend key.
// Keys outside the namespace are returned unchanged.
func (n Namespace) Name(key string) string {
	if n == "" {
		return key
	}
	return strings.TrimPrefix(key, string(n)+":")
}

// Pattern returns the SCAN match pattern covering every key of the namespace.
func (n Namespace) Pattern() string {
	if n == "" {
		return "*"
	}
	return string(n) + ":*"
}
