package shared

import "fmt"

// IdempotencyKey builds the redis key remembering a processed request.
func IdempotencyKey(module, key string) string {
	return fmt.Sprintf("quickpos:idem:%s:%s", module, key)
}

// CatalogVersionKey builds the redis key holding the catalog cache version.
func CatalogVersionKey() string {
	return "quickpos:catalog:version"
}
