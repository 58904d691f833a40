// Package testing switches a test binary into QuickPOS test mode when
// blank-imported: binaries skip listeners and side effects, and the stores
// default to memory so no Postgres or Redis is required.
package testing

import "os"

// Env lists the variables set on import. Values already present in the
// environment are kept, except the test mode flag which is always on.
var Env = map[string]string{
	"STORE_BACKEND": "memory",
	"RECEIPT_JOBS":  "false",
	"LOG_FORMAT":    "json",
}

func init() {
	_ = os.Setenv("QUICKPOS_TEST_MODE", "1")
	for key, value := range Env {
		if _, ok := os.LookupEnv(key); !ok {
			_ = os.Setenv(key, value)
		}
	}
}
