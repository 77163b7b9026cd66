// Command ccauth obtains client-credentials access tokens and keeps them
// fresh.
package main

import (
	"fmt"
	"os"

	"github.com/AmmannChristian/go-ccauth/internal/config"
)

func main() {
	if err := config.LoadDotEnv(os.Getenv("CCAUTH_ENV_FILE")); err != nil {
		fmt.Fprintf(os.Stderr, "ccauth: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
