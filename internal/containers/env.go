// Package containers spins up throwaway services for the integration tests.
package containers

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
)

// LoadEnv loads the project's .env file, if any.
// Only local test runs have one, so a missing file is not an error.
func LoadEnv() {

	root, err := projectRoot()
	if err != nil {
		log.Printf("skipping the .env file; %v", err)
		return
	}

	err = godotenv.Load(filepath.Join(root, ".env"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env file; %v", err)
	}
}

// projectRoot walks up from this file until it finds go.mod
func projectRoot() (string, error) {

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("failed to get the caller information")
	}

	for dir := filepath.Dir(filename); ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("reached root without finding go.mod")
		}
		dir = parent
	}
}
