package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const fallbackVersion = "0.1.0"

// GetVersion returns APP_VERSION when set, otherwise the VERSION file plus the git commit count
func GetVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}

	base := baseVersion(".")
	if count := gitCommitCount(); count > 0 {
		return base + "." + strconv.Itoa(count)
	}
	return base
}

// baseVersion looks for a VERSION file in dir and up to two parents
func baseVersion(dir string) string {
	for i := 0; i < 3; i++ {
		content, err := os.ReadFile(filepath.Join(dir, "VERSION"))
		if err == nil {
			if v := strings.TrimSpace(string(content)); v != "" {
				return v
			}
		}
		dir = filepath.Join(dir, "..")
	}
	return fallbackVersion
}

func gitCommitCount() int {
	out, err := exec.Command("git", "rev-list", "--count", "HEAD").Output()
	if err != nil {
		return 0
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0
	}
	return count
}
