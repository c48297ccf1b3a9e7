package config

import "os"

// EnvFormats names the environment variable holding the default dictionary
// document path.
const EnvFormats = "DTA_FORMATS"

// ResolvePath returns path, or the value of DTA_FORMATS when path is empty.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	return os.Getenv(EnvFormats)
}
