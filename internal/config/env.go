package config

import (
	"os"
	"strings"
)

func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
