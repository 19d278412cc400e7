package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

func lookup(key string, log *logger.Logger) (string, bool) {
	val, ok := os.LookupEnv(key)
	val = strings.TrimSpace(val)
	if !ok || val == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "env_var", key)
		}
		return "", false
	}
	return val, true
}

func String(key, def string, log *logger.Logger) string {
	if v, ok := lookup(key, log); ok {
		return v
	}
	return def
}

func Int(key string, def int, log *logger.Logger) int {
	v, ok := lookup(key, log)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		if log != nil {
			log.Warn("Environment variable could not be parsed as int, using default", "env_var", key, "provided", v, "error", err)
		}
		return def
	}
	return i
}

func Bool(key string, def bool, log *logger.Logger) bool {
	v, ok := lookup(key, log)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// Seconds reads an integer number of seconds as a duration.
func Seconds(key string, def time.Duration, log *logger.Logger) time.Duration {
	n := Int(key, int(def/time.Second), log)
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

// List splits a comma separated variable, dropping blanks.
func List(key string, def []string, log *logger.Logger) []string {
	v, ok := lookup(key, log)
	if !ok {
		return def
	}
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func Float(key string, def float64, log *logger.Logger) float64 {
	v, ok := lookup(key, log)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		if log != nil {
			log.Warn("Environment variable could not be parsed as float, using default", "env_var", key, "provided", v, "error", err)
		}
		return def
	}
	return f
}
