package middleware

import (
	"regexp"
	"strings"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

func lockKey(method, path, clientID string) string {
	return "inflight:" + strings.ToLower(method) + ":" + path + ":" + clientID
}
