package template

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

const (
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	digits       = "0123456789"
	alphanumeric = lowerLetters + "ABCDEFGHIJKLMNOPQRSTUVWXYZ" + digits
)

func resolveRandom(expr string) string {
	groups := randomRe.FindStringSubmatch(expr)
	if groups == nil {
		return ""
	}
	params := parseParams(groups[2])
	length := intParam(params, "length", 1)
	uppercase := boolParam(params, "uppercase", false)

	var out string
	switch groups[1] {
	case "alphabetic":
		out = randomFromCharset(length, lowerLetters)
	case "alphanumeric":
		out = randomFromCharset(length, alphanumeric)
	case "any":
		chars, ok := params["chars"]
		if !ok || chars == "" {
			chars = alphanumeric
		}
		out = randomFromCharset(length, chars)
	case "numeric":
		return randomFromCharset(length, digits)
	case "uuid":
		out = uuid.NewString()
	default:
		return ""
	}
	if uppercase {
		return strings.ToUpper(out)
	}
	return out
}

func parseParams(raw string) map[string]string {
	params := make(map[string]string)
	for _, param := range strings.Split(raw, ",") {
		if k, v, ok := strings.Cut(param, "="); ok {
			params[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return params
}

func intParam(params map[string]string, key string, def int) int {
	if v, err := strconv.Atoi(params[key]); err == nil && v >= 0 {
		return v
	}
	return def
}

func boolParam(params map[string]string, key string, def bool) bool {
	if v, err := strconv.ParseBool(params[key]); err == nil {
		return v
	}
	return def
}

func randomFromCharset(length int, charset string) string {
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
