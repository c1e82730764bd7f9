package jwtparser

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/square/go-jose.v2/jwt"
)

// Claims is the decoded token payload. Registered claims (sub, aud, exp...) are typed, everything
// including namespaced custom claims is also kept in Custom
type Claims struct {
	jwt.Claims
	Custom map[string]interface{} `json:"-"`
}

// ClaimsFromAuthorizer builds claims from what an upstream authorizer already verified and attached
// to the request. These are trusted as-is, no expiry or audience checks happen here. Authorizers
// often flatten everything to strings, so only sub and aud are lifted into typed fields.
func ClaimsFromAuthorizer(values map[string]interface{}) Claims {
	result := Claims{Custom: map[string]interface{}{}}

	for k, v := range values {
		result.Custom[k] = v
	}

	if sub, ok := values["sub"].(string); ok {
		result.Subject = sub
	}

	result.Audience = readStrings(values["aud"])
	return result
}

// Roles reads a roles claim. Accepts a JSON array, or a string as produced by authorizers that
// flatten arrays, either "[a b]" or a JSON array literal.
func (c Claims) Roles(claimName string) []string {
	if c.Custom == nil {
		return []string{}
	}
	return readStrings(c.Custom[claimName])
}

// Email, if the token carries one under the usual claim names
func (c Claims) Email() string {
	for k, v := range c.Custom {
		if k == "email" || strings.HasSuffix(k, "/email") {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func readStrings(value interface{}) []string {
	result := []string{}

	switch v := value.(type) {
	case []string:
		result = append(result, v...)
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			} else if item != nil {
				result = append(result, fmt.Sprintf("%v", item))
			}
		}
	case string:
		trimmed := strings.TrimSpace(v)
		if len(trimmed) <= 0 {
			return result
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			asJSON := []string{}
			if err := json.Unmarshal([]byte(trimmed), &asJSON); err == nil {
				return asJSON
			}

			return append(result, strings.Fields(trimmed[1:len(trimmed)-1])...)
		}

		result = append(result, trimmed)
	}

	return result
}
