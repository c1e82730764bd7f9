package config

import (
	"testing"

	"github.com/replicahealth/dataportal/core/datasetname"
	"github.com/replicahealth/dataportal/core/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func Test_InitializeConfigWithFile(t *testing.T) {
	cfg, err := NewConfigFromFile("./example_config.json")
	require.NoError(t, err)

	assert.Equal(t, "dev-datasets", cfg.Bucket)
	assert.Equal(t, uint(600), cfg.URLTTLSec)
	assert.Equal(t, logger.LogInfo, cfg.LogLevel)
	assert.True(t, cfg.VerifyJWTSignature)
	assert.Equal(t, []string{"Shanghai"}, cfg.PublicGroups)
	assert.Equal(t, []datasetname.PatternRule{{Pattern: `DCLP\d*`, Group: "DCLP"}}, cfg.PatternRules)

	// Not in file, so defaulted
	assert.Equal(t, "processed_data_final_expanded/", cfg.ProcessedPrefix)
	assert.Equal(t, "archives/", cfg.ArchivePrefix)
}

func Test_Defaults(t *testing.T) {
	cfg, err := buildConfig(nil, envFrom(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "replica-general-data-repository", cfg.Bucket)
	assert.Equal(t, ".csv", cfg.FileExtension)
	assert.Equal(t, uint(3600), cfg.URLTTLSec)
	assert.Equal(t, "https://replicahealth.com/roles", cfg.RolesClaim)
	assert.Equal(t, "dataset:public_v1", cfg.PublicRole)
	assert.Equal(t, "dataset:private_v1", cfg.PrivateRole)
	assert.Equal(t, "dataset:", cfg.DatasetRoleMarker)
	assert.Equal(t, "*", cfg.AllowedOrigin)
	assert.Equal(t, "v1", cfg.TermsVersion)
	assert.Equal(t, "user-activity-log", cfg.ActivityTable)
	assert.Equal(t, uint(5), cfg.AccessRequestsPerHour)
	assert.Equal(t, uint(5), cfg.AccessRequestLimit())
	assert.False(t, cfg.VerifyJWTSignature)
	assert.False(t, cfg.InlineSideEffects)
	assert.Len(t, cfg.PatternRules, 15)
	assert.Len(t, cfg.PublicGroups, 6)
}

func Test_OverrideConfigWithEnvVars(t *testing.T) {
	cfg, err := buildConfig([]byte(`{"Bucket": "from-json", "AllowedOrigin": "https://json.example"}`), envFrom(map[string]string{
		"DATAPORTAL_CONFIG_Bucket":                  "from-env",
		"DATAPORTAL_CONFIG_URLTTLSec":               "120",
		"DATAPORTAL_CONFIG_LogLevel":                "ERROR",
		"DATAPORTAL_CONFIG_InlineSideEffects":       "true",
		"DATAPORTAL_CONFIG_AccessRequestRecipients": "a@example.com, b@example.com,",
		"DATAPORTAL_CONFIG_PatternRules":            `[{"pattern":"X\\d+","group":"X"}]`,
		"DATAPORTAL_CONFIG_SignConcurrency":         "lots",
		"ALLOWED_ORIGIN":                            "https://legacy.example",
		"ENABLE_JWT_VERIFICATION":                   "true",
		"AUTH0_DOMAIN":                              "legacy.auth0.com",
		"DATAPORTAL_CONFIG_Auth0Domain":             "new.auth0.com",
	}))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Bucket)
	assert.Equal(t, uint(120), cfg.URLTTLSec)
	assert.Equal(t, logger.LogError, cfg.LogLevel)
	assert.True(t, cfg.InlineSideEffects)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AccessRequestRecipients)
	assert.Equal(t, []datasetname.PatternRule{{Pattern: `X\d+`, Group: "X"}}, cfg.PatternRules)

	// Unparseable, so left alone then defaulted
	assert.Equal(t, uint(16), cfg.SignConcurrency)

	// Legacy names still work, new names win
	assert.Equal(t, "https://legacy.example", cfg.AllowedOrigin)
	assert.True(t, cfg.VerifyJWTSignature)
	assert.Equal(t, "new.auth0.com", cfg.Auth0Domain)
}

func Test_BadJSON(t *testing.T) {
	_, err := NewConfigFromJsonString(`{"Bucket": `)
	assert.Error(t, err)
}

func Test_AccessRequestLimit(t *testing.T) {
	cfg := APIConfig{AccessRequestsPerHour: 2}.WithDefaults()
	assert.Equal(t, uint(2), cfg.AccessRequestLimit())

	cfg, err := buildConfig(nil, envFrom(map[string]string{
		"DATAPORTAL_CONFIG_DisableAccessRequestThrottle": "true",
	}))
	require.NoError(t, err)

	// Zero still gets the default, only the explicit switch turns the limit off
	assert.Equal(t, uint(5), cfg.AccessRequestsPerHour)
	assert.Equal(t, uint(0), cfg.AccessRequestLimit())
}
