// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// API configuration as read from strings/JSON and some constants defined here also
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/replicahealth/dataportal/core/awsutil"
	"github.com/replicahealth/dataportal/core/datasetname"
	"github.com/replicahealth/dataportal/core/logger"
)

const envPrefix = "DATAPORTAL_CONFIG_"

// If set, names a JSON file to read before applying env var overrides. Used where there's no
// command line, eg in a lambda
const ConfigFileEnvVar = envPrefix + "FILE"

// Activity backend names, see ActivityBackends
const (
	ActivityBackendDynamoDB = "dynamodb"
	ActivityBackendAuth0    = "auth0"
	ActivityBackendMongo    = "mongo"
)

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Configuration for app

// APIConfig combines env vars and config JSON values
type APIConfig struct {
	EnvironmentName string

	LogLevel logger.LogLevel

	AWSRegion string

	// Where the datasets live
	Bucket          string
	ProcessedPrefix string
	ArchivePrefix   string
	FileExtension   string

	// Signed URL lifetime and how many we sign at once
	URLTTLSec       uint
	SignConcurrency uint

	// Group classification tables
	PatternRules []datasetname.PatternRule
	PublicGroups []string

	// Role claim and what the roles in it are called
	RolesClaim        string
	PublicRole        string
	PrivateRole       string
	DatasetRoleMarker string

	Auth0Domain   string
	Auth0Audience string

	// WARNING: false means token signatures are NOT checked, anyone can forge claims. Only leave this
	// off behind something that has already verified the token (API gateway JWT authorizer)
	VerifyJWTSignature bool
	JWTAlgorithm       string

	AllowedOrigin string

	TermsVersion string

	// Access request emails. AccessRequestsPerHour limits emails per user, unset means 5
	AccessRequestSender          string
	AccessRequestRecipients      []string
	AccessRequestsPerHour        uint
	DisableAccessRequestThrottle bool

	// Activity tracking
	ActivityTable    string
	ActivityBackends []string

	Auth0ManagementClientID   string
	Auth0ManagementSecret     string
	Auth0ManagementSecretName string // If set, secret is read from secrets manager instead

	// Mongo Connection
	MongoSecret string

	// Activity tracking normally runs after we respond. Setting this runs it first, so each
	// response waits on the activity backends (up to 10s). The lambda adapter waits for
	// outstanding activity before returning either way
	InlineSideEffects bool

	SentryEndpoint string
}

// Env vars the first version of the service was configured with. Still honoured, but the
// DATAPORTAL_CONFIG_* equivalents win if both are set
var legacyEnvNames = map[string]string{
	"AllowedOrigin":           "ALLOWED_ORIGIN",
	"Auth0Audience":           "AUTH0_AUDIENCE",
	"Auth0Domain":             "AUTH0_DOMAIN",
	"Auth0ManagementClientID": "AUTH0_M2M_CLIENT_ID",
	"Auth0ManagementSecret":   "AUTH0_M2M_CLIENT_SECRET",
	"VerifyJWTSignature":      "ENABLE_JWT_VERIFICATION",
	"EnvironmentName":         "NODE_ENV",
	"SentryEndpoint":          "SENTRY_DSN",
	"TermsVersion":            "TERMS_VERSION",
}

func NewConfigFromFile(configFilePath string) (APIConfig, error) {
	var cfg APIConfig

	fmt.Printf("Loading custom config from: %s\n", configFilePath)
	customConfig, err := os.ReadFile(configFilePath)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file at %s", configFilePath)
	}
	return buildConfig(customConfig, os.LookupEnv)
}

func NewConfigFromJsonString(configJson string) (APIConfig, error) {
	return buildConfig([]byte(configJson), os.LookupEnv)
}

func buildConfig(configJson []byte, lookupEnv func(string) (string, bool)) (APIConfig, error) {
	var cfg APIConfig

	if len(configJson) > 0 {
		err := json.Unmarshal(configJson, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse custom config: %v", err)
		}
	}

	applyEnvOverrides(&cfg, lookupEnv)
	return cfg.WithDefaults(), nil
}

// Override Config with any values explicitly set in Env Vars (DATAPORTAL_CONFIG_*)
// NOTE: For []string slices, pass in a comma-separated string to the corresponding DATAPORTAL_CONFIG_ var
//
//	Ex: export DATAPORTAL_CONFIG_PublicGroups="Shanghai,OpenAPS Data"
//
// Slices of structs (PatternRules) are given as JSON
func applyEnvOverrides(cfg *APIConfig, lookupEnv func(string) (string, bool)) {
	reflection := reflect.ValueOf(cfg).Elem()
	for i := 0; i < reflection.NumField(); i++ {
		fieldName := reflection.Type().Field(i).Name
		field := reflection.Field(i)

		envName := envPrefix + fieldName
		val, present := lookupEnv(envName)
		if !present {
			if legacy, ok := legacyEnvNames[fieldName]; ok {
				envName = legacy
				val, present = lookupEnv(legacy)
			}
		}

		if !present {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(val)
		case reflect.Bool:
			b, err := strconv.ParseBool(strings.TrimSpace(val))
			if err != nil {
				fmt.Printf("Could not cast value %s=%s to Bool\n", envName, val)
				continue
			}
			field.SetBool(b)
		case reflect.Int, reflect.Int32, reflect.Int64:
			if field.Type() == reflect.TypeOf(logger.LogDebug) {
				if level, ok := logger.ParseLogLevel(strings.TrimSpace(val)); ok {
					field.SetInt(int64(level))
				} else {
					fmt.Printf("Could not cast value %s=%s to LogLevel\n", envName, val)
				}
				continue
			}

			i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
			if err != nil {
				fmt.Printf("Could not cast value %s=%s to Int\n", envName, val)
				continue
			}
			field.SetInt(i)
		case reflect.Uint, reflect.Uint32, reflect.Uint64:
			u, err := strconv.ParseUint(strings.TrimSpace(val), 10, 64)
			if err != nil {
				fmt.Printf("Could not cast value %s=%s to Uint\n", envName, val)
				continue
			}
			field.SetUint(u)
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				slicedVal := []string{}
				for _, item := range strings.Split(val, ",") {
					if item = strings.TrimSpace(item); len(item) > 0 {
						slicedVal = append(slicedVal, item)
					}
				}
				field.Set(reflect.ValueOf(slicedVal))
			} else {
				ptr := reflect.New(field.Type())
				err := json.Unmarshal([]byte(val), ptr.Interface())
				if err != nil {
					fmt.Printf("Could not parse value %s as JSON: %v\n", envName, err)
					continue
				}
				field.Set(ptr.Elem())
			}
		}
	}
}

// WithDefaults returns a copy with anything not configured filled in
func (cfg APIConfig) WithDefaults() APIConfig {
	if len(cfg.AWSRegion) <= 0 {
		cfg.AWSRegion = awsutil.DefaultRegion
	}
	if len(cfg.Bucket) <= 0 {
		cfg.Bucket = "replica-general-data-repository"
	}
	if len(cfg.ProcessedPrefix) <= 0 {
		cfg.ProcessedPrefix = "processed_data_final_expanded/"
	}
	if len(cfg.ArchivePrefix) <= 0 {
		cfg.ArchivePrefix = "archives/"
	}
	if len(cfg.FileExtension) <= 0 {
		cfg.FileExtension = ".csv"
	}
	if cfg.URLTTLSec <= 0 {
		cfg.URLTTLSec = 3600
	}
	if cfg.SignConcurrency <= 0 {
		cfg.SignConcurrency = 16
	}
	if cfg.PatternRules == nil {
		cfg.PatternRules = datasetname.DefaultPatternRules()
	}
	if cfg.PublicGroups == nil {
		cfg.PublicGroups = datasetname.DefaultPublicGroups()
	}
	if len(cfg.RolesClaim) <= 0 {
		cfg.RolesClaim = "https://replicahealth.com/roles"
	}
	if len(cfg.PublicRole) <= 0 {
		cfg.PublicRole = "dataset:public_v1"
	}
	if len(cfg.PrivateRole) <= 0 {
		cfg.PrivateRole = "dataset:private_v1"
	}
	if len(cfg.DatasetRoleMarker) <= 0 {
		cfg.DatasetRoleMarker = "dataset:"
	}
	if len(cfg.JWTAlgorithm) <= 0 {
		cfg.JWTAlgorithm = "RS256"
	}
	if len(cfg.AllowedOrigin) <= 0 {
		cfg.AllowedOrigin = "*"
	}
	if len(cfg.TermsVersion) <= 0 {
		cfg.TermsVersion = "v1"
	}
	if cfg.AccessRequestsPerHour <= 0 {
		cfg.AccessRequestsPerHour = 5
	}
	if len(cfg.ActivityTable) <= 0 {
		cfg.ActivityTable = "user-activity-log"
	}
	return cfg
}

// AccessRequestLimit is the per-user hourly email allowance, 0 for no limit
func (cfg APIConfig) AccessRequestLimit() uint {
	if cfg.DisableAccessRequestThrottle {
		return 0
	}
	return cfg.AccessRequestsPerHour
}

// FromEnvironment builds config without a command line. Reads the JSON file named by
// DATAPORTAL_CONFIG_FILE if set, then applies env overrides
func FromEnvironment() (APIConfig, error) {
	var configJson []byte

	if path, ok := os.LookupEnv(ConfigFileEnvVar); ok && len(path) > 0 {
		var err error
		configJson, err = os.ReadFile(path)
		if err != nil {
			return APIConfig{}, fmt.Errorf("could not read config file at %s", path)
		}
	}

	return buildConfig(configJson, os.LookupEnv)
}

// Init config, loads config params
func Init() (APIConfig, error) {
	// Firstly, read command line arguments
	configFilePath := flag.String("customConfigPath", "", "Path to the json file holding a set of custom config for the data portal API")
	flag.Parse()

	// Populate API Config with contents of config.json if supplied, otherwise env vars only
	if configFilePath != nil && *configFilePath != "" {
		return NewConfigFromFile(*configFilePath)
	}

	return FromEnvironment()
}
