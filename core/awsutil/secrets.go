package awsutil

import (
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-secretsmanager-caching-go/secretcache"
)

// SecretReader is the part of the secrets cache we use, so tests don't need AWS
type SecretReader interface {
	GetSecretString(secretId string) (string, error)
}

// MakeSecretCache creates a secrets manager cache bound to the session's region. Cold lambda
// starts pay for one fetch per secret, warm ones read from the cache.
func MakeSecretCache(sess *session.Session) (*secretcache.Cache, error) {
	// Do some special init magic to get a secret manager with the right region set
	secMan := secretsmanager.New(sess)
	return secretcache.New(func(c *secretcache.Cache) { c.Client = secMan })
}

// ReadSecretOrValue returns value if it's set, otherwise reads the named secret. Lets config
// hold either the secret itself (local dev) or where to find it (deployed).
func ReadSecretOrValue(secrets SecretReader, value string, secretName string) (string, error) {
	if len(value) > 0 || len(secretName) <= 0 || secrets == nil {
		return value, nil
	}
	return secrets.GetSecretString(secretName)
}
