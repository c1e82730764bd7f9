package datasets

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/replicahealth/dataportal/core/errorwithstatus"
	"github.com/replicahealth/dataportal/core/fileaccess"
)

type SignedLink struct {
	URL       string
	Method    string
	Key       string
	ExpiresAt int64
}

// AllowedKey returns true if key is under one of the prefixes we hand out links for
func (b *Builder) AllowedKey(key string) bool {
	return strings.HasPrefix(key, b.ProcessedPrefix) || (len(b.ArchivePrefix) > 0 && strings.HasPrefix(key, b.ArchivePrefix))
}

// CheckKey returns a 403 error if key isn't somewhere we hand out links for
func (b *Builder) CheckKey(key string) error {
	if !b.AllowedKey(key) {
		return errorwithstatus.MakeForbiddenError(fmt.Errorf("key must start with %v or %v", b.ProcessedPrefix, b.ArchivePrefix))
	}
	return nil
}

// Presign issues a link for one key. This does NOT check the caller can see the dataset the key
// belongs to, only that it's under an allowed prefix. Without the prefix check anyone could get a
// link to anything in the bucket.
func (b *Builder) Presign(key string) (SignedLink, error) {
	if err := b.CheckKey(key); err != nil {
		return SignedLink{}, err
	}

	url, err := b.Signer.GetSignedURL(b.Bucket, key, fileaccess.BaseName(key, defaultDownloadName), b.TTL)
	if err != nil {
		return SignedLink{}, errors.Wrapf(err, "failed to sign %v", key)
	}

	return SignedLink{
		URL:       url,
		Method:    "GET",
		Key:       key,
		ExpiresAt: b.TimeStamper.GetTimeNowSec() + int64(b.TTL.Seconds()),
	}, nil
}
