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

package jwtparser

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/auth0-community/go-auth0"
	"github.com/pkg/errors"
	"github.com/replicahealth/dataportal/core/timestamper"
	"gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"
)

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrMalformed        = errors.New("malformed token")
	ErrExpired          = errors.New("token expired")
	ErrAudienceMismatch = errors.New("audience mismatch")
	ErrBadSignature     = errors.New("bad signature")
)

const bearerPrefix = "Bearer "

// KeySource looks up the public key the issuer signed with. auth0.JWKClient implements this
type KeySource interface {
	GetKey(ID string) (jose.JSONWebKey, error)
}

// Builds a key source which downloads (and caches) the issuers JWKS document
func NewAuth0KeySource(auth0Domain string) *auth0.JWKClient {
	return auth0.NewJWKClient(auth0.JWKClientOptions{URI: "https://" + auth0Domain + "/.well-known/jwks.json"}, nil)
}

// TokenValidator checks a bearer credential taken from an Authorization header.
//
// NOTE: with VerifySignature off, the signature segment is NOT checked. Anyone can then forge a
// token with whatever claims they like, the only checks are structure, expiry and audience. This
// is only OK when something upstream (API gateway authorizer) has already verified it.
type TokenValidator struct {
	Audience        string
	VerifySignature bool
	Algorithm       string
	Keys            KeySource
	TimeStamper     timestamper.ITimeStamper
}

// Validate returns the claims in the token, or one of the Err* values above (possibly wrapped).
// It does not check that a subject is present, callers decide what to do with that.
func (v *TokenValidator) Validate(authHeader string) (Claims, error) {
	result := Claims{}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return result, ErrUnauthenticated
	}

	raw := strings.TrimSpace(authHeader[len(bearerPrefix):])
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return result, errors.Wrapf(ErrMalformed, "expected 3 segments, got %v", len(parts))
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return result, errors.Wrapf(ErrMalformed, "payload: %v", err)
	}

	result, err = parseClaimsJSON(payload)
	if err != nil {
		return result, err
	}

	if result.Expiry != nil && int64(*result.Expiry) < v.TimeStamper.GetTimeNowSec() {
		return result, ErrExpired
	}

	if len(v.Audience) > 0 && len(result.Audience) > 0 && !result.Audience.Contains(v.Audience) {
		return result, errors.Wrapf(ErrAudienceMismatch, "wanted %v", v.Audience)
	}

	if v.VerifySignature {
		err = v.verify(raw)
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

func (v *TokenValidator) verify(raw string) error {
	tok, err := jwt.ParseSigned(raw)
	if err != nil {
		return errors.Wrapf(ErrBadSignature, "parse: %v", err)
	}

	if len(tok.Headers) != 1 {
		return errors.Wrap(ErrBadSignature, "expected exactly one signature header")
	}

	hdr := tok.Headers[0]
	if len(v.Algorithm) > 0 && hdr.Algorithm != v.Algorithm {
		return errors.Wrapf(ErrBadSignature, "unexpected algorithm %v", hdr.Algorithm)
	}

	if v.Keys == nil {
		return errors.Wrap(ErrBadSignature, "no signing keys configured")
	}

	key, err := v.Keys.GetKey(hdr.KeyID)
	if err != nil {
		return errors.Wrapf(ErrBadSignature, "key %v: %v", hdr.KeyID, err)
	}

	out := map[string]interface{}{}
	err = tok.Claims(key.Key, &out)
	if err != nil {
		return errors.Wrapf(ErrBadSignature, "verify: %v", err)
	}

	return nil
}

// Tokens should be raw (unpadded) base64url, but be lenient about padding and the std alphabet
func decodeSegment(seg string) ([]byte, error) {
	trimmed := strings.TrimRight(seg, "=")

	data, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err == nil {
		return data, nil
	}

	data, err2 := base64.RawStdEncoding.DecodeString(trimmed)
	if err2 == nil {
		return data, nil
	}

	return nil, err
}

func parseClaimsJSON(payload []byte) (Claims, error) {
	result := Claims{Custom: map[string]interface{}{}}

	err := json.Unmarshal(payload, &result.Custom)
	if err != nil {
		return result, errors.Wrapf(ErrMalformed, "claims: %v", err)
	}

	err = json.Unmarshal(payload, &result.Claims)
	if err != nil {
		return result, errors.Wrapf(ErrMalformed, "registered claims: %v", err)
	}

	return result, nil
}
