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

package permission

import (
	"strings"

	"github.com/replicahealth/dataportal/core/datasetname"
	"github.com/replicahealth/dataportal/core/errorwithstatus"
)

// Operations callers can request via the op parameter

type Operation string

const (
	OpGet           Operation = "get"
	OpListGroups    Operation = "list_groups"
	OpList          Operation = "list"
	OpBatch         Operation = "batch"
	OpRequestAccess Operation = "request_access"
)

// Used when no op is given
const DefaultOperation = OpListGroups

// AllOperations in the order we list them back to callers who ask for something invalid
var AllOperations = []Operation{OpGet, OpListGroups, OpList, OpBatch, OpRequestAccess}

// ParseOperation is case-insensitive. Unknown operations come back lower-cased with ok=false
func ParseOperation(op string) (Operation, bool) {
	if len(op) <= 0 {
		return DefaultOperation, true
	}

	lower := strings.ToLower(op)
	for _, known := range AllOperations {
		if string(known) == lower {
			return known, true
		}
	}
	return Operation(lower), false
}

// Role names, as they appear in the roles claim of the JWT
type RoleNames struct {
	Public  string
	Private string

	// Any role containing this counts as a dataset entitlement
	DatasetMarker string
}

// AccessPolicy is what a caller is allowed to see, derived only from their roles
type AccessPolicy struct {
	CanSeePublic     bool
	CanSeePrivate    bool
	HasDatasetAccess bool
}

func PolicyFromRoles(roles []string, names RoleNames) AccessPolicy {
	result := AccessPolicy{}

	for _, role := range roles {
		if role == names.Private {
			result.CanSeePrivate = true
			result.CanSeePublic = true
		} else if role == names.Public {
			result.CanSeePublic = true
		}

		// Make sure if the marker is empty, we don't treat every role as a dataset role
		if len(names.DatasetMarker) > 0 && strings.Contains(role, names.DatasetMarker) {
			result.HasDatasetAccess = true
		}
	}

	return result
}

// Returns nil if the caller CAN run op, otherwise a StatusError with the right HTTP error code.
// Requesting access is always allowed, that's how people without roles get them.
func (p AccessPolicy) Authorize(op Operation) error {
	if op == OpRequestAccess {
		return nil
	}

	if !p.HasDatasetAccess {
		return errorwithstatus.MakeInsufficientPermissionsError("Dataset access required")
	}
	return nil
}

func (p AccessPolicy) CanSee(visibility datasetname.Visibility) bool {
	if visibility == datasetname.Public {
		return p.CanSeePublic
	}
	return p.CanSeePrivate
}
