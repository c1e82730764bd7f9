package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/replicahealth/dataportal/api/activity"
	"github.com/replicahealth/dataportal/api/datasets"
	"github.com/replicahealth/dataportal/core/datasetname"
	"github.com/replicahealth/dataportal/core/errorwithstatus"
	"github.com/replicahealth/dataportal/core/fileaccess"
)

const skipReasonNotFound = "group name not found"
const skipReasonNoPermission = "insufficient permissions"

type linkResponse struct {
	URL     string `json:"url"`
	Method  string `json:"method"`
	Key     string `json:"key"`
	Expires int64  `json:"expires"`
}

type groupListResponse struct {
	Bucket  string                  `json:"bucket"`
	Prefix  string                  `json:"prefix"`
	Type    string                  `json:"type,omitempty"`
	Groups  []datasets.DatasetGroup `json:"groups"`
	Expires int64                   `json:"expires"`
}

type batchURL struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

type batchSkipped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type batchResponse struct {
	URLs    []batchURL     `json:"urls"`
	Skipped []batchSkipped `json:"skipped"`
	Expires int64          `json:"expires"`
}

func (g *Gateway) ttlSec() int64 {
	return int64(g.builder.TTL.Seconds())
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// get: one link for one key

func (g *Gateway) getLink(who caller, req Request) (interface{}, error) {
	key := strings.TrimSpace(req.Query["key"])
	if len(key) <= 0 {
		return nil, errorwithstatus.MakeBadRequestError(errors.New("Missing key parameter"))
	}

	if err := g.builder.CheckKey(key); err != nil {
		return nil, err
	}

	// The prefix alone isn't enough, the caller also has to be allowed to see the dataset this
	// key belongs to
	visibility := g.builder.KeyVisibility(key)
	if !who.policy.CanSee(visibility) {
		return nil, visibilityDeniedError(visibility)
	}

	link, err := g.builder.Presign(key)
	if err != nil {
		return nil, err
	}
	linksIssued.WithLabelValues(string(visibility)).Inc()

	g.trackDownload(who.claims.Subject, map[string]interface{}{
		"filename": fileaccess.BaseName(key, "download.csv"),
		"key":      key,
		"type":     string(visibility),
	}, visibility)

	return linkResponse{URL: link.URL, Method: link.Method, Key: link.Key, Expires: g.ttlSec()}, nil
}

func visibilityDeniedError(visibility datasetname.Visibility) error {
	if visibility == datasetname.Public {
		return errorwithstatus.MakeInsufficientPermissionsError("Public dataset access required")
	}
	return errorwithstatus.MakeInsufficientPermissionsError("Private dataset access required")
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// list_groups: everything the caller can see, no links

func (g *Gateway) listGroups(ctx context.Context, who caller) (interface{}, error) {
	groups, err := g.builder.BuildGroups(ctx, false)
	if err != nil {
		return nil, err
	}

	visible := []datasets.DatasetGroup{}
	for _, group := range groups {
		if who.policy.CanSee(group.Type) {
			visible = append(visible, group)
		}
	}

	return groupListResponse{
		Bucket:  g.builder.Bucket,
		Prefix:  g.builder.ProcessedPrefix,
		Groups:  visible,
		Expires: g.ttlSec(),
	}, nil
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// list: groups of one visibility tier, as the frontend's public/private tabs ask for them

func (g *Gateway) listByType(ctx context.Context, who caller, req Request) (interface{}, error) {
	visibility := datasetname.Visibility(req.Query["type"])
	if visibility != datasetname.Public && visibility != datasetname.Private {
		return nil, errorwithstatus.MakeBadRequestError(errors.New("Invalid type parameter"))
	}

	if !who.policy.CanSee(visibility) {
		return nil, errorwithstatus.MakeForbiddenError(fmt.Errorf("Insufficient permissions for %v datasets", visibility))
	}

	groups, err := g.builder.BuildGroups(ctx, false)
	if err != nil {
		return nil, err
	}

	matching := []datasets.DatasetGroup{}
	for _, group := range groups {
		if group.Type == visibility {
			matching = append(matching, group)
		}
	}

	return groupListResponse{
		Bucket:  g.builder.Bucket,
		Prefix:  g.builder.ProcessedPrefix,
		Type:    string(visibility),
		Groups:  matching,
		Expires: g.ttlSec(),
	}, nil
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// batch: links for every file in each requested group

func (g *Gateway) batchLinks(ctx context.Context, who caller, req Request) (interface{}, error) {
	names := requestedDatasets(req)
	if len(names) <= 0 {
		return nil, errorwithstatus.MakeBadRequestError(errors.New("datasets required (array in JSON body or comma-separated in query)"))
	}

	groups, err := g.builder.BuildGroups(ctx, false)
	if err != nil {
		return nil, err
	}

	result := batchResponse{URLs: []batchURL{}, Skipped: []batchSkipped{}, Expires: g.ttlSec()}

	wanted := map[string]bool{}
	for _, name := range names {
		group, ok := datasets.FindGroup(groups, name)
		if !ok {
			result.Skipped = append(result.Skipped, batchSkipped{Name: name, Reason: skipReasonNotFound})
		} else if !who.policy.CanSee(group.Type) {
			result.Skipped = append(result.Skipped, batchSkipped{Name: name, Reason: skipReasonNoPermission})
		} else {
			wanted[group.Name] = true
		}
	}

	// Links come out in group order, not the order they were asked for. Only the groups being
	// handed out get signed
	issued := []datasets.DatasetGroup{}
	for _, group := range groups {
		if wanted[group.Name] {
			issued = append(issued, group)
		}
	}

	if err := g.builder.SignGroups(ctx, issued); err != nil {
		return nil, err
	}

	issuedGroups := []string{}
	visibility := datasetname.Public
	for _, group := range issued {
		issuedGroups = append(issuedGroups, group.Name)
		if group.Type == datasetname.Private {
			visibility = datasetname.Private
		}

		for _, file := range group.Files {
			result.URLs = append(result.URLs, batchURL{Name: group.Name, Key: file.Key, Size: file.Size, URL: file.URL})
		}
		linksIssued.WithLabelValues(string(group.Type)).Add(float64(len(group.Files)))
	}

	if len(result.URLs) > 0 {
		g.trackDownload(who.claims.Subject, map[string]interface{}{
			"filename":  fmt.Sprintf("batch_download_%v_files", len(result.URLs)),
			"datasets":  issuedGroups,
			"fileCount": len(result.URLs),
			"type":      string(visibility),
		}, visibility)
	}

	return result, nil
}

// Names come from a JSON body {"datasets": [...]} if there is one, otherwise the comma-separated
// datasets query param. A body that doesn't parse is treated as no body. Repeats are dropped,
// ignoring case, keeping the first spelling we saw.
func requestedDatasets(req Request) []string {
	candidates := []string{}

	var body struct {
		Datasets []interface{} `json:"datasets"`
	}
	if len(req.Body) > 0 && json.Unmarshal([]byte(req.Body), &body) == nil && body.Datasets != nil {
		for _, item := range body.Datasets {
			if name, ok := item.(string); ok {
				candidates = append(candidates, name)
			}
		}
	} else {
		candidates = strings.Split(req.Query["datasets"], ",")
	}

	seen := map[string]bool{}
	result := []string{}
	for _, name := range candidates {
		name = strings.TrimSpace(name)
		lower := strings.ToLower(name)
		if len(name) <= 0 || seen[lower] {
			continue
		}
		seen[lower] = true
		result = append(result, name)
	}

	return result
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////
// Download tracking. A download also counts as agreeing to the current terms

func (g *Gateway) trackDownload(userID string, details map[string]interface{}, visibility datasetname.Visibility) {
	ts := g.svcs.TimeStamper
	download := activity.MakeEvent(userID, activity.ActivityDownload, details, ts)
	terms := activity.MakeEvent(userID, activity.ActivityTermsAgreement, map[string]interface{}{
		"version": g.svcs.Config.TermsVersion,
		"type":    string(visibility),
	}, ts)

	g.runSideEffect("activity", func(ctx context.Context) error {
		if err := g.svcs.Activity.Record(ctx, download); err != nil {
			return err
		}
		return g.svcs.Activity.Record(ctx, terms)
	})
}
