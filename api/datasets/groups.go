// Builds the dataset groups we show to users from whatever is in the bucket, and issues
// signed download links for them
package datasets

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/replicahealth/dataportal/api/services"
	"github.com/replicahealth/dataportal/core/datasetname"
	"github.com/replicahealth/dataportal/core/fileaccess"
	"github.com/replicahealth/dataportal/core/timestamper"
	"golang.org/x/sync/errgroup"
)

const defaultDownloadName = "download.csv"

type FileEntry struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
	URL  string `json:"url,omitempty"`
}

type DatasetGroup struct {
	Name  string                 `json:"name"`
	Count int                    `json:"count"`
	Type  datasetname.Visibility `json:"type"`
	Files []FileEntry            `json:"files"`
}

// Builder holds everything needed to list, group and sign. Built once from config, nothing in
// here changes per request, and nothing read from the bucket is kept between calls.
type Builder struct {
	Lister      fileaccess.ObjectLister
	Signer      services.URLSigner
	Classifier  *datasetname.Classifier
	TimeStamper timestamper.ITimeStamper

	Bucket          string
	ProcessedPrefix string
	ArchivePrefix   string
	FileExtension   string

	TTL         time.Duration
	Concurrency int
}

// BuildGroups lists everything under the processed prefix and groups it. If signLinks is set,
// every file gets a URL. Groups come back sorted by name, files by size (biggest first) then key.
func (b *Builder) BuildGroups(ctx context.Context, signLinks bool) ([]DatasetGroup, error) {
	objs, err := b.Lister.ListObjects(b.Bucket, b.ProcessedPrefix)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %v/%v", b.Bucket, b.ProcessedPrefix)
	}

	byName := map[string]*DatasetGroup{}
	for _, obj := range objs {
		stem, ok := datasetname.StemOf(obj.Key, b.ProcessedPrefix, b.FileExtension)
		if !ok {
			continue
		}

		name := b.Classifier.Classify(stem)
		group, ok := byName[name]
		if !ok {
			group = &DatasetGroup{Name: name, Type: b.Classifier.VisibilityOf(name), Files: []FileEntry{}}
			byName[name] = group
		}

		group.Files = append(group.Files, FileEntry{Key: obj.Key, Size: obj.Size})
	}

	groups := make([]DatasetGroup, 0, len(byName))
	for _, group := range byName {
		sort.Slice(group.Files, func(i, j int) bool {
			if group.Files[i].Size != group.Files[j].Size {
				return group.Files[i].Size > group.Files[j].Size
			}
			return lessFold(group.Files[i].Key, group.Files[j].Key)
		})
		group.Count = len(group.Files)
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool { return lessFold(groups[i].Name, groups[j].Name) })

	if signLinks {
		err = b.SignGroups(ctx, groups)
		if err != nil {
			return nil, err
		}
	}

	return groups, nil
}

// SignGroups fills in the URL of every file in groups. Signing is local and stateless so every
// file can go at once, we just cap how many are in flight. Each goroutine only writes its own
// slot, so no locking needed
func (b *Builder) SignGroups(ctx context.Context, groups []DatasetGroup) error {
	eg, egCtx := errgroup.WithContext(ctx)

	limit := b.Concurrency
	if limit <= 0 {
		limit = 1
	}
	eg.SetLimit(limit)

	for g := range groups {
		for f := range groups[g].Files {
			file := &groups[g].Files[f]

			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}

				url, err := b.Signer.GetSignedURL(b.Bucket, file.Key, fileaccess.BaseName(file.Key, defaultDownloadName), b.TTL)
				if err != nil {
					return errors.Wrapf(err, "failed to sign %v", file.Key)
				}

				file.URL = url
				return nil
			})
		}
	}

	return eg.Wait()
}

// Orders ignoring case first, so "loop..." doesn't end up after "Z...". Exact compare breaks ties
// so the order is always the same
func lessFold(a string, b string) bool {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

// FindGroup - case-insensitive lookup by name
func FindGroup(groups []DatasetGroup, name string) (DatasetGroup, bool) {
	for _, group := range groups {
		if strings.EqualFold(group.Name, name) {
			return group, true
		}
	}
	return DatasetGroup{}, false
}

// KeyVisibility works out which tier a single key belongs to, only ever from the group it
// classifies into. Processed files are classified the same way as when grouping. Anything else
// (archives, other extensions) is classified by its file name, so archives/DCLP3.zip is in DCLP.
// A group not on the public list is private.
func (b *Builder) KeyVisibility(key string) datasetname.Visibility {
	stem, ok := datasetname.StemOf(key, b.ProcessedPrefix, b.FileExtension)
	if !ok {
		stem = datasetname.ArchiveStem(key)
	}
	return b.Classifier.VisibilityOf(b.Classifier.Classify(stem))
}
