// Builds one zip archive per dataset folder and uploads them, these are the archives/ downloads
package datasetzipper

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/pkg/errors"
	"github.com/replicahealth/dataportal/core/fileaccess"
	"github.com/replicahealth/dataportal/core/logger"
)

type Status string

const (
	StatusSkipped  Status = "skipped"
	StatusPlanned  Status = "planned"
	StatusUploaded Status = "uploaded"
)

type Result struct {
	Dataset string
	ZipKey  string
	Status  Status
	Files   int
}

type Zipper struct {
	FS       fileaccess.FileAccess
	Uploader s3manageriface.UploaderAPI
	Log      logger.ILogger

	// Replace archives that already exist, otherwise they're left alone
	Overwrite bool

	// Only report what would be done
	DryRun bool
}

// ZipAll makes an archive for every immediate sub-folder of srcPrefix. Stops at the first failure,
// returning what was done up to that point.
func (z *Zipper) ZipAll(ctx context.Context, srcBucket string, srcPrefix string, destBucket string, destPrefix string) ([]Result, error) {
	results := []Result{}

	folders, err := z.FS.ListPrefixes(srcBucket, srcPrefix)
	if err != nil {
		return results, errors.Wrapf(err, "failed to list dataset folders in s3://%v/%v", srcBucket, srcPrefix)
	}

	if len(folders) <= 0 {
		z.Log.Infof("No dataset folders found under s3://%v/%v (check prefix)", srcBucket, srcPrefix)
		return results, nil
	}

	z.Log.Infof("Found %v dataset folders under s3://%v/%v", len(folders), srcBucket, srcPrefix)

	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := z.ZipDataset(ctx, srcBucket, folder, destBucket, destPrefix)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

// ArchiveKey is where the archive for a dataset folder goes
func ArchiveKey(datasetPrefix string, destPrefix string) (string, string) {
	name := path.Base(strings.TrimRight(datasetPrefix, "/"))
	dest := strings.TrimRight(destPrefix, "/")
	if len(dest) <= 0 {
		return name, name + ".zip"
	}
	return name, dest + "/" + name + ".zip"
}

// ZipDataset streams every object under datasetPrefix into one zip and uploads it. The zip is
// never held in memory or on disk, it's written straight into the upload.
func (z *Zipper) ZipDataset(ctx context.Context, srcBucket string, datasetPrefix string, destBucket string, destPrefix string) (Result, error) {
	name, zipKey := ArchiveKey(datasetPrefix, destPrefix)
	result := Result{Dataset: name, ZipKey: zipKey}

	if !z.Overwrite {
		exists, err := z.FS.ObjectExists(destBucket, zipKey)
		if err != nil {
			return result, errors.Wrapf(err, "failed to check for existing archive s3://%v/%v", destBucket, zipKey)
		}
		if exists {
			z.Log.Infof("Exists, skipping: s3://%v/%v", destBucket, zipKey)
			result.Status = StatusSkipped
			return result, nil
		}
	}

	objs, err := z.FS.ListObjects(srcBucket, datasetPrefix)
	if err != nil {
		return result, errors.Wrapf(err, "failed to list s3://%v/%v", srcBucket, datasetPrefix)
	}
	result.Files = len(objs)

	z.Log.Infof("Zipping %v (%v files) to s3://%v/%v", name, len(objs), destBucket, zipKey)
	if z.DryRun {
		result.Status = StatusPlanned
		return result, nil
	}

	reader, writer := io.Pipe()

	go func() {
		writer.CloseWithError(z.writeZip(writer, srcBucket, datasetPrefix, objs))
	}()

	_, err = z.Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(destBucket),
		Key:         aws.String(zipKey),
		Body:        reader,
		ContentType: aws.String("application/zip"),
	})

	// Unblocks the writer if the upload gave up early
	reader.CloseWithError(err)

	if err != nil {
		return result, errors.Wrapf(err, "failed to upload s3://%v/%v", destBucket, zipKey)
	}

	z.Log.Infof("Uploaded: s3://%v/%v", destBucket, zipKey)
	result.Status = StatusUploaded
	return result, nil
}

func (z *Zipper) writeZip(w io.Writer, bucket string, datasetPrefix string, objs []fileaccess.ObjectInfo) error {
	zw := zip.NewWriter(w)

	for _, obj := range objs {
		relPath := strings.TrimPrefix(obj.Key, datasetPrefix)

		entry, err := zw.CreateHeader(&zip.FileHeader{Name: relPath, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("failed to add %v to zip: %v", relPath, err)
		}

		if err := copyObject(z.FS, bucket, obj.Key, entry); err != nil {
			return err
		}
	}

	return zw.Close()
}

func copyObject(fs fileaccess.FileAccess, bucket string, key string, dest io.Writer) error {
	body, err := fs.OpenObject(bucket, key)
	if err != nil {
		return errors.Wrapf(err, "failed to read s3://%v/%v", bucket, key)
	}
	defer body.Close()

	_, err = io.Copy(dest, body)
	if err != nil {
		return errors.Wrapf(err, "failed to copy s3://%v/%v into zip", bucket, key)
	}
	return nil
}
