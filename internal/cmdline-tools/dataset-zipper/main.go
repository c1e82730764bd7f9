package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/replicahealth/dataportal/core/awsutil"
	"github.com/replicahealth/dataportal/core/datasetzipper"
	"github.com/replicahealth/dataportal/core/fileaccess"
	"github.com/replicahealth/dataportal/core/logger"
)

func main() {
	fmt.Println("==============================")
	fmt.Println("=  Dataset archive zipper    =")
	fmt.Println("==============================")

	var bucket = flag.String("bucket", "", "Source bucket")
	var srcPrefix = flag.String("src-prefix", "", "Source prefix, each folder under it becomes one zip (eg raw_data/public_availability/)")
	var destBucket = flag.String("dest-bucket", "", "Destination bucket (default: same as -bucket)")
	var destPrefix = flag.String("dest-prefix", "archives/", "Destination prefix for zips")
	var region = flag.String("region", awsutil.DefaultRegion, "AWS region")
	var overwrite = flag.Bool("overwrite", false, "Overwrite zips if they already exist")
	var dryRun = flag.Bool("dry-run", false, "List work but do not upload")
	flag.Parse()

	if len(*bucket) <= 0 || len(*srcPrefix) <= 0 {
		log.Fatalf("-bucket and -src-prefix are required")
	}

	if len(*destBucket) <= 0 {
		*destBucket = *bucket
	}

	sess, err := awsutil.GetSessionWithRegion(*region)
	if err != nil {
		log.Fatalf("AWS GetSession failed: %v", err)
	}

	svc, err := awsutil.GetS3(sess)
	if err != nil {
		log.Fatalf("AWS GetS3 failed: %v", err)
	}

	iLog := &logger.StdOutLogger{}
	iLog.SetLogLevel(logger.LogInfo)

	z := datasetzipper.Zipper{
		FS:        fileaccess.MakeS3Access(svc),
		Uploader:  s3manager.NewUploader(sess),
		Log:       iLog,
		Overwrite: *overwrite,
		DryRun:    *dryRun,
	}

	results, err := z.ZipAll(context.Background(), *bucket, *srcPrefix, *destBucket, *destPrefix)

	counts := map[datasetzipper.Status]int{}
	for _, r := range results {
		counts[r.Status]++
	}
	fmt.Printf("Uploaded: %v, skipped: %v, planned: %v\n", counts[datasetzipper.StatusUploaded], counts[datasetzipper.StatusSkipped], counts[datasetzipper.StatusPlanned])

	if err != nil {
		log.Fatalf("Zipping failed: %v", err)
	}
}
