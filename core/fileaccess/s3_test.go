package fileaccess

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/replicahealth/dataportal/core/awsutil"
)

func Example_s3ListObjects_Paging() {
	var mockS3 awsutil.MockS3Client
	defer mockS3.FinishTest()

	mockS3.ExpListObjectsV2Input = []s3.ListObjectsV2Input{
		{Bucket: aws.String("the-bucket"), Prefix: aws.String("processed/")},
		{Bucket: aws.String("the-bucket"), Prefix: aws.String("processed/"), ContinuationToken: aws.String("page2")},
	}
	mockS3.QueuedListObjectsV2Output = []*s3.ListObjectsV2Output{
		{
			Contents: []*s3.Object{
				{Key: aws.String("processed/"), Size: aws.Int64(0)},
				{Key: aws.String("processed/DCLP3.csv"), Size: aws.Int64(1200)},
			},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("page2"),
		},
		{
			Contents: []*s3.Object{
				{Key: aws.String("processed/Flair.csv"), Size: aws.Int64(500)},
				{Key: aws.String("processed/NoSize.csv")},
			},
			IsTruncated: aws.Bool(false),
		},
	}

	fs := MakeS3Access(&mockS3)
	objs, err := fs.ListObjects("the-bucket", "processed/")
	fmt.Printf("%v|%v\n", err, len(objs))
	for _, o := range objs {
		fmt.Printf("%v %v\n", o.Key, o.Size)
	}

	// Output:
	// <nil>|3
	// processed/DCLP3.csv 1200
	// processed/Flair.csv 500
	// processed/NoSize.csv 0
}

func Example_s3ListObjects_Errors() {
	var mockS3 awsutil.MockS3Client
	defer mockS3.FinishTest()

	mockS3.ExpListObjectsV2Input = []s3.ListObjectsV2Input{
		{Bucket: aws.String("the-bucket"), Prefix: aws.String("a/")},
		{Bucket: aws.String("the-bucket"), Prefix: aws.String("b/")},
		{Bucket: aws.String("the-bucket"), Prefix: aws.String("b/"), ContinuationToken: aws.String("next")},
	}
	mockS3.QueuedListObjectsV2Output = []*s3.ListObjectsV2Output{
		// Truncated, but no token given
		{
			Contents:    []*s3.Object{{Key: aws.String("a/1.csv"), Size: aws.Int64(1)}},
			IsTruncated: aws.Bool(true),
		},
		{
			Contents:              []*s3.Object{{Key: aws.String("b/1.csv"), Size: aws.Int64(1)}},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("next"),
		},
		// Second page fails
		nil,
	}

	fs := MakeS3Access(&mockS3)
	objs, err := fs.ListObjects("the-bucket", "a/")
	fmt.Printf("%v|%v\n", err, len(objs))

	objs, err = fs.ListObjects("the-bucket", "b/")
	fmt.Printf("%v|%v\n", err, len(objs))

	// Output:
	// S3 listing truncated without a continuation token for: the-bucket/a/|0
	// Returning error from ListObjectsV2|0
}

func Example_s3ListPrefixes() {
	var mockS3 awsutil.MockS3Client
	defer mockS3.FinishTest()

	mockS3.ExpListObjectsV2Input = []s3.ListObjectsV2Input{
		{Bucket: aws.String("the-bucket"), Prefix: aws.String("raw/"), Delimiter: aws.String("/")},
	}
	mockS3.QueuedListObjectsV2Output = []*s3.ListObjectsV2Output{
		{
			CommonPrefixes: []*s3.CommonPrefix{
				{Prefix: aws.String("raw/DCLP3/")},
				{Prefix: aws.String("raw/Flair/")},
			},
			IsTruncated: aws.Bool(false),
		},
	}

	fs := MakeS3Access(&mockS3)
	fmt.Println(fs.ListPrefixes("the-bucket", "raw/"))

	// Output:
	// [raw/DCLP3/ raw/Flair/] <nil>
}

func Example_s3ObjectExists() {
	var mockS3 awsutil.MockS3Client
	defer mockS3.FinishTest()

	mockS3.ExpHeadObjectInput = []s3.HeadObjectInput{
		{Bucket: aws.String("the-bucket"), Key: aws.String("archives/DCLP3.zip")},
		{Bucket: aws.String("the-bucket"), Key: aws.String("archives/Missing.zip")},
	}
	mockS3.QueuedHeadObjectOutput = []*s3.HeadObjectOutput{
		{ContentLength: aws.Int64(100)},
		nil,
	}

	fs := MakeS3Access(&mockS3)
	fmt.Println(fs.ObjectExists("the-bucket", "archives/DCLP3.zip"))
	fmt.Println(fs.ObjectExists("the-bucket", "archives/Missing.zip"))

	// Output:
	// true <nil>
	// false <nil>
}

func Example_s3OpenObject_NotFound() {
	var mockS3 awsutil.MockS3Client
	defer mockS3.FinishTest()

	mockS3.ExpGetObjectInput = []s3.GetObjectInput{
		{Bucket: aws.String("the-bucket"), Key: aws.String("nope.csv")},
	}
	mockS3.QueuedGetObjectOutput = []*s3.GetObjectOutput{nil}

	fs := MakeS3Access(&mockS3)
	_, err := fs.OpenObject("the-bucket", "nope.csv")
	fmt.Println(fs.IsNotFoundError(err))
	fmt.Println(fs.IsNotFoundError(nil))

	// Output:
	// true
	// false
}
