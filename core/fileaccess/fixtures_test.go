package fileaccess

import (
	"fmt"
	"time"
)

func Example_fixtureListObjects() {
	f, err := ParseFixtures([]byte(`{
	"bucket": "mock-bucket",
	"objects": [
		{"key": "processed/DCLP3.csv", "size": 10},
		{"key": "processed/", "size": 0},
		{"key": "archives/public-dataset.zip", "size": 99}
	]
}`))
	fmt.Printf("%v|%v|%v\n", err, f.Bucket, len(f.Objects))

	fa := FixtureAccess{Objects: f.Objects}
	fmt.Println(fa.ListObjects(f.Bucket, "processed/"))

	_, err = ParseFixtures([]byte("{\"bucket\":"))
	fmt.Println(err != nil)

	// Output:
	// <nil>|mock-bucket|3
	// [{processed/DCLP3.csv 10}] <nil>
	// true
}

func Example_baseName() {
	fmt.Println(BaseName("processed/dir/DCLP3.csv", "x"))
	fmt.Println(BaseName("Flair.csv", "x"))
	fmt.Println(BaseName("archives/", "x"))

	// Output:
	// DCLP3.csv
	// Flair.csv
	// x
}

func Example_dataURLSigner() {
	s := DataURLSigner{}
	fmt.Println(s.GetSignedURL("any-bucket", "processed/DCLP3.csv", "DCLP3.csv", time.Hour))
	fmt.Println(s.GetSignedURL("any-bucket", "archives/Open APS.zip", "Open APS.zip", time.Hour))

	// Output:
	// data:text/csv;charset=utf-8,Dataset%2CValue%2CTimestamp%0ADCLP3%2C123%2C2023-12-01%0ASample%2C456%2C2023-12-02 <nil>
	// data:text/csv;charset=utf-8,Dataset%2CValue%2CTimestamp%0AOpen%20APS%2C123%2C2023-12-01%0ASample%2C456%2C2023-12-02 <nil>
}
