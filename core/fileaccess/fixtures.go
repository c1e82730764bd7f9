package fileaccess

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// FixtureFile is the JSON document the mock server reads its bucket contents from
type FixtureFile struct {
	Bucket  string       `json:"bucket"`
	Objects []ObjectInfo `json:"objects"`
}

// FixtureAccess serves listings from a fixed set of objects instead of a bucket. Used by the
// mock server and tests, never by deployed code.
type FixtureAccess struct {
	Objects []ObjectInfo
}

func ParseFixtures(data []byte) (FixtureFile, error) {
	var result FixtureFile
	err := json.Unmarshal(data, &result)
	if err != nil {
		return result, errors.Wrap(err, "failed to parse fixture file")
	}
	return result, nil
}

func ReadFixtureFile(path string) (FixtureFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FixtureFile{}, errors.Wrapf(err, "failed to read fixture file %v", path)
	}
	return ParseFixtures(data)
}

func (f FixtureAccess) ListObjects(bucket string, prefix string) ([]ObjectInfo, error) {
	result := []ObjectInfo{}
	for _, obj := range f.Objects {
		if strings.HasPrefix(obj.Key, prefix) && !strings.HasSuffix(obj.Key, "/") {
			result = append(result, obj)
		}
	}
	return result, nil
}

// DataURLSigner hands out data: URLs holding a tiny made-up CSV instead of signed links, so the
// mock server works without a bucket or credentials
type DataURLSigner struct {
}

func (s DataURLSigner) GetSignedURL(bucket string, key string, fileName string, expiry time.Duration) (string, error) {
	stem := strings.TrimSuffix(fileName, path.Ext(fileName))
	csv := fmt.Sprintf("Dataset,Value,Timestamp\n%v,123,2023-12-01\nSample,456,2023-12-02", stem)

	// QueryEscape turns spaces into +, which a data URL would keep as a literal +
	return "data:text/csv;charset=utf-8," + strings.ReplaceAll(url.QueryEscape(csv), "+", "%20"), nil
}
