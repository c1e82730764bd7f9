package datasets

import (
	"time"

	"github.com/replicahealth/dataportal/api/config"
	"github.com/replicahealth/dataportal/api/services"
	"github.com/replicahealth/dataportal/core/datasetname"
	"github.com/replicahealth/dataportal/core/fileaccess"
	"github.com/replicahealth/dataportal/core/timestamper"
)

func MakeBuilder(cfg config.APIConfig, lister fileaccess.ObjectLister, signer services.URLSigner, ts timestamper.ITimeStamper) (*Builder, error) {
	classifier, err := datasetname.MakeClassifier(cfg.PatternRules, cfg.PublicGroups)
	if err != nil {
		return nil, err
	}

	return &Builder{
		Lister:          lister,
		Signer:          signer,
		Classifier:      classifier,
		TimeStamper:     ts,
		Bucket:          cfg.Bucket,
		ProcessedPrefix: cfg.ProcessedPrefix,
		ArchivePrefix:   cfg.ArchivePrefix,
		FileExtension:   cfg.FileExtension,
		TTL:             time.Duration(cfg.URLTTLSec) * time.Second,
		Concurrency:     int(cfg.SignConcurrency),
	}, nil
}
