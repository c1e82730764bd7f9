package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/getsentry/sentry-go"
	"github.com/replicahealth/dataportal/api/activity"
	"github.com/replicahealth/dataportal/api/config"
	"github.com/replicahealth/dataportal/api/notificationSender"
	"github.com/replicahealth/dataportal/core/awsutil"
	"github.com/replicahealth/dataportal/core/fileaccess"
	"github.com/replicahealth/dataportal/core/jwtparser"
	"github.com/replicahealth/dataportal/core/logger"
	"github.com/replicahealth/dataportal/core/mongoDBConnection"
	"github.com/replicahealth/dataportal/core/timestamper"
)

// InitAPIServices sets up everything talking to AWS, Auth0 and friends for a deployed gateway
func InitAPIServices(ctx context.Context, cfg config.APIConfig, log logger.ILogger) (APIServices, error) {
	svcs := APIServices{
		Config:      cfg,
		Log:         log,
		TimeStamper: &timestamper.UnixTimeNowStamper{},
	}

	// Get a session for the bucket region
	sess, err := awsutil.GetSessionWithRegion(cfg.AWSRegion)
	if err != nil {
		return svcs, fmt.Errorf("Failed to create AWS session. Error: %v", err)
	}

	s3svc, err := awsutil.GetS3(sess)
	if err != nil {
		return svcs, fmt.Errorf("Failed to create AWS S3 service. Error: %v", err)
	}

	svcs.S3 = s3svc
	svcs.FS = fileaccess.MakeS3Access(s3svc)
	svcs.Signer = &awsutil.RealURLSigner{S3: s3svc}

	svcs.Validator = MakeValidator(cfg, svcs.TimeStamper, log)

	svcs.Notifier = notificationSender.MakeNotificationSender(
		awsutil.GetSES(sess),
		cfg.AccessRequestSender,
		cfg.AccessRequestRecipients,
		cfg.AccessRequestLimit(),
		log,
	)

	var secrets awsutil.SecretReader
	if len(cfg.Auth0ManagementSecretName) > 0 || len(cfg.MongoSecret) > 0 {
		cache, err := awsutil.MakeSecretCache(sess)
		if err != nil {
			return svcs, fmt.Errorf("Failed to create secrets cache: %v", err)
		}
		secrets = cache
	}

	svcs.Activity, err = makeActivityRecorder(ctx, cfg, sess, secrets, log)
	if err != nil {
		return svcs, err
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryEndpoint,
		Environment: cfg.EnvironmentName,
		Release:     ApiVersion,
	}); err != nil {
		log.Errorf("Sentry initialization failed: %v", err)
	}

	return svcs, nil
}

// MakeValidator builds the JWT validator from config, only fetching signing keys if signatures are checked
func MakeValidator(cfg config.APIConfig, ts timestamper.ITimeStamper, log logger.ILogger) *jwtparser.TokenValidator {
	v := &jwtparser.TokenValidator{
		Audience:        cfg.Auth0Audience,
		VerifySignature: cfg.VerifyJWTSignature,
		Algorithm:       cfg.JWTAlgorithm,
		TimeStamper:     ts,
	}

	if cfg.VerifyJWTSignature {
		v.Keys = jwtparser.NewAuth0KeySource(cfg.Auth0Domain)
	} else {
		log.Infof("WARNING: JWT signature verification is DISABLED, token claims are trusted without checking who signed them")
	}

	return v
}

func makeActivityRecorder(ctx context.Context, cfg config.APIConfig, sess *session.Session, secrets awsutil.SecretReader, log logger.ILogger) (activity.Recorder, error) {
	backends := []activity.NamedRecorder{}

	for _, name := range cfg.ActivityBackends {
		switch name {
		case config.ActivityBackendDynamoDB:
			backends = append(backends, activity.NamedRecorder{
				Name:     name,
				Recorder: &activity.DynamoRecorder{DB: dynamodb.New(sess), Table: cfg.ActivityTable},
			})

		case config.ActivityBackendAuth0:
			secret, err := awsutil.ReadSecretOrValue(secrets, cfg.Auth0ManagementSecret, cfg.Auth0ManagementSecretName)
			if err != nil {
				return nil, fmt.Errorf("Failed to read Auth0 management secret: %v", err)
			}

			store, err := activity.InitAuth0MetadataStore(cfg.Auth0Domain, cfg.Auth0ManagementClientID, secret)
			if err != nil {
				return nil, fmt.Errorf("Failed to init Auth0 management API: %v", err)
			}

			backends = append(backends, activity.NamedRecorder{Name: name, Recorder: &activity.Auth0Recorder{Store: store}})

		case config.ActivityBackendMongo:
			client, err := mongoDBConnection.Connect(ctx, secrets, cfg.MongoSecret, log)
			if err != nil {
				return nil, fmt.Errorf("Failed to connect to mongo: %v", err)
			}

			db := client.Database(mongoDBConnection.GetDatabaseName("dataportal", cfg.EnvironmentName))
			backends = append(backends, activity.NamedRecorder{Name: name, Recorder: activity.MakeMongoRecorder(db)})

		default:
			return nil, fmt.Errorf("Unknown activity backend: %v", name)
		}
	}

	if len(backends) <= 0 {
		log.Infof("No activity backends configured, user activity will not be recorded")
		return activity.NullRecorder{}, nil
	}

	return &activity.MultiRecorder{Backends: backends, Log: log}, nil
}
