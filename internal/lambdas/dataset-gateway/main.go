package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/getsentry/sentry-go"
	"github.com/replicahealth/dataportal/api/config"
	"github.com/replicahealth/dataportal/api/endpoints"
	"github.com/replicahealth/dataportal/api/services"
	"github.com/replicahealth/dataportal/core/logger"
)

var gateway *endpoints.Gateway

func handleRequest(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp, err := gateway.HandleLambda(ctx, event)

	// Lambda may be frozen as soon as we return, get any errors out first
	sentry.Flush(2 * time.Second)
	return resp, err
}

func main() {
	cfg, err := config.FromEnvironment()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	iLog := &logger.StdOutLogger{}
	iLog.SetLogLevel(cfg.LogLevel)

	svcs, err := services.InitAPIServices(context.Background(), cfg, iLog)
	if err != nil {
		log.Fatalf("Failed to init services: %v", err)
	}

	gateway, err = endpoints.MakeGateway(&svcs)
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}

	iLog.Infof("Dataset gateway version \"%v\" started...", services.ApiVersion)
	lambda.Start(handleRequest)
}
