package activity

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
)

// The table is keyed on userId + timestamp. Details are stored as a JSON string so the table
// schema doesn't care what's in them
type dynamoItem struct {
	UserID    string `dynamodbav:"userId"`
	Timestamp string `dynamodbav:"timestamp"`
	Activity  string `dynamodbav:"activity"`
	Details   string `dynamodbav:"details"`
	EventID   string `dynamodbav:"eventId"`
}

type DynamoRecorder struct {
	DB    dynamodbiface.DynamoDBAPI
	Table string
}

func (r *DynamoRecorder) Record(ctx context.Context, event Event) error {
	details, err := json.Marshal(event.Details)
	if err != nil {
		return errors.Wrap(err, "failed to encode activity details")
	}

	item, err := dynamodbattribute.MarshalMap(dynamoItem{
		UserID:    event.UserID,
		Timestamp: event.Timestamp,
		Activity:  event.Activity,
		Details:   string(details),
		EventID:   event.EventID,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal activity item")
	}

	_, err = r.DB.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.Table),
		Item:      item,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to write activity to %v", r.Table)
	}
	return nil
}
