package events

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

type EventFilter interface {
	Filter(record events.DynamoDBEventRecord) bool
	Apply(ctx context.Context, record events.DynamoDBEventRecord) error
}

func recordImage(record events.DynamoDBEventRecord) map[string]events.DynamoDBAttributeValue {
	if record.Change.NewImage != nil {
		return record.Change.NewImage
	}
	return record.Change.OldImage
}

// stringAttribute reads a string attribute, tolerating absent or null values.
func stringAttribute(image map[string]events.DynamoDBAttributeValue, name string) string {
	value, ok := image[name]
	if !ok || value.DataType() != events.DataTypeString {
		return ""
	}
	return value.String()
}

// resourceOf splits a partition key "<account>:<Resource>".
func resourceOf(record events.DynamoDBEventRecord) (string, string) {
	pk := stringAttribute(record.Change.Keys, "PK")
	if pk == "" {
		pk = stringAttribute(recordImage(record), "PK")
	}
	account, resource, _ := strings.Cut(pk, ":")
	return account, resource
}

// Dispatch hands every record to each handler that accepts it. A failing
// handler is logged and does not stop the remaining ones; the first error is
// returned so the stream batch is retried.
func Dispatch(ctx context.Context, handlers []EventFilter, records []events.DynamoDBEventRecord) error {
	var first error
	for _, record := range records {
		for _, handler := range handlers {
			if !handler.Filter(record) {
				continue
			}
			if err := handler.Apply(ctx, record); err != nil {
				log.Error().Err(err).
					Str("eventId", record.EventID).
					Str("eventName", record.EventName).
					Msg("failed to handle stream record")
				if first == nil {
					first = err
				}
			}
		}
	}
	return first
}
