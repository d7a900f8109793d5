package services_test

import (
	"context"
	"testing"

	"foodgram.io/backend/internal/notifications"
	"foodgram.io/backend/internal/sns/services"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSNS struct {
	subscribes   []*sns.SubscribeInput
	unsubscribes []*sns.UnsubscribeInput
	publishes    []*sns.PublishInput
}

func (r *recordingSNS) Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error) {
	r.subscribes = append(r.subscribes, params)
	return &sns.SubscribeOutput{SubscriptionArn: aws.String("arn:aws:sns:us-east-1:123456789012:recipes:sub-1")}, nil
}

func (r *recordingSNS) Unsubscribe(ctx context.Context, params *sns.UnsubscribeInput, optFns ...func(*sns.Options)) (*sns.UnsubscribeOutput, error) {
	r.unsubscribes = append(r.unsubscribes, params)
	return &sns.UnsubscribeOutput{}, nil
}

func (r *recordingSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	r.publishes = append(r.publishes, params)
	return &sns.PublishOutput{}, nil
}

func TestNotificationSNSService(t *testing.T) {
	topic := "arn:aws:sns:us-east-1:123456789012:recipes"
	client := &recordingSNS{}
	service := services.NewNotificationService(client, topic)
	ctx := context.Background()

	t.Run("Subscribe", func(t *testing.T) {
		output, err := service.Subscribe(ctx, notifications.SubscribeInput{
			Endpoint: aws.String("cook@foodgram.io"),
			Protocol: aws.String("email"),
			AuthorId: "author-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:recipes:sub-1", output.SubscriberId)
		require.Len(t, client.subscribes, 1)
		assert.Equal(t, topic, aws.ToString(client.subscribes[0].TopicArn))
		assert.JSONEq(t, `{"author":["author-1"]}`, client.subscribes[0].Attributes["FilterPolicy"])
	})

	t.Run("Publish", func(t *testing.T) {
		err := service.Publish(ctx, notifications.PublishInput{
			AuthorId: "author-1",
			Subject:  "New recipe",
			Message:  "Borscht",
		})
		require.NoError(t, err)
		require.Len(t, client.publishes, 1)
		attribute := client.publishes[0].MessageAttributes[notifications.AUTHOR_ATTRIBUTE]
		assert.Equal(t, "author-1", aws.ToString(attribute.StringValue))
		assert.Equal(t, "String", aws.ToString(attribute.DataType))
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		require.NoError(t, service.Unsubscribe(ctx, "sub-1"))
		require.Len(t, client.unsubscribes, 1)
		assert.Equal(t, "sub-1", aws.ToString(client.unsubscribes[0].SubscriptionArn))
	})

	t.Run("NoTopic", func(t *testing.T) {
		noop := services.NewNotificationService(client, "")
		assert.IsType(t, notifications.NoopNotificationService{}, noop)
		assert.NoError(t, noop.Publish(ctx, notifications.PublishInput{AuthorId: "author-1"}))
		assert.Len(t, client.publishes, 1)
	})
}
