package events

import (
	"context"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/notifications"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog/log"
)

func isSubscription(record events.DynamoDBEventRecord) bool {
	_, resource := resourceOf(record)
	return resource == "Subscription"
}

// ManageFollowerHandler mirrors subscriptions onto the notification topic:
// following an author subscribes the follower's email with a filter on that
// author, unfollowing removes the topic subscription.
type ManageFollowerHandler struct {
	Users         data.UserRepository
	Subscriptions data.SubscriptionRepository
	Notifications notifications.NotificationService
}

func (mh *ManageFollowerHandler) Filter(record events.DynamoDBEventRecord) bool {
	switch record.EventName {
	case "INSERT", "REMOVE":
		return isSubscription(record)
	}
	return false
}

func (mh *ManageFollowerHandler) Apply(ctx context.Context, record events.DynamoDBEventRecord) error {
	followerId, _ := resourceOf(record)
	switch record.EventName {
	case "INSERT":
		authorId := stringAttribute(record.Change.NewImage, "SK")
		follower, err := mh.Users.Get(ctx, data.GLOBAL_ACCOUNT, followerId)
		if err != nil {
			return err
		}
		output, err := mh.Notifications.Subscribe(ctx, notifications.SubscribeInput{
			Endpoint: aws.String(follower.Email),
			Protocol: aws.String("email"),
			AuthorId: authorId,
		})
		if err != nil {
			return err
		}
		if output.SubscriberId == "" {
			return nil
		}
		_, err = mh.Subscriptions.Update(ctx, followerId, authorId, data.SubscriptionInputDTO{
			SubscriberArn: aws.String(output.SubscriberId),
		})
		if err != nil {
			// Unfollowed before the topic subscription landed.
			log.Warn().Err(err).Str("follower", followerId).Str("author", authorId).Msg("subscription vanished, unsubscribing")
			return mh.Notifications.Unsubscribe(ctx, output.SubscriberId)
		}
		log.Info().Str("follower", followerId).Str("author", authorId).Msg("subscribed follower to author")
	case "REMOVE":
		arn := stringAttribute(record.Change.OldImage, "subscriberArn")
		if arn == "" {
			return nil
		}
		return mh.Notifications.Unsubscribe(ctx, arn)
	}
	return nil
}
