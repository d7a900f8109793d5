package notifications

import "context"

// Message attribute carrying the author of a published recipe. Follower
// subscriptions filter on it.
const AUTHOR_ATTRIBUTE = "author"

type SubscribeInput struct {
	Endpoint *string
	Protocol *string
	AuthorId string
}

type SubscribeOutput struct {
	SubscriberId string
}

type PublishInput struct {
	AuthorId string
	Subject  string
	Message  string
}

type NotificationService interface {
	Subscribe(ctx context.Context, input SubscribeInput) (*SubscribeOutput, error)
	Unsubscribe(ctx context.Context, subscriberId string) error
	Publish(ctx context.Context, input PublishInput) error
}

// NoopNotificationService stands in when no topic is configured.
type NoopNotificationService struct{}

func (NoopNotificationService) Subscribe(ctx context.Context, input SubscribeInput) (*SubscribeOutput, error) {
	return &SubscribeOutput{}, nil
}

func (NoopNotificationService) Unsubscribe(ctx context.Context, subscriberId string) error {
	return nil
}

func (NoopNotificationService) Publish(ctx context.Context, input PublishInput) error {
	return nil
}
