package services

import (
	"context"
	"encoding/json"

	"foodgram.io/backend/internal/notifications"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type SNSClient interface {
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
	Unsubscribe(ctx context.Context, params *sns.UnsubscribeInput, optFns ...func(*sns.Options)) (*sns.UnsubscribeOutput, error)
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type NotificationSNSService struct {
	Sns      SNSClient
	TopicArn string
}

func NewNotificationService(client SNSClient, topicArn string) notifications.NotificationService {
	if topicArn == "" {
		return notifications.NoopNotificationService{}
	}
	return &NotificationSNSService{
		Sns:      client,
		TopicArn: topicArn,
	}
}

func filterPolicy(authorId string) (string, error) {
	policy, err := json.Marshal(map[string][]string{
		notifications.AUTHOR_ATTRIBUTE: {authorId},
	})
	return string(policy), err
}

func (n *NotificationSNSService) Subscribe(ctx context.Context, input notifications.SubscribeInput) (*notifications.SubscribeOutput, error) {
	policy, err := filterPolicy(input.AuthorId)
	if err != nil {
		return nil, err
	}
	output, err := n.Sns.Subscribe(ctx, &sns.SubscribeInput{
		Endpoint:              input.Endpoint,
		Protocol:              input.Protocol,
		TopicArn:              aws.String(n.TopicArn),
		ReturnSubscriptionArn: true,
		Attributes: map[string]string{
			"FilterPolicy": policy,
		},
	})
	if err != nil {
		return nil, err
	}
	return &notifications.SubscribeOutput{
		SubscriberId: aws.ToString(output.SubscriptionArn),
	}, nil
}

func (n *NotificationSNSService) Unsubscribe(ctx context.Context, subscriberId string) error {
	_, err := n.Sns.Unsubscribe(ctx, &sns.UnsubscribeInput{
		SubscriptionArn: aws.String(subscriberId),
	})
	return err
}

func (n *NotificationSNSService) Publish(ctx context.Context, input notifications.PublishInput) error {
	_, err := n.Sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.TopicArn),
		Subject:  aws.String(input.Subject),
		Message:  aws.String(input.Message),
		MessageAttributes: map[string]types.MessageAttributeValue{
			notifications.AUTHOR_ATTRIBUTE: {
				DataType:    aws.String("String"),
				StringValue: aws.String(input.AuthorId),
			},
		},
	})
	return err
}
