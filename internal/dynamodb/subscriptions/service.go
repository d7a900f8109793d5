package subscriptions

import (
	"time"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/dynamodb/services"
	"foodgram.io/backend/internal/dynamodb/token"
	"foodgram.io/backend/internal/exceptions"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
)

const (
	RESOURCE = "Subscription"
	FOLLOWER = "Follower"
)

// FollowerIndexKey lists the subscribers of an author.
func FollowerIndexKey(authorId string) string {
	return services.PrimaryKey(authorId, FOLLOWER)
}

func NewSubscriptionService(tableName string, client services.DynamoDBClient, marshaler token.TokenMarshaler) *services.RepositoryDynamoDBService[data.SubscriptionDTO, data.SubscriptionInputDTO] {
	return &services.RepositoryDynamoDBService[data.SubscriptionDTO, data.SubscriptionInputDTO]{
		DynamoDB:       client,
		TableName:      tableName,
		TokenMarshaler: marshaler,
		Name:           RESOURCE,
		Shim: func(pk, sk string) data.SubscriptionDTO {
			return data.SubscriptionDTO{PK: pk, SK: sk}
		},
		OnCreate: func(sid data.SubscriptionInputDTO, createTime time.Time, pk, sk string) data.SubscriptionDTO {
			return data.SubscriptionDTO{
				PK:            pk,
				SK:            sk,
				FirstIndex:    FollowerIndexKey(sk),
				AccountId:     *sid.AccountId,
				SubscriberArn: sid.SubscriberArn,
				CreateTime:    createTime,
				UpdateTime:    createTime,
			}
		},
		OnUpdate: func(sid data.SubscriptionInputDTO, ub expression.UpdateBuilder) expression.UpdateBuilder {
			if sid.SubscriberArn != nil {
				ub = ub.Set(expression.Name("subscriberArn"), expression.Value(sid.SubscriberArn))
			}
			return ub
		},
		OnConflict: func(itemId string) error {
			return exceptions.InvalidInput("You are already subscribed to this author.")
		},
		OnMissing: func(itemId string) error {
			return exceptions.InvalidInput("You are not subscribed to this author.")
		},
	}
}
