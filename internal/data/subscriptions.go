package data

import "time"

type SubscriptionDTO struct {
	PK            string    `dynamodbav:"PK"`
	SK            string    `dynamodbav:"SK"`
	FirstIndex    string    `dynamodbav:"GS1-PK"`
	AccountId     string    `dynamodbav:"accountId"`
	SubscriberArn *string   `dynamodbav:"subscriberArn"`
	CreateTime    time.Time `dynamodbav:"createTime"`
	UpdateTime    time.Time `dynamodbav:"updateTime"`
}

type SubscriptionInputDTO struct {
	AccountId     *string `dynamodbav:"accountId"`
	SubscriberArn *string `dynamodbav:"subscriberArn"`
}

type SubscriptionRepository interface {
	Repository[SubscriptionDTO, SubscriptionInputDTO]
}
