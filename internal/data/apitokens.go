package data

import "time"

type ApiTokenDTO struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	FirstIndex string    `dynamodbav:"GS1-PK"`
	AccountId  string    `dynamodbav:"accountId"`
	CreateTime time.Time `dynamodbav:"createTime"`
	UpdateTime time.Time `dynamodbav:"updateTime"`
}

type ApiTokenInputDTO struct {
	AccountId *string `dynamodbav:"accountId"`
}

type ApiTokenRepository interface {
	Repository[ApiTokenDTO, ApiTokenInputDTO]
}
