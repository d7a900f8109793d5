package data

import (
	"context"
	"time"
)

type UserDTO struct {
	PK           string    `dynamodbav:"PK"`
	SK           string    `dynamodbav:"SK"`
	Email        string    `dynamodbav:"email"`
	Username     string    `dynamodbav:"username"`
	FirstName    string    `dynamodbav:"firstName"`
	LastName     string    `dynamodbav:"lastName"`
	PasswordHash string    `dynamodbav:"passwordHash"`
	IsSuperuser  bool      `dynamodbav:"isSuperuser"`
	Avatar       string    `dynamodbav:"avatar,omitempty"`
	CreateTime   time.Time `dynamodbav:"createTime"`
	UpdateTime   time.Time `dynamodbav:"updateTime"`
}

type UserInputDTO struct {
	Email        *string `dynamodbav:"email"`
	Username     *string `dynamodbav:"username"`
	FirstName    *string `dynamodbav:"firstName"`
	LastName     *string `dynamodbav:"lastName"`
	PasswordHash *string `dynamodbav:"passwordHash"`
	// Avatar replaces the stored image; an empty value clears it.
	Avatar *string `dynamodbav:"avatar"`
}

type UserRepository interface {
	Repository[UserDTO, UserInputDTO]
	Register(ctx context.Context, input UserInputDTO) (UserDTO, error)
	FindByEmail(ctx context.Context, email string) (UserDTO, error)
}
