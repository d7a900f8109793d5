package users

import (
	"context"
	"strings"
	"time"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/dynamodb/services"
	"foodgram.io/backend/internal/dynamodb/token"
	"foodgram.io/backend/internal/exceptions"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	RESOURCE = "User"
	EMAIL    = "UserEmail"
	USERNAME = "Username"
)

// ClaimDTO reserves a unique value (an email or a username) for a user.
type ClaimDTO struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	UserId     string    `dynamodbav:"userId"`
	CreateTime time.Time `dynamodbav:"createTime"`
}

type UserDynamoDBService struct {
	*services.RepositoryDynamoDBService[data.UserDTO, data.UserInputDTO]
}

func NewUserService(tableName string, client services.DynamoDBClient, marshaler token.TokenMarshaler) *UserDynamoDBService {
	return &UserDynamoDBService{
		RepositoryDynamoDBService: &services.RepositoryDynamoDBService[data.UserDTO, data.UserInputDTO]{
			DynamoDB:       client,
			TableName:      tableName,
			TokenMarshaler: marshaler,
			Name:           RESOURCE,
			Shim: func(pk, sk string) data.UserDTO {
				return data.UserDTO{PK: pk, SK: sk}
			},
			OnCreate: func(uid data.UserInputDTO, createTime time.Time, pk, sk string) data.UserDTO {
				return data.UserDTO{
					PK:           pk,
					SK:           sk,
					Email:        *uid.Email,
					Username:     *uid.Username,
					FirstName:    *uid.FirstName,
					LastName:     *uid.LastName,
					PasswordHash: *uid.PasswordHash,
					CreateTime:   createTime,
					UpdateTime:   createTime,
				}
			},
			OnUpdate: func(uid data.UserInputDTO, ub expression.UpdateBuilder) expression.UpdateBuilder {
				if uid.FirstName != nil {
					ub = ub.Set(expression.Name("firstName"), expression.Value(uid.FirstName))
				}
				if uid.LastName != nil {
					ub = ub.Set(expression.Name("lastName"), expression.Value(uid.LastName))
				}
				if uid.PasswordHash != nil {
					ub = ub.Set(expression.Name("passwordHash"), expression.Value(uid.PasswordHash))
				}
				if uid.Avatar != nil {
					if *uid.Avatar == "" {
						ub = ub.Remove(expression.Name("avatar"))
					} else {
						ub = ub.Set(expression.Name("avatar"), expression.Value(uid.Avatar))
					}
				}
				return ub
			},
		},
	}
}

func claim(kind string, value string, userId string, now time.Time) ClaimDTO {
	return ClaimDTO{
		PK:         services.PrimaryKey(data.GLOBAL_ACCOUNT, kind),
		SK:         strings.ToLower(value),
		UserId:     userId,
		CreateTime: now,
	}
}

// Register stores the user along with the claims on its email and username,
// so either being taken fails the whole write.
func (us *UserDynamoDBService) Register(ctx context.Context, input data.UserInputDTO) (data.UserDTO, error) {
	userId, err := services.NewId()
	if err != nil {
		return data.UserDTO{}, err
	}
	now := time.Now()
	user := us.OnCreate(input, now, services.PrimaryKey(data.GLOBAL_ACCOUNT, RESOURCE), userId)
	items := make([]types.TransactWriteItem, 0, 3)
	for _, item := range []any{
		user,
		claim(EMAIL, user.Email, userId, now),
		claim(USERNAME, user.Username, userId, now),
	} {
		put, err := services.PutNew(us.TableName, item)
		if err != nil {
			return user, err
		}
		items = append(items, put)
	}
	_, err = us.DynamoDB.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	switch {
	case err == nil:
		return user, nil
	case services.CanceledAt(err, 1):
		return user, exceptions.InvalidInput("A user with that email already exists.")
	case services.CanceledAt(err, 2):
		return user, exceptions.InvalidInput("A user with that username already exists.")
	case services.CanceledAt(err, 0):
		return user, exceptions.Conflict("user", userId)
	}
	return user, err
}

func (us *UserDynamoDBService) FindByEmail(ctx context.Context, email string) (data.UserDTO, error) {
	key, err := services.Key(services.PrimaryKey(data.GLOBAL_ACCOUNT, EMAIL), strings.ToLower(email))
	if err != nil {
		return data.UserDTO{}, err
	}
	output, err := us.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(us.TableName),
		Key:       key,
	})
	if err != nil {
		return data.UserDTO{}, err
	}
	if output.Item == nil {
		return data.UserDTO{}, exceptions.NotFound("user", email)
	}
	var owner ClaimDTO
	if err := attributevalue.UnmarshalMap(output.Item, &owner); err != nil {
		return data.UserDTO{}, err
	}
	return us.Get(ctx, data.GLOBAL_ACCOUNT, owner.UserId)
}
