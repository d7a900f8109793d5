package users

import (
	"context"

	"foodgram.io/backend/internal/data"
	"golang.org/x/crypto/bcrypt"
)

type UserInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,max=128"`
}

type AvatarInput struct {
	Avatar string `json:"avatar" validate:"required"`
}

type Avatar struct {
	Avatar string `json:"avatar"`
}

type PasswordInput struct {
	NewPassword     string `json:"new_password" validate:"required,max=128"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

type CreatedUser struct {
	Email     string `json:"email"`
	Id        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type User struct {
	Email        string  `json:"email"`
	Id           string  `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

func NewCreatedUser(user data.UserDTO) CreatedUser {
	return CreatedUser{
		Email:     user.Email,
		Id:        user.SK,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

func NewUser(user data.UserDTO, subscribed bool) User {
	return User{
		Email:        user.Email,
		Id:           user.SK,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
		Avatar:       avatar(user),
	}
}

// avatar is null on the wire until the user uploads one.
func avatar(user data.UserDTO) *string {
	if user.Avatar == "" {
		return nil
	}
	return &user.Avatar
}

func NewAvatar(user data.UserDTO) Avatar {
	return Avatar{Avatar: user.Avatar}
}

var HashCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(user data.UserDTO, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Following reports which of authorIds the account subscribes to.
func Following(ctx context.Context, subscriptions data.SubscriptionRepository, accountId string, authorIds []string) (map[string]bool, error) {
	following := make(map[string]bool, len(authorIds))
	if accountId == "" || len(authorIds) == 0 {
		return following, nil
	}
	found, err := subscriptions.BatchGet(ctx, accountId, authorIds)
	if err != nil {
		return nil, err
	}
	for _, subscription := range found {
		following[subscription.SK] = true
	}
	return following, nil
}
