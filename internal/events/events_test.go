package events

import (
	"context"
	"errors"
	"testing"

	"foodgram.io/backend/internal/data"
	"foodgram.io/backend/internal/notifications"
	"foodgram.io/backend/internal/test"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifications struct {
	subscribed   []notifications.SubscribeInput
	unsubscribed []string
	published    []notifications.PublishInput
}

func (rn *recordingNotifications) Subscribe(ctx context.Context, input notifications.SubscribeInput) (*notifications.SubscribeOutput, error) {
	rn.subscribed = append(rn.subscribed, input)
	return &notifications.SubscribeOutput{SubscriberId: "arn:sub:" + input.AuthorId}, nil
}

func (rn *recordingNotifications) Unsubscribe(ctx context.Context, subscriberId string) error {
	rn.unsubscribed = append(rn.unsubscribed, subscriberId)
	return nil
}

func (rn *recordingNotifications) Publish(ctx context.Context, input notifications.PublishInput) error {
	rn.published = append(rn.published, input)
	return nil
}

func recipeRecord(eventName string, image map[string]events.DynamoDBAttributeValue) events.DynamoDBEventRecord {
	record := events.DynamoDBEventRecord{
		EventName: eventName,
		Change: events.DynamoDBStreamRecord{
			Keys: map[string]events.DynamoDBAttributeValue{
				"PK": image["PK"],
				"SK": image["SK"],
			},
		},
	}
	if eventName == "REMOVE" {
		record.Change.OldImage = image
	} else {
		record.Change.NewImage = image
	}
	return record
}

func TestPublishRecipeHandler(t *testing.T) {
	sink := &recordingNotifications{}
	handler := &PublishRecipeHandler{
		Notifications: sink,
		BaseURL:       "https://foodgram.io",
	}
	image := map[string]events.DynamoDBAttributeValue{
		"PK":        events.NewStringAttribute("Global:Recipe"),
		"SK":        events.NewStringAttribute("recipe-1"),
		"author":    events.NewStringAttribute("author-1"),
		"name":      events.NewStringAttribute("Borscht"),
		"shortCode": events.NewStringAttribute("7f3"),
	}

	t.Run("Filter", func(t *testing.T) {
		assert.True(t, handler.Filter(recipeRecord("INSERT", image)))
		assert.False(t, handler.Filter(recipeRecord("MODIFY", image)))
		assert.False(t, handler.Filter(recipeRecord("REMOVE", image)))
		assert.False(t, handler.Filter(recipeRecord("INSERT", map[string]events.DynamoDBAttributeValue{
			"PK": events.NewStringAttribute("user-1:Favorite"),
			"SK": events.NewStringAttribute("recipe-1"),
		})))
	})

	t.Run("Apply", func(t *testing.T) {
		require.NoError(t, handler.Apply(context.Background(), recipeRecord("INSERT", image)))
		require.Len(t, sink.published, 1)
		published := sink.published[0]
		assert.Equal(t, "author-1", published.AuthorId)
		assert.Equal(t, "New recipe: Borscht", published.Subject)
		assert.Contains(t, published.Message, "https://foodgram.io/s/7f3")
	})
}

func TestDeleteRecipeReferencesHandler(t *testing.T) {
	ctx := context.Background()
	favorites := test.NewMemoryReferences("Favorite")
	cart := test.NewMemoryShoppingCart(test.NewMemoryRecipes())
	for _, user := range []string{"user-1", "user-2"} {
		_, err := favorites.CreateWithItemId(ctx, user, data.ReferenceInputDTO{AccountId: aws.String(user)}, "recipe-1")
		require.NoError(t, err)
		_, err = cart.CreateWithItemId(ctx, user, data.ReferenceInputDTO{AccountId: aws.String(user)}, "recipe-1")
		require.NoError(t, err)
	}
	_, err := cart.CreateWithItemId(ctx, "user-1", data.ReferenceInputDTO{AccountId: aws.String("user-1")}, "recipe-2")
	require.NoError(t, err)

	handler := DefaultDeleteReferencesHandler(test.INDEX_NAME, favorites, cart)
	remove := recipeRecord("REMOVE", map[string]events.DynamoDBAttributeValue{
		"PK": events.NewStringAttribute("Global:Recipe"),
		"SK": events.NewStringAttribute("recipe-1"),
	})
	require.True(t, handler.Filter(remove))
	require.NoError(t, handler.Apply(ctx, remove))

	for _, user := range []string{"user-1", "user-2"} {
		left, err := favorites.List(ctx, user, data.QueryParams{})
		require.NoError(t, err)
		assert.Empty(t, left.Items)
	}
	left, err := cart.List(ctx, "user-1", data.QueryParams{})
	require.NoError(t, err)
	require.Len(t, left.Items, 1)
	assert.Equal(t, "recipe-2", left.Items[0].SK)

	t.Run("Idempotent", func(t *testing.T) {
		assert.NoError(t, handler.Apply(ctx, remove))
	})
}

func TestManageFollowerHandler(t *testing.T) {
	ctx := context.Background()
	users := test.NewMemoryUsers()
	subscriptions := test.NewMemorySubscriptions()
	sink := &recordingNotifications{}
	follower, err := users.Register(ctx, data.UserInputDTO{
		Email:        aws.String("follower@foodgram.io"),
		Username:     aws.String("follower"),
		FirstName:    aws.String("Fol"),
		LastName:     aws.String("Lower"),
		PasswordHash: aws.String("hash"),
	})
	require.NoError(t, err)
	_, err = subscriptions.CreateWithItemId(ctx, follower.SK, data.SubscriptionInputDTO{AccountId: aws.String(follower.SK)}, "author-1")
	require.NoError(t, err)

	handler := &ManageFollowerHandler{
		Users:         users,
		Subscriptions: subscriptions,
		Notifications: sink,
	}
	insert := events.DynamoDBEventRecord{
		EventName: "INSERT",
		Change: events.DynamoDBStreamRecord{
			Keys: map[string]events.DynamoDBAttributeValue{
				"PK": events.NewStringAttribute(follower.SK + ":Subscription"),
				"SK": events.NewStringAttribute("author-1"),
			},
			NewImage: map[string]events.DynamoDBAttributeValue{
				"PK": events.NewStringAttribute(follower.SK + ":Subscription"),
				"SK": events.NewStringAttribute("author-1"),
			},
		},
	}

	t.Run("Follow", func(t *testing.T) {
		require.True(t, handler.Filter(insert))
		require.NoError(t, handler.Apply(ctx, insert))
		require.Len(t, sink.subscribed, 1)
		assert.Equal(t, "follower@foodgram.io", aws.ToString(sink.subscribed[0].Endpoint))
		assert.Equal(t, "author-1", sink.subscribed[0].AuthorId)
		stored, err := subscriptions.Get(ctx, follower.SK, "author-1")
		require.NoError(t, err)
		assert.Equal(t, "arn:sub:author-1", aws.ToString(stored.SubscriberArn))
	})

	t.Run("Unfollow", func(t *testing.T) {
		remove := events.DynamoDBEventRecord{
			EventName: "REMOVE",
			Change: events.DynamoDBStreamRecord{
				Keys: insert.Change.Keys,
				OldImage: map[string]events.DynamoDBAttributeValue{
					"PK":            events.NewStringAttribute(follower.SK + ":Subscription"),
					"SK":            events.NewStringAttribute("author-1"),
					"subscriberArn": events.NewStringAttribute("arn:sub:author-1"),
				},
			},
		}
		require.True(t, handler.Filter(remove))
		require.NoError(t, handler.Apply(ctx, remove))
		assert.Equal(t, []string{"arn:sub:author-1"}, sink.unsubscribed)
	})

	t.Run("UnfollowedBeforeSubscribe", func(t *testing.T) {
		orphan := insert
		orphan.Change.Keys = map[string]events.DynamoDBAttributeValue{
			"PK": events.NewStringAttribute(follower.SK + ":Subscription"),
			"SK": events.NewStringAttribute("author-2"),
		}
		orphan.Change.NewImage = orphan.Change.Keys
		require.NoError(t, handler.Apply(ctx, orphan))
		assert.Contains(t, sink.unsubscribed, "arn:sub:author-2")
	})
}

type failingHandler struct {
	applied int
}

func (fh *failingHandler) Filter(record events.DynamoDBEventRecord) bool {
	return true
}

func (fh *failingHandler) Apply(ctx context.Context, record events.DynamoDBEventRecord) error {
	fh.applied++
	return errors.New("boom")
}

func TestDispatch(t *testing.T) {
	failing := &failingHandler{}
	sink := &recordingNotifications{}
	publisher := &PublishRecipeHandler{Notifications: sink}
	insert := recipeRecord("INSERT", map[string]events.DynamoDBAttributeValue{
		"PK":     events.NewStringAttribute("Global:Recipe"),
		"SK":     events.NewStringAttribute("recipe-1"),
		"author": events.NewStringAttribute("author-1"),
		"name":   events.NewStringAttribute("Borscht"),
	})
	err := Dispatch(context.Background(), []EventFilter{failing, publisher}, []events.DynamoDBEventRecord{insert, insert})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 2, failing.applied)
	assert.Len(t, sink.published, 2)
	assert.Equal(t, "A new recipe was published: Borscht", sink.published[0].Message)
}
