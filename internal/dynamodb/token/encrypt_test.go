package token_test

import (
	"testing"

	"foodgram.io/backend/internal/dynamodb/token"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestEncryptionMarshaler(t *testing.T) {
	marshaler := token.NewGCM("test-secret")
	scope := "0190c0de-0000-7000-8000-000000000001:ShoppingCart"
	lastKey := map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: scope},
		"SK": &types.AttributeValueMemberS{Value: "recipe-1"},
	}

	t.Run("thing==Unmarshal(Marshal(thing))", func(t *testing.T) {
		encoded, err := marshaler.Marshal(scope, lastKey)
		if err != nil {
			t.Fatalf("Failed to marshal token: %v", err)
		}
		otherKey, err := marshaler.Unmarshal(scope, encoded)
		if err != nil {
			t.Fatalf("Failed to unmarshal token: %s", err)
		}
		sk, ok := otherKey["SK"].(*types.AttributeValueMemberS)
		if !ok {
			t.Fatalf("otherKey does not contain an S typed SK: %v", otherKey)
		}
		if sk.Value != "recipe-1" {
			t.Errorf("otherKey SK is %s", sk.Value)
		}
	})

	t.Run("len(token)==nil", func(t *testing.T) {
		encoded, err := marshaler.Marshal(scope, nil)
		if err != nil {
			t.Fatalf("Threw an error on marshal: %s", err)
		}
		if encoded != nil {
			t.Fatalf("Whoa %s is not nil!", encoded)
		}
		lastKey, err := marshaler.Unmarshal(scope, nil)
		if err != nil || lastKey != nil {
			t.Fatalf("Expected an empty key, got %v, %v", lastKey, err)
		}
	})

	t.Run("scopeA!=scopeB", func(t *testing.T) {
		encoded, err := marshaler.Marshal(scope, lastKey)
		if err != nil {
			t.Fatalf("Failed to marshal token: %v", err)
		}
		otherKey, err := marshaler.Unmarshal("someone-else:ShoppingCart", encoded)
		if err == nil {
			t.Fatalf("Expected an err but received, %v", otherKey)
		}
		if otherKey != nil {
			t.Fatalf("Should not have decrypted %v", otherKey)
		}
	})

	t.Run("secretA!=secretB", func(t *testing.T) {
		encoded, err := marshaler.Marshal(scope, lastKey)
		if err != nil {
			t.Fatalf("Failed to marshal token: %v", err)
		}
		if _, err := token.NewGCM("other-secret").Unmarshal(scope, encoded); err == nil {
			t.Fatal("Expected a different secret to fail")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := marshaler.Unmarshal(scope, []byte("not a token")); err == nil {
			t.Fatal("Expected garbage to fail")
		}
	})
}
