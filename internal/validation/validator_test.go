package validation_test

import (
	"testing"

	"foodgram.io/backend/internal/exceptions"
	"foodgram.io/backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string   `json:"name" validate:"required,max=8"`
	Minutes int      `json:"cooking_time" validate:"min=1"`
	Tags    []string `json:"tags" validate:"min=1,unique"`
}

func TestStruct(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validation.Struct(&sample{Name: "soup", Minutes: 5, Tags: []string{"a"}}))
	})

	t.Run("Invalid", func(t *testing.T) {
		err := validation.Struct(&sample{Name: "", Minutes: 0, Tags: []string{"a", "a"}})
		var invalid *exceptions.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Contains(t, invalid.Message, "name is required")
		assert.Contains(t, invalid.Message, "cooking_time must be at least 1")
		assert.Contains(t, invalid.Message, "tags must be unique")
	})
}

type account struct {
	Username string `json:"username" validate:"required,username"`
}

func TestUsername(t *testing.T) {
	for _, valid := range []string{"cook", "chef.anna", "a+b@c-d_e", "Мария"} {
		assert.NoError(t, validation.Struct(&account{Username: valid}), valid)
	}
	for _, invalid := range []string{"me", "ME", "two words", "semi;colon", "subscriptions"} {
		err := validation.Struct(&account{Username: invalid})
		var input *exceptions.InvalidInputError
		require.ErrorAs(t, err, &input, invalid)
		assert.Contains(t, input.Message, "username is reserved")
	}
}
