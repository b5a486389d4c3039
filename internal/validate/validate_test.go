package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type loginInput struct {
	Username string `validate:"required,max=64,username"`
}

type verifyInput struct {
	Username string `validate:"required,username"`
	OTP      string `validate:"required,passphrase"`
}

func TestStruct_Username(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"alice", true},
		{"bob.smith-2", true},
		{"x_y", true},
		{"", false},
		{"Alice", false},
		{"alice@duck.com", false},
		{"-alice", false},
		{"has space", false},
	}
	for _, tt := range tests {
		err := Struct(loginInput{Username: tt.in})
		if tt.ok {
			assert.NoError(t, err, tt.in)
		} else {
			assert.Error(t, err, tt.in)
		}
	}
}

func TestStruct_Passphrase(t *testing.T) {
	assert.NoError(t, Struct(verifyInput{Username: "alice", OTP: "morality landless proved paprika"}))

	for _, bad := range []string{
		"",
		"three words only",
		"one two three four five",
		"morality  landless proved paprika",
		"Morality landless proved paprika",
		"123 landless proved paprika",
	} {
		assert.Error(t, Struct(verifyInput{Username: "alice", OTP: bad}), bad)
	}
}

func TestStruct_MessageNamesFieldAndTag(t *testing.T) {
	err := Struct(verifyInput{Username: "alice", OTP: "nope"})
	assert.EqualError(t, err, "field 'OTP' failed 'passphrase'")
}
