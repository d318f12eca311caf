package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBool(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"BoolTrue", true, true},
		{"BoolFalse", false, false},
		{"IntOne", 1, true},
		{"IntZero", 0, false},
		{"Uint8One", uint8(1), true},
		{"StringTrue", "True", true},
		{"StringOne", " 1 ", true},
		{"StringYes", "yes", true},
		{"StringFalse", "false", false},
		{"StringEmpty", "", false},
		{"Bytes", []byte("on"), true},
		{"Nil", nil, false},
		{"Float", 1.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToBool(tt.in))
		})
	}
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 42, ToInt("42"))
	assert.Equal(t, 7, ToInt(int64(7)))
	assert.Equal(t, 3, ToInt(3.9))
	assert.Equal(t, 12, ToInt([]byte("12")))
	assert.Equal(t, 0, ToInt("nope"))
}
