package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateLength(t *testing.T) {
	assert.NoError(t, ValidateMinLength("João", 4, "name"))
	assert.EqualError(t, ValidateMinLength("Jo", 3, "name"), "name must be at least 3 characters long")
	assert.EqualError(t, ValidateMaxLength(strings.Repeat("a", 11), 10, "name"), "name must be at most 10 characters long")
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		ok    bool
	}{
		{"", true},
		{"+55 (11) 98765-4321", true},
		{"1234567", false},
		{"1234567890123456", false},
		{"11 9876-ABCD", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			err := ValidatePhone(tt.phone)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGroupAndParticipantNames(t *testing.T) {
	assert.Error(t, GroupValidation{}.ValidateGroupName("   "))
	assert.NoError(t, GroupValidation{}.ValidateGroupName("Natal da família"))
	assert.Error(t, ParticipantValidation{}.ValidateParticipantName(strings.Repeat("x", 51)))
	assert.NoError(t, ParticipantValidation{}.ValidateParticipantName("Ana"))
}

func TestValidateExclusions(t *testing.T) {
	id := uuid.NewString()
	v := ParticipantValidation{}

	assert.NoError(t, v.ValidateExclusions(nil))
	assert.NoError(t, v.ValidateExclusions([]string{id, uuid.NewString()}))
	assert.Error(t, v.ValidateExclusions([]string{id, id}))
	assert.Error(t, v.ValidateExclusions([]string{"bia"}))
}
