package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistrationStatus_ForwardPath(t *testing.T) {
	tests := []struct {
		from    RegistrationStatus
		to      RegistrationStatus
		allowed bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusActive, false},
		{StatusPending, StatusCancelled, false},
		{StatusApproved, StatusActive, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusRejected, false},
		{StatusActive, StatusExpired, true},
		{StatusActive, StatusCancelled, true},
		{StatusActive, StatusApproved, false},
		{StatusRejected, StatusPending, false},
		{StatusExpired, StatusActive, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_to_"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestRegistrationStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestRegistrationStatus_Labels(t *testing.T) {
	for _, status := range AllStatuses() {
		assert.True(t, status.IsValid())
		assert.NotEqual(t, "نامشخص", status.Label())
		assert.NotEqual(t, "وضعیت نامشخص", status.Description())
	}

	unknown := RegistrationStatus("frozen")
	assert.False(t, unknown.IsValid())
	assert.Equal(t, "نامشخص", unknown.Label())
}
