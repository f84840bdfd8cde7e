package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlankStatusValid(t *testing.T) {
	for _, s := range []BlankStatus{BlankStatusInStock, BlankStatusAssigned, BlankStatusUsed, BlankStatusDamaged, BlankStatusDestroyed} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, BlankStatus("").Valid())
	assert.False(t, BlankStatus("lost").Valid())
}

func TestBlankStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    BlankStatus
		to      BlankStatus
		allowed bool
	}{
		{BlankStatusInStock, BlankStatusAssigned, true},
		{BlankStatusInStock, BlankStatusDamaged, true},
		{BlankStatusInStock, BlankStatusDestroyed, true},
		{BlankStatusInStock, BlankStatusUsed, false},
		{BlankStatusAssigned, BlankStatusUsed, true},
		{BlankStatusAssigned, BlankStatusDamaged, true},
		{BlankStatusAssigned, BlankStatusDestroyed, true},
		{BlankStatusAssigned, BlankStatusInStock, false},
		{BlankStatusDamaged, BlankStatusDestroyed, true},
		{BlankStatusDamaged, BlankStatusInStock, false},
		{BlankStatusDamaged, BlankStatusUsed, false},
		{BlankStatusUsed, BlankStatusDestroyed, false},
		{BlankStatusUsed, BlankStatusInStock, false},
		{BlankStatusDestroyed, BlankStatusInStock, false},
		{BlankStatusDestroyed, BlankStatusDamaged, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}
