package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCertificateStatusValid(t *testing.T) {
	for _, s := range []CertificateStatus{CertificateStatusActive, CertificateStatusRevoked, CertificateStatusCorrected, CertificateStatusReplaced} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, CertificateStatus("").Valid())
	assert.False(t, CertificateStatus("pending").Valid())
}

func TestCertificateStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    CertificateStatus
		to      CertificateStatus
		allowed bool
	}{
		{CertificateStatusActive, CertificateStatusRevoked, true},
		{CertificateStatusActive, CertificateStatusCorrected, true},
		{CertificateStatusActive, CertificateStatusReplaced, true},
		{CertificateStatusCorrected, CertificateStatusRevoked, true},
		{CertificateStatusCorrected, CertificateStatusCorrected, true},
		{CertificateStatusCorrected, CertificateStatusReplaced, true},
		{CertificateStatusRevoked, CertificateStatusReplaced, true},
		{CertificateStatusRevoked, CertificateStatusActive, false},
		{CertificateStatusRevoked, CertificateStatusCorrected, false},
		{CertificateStatusReplaced, CertificateStatusActive, false},
		{CertificateStatusReplaced, CertificateStatusRevoked, false},
		{CertificateStatusReplaced, CertificateStatusCorrected, false},
		{CertificateStatusReplaced, CertificateStatusReplaced, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestCertificateStatusCorrectable(t *testing.T) {
	assert.True(t, CertificateStatusActive.Correctable())
	assert.True(t, CertificateStatusCorrected.Correctable())
	assert.False(t, CertificateStatusRevoked.Correctable())
	assert.False(t, CertificateStatusReplaced.Correctable())
}
