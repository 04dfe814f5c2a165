package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tavernshift/backend/internal/domain"
)

func TestDecodeInviteLink(t *testing.T) {
	expiresAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(&domain.InviteLink{Token: "abc", OrganizationID: 1, ExpiresAt: expiresAt})
	require.NoError(t, err)

	link, err := decodeInviteLink(data, expiresAt.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), link.OrganizationID)
	assert.Equal(t, "abc", link.Token)

	_, err = decodeInviteLink(data, expiresAt)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = decodeInviteLink(data, expiresAt.Add(time.Hour))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecodeInviteLink_Malformed(t *testing.T) {
	_, err := decodeInviteLink([]byte("not json"), time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
