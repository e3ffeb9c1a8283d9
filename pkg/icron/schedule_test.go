package icron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTriggerInfo_Every(t *testing.T) {
	ref := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	info, err := GetTriggerInfo("@every 1h", ref)
	require.NoError(t, err)
	assert.Equal(t, ref.Add(time.Hour), info.Next)
	assert.Equal(t, time.Hour, info.TimeUntilNext)
}

func TestGetTriggerInfo_Standard(t *testing.T) {
	ref := time.Date(2026, 1, 2, 12, 30, 0, 0, time.UTC)

	info, err := GetTriggerInfo("0 * * * *", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 13, 0, 0, 0, time.UTC), info.Next)
}

func TestGetTriggerInfo_Invalid(t *testing.T) {
	_, err := GetTriggerInfo("not a cron", time.Now())
	require.Error(t, err)
}
