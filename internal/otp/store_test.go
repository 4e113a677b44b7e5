package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueProducesSixDigitCode(t *testing.T) {
	store := NewStore(DefaultTTL)

	code, err := store.Issue("9876543210")
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestVerifyConsumesCode(t *testing.T) {
	store := NewStore(DefaultTTL)

	code, err := store.Issue("9876543210")
	require.NoError(t, err)

	assert.False(t, store.Verify("9876543210", "000000"))
	assert.True(t, store.Verify("9876543210", code))
	assert.False(t, store.Verify("9876543210", code), "single use")
}

func TestReissueReplacesCode(t *testing.T) {
	store := NewStore(DefaultTTL)

	first, err := store.Issue("9876543210")
	require.NoError(t, err)
	second, err := store.Issue("9876543210")
	require.NoError(t, err)

	if first != second {
		assert.False(t, store.Verify("9876543210", first))
	}
	assert.True(t, store.Verify("9876543210", second))
}

func TestExpiredCodeIsRejected(t *testing.T) {
	store := NewStore(DefaultTTL)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	code, err := store.Issue("9876543210")
	require.NoError(t, err)

	current = current.Add(DefaultTTL + time.Second)
	assert.False(t, store.Verify("9876543210", code))
}

func TestPruneDropsOnlyExpiredEntries(t *testing.T) {
	store := NewStore(DefaultTTL)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	_, err := store.Issue("9876543210")
	require.NoError(t, err)
	current = current.Add(DefaultTTL + time.Minute)
	fresh, err := store.Issue("9123456789")
	require.NoError(t, err)

	assert.Equal(t, 1, store.Prune())
	assert.True(t, store.Verify("9123456789", fresh))
}
