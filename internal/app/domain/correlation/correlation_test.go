package correlation

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"zapata/internal/app/ports"
)

func TestStore_BannerRoundTrip(t *testing.T) {
	s := New()

	s.RecordBanner(100, 42)
	userID, ok := s.ResolveBanner(100)
	require.True(t, ok)
	assert.Equal(t, int64(42), userID)

	s.RetireBanner(100)
	_, ok = s.ResolveBanner(100)
	assert.False(t, ok)
	assert.Zero(t, s.OpenBanners())
}

func TestStore_ManyBannersPerUser(t *testing.T) {
	s := New()

	s.RecordBanner(1, 42)
	s.RecordBanner(2, 42)
	s.RecordBanner(3, 7)
	assert.Equal(t, 3, s.OpenBanners())

	s.RetireBanner(1)
	userID, ok := s.ResolveBanner(2)
	require.True(t, ok)
	assert.Equal(t, int64(42), userID)

	// retiring an unknown banner is harmless
	s.RetireBanner(999)
	assert.Equal(t, 2, s.OpenBanners())
}

func TestStore_Identity(t *testing.T) {
	s := New()

	_, ok := s.LookupIdentity(42)
	assert.False(t, ok)

	s.RememberIdentity(42, ports.Identity{Username: "alice", DisplayName: "Alice A"})
	s.RememberIdentity(42, ports.Identity{DisplayName: "Alice B"})

	info, ok := s.LookupIdentity(42)
	require.True(t, ok)
	assert.Equal(t, ports.Identity{DisplayName: "Alice B"}, info)
}
