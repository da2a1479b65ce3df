package plumbing_test

import (
	"testing"

	"github.com/lumenvcs/lumen/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHex(t *testing.T) {
	testCases := []struct {
		desc        string
		id          string
		expectError bool
	}{
		{desc: "valid oid works", id: "0eaf966ff79d8f61958aaefe163620d952606516"},
		{desc: "invalid char fails", id: "0eaf96 ff79d8f61958aaefe163620d952606516", expectError: true},
		{desc: "invalid size fails", id: "0eaf96ff79d8f61958aaefe163620d952606", expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			oid, err := plumbing.FromHex(tc.id)
			if tc.expectError {
				require.Error(t, err)
				assert.Equal(t, plumbing.NullOid, oid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.id, oid.String())
		})
	}
}

func TestFromContent(t *testing.T) {
	oid := plumbing.FromContent([]byte("123456789"))
	assert.Equal(t, "f7c3bc1d808e04732adf679965ccc34ca7ae3441", oid.String())
}

func TestShort(t *testing.T) {
	oid, err := plumbing.FromHex("0eaf966ff79d8f61958aaefe163620d952606516")
	require.NoError(t, err)
	assert.Equal(t, "0eaf966", oid.Short())
}

func TestIsZero(t *testing.T) {
	require.True(t, plumbing.NullOid.IsZero())

	oid, err := plumbing.FromHex("f7c3bc1d808e04732adf679965ccc34ca7ae3441")
	require.NoError(t, err)
	require.False(t, oid.IsZero())
}

func TestCompare(t *testing.T) {
	a, err := plumbing.FromHex("0000000000000000000000000000000000000001")
	require.NoError(t, err)
	b, err := plumbing.FromHex("0000000000000000000000000000000000000002")
	require.NoError(t, err)

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.Equal(t, 0, a.Compare(a))
}
