package tests

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/stretchr/testify/require"
	"github.com/trustful-labs/trustful-contract/common"
)

// releaseVersion returns version from the VERSION file in the same encoding
// as common.Version.
func releaseVersion(t *testing.T) int {
	data, err := os.ReadFile("../VERSION")
	require.NoError(t, err)

	parts := strings.Split(strings.TrimPrefix(strings.TrimSpace(string(data)), "v"), ".")
	require.Len(t, parts, 3, "VERSION must be 'vX.Y.Z'")

	res := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		require.NoError(t, err)
		require.Less(t, n, 1_000)

		res = res*1_000 + n
	}

	return res
}

func TestContractVersions(t *testing.T) {
	v := releaseVersion(t)
	require.Equal(t, v, common.Version, "VERSION file and common.Version differ")
	require.Less(t, common.MinUpdateVersion, common.Version)

	f := newFactory(t)
	scorerAddr, _ := f.createScorer(t, f.creator, newSalt(), "versioned")

	for _, tc := range []struct {
		name string
		inv  *neotest.ContractInvoker
	}{
		{"deployer", f.inv},
		{"scorerfactory", f.owner},
		{"scorer", f.e.NewInvoker(scorerAddr, f.creator)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.inv.Invoke(t, v, "version")
		})
	}
}
