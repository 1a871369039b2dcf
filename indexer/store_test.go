package indexer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	s, err := OpenStore(context.Background(), "file:"+filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func randomScorer(block uint32) *ScorerRecord {
	var addr, deployer util.Uint160
	copy(addr[:], []byte(gofakeit.LetterN(util.Uint160Size)))
	copy(deployer[:], []byte(gofakeit.LetterN(util.Uint160Size)))

	return &ScorerRecord{
		Address:     addr.StringLE(),
		Deployer:    deployer.StringLE(),
		Name:        gofakeit.Company(),
		Description: gofakeit.Sentence(8),
		Icon:        gofakeit.URL(),
		Block:       block,
	}
}

var ignoreIndexedAt = cmpopts.IgnoreFields(ScorerRecord{}, "BaseModel", "IndexedAt")

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.NextBlock(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	scorers, err := s.Scorers(ctx)
	require.NoError(t, err)
	require.Empty(t, scorers)

	a, b := randomScorer(3), randomScorer(3)
	manager := util.Uint160{1, 2, 3}

	require.NoError(t, s.ApplyBlock(ctx, 3, []Change{{Put: a}, {Put: b}, {AddManager: &manager}}))

	next, err := s.NextBlock(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, next)

	addrA, err := util.Uint160DecodeStringLE(a.Address)
	require.NoError(t, err)

	got, err := s.Scorer(ctx, addrA)
	require.NoError(t, err)
	if diff := cmp.Diff(a, got, ignoreIndexedAt); diff != "" {
		t.Fatalf("unexpected scorer (-want +got):\n%s", diff)
	}
	require.False(t, got.IndexedAt.IsZero())

	managers, err := s.Managers(ctx)
	require.NoError(t, err)
	require.Equal(t, []util.Uint160{manager}, managers)

	t.Run("repeated manager", func(t *testing.T) {
		require.NoError(t, s.ApplyBlock(ctx, 4, []Change{{AddManager: &manager}}))

		managers, err := s.Managers(ctx)
		require.NoError(t, err)
		require.Len(t, managers, 1)
	})

	t.Run("overwrite", func(t *testing.T) {
		upd := *a
		upd.Name = gofakeit.Company()
		upd.Block = 5

		require.NoError(t, s.ApplyBlock(ctx, 5, []Change{{Put: &upd}}))

		got, err := s.Scorer(ctx, addrA)
		require.NoError(t, err)
		require.Equal(t, upd.Name, got.Name)
		require.EqualValues(t, 5, got.Block)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.ApplyBlock(ctx, 6, []Change{{Remove: &addrA}, {RemoveManager: &manager}}))

		_, err := s.Scorer(ctx, addrA)
		require.ErrorIs(t, err, ErrNotFound)

		scorers, err := s.Scorers(ctx)
		require.NoError(t, err)
		require.Len(t, scorers, 1)
		require.Equal(t, b.Address, scorers[0].Address)

		managers, err := s.Managers(ctx)
		require.NoError(t, err)
		require.Empty(t, managers)

		next, err := s.NextBlock(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 7, next)
	})

	require.NoError(t, s.Ping(ctx))
}
