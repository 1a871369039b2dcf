package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/nspcc-dev/neo-go/pkg/core/block"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

// fakeChain serves blocks each containing single transaction with the given
// notifications. Transactions of blocks listed in faulted end in FAULT state.
type fakeChain struct {
	blocks  [][]state.NotificationEvent
	faulted map[uint32]bool
}

func (c *fakeChain) GetBlockCount() (uint32, error) {
	return uint32(len(c.blocks)), nil
}

func (c *fakeChain) GetBlockByIndex(i uint32) (*block.Block, error) {
	if int(i) >= len(c.blocks) {
		return nil, errors.New("unknown block")
	}

	tx := transaction.New([]byte{byte(i)}, 0)
	tx.Nonce = i

	b := new(block.Block)
	b.Index = i
	b.Transactions = []*transaction.Transaction{tx}

	return b, nil
}

func (c *fakeChain) GetApplicationLog(h util.Uint256, _ *trigger.Type) (*result.ApplicationLog, error) {
	for i := range c.blocks {
		b, _ := c.GetBlockByIndex(uint32(i))
		if b.Transactions[0].Hash().Equals(h) {
			vmState := vmstate.Halt
			if c.faulted[uint32(i)] {
				vmState = vmstate.Fault
			}

			return &result.ApplicationLog{
				Container: h,
				Executions: []state.Execution{{
					Trigger: trigger.Application,
					VMState: vmState,
					Events:  c.blocks[i],
				}},
			}, nil
		}
	}
	return nil, errors.New("unknown transaction")
}

func hashItem(h util.Uint160) stackitem.Item {
	return stackitem.NewByteArray(h.BytesBE())
}

func notification(contract util.Uint160, name string, items ...stackitem.Item) state.NotificationEvent {
	return state.NotificationEvent{ScriptHash: contract, Name: name, Item: stackitem.NewArray(items)}
}

type fixture struct {
	factory, creator, manager, scorerA, scorerB util.Uint160
	nameA, nameB                                string
}

func newFixture() fixture {
	return fixture{
		factory: util.Uint160{0xf},
		creator: util.Uint160{1},
		manager: util.Uint160{2},
		scorerA: util.Uint160{0xa},
		scorerB: util.Uint160{0xb},
		nameA:   gofakeit.Company(),
		nameB:   gofakeit.Company(),
	}
}

func (f fixture) chain() *fakeChain {
	created := func(scorer util.Uint160, name string) state.NotificationEvent {
		return notification(f.factory, "ScorerCreated", hashItem(f.creator), hashItem(scorer),
			stackitem.Make(name), stackitem.Make("description"), stackitem.Make("icon"))
	}

	return &fakeChain{blocks: [][]state.NotificationEvent{
		{},
		{notification(f.factory, "FactoryInitialized", hashItem(f.creator), stackitem.NewByteArray(make([]byte, 32)))},
		{
			notification(f.factory, "ManagerChanged", hashItem(f.creator), hashItem(f.manager), stackitem.Make("add")),
			created(f.scorerA, f.nameA),
			// other contracts are ignored
			notification(util.Uint160{0xe}, "ScorerCreated", hashItem(f.creator), hashItem(util.Uint160{0xe}),
				stackitem.Make("x"), stackitem.Make("y"), stackitem.Make("z")),
		},
		{
			created(f.scorerB, f.nameB),
			notification(f.factory, "ScorerRemoved", hashItem(f.manager), hashItem(f.scorerA),
				stackitem.Make(f.nameA), stackitem.Make("description"), stackitem.Make("icon")),
			notification(f.factory, "PolicyChanged", hashItem(f.creator), stackitem.Make(true), stackitem.Make(false)),
		},
	}}
}

func newTestIndexer(t *testing.T, bc Blockchain, s *Store, pub message.Publisher, factory util.Uint160) (*Indexer, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return New(Prm{
		Logger:       zaptest.NewLogger(t),
		Blockchain:   bc,
		Store:        s,
		Publisher:    pub,
		Factory:      factory,
		PollInterval: 10 * time.Millisecond,
		Registerer:   reg,
	}), reg
}

func TestIndexer(t *testing.T) {
	f := newFixture()
	s := newTestStore(t)
	ctx := context.Background()

	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, NewLoggerAdapter(zaptest.NewLogger(t)))
	t.Cleanup(func() { _ = pubSub.Close() })

	created, err := pubSub.Subscribe(ctx, TopicScorerCreated)
	require.NoError(t, err)
	removed, err := pubSub.Subscribe(ctx, TopicScorerRemoved)
	require.NoError(t, err)

	x, _ := newTestIndexer(t, f.chain(), s, pubSub, f.factory)

	require.NoError(t, x.CatchUp(ctx))

	scorers, err := s.Scorers(ctx)
	require.NoError(t, err)
	require.Len(t, scorers, 1)
	require.Equal(t, f.scorerB.StringLE(), scorers[0].Address)
	require.Equal(t, f.nameB, scorers[0].Name)
	require.Equal(t, f.creator.StringLE(), scorers[0].Deployer)
	require.EqualValues(t, 3, scorers[0].Block)

	managers, err := s.Managers(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []util.Uint160{f.creator, f.manager}, managers)

	next, err := s.NextBlock(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, next)

	readMessage := func(ch <-chan *message.Message) Message {
		select {
		case msg := <-ch:
			msg.Ack()
			var m Message
			require.NoError(t, json.Unmarshal(msg.Payload, &m))
			return m
		case <-time.After(time.Second):
			t.Fatal("missing message")
			return Message{}
		}
	}

	m := readMessage(created)
	require.Equal(t, f.scorerA.StringLE(), m.Scorer)
	require.Equal(t, f.nameA, m.Name)
	require.EqualValues(t, 2, m.Block)

	m = readMessage(created)
	require.Equal(t, f.scorerB.StringLE(), m.Scorer)

	m = readMessage(removed)
	require.Equal(t, f.scorerA.StringLE(), m.Scorer)
	require.Equal(t, f.manager.StringLE(), m.Caller)

	t.Run("nothing new", func(t *testing.T) {
		require.NoError(t, x.CatchUp(ctx))

		next, err := s.NextBlock(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 4, next)
	})
}

func TestIndexerStartBlock(t *testing.T) {
	f := newFixture()
	s := newTestStore(t)

	pub, err := NewPublisher("", NewLoggerAdapter(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Close() })

	x := New(Prm{
		Logger:     zaptest.NewLogger(t),
		Blockchain: f.chain(),
		Store:      s,
		Publisher:  pub,
		Factory:    f.factory,
		StartBlock: 3,
	})

	require.NoError(t, x.CatchUp(context.Background()))

	managers, err := s.Managers(context.Background())
	require.NoError(t, err)
	require.Empty(t, managers, "blocks before the start one must be skipped")
}

func TestIndexerInvalidEvent(t *testing.T) {
	f := newFixture()
	s := newTestStore(t)

	pub, err := NewPublisher("", NewLoggerAdapter(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Close() })

	bc := &fakeChain{blocks: [][]state.NotificationEvent{{
		notification(f.factory, "ManagerChanged", hashItem(f.creator), hashItem(f.manager), stackitem.Make("replace")),
	}}}

	x, _ := newTestIndexer(t, bc, s, pub, f.factory)

	require.ErrorContains(t, x.CatchUp(context.Background()), "unknown manager action")

	_, err = s.NextBlock(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIndexerRun(t *testing.T) {
	f := newFixture()
	s := newTestStore(t)

	pub, err := NewPublisher("", NewLoggerAdapter(zaptest.NewLogger(t)))
	require.NoError(t, err)

	x, _ := newTestIndexer(t, f.chain(), s, pub, f.factory)

	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- x.Run(ctx) }()

	require.Eventually(t, func() bool {
		next, err := s.NextBlock(context.Background())
		return err == nil && next == 4
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.NoError(t, pub.Close())
}

func TestAPI(t *testing.T) {
	f := newFixture()
	s := newTestStore(t)

	pub, err := NewPublisher("", NewLoggerAdapter(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Close() })

	x, reg := newTestIndexer(t, f.chain(), s, pub, f.factory)
	require.NoError(t, x.CatchUp(context.Background()))

	srv := httptest.NewServer(NewAPI(s, reg))
	t.Cleanup(srv.Close)

	get := func(path string) *http.Response {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	t.Run("list", func(t *testing.T) {
		resp := get("/scorers")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var res []ScorerRecord
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		require.Len(t, res, 1)
		require.Equal(t, f.nameB, res[0].Name)
	})

	t.Run("by address", func(t *testing.T) {
		for _, s := range []string{f.scorerB.StringLE(), address.Uint160ToString(f.scorerB)} {
			resp := get("/scorers/" + s)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var res ScorerRecord
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
			require.Equal(t, f.scorerB.StringLE(), res.Address)
		}
	})

	t.Run("removed", func(t *testing.T) {
		require.Equal(t, http.StatusNotFound, get("/scorers/"+f.scorerA.StringLE()).StatusCode)
	})

	t.Run("invalid address", func(t *testing.T) {
		require.Equal(t, http.StatusBadRequest, get("/scorers/not-an-address").StatusCode)
	})

	t.Run("health", func(t *testing.T) {
		require.Equal(t, http.StatusOK, get("/healthz").StatusCode)
	})

	t.Run("metrics", func(t *testing.T) {
		resp := get("/metrics")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		families, err := reg.Gather()
		require.NoError(t, err)

		var found bool
		for _, mf := range families {
			if mf.GetName() == metricsNamespace+"_blocks_processed_total" {
				found = true
				require.EqualValues(t, 4, mf.GetMetric()[0].GetCounter().GetValue())
			}
		}
		require.True(t, found)
	})
}

func TestIndexerFaultedTransactions(t *testing.T) {
	f := newFixture()
	s := newTestStore(t)
	ctx := context.Background()

	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, NewLoggerAdapter(zaptest.NewLogger(t)))
	t.Cleanup(func() { _ = pubSub.Close() })

	created, err := pubSub.Subscribe(ctx, TopicScorerCreated)
	require.NoError(t, err)
	removed, err := pubSub.Subscribe(ctx, TopicScorerRemoved)
	require.NoError(t, err)

	bc := &fakeChain{
		blocks: [][]state.NotificationEvent{
			{notification(f.factory, "ScorerCreated", hashItem(f.creator), hashItem(f.scorerA),
				stackitem.Make(f.nameA), stackitem.Make("description"), stackitem.Make("icon"))},
			{
				notification(f.factory, "ScorerCreated", hashItem(f.creator), hashItem(f.scorerB),
					stackitem.Make(f.nameB), stackitem.Make("description"), stackitem.Make("icon")),
				notification(f.factory, "ScorerRemoved", hashItem(f.manager), hashItem(f.scorerA),
					stackitem.Make(f.nameA), stackitem.Make("description"), stackitem.Make("icon")),
				notification(f.factory, "ManagerChanged", hashItem(f.creator), hashItem(f.manager), stackitem.Make("add")),
			},
		},
		faulted: map[uint32]bool{1: true},
	}

	x, _ := newTestIndexer(t, bc, s, pubSub, f.factory)
	require.NoError(t, x.CatchUp(ctx))

	scorers, err := s.Scorers(ctx)
	require.NoError(t, err)
	require.Len(t, scorers, 1)
	require.Equal(t, f.scorerA.StringLE(), scorers[0].Address)

	managers, err := s.Managers(ctx)
	require.NoError(t, err)
	require.Empty(t, managers)

	next, err := s.NextBlock(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, next)

	select {
	case msg := <-created:
		msg.Ack()
		var m Message
		require.NoError(t, json.Unmarshal(msg.Payload, &m))
		require.Equal(t, f.scorerA.StringLE(), m.Scorer)
	case <-time.After(time.Second):
		t.Fatal("missing message")
	}

	select {
	case msg := <-created:
		t.Fatalf("unexpected message %s", msg.Payload)
	case msg := <-removed:
		t.Fatalf("unexpected message %s", msg.Payload)
	case <-time.After(100 * time.Millisecond):
	}
}
