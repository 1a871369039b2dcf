package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/nspcc-dev/neo-go/pkg/core/block"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/trustful-labs/trustful-contract/rpc/scorerfactory"
	"go.uber.org/zap"
)

// Blockchain groups services of Neo blockchain network the Indexer reads.
type Blockchain interface {
	GetBlockCount() (uint32, error)
	GetBlockByIndex(uint32) (*block.Block, error)
	GetApplicationLog(util.Uint256, *trigger.Type) (*result.ApplicationLog, error)
}

// Prm groups parameters of the Indexer.
type Prm struct {
	Logger     *zap.Logger
	Blockchain Blockchain
	Store      *Store
	Publisher  message.Publisher

	// ScorerFactory contract address.
	Factory util.Uint160

	// Block to start from if the Store is empty.
	StartBlock uint32

	// Delay between polling rounds when there are no new blocks.
	PollInterval time.Duration

	// Metrics are registered here if set.
	Registerer prometheus.Registerer
}

// Indexer keeps the Store in sync with the ScorerFactory notifications.
type Indexer struct {
	log     *zap.Logger
	bc      Blockchain
	store   *Store
	pub     message.Publisher
	factory util.Uint160
	start   uint32
	poll    time.Duration
	metrics *metrics
}

// New constructs Indexer from the given parameters.
func New(prm Prm) *Indexer {
	reg := prm.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Indexer{
		log:     prm.Logger,
		bc:      prm.Blockchain,
		store:   prm.Store,
		pub:     prm.Publisher,
		factory: prm.Factory,
		start:   prm.StartBlock,
		poll:    prm.PollInterval,
		metrics: newMetrics(reg),
	}
}

type pending struct {
	topic string
	msg   Message
}

// handleLog converts factory notifications from the application log of the
// transaction included in the given block into Store changes and messages.
func (x *Indexer) handleLog(blockIndex uint32, log *result.ApplicationLog) ([]Change, []pending, error) {
	evs, err := scorerfactory.EventsFromApplicationLog(log, x.factory)
	if err != nil {
		return nil, nil, fmt.Errorf("decode factory events: %w", err)
	}

	var (
		changes []Change
		msgs    []pending
		base    = Message{
			Factory: x.factory.StringLE(),
			Block:   blockIndex,
			Tx:      log.Container.StringLE(),
		}
	)

	for _, ev := range evs {
		m := base

		switch e := ev.(type) {
		case *scorerfactory.FactoryInitializedEvent:
			creator := e.Creator
			changes = append(changes, Change{AddManager: &creator})
			m.Caller, m.Manager, m.Action = creator.StringLE(), creator.StringLE(), "add"
			msgs = append(msgs, pending{TopicManagerChanged, m})
			x.metrics.events.WithLabelValues("FactoryInitialized").Inc()
		case *scorerfactory.ScorerCreatedEvent:
			changes = append(changes, Change{Put: &ScorerRecord{
				Address:     e.Scorer.StringLE(),
				Deployer:    e.Deployer.StringLE(),
				Name:        e.Metadata.Name,
				Description: e.Metadata.Description,
				Icon:        e.Metadata.Icon,
				Block:       blockIndex,
			}})
			m.Caller, m.Scorer = e.Deployer.StringLE(), e.Scorer.StringLE()
			m.Name, m.Description, m.Icon = e.Metadata.Name, e.Metadata.Description, e.Metadata.Icon
			msgs = append(msgs, pending{TopicScorerCreated, m})
			x.metrics.events.WithLabelValues("ScorerCreated").Inc()

			x.log.Info("scorer created", zap.Stringer("scorer", e.Scorer), zap.String("name", e.Metadata.Name))
		case *scorerfactory.ScorerRemovedEvent:
			scorer := e.Scorer
			changes = append(changes, Change{Remove: &scorer})
			m.Caller, m.Scorer = e.Caller.StringLE(), e.Scorer.StringLE()
			m.Name, m.Description, m.Icon = e.Metadata.Name, e.Metadata.Description, e.Metadata.Icon
			msgs = append(msgs, pending{TopicScorerRemoved, m})
			x.metrics.events.WithLabelValues("ScorerRemoved").Inc()

			x.log.Info("scorer removed", zap.Stringer("scorer", e.Scorer))
		case *scorerfactory.ManagerChangedEvent:
			manager := e.Manager
			switch e.Action {
			case "add":
				changes = append(changes, Change{AddManager: &manager})
			case "remove":
				changes = append(changes, Change{RemoveManager: &manager})
			default:
				return nil, nil, fmt.Errorf("unknown manager action '%s'", e.Action)
			}
			m.Caller, m.Manager, m.Action = e.Caller.StringLE(), e.Manager.StringLE(), e.Action
			msgs = append(msgs, pending{TopicManagerChanged, m})
			x.metrics.events.WithLabelValues("ManagerChanged").Inc()

			x.log.Info("factory manager changed", zap.Stringer("manager", e.Manager), zap.String("action", e.Action))
		}
	}

	return changes, msgs, nil
}

// ProcessBlock indexes the block with the given index.
func (x *Indexer) ProcessBlock(ctx context.Context, index uint32) error {
	b, err := x.bc.GetBlockByIndex(index)
	if err != nil {
		return fmt.Errorf("get block #%d: %w", index, err)
	}

	var (
		changes []Change
		msgs    []pending
	)

	for _, tx := range b.Transactions {
		log, err := x.bc.GetApplicationLog(tx.Hash(), nil)
		if err != nil {
			return fmt.Errorf("get application log of transaction %s: %w", tx.Hash().StringLE(), err)
		}

		cs, ms, err := x.handleLog(index, log)
		if err != nil {
			return fmt.Errorf("handle transaction %s: %w", tx.Hash().StringLE(), err)
		}

		changes = append(changes, cs...)
		msgs = append(msgs, ms...)
	}

	err = x.store.ApplyBlock(ctx, index, changes)
	if err != nil {
		return fmt.Errorf("store block #%d: %w", index, err)
	}

	x.metrics.blocks.Inc()
	x.metrics.height.Set(float64(index + 1))
	x.log.Debug("block processed", zap.Uint32("index", index), zap.Int("changes", len(changes)))

	for i := range msgs {
		err = publish(x.pub, msgs[i].topic, msgs[i].msg)
		if err != nil {
			// best effort, the directory is already updated
			x.log.Error("failed to publish message", zap.String("topic", msgs[i].topic), zap.Error(err))
		}
	}

	return nil
}

// CatchUp processes all blocks persisted after the last processed one.
func (x *Indexer) CatchUp(ctx context.Context) error {
	next, err := x.store.NextBlock(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		next = x.start
	}

	count, err := x.bc.GetBlockCount()
	if err != nil {
		return fmt.Errorf("get block count: %w", err)
	}

	for ; next < count; next++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err = x.ProcessBlock(ctx, next)
		if err != nil {
			return err
		}
	}

	return nil
}

// Run polls the blockchain until the context is done. Failed rounds are
// retried after the poll interval.
func (x *Indexer) Run(ctx context.Context) error {
	t := time.NewTicker(x.poll)
	defer t.Stop()

	for {
		err := x.CatchUp(ctx)
		if err != nil && ctx.Err() == nil {
			x.metrics.errors.Inc()
			x.log.Error("indexing round failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
