package indexer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// ErrNotFound is returned by Store when the requested record is missing.
var ErrNotFound = errors.New("not found")

// ScorerRecord is a directory entry of the created Scorer.
type ScorerRecord struct {
	bun.BaseModel `bun:"table:scorers"`

	Address     string    `bun:"address,pk" json:"address"`
	Deployer    string    `bun:"deployer,notnull" json:"deployer"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description,notnull" json:"description"`
	Icon        string    `bun:"icon,notnull" json:"icon"`
	Block       uint32    `bun:"block,notnull" json:"block"`
	IndexedAt   time.Time `bun:"indexed_at,nullzero,notnull,default:current_timestamp" json:"indexedAt"`
}

// ManagerRecord is a factory manager.
type ManagerRecord struct {
	bun.BaseModel `bun:"table:managers"`

	Address string `bun:"address,pk"`
}

type cursorRecord struct {
	bun.BaseModel `bun:"table:cursor"`

	ID    int    `bun:"id,pk"`
	Block uint32 `bun:"block,notnull"`
}

// Store is an SQL database of the indexed directory. PostgreSQL is used for
// 'postgres://' DSNs, SQLite otherwise.
type Store struct {
	db *bun.DB
}

// OpenStore connects to the database referenced by dsn and creates missing
// tables.
func OpenStore(ctx context.Context, dsn string) (*Store, error) {
	var db *bun.DB

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqldb, pgdialect.New())
	} else {
		sqldb, err := sqliteshim.Open(dsn)
		if err != nil {
			return nil, fmt.Errorf("open SQLite database: %w", err)
		}
		// SQLite allows single writer
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	s := &Store{db: db}

	err := s.createTables(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) createTables(ctx context.Context) error {
	for _, m := range []any{(*ScorerRecord)(nil), (*ManagerRecord)(nil), (*cursorRecord)(nil)} {
		_, err := s.db.NewCreateTable().Model(m).IfNotExists().Exec(ctx)
		if err != nil {
			return fmt.Errorf("create table for %T: %w", m, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Change is a single directory modification.
type Change struct {
	// Scorer to be put into the directory.
	Put *ScorerRecord
	// Scorer to be removed from the directory.
	Remove *util.Uint160
	// Manager to be added.
	AddManager *util.Uint160
	// Manager to be removed.
	RemoveManager *util.Uint160
}

// ApplyBlock applies changes from the block with the given index and moves
// the cursor to the next block atomically.
func (s *Store) ApplyBlock(ctx context.Context, block uint32, changes []Change) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for i := range changes {
			var err error

			switch c := changes[i]; {
			case c.Put != nil:
				_, err = tx.NewInsert().Model(c.Put).
					On("CONFLICT (address) DO UPDATE").
					Set("deployer = EXCLUDED.deployer").
					Set("name = EXCLUDED.name").
					Set("description = EXCLUDED.description").
					Set("icon = EXCLUDED.icon").
					Set("block = EXCLUDED.block").
					Exec(ctx)
			case c.Remove != nil:
				_, err = tx.NewDelete().Model((*ScorerRecord)(nil)).
					Where("address = ?", c.Remove.StringLE()).
					Exec(ctx)
			case c.AddManager != nil:
				_, err = tx.NewInsert().Model(&ManagerRecord{Address: c.AddManager.StringLE()}).
					On("CONFLICT (address) DO NOTHING").
					Exec(ctx)
			case c.RemoveManager != nil:
				_, err = tx.NewDelete().Model((*ManagerRecord)(nil)).
					Where("address = ?", c.RemoveManager.StringLE()).
					Exec(ctx)
			}
			if err != nil {
				return fmt.Errorf("apply change #%d: %w", i, err)
			}
		}

		_, err := tx.NewInsert().Model(&cursorRecord{ID: 1, Block: block + 1}).
			On("CONFLICT (id) DO UPDATE").
			Set("block = EXCLUDED.block").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("move cursor: %w", err)
		}

		return nil
	})
}

// NextBlock returns index of the next block to be processed. It returns
// ErrNotFound if nothing has been processed yet.
func (s *Store) NextBlock(ctx context.Context) (uint32, error) {
	var c cursorRecord

	err := s.db.NewSelect().Model(&c).Where("id = ?", 1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("select cursor: %w", err)
	}

	return c.Block, nil
}

// Scorers returns all directory entries ordered by address.
func (s *Store) Scorers(ctx context.Context) ([]ScorerRecord, error) {
	var res []ScorerRecord

	err := s.db.NewSelect().Model(&res).Order("address ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select scorers: %w", err)
	}

	return res, nil
}

// Scorer returns directory entry of the Scorer with the given address.
func (s *Store) Scorer(ctx context.Context, addr util.Uint160) (*ScorerRecord, error) {
	var res ScorerRecord

	err := s.db.NewSelect().Model(&res).Where("address = ?", addr.StringLE()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select scorer: %w", err)
	}

	return &res, nil
}

// Managers returns current factory managers.
func (s *Store) Managers(ctx context.Context) ([]util.Uint160, error) {
	var rs []ManagerRecord

	err := s.db.NewSelect().Model(&rs).Order("address ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select managers: %w", err)
	}

	res := make([]util.Uint160, len(rs))
	for i := range rs {
		res[i], err = util.Uint160DecodeStringLE(rs[i].Address)
		if err != nil {
			return nil, fmt.Errorf("decode manager #%d: %w", i, err)
		}
	}

	return res, nil
}

// Ping checks database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
