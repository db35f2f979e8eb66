/*
Package memory is the in-process store used when database.type=memory and by the test suites.

Repositories keep copies of aggregate state (reconstruction DTOs), never the aggregates themselves,
so version checks behave like the SQL store. Writes made inside UnitOfWork.Execute are staged on
the context and applied together under one lock at commit; reads see committed state only.
*/
package memory

import (
	"context"
	"sync"

	"marketplace/domain/order"
	"marketplace/domain/payout"
	"marketplace/domain/product"
	"marketplace/domain/review"
	"marketplace/domain/user"
)

// Store holds every table of the in-memory backend.
type Store struct {
	mu sync.RWMutex

	users         map[string]user.ReconstructionDTO
	products      map[string]product.ReconstructionDTO
	categories    map[string]categoryRow
	orders        map[string]order.ReconstructionDTO
	reviews       map[string]review.ReconstructionDTO
	payouts       map[string]payout.ReconstructionDTO
	notifications map[string]notificationRow

	seq int64
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]user.ReconstructionDTO),
		products:      make(map[string]product.ReconstructionDTO),
		categories:    make(map[string]categoryRow),
		orders:        make(map[string]order.ReconstructionDTO),
		reviews:       make(map[string]review.ReconstructionDTO),
		payouts:       make(map[string]payout.ReconstructionDTO),
		notifications: make(map[string]notificationRow),
	}
}

// nextSeq orders rows by insertion; callers hold the write lock.
func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// op applies one write and returns how to undo it.
type op func(s *Store) (undo func(), err error)

type stagedTx struct {
	ops []op
}

type txKey struct{}

func withTx(ctx context.Context, tx *stagedTx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) *stagedTx {
	tx, _ := ctx.Value(txKey{}).(*stagedTx)
	return tx
}

// write stages o when ctx carries a transaction, otherwise applies it immediately.
func (s *Store) write(ctx context.Context, o op) error {
	if tx := txFrom(ctx); tx != nil {
		tx.ops = append(tx.ops, o)
		return nil
	}
	return s.commit(&stagedTx{ops: []op{o}})
}

// commit applies every staged op under one lock. The first failure undoes the ops already applied.
func (s *Store) commit(tx *stagedTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	undos := make([]func(), 0, len(tx.ops))
	for _, o := range tx.ops {
		undo, err := o(s)
		if err != nil {
			for i := len(undos) - 1; i >= 0; i-- {
				undos[i]()
			}
			return err
		}
		if undo != nil {
			undos = append(undos, undo)
		}
	}
	return nil
}

// Ping always succeeds; it lets the health check treat both backends alike.
func (s *Store) Ping(context.Context) error { return nil }
