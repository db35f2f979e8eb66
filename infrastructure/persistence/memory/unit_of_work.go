package memory

import (
	"context"

	"marketplace/domain/shared"
	"marketplace/infrastructure/events"
	"marketplace/infrastructure/persistence/retry"
)

// UnitOfWork stages repository writes on the context and applies them together at commit.
// Events pulled from registered aggregates are dispatched only after a successful commit.
type UnitOfWork struct {
	store       *Store
	aggregates  []shared.AggregateRoot
	dispatcher  *events.Dispatcher
	retryConfig retry.Config
}

func NewUnitOfWork(store *Store, dispatcher *events.Dispatcher) *UnitOfWork {
	return &UnitOfWork{
		store:       store,
		aggregates:  make([]shared.AggregateRoot, 0),
		dispatcher:  dispatcher,
		retryConfig: retry.DefaultConfig,
	}
}

func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	var committed []shared.DomainEvent

	executeOnce := func(ctx context.Context) error {
		u.aggregates = make([]shared.AggregateRoot, 0)
		tx := &stagedTx{}

		if err := fn(withTx(ctx, tx)); err != nil {
			return err
		}

		var pending []shared.DomainEvent
		for _, agg := range u.aggregates {
			pending = append(pending, agg.PullEvents()...)
		}

		if err := u.store.commit(tx); err != nil {
			return err
		}
		committed = pending
		return nil
	}

	if err := retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce); err != nil {
		return err
	}
	u.dispatcher.Dispatch(ctx, committed)
	return nil
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

type UnitOfWorkFactory struct {
	store       *Store
	dispatcher  *events.Dispatcher
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(store *Store, dispatcher *events.Dispatcher, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, dispatcher: dispatcher, retryConfig: retryConfig}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.store, f.dispatcher)
	uow.SetRetryConfig(f.retryConfig)
	return uow
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
