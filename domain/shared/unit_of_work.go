package shared

import "context"

// UnitOfWork 管理事务边界与聚合事件收集。
// Execute 成功提交后，已注册聚合的事件会被分发到进程内事件总线。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

// UnitOfWorkFactory hands out one UnitOfWork per business operation; a UnitOfWork is not shared
// between goroutines.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
