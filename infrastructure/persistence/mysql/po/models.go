package po

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{
		&UserPO{},
		&CategoryPO{},
		&ProductPO{},
		&OrderPO{},
		&OrderItemPO{},
		&OrderStatusHistoryPO{},
		&ReviewPO{},
		&PayoutPO{},
		&PayoutOrderPO{},
		&NotificationPO{},
		&OutboxEventPO{},
	}
}
