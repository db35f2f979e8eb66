package payout

import (
	"sort"

	"marketplace/domain/order"
	"marketplace/domain/user"

	"github.com/shopspring/decimal"
)

// SummaryRow is what one artisan is owed across all qualifying orders.
type SummaryRow struct {
	ArtisanID   string
	ArtisanName string
	TotalSales  decimal.Decimal
	Commission  decimal.Decimal
	NetPayable  decimal.Decimal
	OrderCount  int
	OrderIDs    []string
	// PayoutInfo is nil when the artisan has no profile or no destination on file.
	PayoutInfo *user.PayoutInfo
}

// SummaryCalculator groups qualifying orders by artisan and applies the platform commission.
type SummaryCalculator struct {
	commissionRate decimal.Decimal
}

func NewSummaryCalculator(commissionRate decimal.Decimal) *SummaryCalculator {
	return &SummaryCalculator{commissionRate: commissionRate}
}

func (c *SummaryCalculator) CommissionRate() decimal.Decimal { return c.commissionRate }

// Compute is pure: the same orders and artisans always produce the same rows, sorted by artisan id.
// Orders that are not delivered or already paid out are skipped.
func (c *SummaryCalculator) Compute(orders []*order.Order, artisans map[string]*user.User) []SummaryRow {
	type acc struct {
		total    decimal.Decimal
		orderIDs []string
		seen     map[string]struct{}
	}
	groups := make(map[string]*acc)

	for _, o := range orders {
		if o.CanBePaidOut() != nil {
			continue
		}
		for _, item := range o.Items() {
			a, ok := groups[item.ArtisanID()]
			if !ok {
				a = &acc{total: decimal.Zero, seen: make(map[string]struct{})}
				groups[item.ArtisanID()] = a
			}
			a.total = a.total.Add(item.Subtotal())
			if _, dup := a.seen[o.ID()]; !dup {
				a.seen[o.ID()] = struct{}{}
				a.orderIDs = append(a.orderIDs, o.ID())
			}
		}
	}

	rows := make([]SummaryRow, 0, len(groups))
	for artisanID, a := range groups {
		total := a.total.Round(2)
		commission := total.Mul(c.commissionRate).Round(2)
		row := SummaryRow{
			ArtisanID:  artisanID,
			TotalSales: total,
			Commission: commission,
			NetPayable: total.Sub(commission),
			OrderCount: len(a.orderIDs),
			OrderIDs:   a.orderIDs,
		}
		if u, ok := artisans[artisanID]; ok && u != nil {
			row.ArtisanName = u.Name()
			info := u.PayoutInfo()
			if info.HasBankAccount() || info.UPIID != "" {
				row.PayoutInfo = &info
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ArtisanID < rows[j].ArtisanID })
	return rows
}
