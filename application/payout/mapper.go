package payout

import (
	"marketplace/domain/payout"
)

func toSummaryRows(rows []payout.SummaryRow) []SummaryRow {
	out := make([]SummaryRow, len(rows))
	for i, row := range rows {
		out[i] = SummaryRow{
			ArtisanID:   row.ArtisanID,
			ArtisanName: row.ArtisanName,
			TotalSales:  row.TotalSales,
			Commission:  row.Commission,
			NetPayable:  row.NetPayable,
			OrderCount:  row.OrderCount,
			OrderIDs:    row.OrderIDs,
		}
		if info := row.PayoutInfo; info != nil {
			out[i].PayoutInfo = &PayoutInfoResponse{
				AccountHolderName: info.AccountHolderName,
				AccountNumber:     info.AccountNumber,
				BankName:          info.BankName,
				IFSCCode:          info.IFSCCode,
				UPIID:             info.UPIID,
			}
		}
	}
	return out
}

func toPayoutResponse(p *payout.Payout) *PayoutResponse {
	return &PayoutResponse{
		ID:                   p.ID(),
		AdminID:              p.AdminID(),
		ArtisanID:            p.ArtisanID(),
		OrderIDs:             p.OrderIDs(),
		Amount:               p.Amount(),
		Currency:             p.Currency(),
		Status:               string(p.Status()),
		TransactionReference: p.TransactionReference(),
		CreatedAt:            p.CreatedAt(),
	}
}
