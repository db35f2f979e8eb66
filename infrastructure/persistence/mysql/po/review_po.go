package po

import (
	"time"

	"marketplace/domain/review"
)

// ReviewPO carries the one-review-per-user-per-product rule as a unique index.
type ReviewPO struct {
	ID        string    `gorm:"primaryKey;size:64"`
	ProductID string    `gorm:"size:64;uniqueIndex:idx_review_product_user;not null"`
	UserID    string    `gorm:"size:64;uniqueIndex:idx_review_product_user;not null"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"size:2000"`
	Version   int       `gorm:"default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ReviewPO) TableName() string {
	return "reviews"
}

func FromReviewDomain(r *review.Review) *ReviewPO {
	dto := r.ToDTO()
	return &ReviewPO{
		ID:        dto.ID,
		ProductID: dto.ProductID,
		UserID:    dto.UserID,
		Rating:    dto.Rating,
		Comment:   dto.Comment,
		Version:   dto.Version,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	}
}

func (po *ReviewPO) ToDomain() *review.Review {
	return review.RebuildFromDTO(review.ReconstructionDTO{
		ID:        po.ID,
		ProductID: po.ProductID,
		UserID:    po.UserID,
		Rating:    po.Rating,
		Comment:   po.Comment,
		Version:   po.Version,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	})
}
