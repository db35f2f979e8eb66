package mysql

import (
	"context"

	"marketplace/domain/review"
	"marketplace/domain/shared"
	"marketplace/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	base
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{base{db: db}}
}

// Save maps the (product_id, user_id) unique index violation to ErrAlreadyReviewed.
func (r *ReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	reviewPO := po.FromReviewDomain(rv)

	err := r.inTx(ctx, func(tx *gorm.DB) error {
		if rv.IsNew() {
			reviewPO.Version = 1
			if err := tx.Create(reviewPO).Error; err != nil {
				if isDuplicateKeyError(err) {
					return review.NewAlreadyReviewedError(rv.ProductID())
				}
				return err
			}
			return nil
		}

		expectedVersion := rv.Version()
		result := tx.Model(&po.ReviewPO{}).
			Where("id = ? AND version = ?", rv.ID(), expectedVersion).
			Updates(map[string]interface{}{
				"rating":     reviewPO.Rating,
				"comment":    reviewPO.Comment,
				"version":    expectedVersion + 1,
				"updated_at": reviewPO.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.ReviewPO{}).Where("id = ?", rv.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return review.NewReviewNotFoundError(rv.ID())
			}
			return shared.NewConcurrentModificationError("review", rv.ID())
		}
		return nil
	})
	if err != nil {
		return err
	}

	rv.IncrementVersionForSave()
	rv.MarkPersisted()
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*review.Review, error) {
	var reviewPO po.ReviewPO
	if err := r.getDB(ctx).First(&reviewPO, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, review.NewReviewNotFoundError(id)
		}
		return nil, err
	}
	return reviewPO.ToDomain(), nil
}

func (r *ReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID string) (*review.Review, error) {
	var reviewPO po.ReviewPO
	err := r.getDB(ctx).Where("product_id = ? AND user_id = ?", productID, userID).First(&reviewPO).Error
	if err != nil {
		if isNotFound(err) {
			return nil, review.NewReviewNotFoundError(productID + "/" + userID)
		}
		return nil, err
	}
	return reviewPO.ToDomain(), nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]*review.Review, error) {
	var reviewPOs []po.ReviewPO
	if err := r.getDB(ctx).Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&reviewPOs).Error; err != nil {
		return nil, err
	}
	reviews := make([]*review.Review, len(reviewPOs))
	for i := range reviewPOs {
		reviews[i] = reviewPOs[i].ToDomain()
	}
	return reviews, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	result := r.getDB(ctx).Where("id = ?", id).Delete(&po.ReviewPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return review.NewReviewNotFoundError(id)
	}
	return nil
}

// Stats recounts with COUNT/AVG so the result reflects every committed review.
func (r *ReviewRepository) Stats(ctx context.Context, productID string) (review.RatingStats, error) {
	var row struct {
		Quantity int
		Average  float64
	}
	err := r.getDB(ctx).Model(&po.ReviewPO{}).
		Select("COUNT(*) AS quantity, COALESCE(AVG(rating), 0) AS average").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return review.RatingStats{}, err
	}
	if row.Quantity == 0 {
		return review.RatingStats{}, nil
	}
	return review.RatingStats{Quantity: row.Quantity, Average: review.RoundAverage(row.Average)}, nil
}

var _ review.Repository = (*ReviewRepository)(nil)
