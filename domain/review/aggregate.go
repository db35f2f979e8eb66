/*
Package review Review subdomain

A customer may review a product once, and only after holding a delivered order containing it.
Every create, update or delete triggers a full recount of the product's rating fields.
*/
package review

import (
	"strings"
	"time"

	"marketplace/domain/shared"
)

const (
	MinRating = 1
	MaxRating = 5

	maxCommentLength = 2000
)

// Review Review aggregate root; (productID, userID) is unique
type Review struct {
	shared.EventRecorder

	id        string
	productID string
	userID    string
	rating    int
	comment   string
	version   int
	createdAt time.Time
	updatedAt time.Time

	isNew bool
}

func NewReview(productID, userID string, rating int, comment string) (*Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	comment, err := normalizeComment(comment)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	r := &Review{
		id:        shared.NewID(),
		productID: productID,
		userID:    userID,
		rating:    rating,
		comment:   comment,
		createdAt: now,
		updatedAt: now,
		isNew:     true,
	}
	r.Record(NewReviewCreatedEvent(r.id, productID, userID, rating))
	return r, nil
}

// Update changes rating and/or comment. Only the author may update; nil leaves a field unchanged.
func (r *Review) Update(userID string, rating *int, comment *string) error {
	if r.userID != userID {
		return NewNotReviewAuthorError(r.id)
	}
	if rating != nil {
		if err := validateRating(*rating); err != nil {
			return err
		}
		r.rating = *rating
	}
	if comment != nil {
		c, err := normalizeComment(*comment)
		if err != nil {
			return err
		}
		r.comment = c
	}
	r.updatedAt = time.Now()
	r.Record(NewReviewUpdatedEvent(r.id, r.productID, r.userID, r.rating))
	return nil
}

// Delete records the removal. The author or an admin may delete.
func (r *Review) Delete(actorID string, isAdmin bool) error {
	if r.userID != actorID && !isAdmin {
		return NewNotReviewAuthorError(r.id)
	}
	r.Record(NewReviewDeletedEvent(r.id, r.productID, r.userID))
	return nil
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return shared.NewValidationError("review", "rating", "rating must be between 1 and 5")
	}
	return nil
}

func normalizeComment(comment string) (string, error) {
	comment = strings.TrimSpace(comment)
	if len(comment) > maxCommentLength {
		return "", shared.NewValidationError("review", "comment", "comment is too long")
	}
	return comment, nil
}

// IncrementVersionForSave is called by the repository after a successful save.
func (r *Review) IncrementVersionForSave() { r.version++ }

// MarkPersisted clears the new flag after the first insert.
func (r *Review) MarkPersisted() { r.isNew = false }

func (r *Review) ID() string           { return r.id }
func (r *Review) ProductID() string    { return r.productID }
func (r *Review) UserID() string       { return r.userID }
func (r *Review) Rating() int          { return r.rating }
func (r *Review) Comment() string      { return r.comment }
func (r *Review) Version() int         { return r.version }
func (r *Review) CreatedAt() time.Time { return r.createdAt }
func (r *Review) UpdatedAt() time.Time { return r.updatedAt }
func (r *Review) IsNew() bool          { return r.isNew }

// ReconstructionDTO Review reconstruction data transfer object
// ⚠️ Note: only repository implementations should use it
type ReconstructionDTO struct {
	ID        string
	ProductID string
	UserID    string
	Rating    int
	Comment   string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Review {
	return &Review{
		id:        dto.ID,
		productID: dto.ProductID,
		userID:    dto.UserID,
		rating:    dto.Rating,
		comment:   dto.Comment,
		version:   dto.Version,
		createdAt: dto.CreatedAt,
		updatedAt: dto.UpdatedAt,
	}
}

func (r *Review) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:        r.id,
		ProductID: r.productID,
		UserID:    r.userID,
		Rating:    r.rating,
		Comment:   r.comment,
		Version:   r.version,
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}
}

var _ shared.AggregateRoot = (*Review)(nil)
