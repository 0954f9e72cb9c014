package repository

import (
	"context"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserFilter struct {
	Q      string
	Offset int
	Limit  int
}

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetBySubjectID(ctx context.Context, subjectID string) (*entity.User, error)
	GetList(ctx context.Context, filter UserFilter) ([]entity.User, error)
	Count(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, id, displayName, pictureURL string) error
	UpdateRole(ctx context.Context, id string, role entity.GlobalRole) error

	// IncreasePoints adds amount (possibly negative) to the total points.
	IncreasePoints(ctx context.Context, id string, amount int64) error

	// GetPointsForUpdate reads the total points and locks the row until the
	// end of the running transaction.
	GetPointsForUpdate(ctx context.Context, id string) (int64, error)

	GetTopByPoints(ctx context.Context, limit int) ([]entity.User, error)

	// CountAhead counts users ranked strictly before the given user.
	CountAhead(ctx context.Context, user *entity.User) (int64, error)
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetBySubjectID(ctx context.Context, subjectID string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "subject_id=?", subjectID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetList(ctx context.Context, filter UserFilter) ([]entity.User, error) {
	var result []entity.User
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit)

	if filter.Q != "" {
		tx = tx.Where("display_name LIKE ?", "%"+filter.Q+"%")
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.User{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id, displayName, pictureURL string) error {
	return xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).
		Updates(map[string]any{
			"display_name": displayName,
			"picture_url":  pictureURL,
		}).Error
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role entity.GlobalRole) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Update("role", role)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) IncreasePoints(ctx context.Context, id string, amount int64) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).
		Update("total_points", gorm.Expr("total_points+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) GetPointsForUpdate(ctx context.Context, id string) (int64, error) {
	var result entity.User
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("total_points").
		Take(&result, "id=?", id).Error
	if err != nil {
		return 0, err
	}

	return result.TotalPoints, nil
}

func (r *userRepository) GetTopByPoints(ctx context.Context, limit int) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).
		Order("total_points DESC, created_at ASC, id ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) CountAhead(ctx context.Context, user *entity.User) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.User{}).
		Where("total_points > ?", user.TotalPoints).
		Or("total_points = ? AND created_at < ?", user.TotalPoints, user.CreatedAt).
		Or("total_points = ? AND created_at = ? AND id < ?", user.TotalPoints, user.CreatedAt, user.ID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
