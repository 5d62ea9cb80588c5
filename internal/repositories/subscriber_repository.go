package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autumhire/internal/infra"
	"autumhire/internal/models/db_models"
)

type SubscriberRepository interface {
	// Upsert stores sub and replaces its industry list. sub.SubscribedAt is
	// set to the stored value, which an existing subscriber keeps.
	Upsert(ctx context.Context, sub *db_models.Subscriber) error
	Delete(ctx context.Context, email string) (bool, error)
	FindByIndustry(ctx context.Context, industry string) ([]db_models.Subscriber, error)
}

type subscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func IndustryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *subscriberRepository) Upsert(ctx context.Context, sub *db_models.Subscriber) error {
	return infra.WithTx(ctx, r.db, func(ctx context.Context) error {
		tx := infra.Conn(ctx, r.db)

		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"location"}),
		}).Create(sub).Error
		if err != nil {
			return err
		}

		// A re-subscribe keeps the original date.
		var stored db_models.Subscriber
		if err := tx.Select("subscribed_at").Take(&stored, "email = ?", sub.Email).Error; err != nil {
			return err
		}
		sub.SubscribedAt = stored.SubscribedAt

		if err := tx.Where("subscriber_email = ?", sub.Email).Delete(&db_models.SubscriberIndustry{}).Error; err != nil {
			return err
		}
		if len(sub.Industries) == 0 {
			return nil
		}
		for i := range sub.Industries {
			sub.Industries[i].ID = 0
			sub.Industries[i].SubscriberEmail = sub.Email
			sub.Industries[i].IndustryKey = IndustryKey(sub.Industries[i].Industry)
		}
		return tx.Create(&sub.Industries).Error
	})
}

func (r *subscriberRepository) Delete(ctx context.Context, email string) (bool, error) {
	var removed int64
	err := infra.WithTx(ctx, r.db, func(ctx context.Context) error {
		tx := infra.Conn(ctx, r.db)
		if err := tx.Where("subscriber_email = ?", email).Delete(&db_models.SubscriberIndustry{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&db_models.Subscriber{}, "email = ?", email)
		removed = res.RowsAffected
		return res.Error
	})
	return removed > 0, err
}

func (r *subscriberRepository) FindByIndustry(ctx context.Context, industry string) ([]db_models.Subscriber, error) {
	var subs []db_models.Subscriber
	err := infra.Conn(ctx, r.db).
		Preload("Industries").
		Where("email IN (?)", infra.Conn(ctx, r.db).
			Model(&db_models.SubscriberIndustry{}).
			Select("subscriber_email").
			Where("industry_key = ?", IndustryKey(industry))).
		Order("email asc").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}
