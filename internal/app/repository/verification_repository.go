package repository

import (
	"time"

	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/pkg/logger"
	"gorm.io/gorm"
)

type VerificationRepository interface {
	// Replace deletes any previous tokens for the phone and stores the new one,
	// so only the most recently issued code is ever valid.
	Replace(token *model.VerificationToken) error
	FindActiveByPhone(phone string, now time.Time) (*model.VerificationToken, error)
	DeleteByPhone(phone string) error
	DeleteExpired(now time.Time) (int64, error)
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Replace(token *model.VerificationToken) error {
	logger.Debug("Replacing verification token in database", map[string]interface{}{
		"phone": token.Phone,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("phone = ?", token.Phone).Delete(&model.VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
	if err != nil {
		logger.Error("Failed to replace verification token in database", err, map[string]interface{}{
			"phone": token.Phone,
		})
		return err
	}

	return nil
}

func (r *verificationRepository) FindActiveByPhone(phone string, now time.Time) (*model.VerificationToken, error) {
	logger.Debug("Finding active verification token in database", map[string]interface{}{
		"phone": phone,
	})

	var token model.VerificationToken
	err := r.db.Where("phone = ? AND expires_at > ?", phone, now).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		return nil, err
	}

	return &token, nil
}

func (r *verificationRepository) DeleteByPhone(phone string) error {
	logger.Debug("Deleting verification tokens from database", map[string]interface{}{
		"phone": phone,
	})

	if err := r.db.Where("phone = ?", phone).Delete(&model.VerificationToken{}).Error; err != nil {
		logger.Error("Failed to delete verification tokens from database", err, map[string]interface{}{
			"phone": phone,
		})
		return err
	}

	return nil
}

func (r *verificationRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&model.VerificationToken{})
	if result.Error != nil {
		logger.Error("Failed to delete expired verification tokens", result.Error, nil)
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.Debug("Expired verification tokens deleted", map[string]interface{}{
			"count": result.RowsAffected,
		})
	}
	return result.RowsAffected, nil
}
