package database

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// CreateHistory appends one immutable record of a completion exchange.
// Duplicates are permitted; the timestamp is assigned here.
func CreateHistory(ctx context.Context, db *gorm.DB, userId int64, pattern, input, result string) error {
	record := History{
		UserId:  userId,
		Pattern: pattern,
		Input:   input,
		Result:  result,
		Time:    time.Now().UTC(),
	}

	if err := db.WithContext(ctx).Create(&record).Error; err != nil {
		slog.Error("error creating history record", "user_id", userId, "error", err)
		return err
	}
	return nil
}

func ListHistories(ctx context.Context, db *gorm.DB, userId int64) ([]History, error) {
	var histories []History
	if err := db.WithContext(ctx).Where("user_id = ?", userId).Find(&histories).Error; err != nil {
		slog.Error("error listing history records", "user_id", userId, "error", err)
		return nil, err
	}
	return histories, nil
}

// SearchHistories returns the user's records whose input contains keyword as
// a substring, using the store's native LIKE collation.
func SearchHistories(ctx context.Context, db *gorm.DB, userId int64, keyword string) ([]History, error) {
	var histories []History
	if err := db.WithContext(ctx).
		Where("user_id = ? AND input LIKE ?", userId, "%"+keyword+"%").
		Find(&histories).Error; err != nil {
		slog.Error("error searching history records", "user_id", userId, "error", err)
		return nil, err
	}
	return histories, nil
}
