package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrDuplicate reports a unique index violation. The store's constraint is
	// the authority; no existence check precedes an insert.
	ErrDuplicate = errors.New("duplicate key")
	// ErrForeignKey reports a write or delete rejected by a foreign key.
	ErrForeignKey = errors.New("foreign key violation")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1451 || myErr.Number == 1452
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

// updateByID applies updates to the row with the given primary key inside a
// transaction. It reports false when no such row exists. The lookup keeps a
// same-value update on MySQL from being mistaken for a missing row.
func updateByID[T any](ctx context.Context, db *gorm.DB, id uint, updates map[string]any) (bool, error) {
	found := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		found = true
		return tx.Model(new(T)).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return false, translate(err)
	}
	return found, nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	res := db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func getByID[T any](ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	out := new(T)
	err := db.WithContext(ctx).First(out, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func exists[T any](ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
