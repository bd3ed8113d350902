package services

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrInvalidRequest   = errors.New("invalid_request")
	ErrQuotaExceeded    = errors.New("BOOK_ROOM_LIMIT_EXCEEDED")
	ErrStoreUnavailable = errors.New("store_unavailable")
	ErrNotFound         = errors.New("room_not_found")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// storeError folds a raw store error into the service taxonomy:
// record-not-found becomes ErrNotFound, everything else ErrStoreUnavailable.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return fmt.Errorf("%s: %w: mysql error %d: %s", op, ErrStoreUnavailable, myErr.Number, myErr.Message)
	}
	if errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%s: %w: connection lost", op, ErrStoreUnavailable)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
