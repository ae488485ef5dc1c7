package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"assetdesk-backend/internal/logger"
)

const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
)

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == uniqueViolation
}

func isCheckViolation(err error) bool {
	return pqCode(err) == checkViolation
}

// notFound maps sql.ErrNoRows to target and passes everything else through
func notFound(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}

// rowsAffected reads the row count of a conditional update. A driver that
// cannot report it is a failure, never a "no row matched" outcome.
func rowsAffected(op string, res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		logger.DatabaseResult(op, 0, err)
		return 0, err
	}
	logger.DatabaseResult(op, n, nil)
	return n, nil
}
