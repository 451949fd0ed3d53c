package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
)

// Postgres SQLSTATEs that mean "the database could not serve this right now".
var unavailableSQLStates = map[string]struct{}{
	"57014": {}, // query_canceled (statement_timeout)
	"57P01": {}, // admin_shutdown
	"57P03": {}, // cannot_connect_now
	"53300": {}, // too_many_connections
	"08000": {}, // connection_exception
	"08003": {}, // connection_does_not_exist
	"08006": {}, // connection_failure
}

// storeErr wraps a storage failure, mapping timeouts and connection trouble to
// ErrUnavailable. ctx is the bounded context the call ran under.
func storeErr(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errs.KindOf(err) != errs.KindInternal {
		return fmt.Errorf("%s: %w", op, err)
	}
	if isUnavailable(ctx, err) {
		return fmt.Errorf("%s: %w: %v", op, errs.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if ctx != nil && ctx.Err() != nil {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := unavailableSQLStates[pgErr.Code]
		return ok
	}
	return false
}
