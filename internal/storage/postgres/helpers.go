package postgres

import (
	"database/sql"
	"time"

	pq "github.com/lib/pq"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/utils"
)

// DATE columns travel as YYYY-MM-DD text in both directions so that days
// stay local-midnight values regardless of the server's time zone.

type rowScanner interface {
	Scan(dest ...any) error
}

func formatDate(t time.Time) string {
	return utils.DateKey(t)
}

func parseDate(s string) (time.Time, error) {
	return utils.ParseDateInLocation(s, time.Local)
}

func nullableDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func idArray(ids []string) interface{} {
	return pq.Array(ids)
}

func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound(entity, id)
	}
	return nil
}
