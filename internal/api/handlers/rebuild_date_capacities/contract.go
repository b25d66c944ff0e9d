package rebuild_date_capacities

import "context"

type IndexService interface {
	Rebuild(ctx context.Context, opportunityID int64) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
