package get_opportunity

import (
	"context"

	"github.com/m04kA/WX-CapacityService/internal/service/timeslots/models"
)

type OpportunityService interface {
	GetOpportunity(ctx context.Context, id int64) (*models.OpportunityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
