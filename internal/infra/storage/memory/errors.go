package memory

import (
	"fmt"

	"github.com/m04kA/WX-CapacityService/internal/domain"
	"github.com/m04kA/WX-CapacityService/internal/infra/storage/datecapacity"
)

func errDuplicateRow(row domain.DateCapacity) error {
	return fmt.Errorf("%w: BulkInsert - duplicate key opportunity=%d slot=%s month=%s",
		datecapacity.ErrExecQuery, row.OpportunityID, row.TimeSlotID, row.Month)
}
