package refresh_statuses

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("refresh_statuses: internal error")
)
