package datecapacity

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("datecapacity.service: internal error")
)
