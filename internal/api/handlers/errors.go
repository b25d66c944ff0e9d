package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/WX-CapacityService/internal/domain"
)

const (
	msgCapacityExceeded = "свободных мест нет"
	msgConflict         = "операция конфликтует с текущим состоянием слота"
	msgMaterialization  = "не удалось построить индекс ёмкости"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// StatusFor HTTP статус для ошибки доменной категории
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCapacityExceeded), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMaterialization):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отвечает по категории ошибки.
// Ожидаемые отказы (валидация, 404, 409) пишутся в WARN, остальное в ERROR.
func RespondDomainError(w http.ResponseWriter, log Logger, route string, err error) {
	status := StatusFor(err)

	switch status {
	case http.StatusBadRequest:
		log.Warn("%s - Validation failed: %v", route, err)
		RespondBadRequest(w, err.Error())
	case http.StatusNotFound:
		log.Warn("%s - Not found: %v", route, err)
		RespondNotFound(w, err.Error())
	case http.StatusConflict:
		if errors.Is(err, domain.ErrCapacityExceeded) {
			log.Warn("%s - Capacity exceeded: %v", route, err)
			RespondConflict(w, msgCapacityExceeded)
			return
		}
		log.Warn("%s - Conflict: %v", route, err)
		RespondError(w, http.StatusConflict, msgConflict+": "+err.Error())
	case http.StatusUnprocessableEntity:
		log.Error("%s - Materialization failed: %v", route, err)
		RespondUnprocessable(w, msgMaterialization)
	default:
		log.Error("%s - Internal error: %v", route, err)
		RespondInternalError(w)
	}
}
