package errors

import (
	"errors"
	"fmt"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")

	// Авторизация
	ErrEmptyAuthHeader   = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader = fmt.Errorf("неверный формат заголовка авторизации")
	ErrUnauthorized      = fmt.Errorf("неавторизован")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
	ErrConflict   = fmt.Errorf("запись уже существует")

	// Обслуживание
	ErrInvalidStatusTransition = fmt.Errorf("недопустимый переход статуса")
	ErrDocumentationRequired   = fmt.Errorf("для завершения нужно фото-подтверждение")
	ErrPerformerRequired       = fmt.Errorf("для завершения нужен ответственный")
	ErrNoInterval              = fmt.Errorf("у шаблона не задан интервал")

	// Инвентаризация
	ErrUncheckedItems = fmt.Errorf("остались непроверенные позиции")
	ErrSessionClosed  = fmt.Errorf("сессия проверки уже закрыта")
	ErrUnknownBarcode = fmt.Errorf("штрихкод не найден")
	ErrNoCurrentItem  = fmt.Errorf("нет текущей позиции")
)

// HttpError несёт код ответа и сообщение для пользователя.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}
