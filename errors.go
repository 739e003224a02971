package krolik

import "errors"

// Ошибки регистрации обработчиков.
var (
	// ErrNilHandler — в Handle передан nil вместо функции.
	ErrNilHandler = errors.New("handler is nil")

	// ErrDuplicateHandler — очередь уже имеет обработчик на этом Consumer.
	ErrDuplicateHandler = errors.New("queue already has a handler")

	// ErrConsumerStarted — регистрация после запуска Run запрещена.
	ErrConsumerStarted = errors.New("consumer already running")

	// ErrUnnamedType — тип без имени и без переопределения очереди.
	ErrUnnamedType = errors.New("message type has no name, set ConsumeConfig.Queue")

	// ErrNoHandlers — Run вызван без зарегистрированных обработчиков.
	ErrNoHandlers = errors.New("no handlers registered")
)

// Ошибки соединения.
var (
	// ErrClosed — операция на закрытом Producer/Consumer.
	ErrClosed = errors.New("connection closed")

	// ErrDeliveriesClosed — брокер закрыл поток доставок.
	ErrDeliveriesClosed = errors.New("deliveries channel closed")
)

// ErrReject — возвращается (или оборачивается) обработчиком, чтобы
// отбросить сообщение без возврата в очередь. Любая другая ошибка
// обработчика возвращает сообщение в очередь.
var ErrReject = errors.New("reject message")

// ValidationError — ошибка валидации модели при сериализации
// или разборе тела сообщения.
type ValidationError struct {
	Queue string // очередь, если известна
	Err   error  // базовая ошибка (FieldErrors или ошибка декодирования)
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if e.Queue != "" {
		return "validate message for queue " + e.Queue + ": " + e.Err.Error()
	}
	return "validate message: " + e.Err.Error()
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConfigurationError — некорректная регистрация обработчика
// или некорректная конфигурация.
type ConfigurationError struct {
	Op  string // операция, в которой обнаружена ошибка
	Err error
}

// Error реализует интерфейс error.
func (e *ConfigurationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap возвращает базовую ошибку.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ConnectionError — брокер недоступен или соединение потеряно.
type ConnectionError struct {
	Addr string // адрес брокера
	Err  error
}

// Error реализует интерфейс error.
func (e *ConnectionError) Error() string {
	if e.Addr != "" {
		return "broker " + e.Addr + ": " + e.Err.Error()
	}
	return "broker: " + e.Err.Error()
}

// Unwrap возвращает базовую ошибку.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}
