package krolik

import (
	"encoding/json"
	"reflect"
)

// QueueNamer переопределяет имя очереди для типа сообщения.
// Метод должен быть чистой функцией от типа: одно и то же имя
// на всём протяжении жизни процесса.
type QueueNamer interface {
	QueueName() string
}

// QueueNameOf возвращает имя очереди для модели: результат
// QueueName(), если тип реализует QueueNamer, иначе имя типа.
func QueueNameOf(msg any) (string, error) {
	if qn, ok := msg.(QueueNamer); ok {
		return qn.QueueName(), nil
	}

	t := reflect.TypeOf(msg)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "", ErrUnnamedType
	}
	// Переопределение с pointer receiver на значении не видно:
	// проверяем и указатель, иначе producer и consumer разойдутся
	// в имени очереди одного типа.
	if qn, ok := reflect.New(t).Interface().(QueueNamer); ok {
		return qn.QueueName(), nil
	}
	if t.Name() == "" {
		return "", ErrUnnamedType
	}
	return t.Name(), nil
}

// queueNameFor — имя очереди для параметра типа без экземпляра.
func queueNameFor[T any]() (string, error) {
	var zero T
	if qn, ok := any(zero).(QueueNamer); ok {
		return qn.QueueName(), nil
	}
	if qn, ok := any(&zero).(QueueNamer); ok {
		return qn.QueueName(), nil
	}

	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "", ErrUnnamedType
	}
	return t.Name(), nil
}

// Marshal валидирует модель и кодирует её в JSON-тело сообщения.
// Ошибка валидации возвращается как *ValidationError.
func Marshal(msg any) ([]byte, error) {
	if err := validateStruct(msg); err != nil {
		return nil, &ValidationError{Err: err}
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}
	return body, nil
}

// Unmarshal разбирает JSON-тело в модель и валидирует результат.
// Некорректное тело или непрошедшие проверку поля — *ValidationError.
func Unmarshal(data []byte, msg any) error {
	if err := json.Unmarshal(data, msg); err != nil {
		return &ValidationError{Err: err}
	}
	if err := validateStruct(msg); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}
