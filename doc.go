// Package krolik связывает валидацию структур с клиентом RabbitMQ:
// типизированные модели сообщений публикуются и принимаются одной
// строкой, без ручной сериализации и boilerplate-кода.
//
// Структура:
//   - message.go    — имя очереди типа, сериализация с валидацией
//   - validate.go   — валидация полей через go-playground/validator
//   - options.go    — конфигурация подключения, публикации и подписки
//   - connection.go — соединение и канал AMQP (одно на владельца)
//   - producer.go   — публикация сообщений
//   - consumer.go   — регистрация обработчиков и цикл приёма
//   - metrics.go    — Prometheus метрики
//
// Модель — обычная структура с тегами validate. Имя её типа задаёт
// имя очереди; переопределяется интерфейсом QueueNamer.
//
//	type Order struct {
//		ID    int     `json:"id" validate:"required"`
//		Total float64 `json:"total" validate:"gte=0"`
//	}
//
//	producer, err := krolik.NewProducer(krolik.Config{Host: "localhost"})
//	...
//	err = producer.Send(ctx, Order{ID: 1, Total: 9.99})
//
//	consumer, err := krolik.NewConsumer(krolik.Config{Host: "localhost"})
//	...
//	err = krolik.Handle(consumer, func(ctx context.Context, o *Order) error {
//		// вызывается на каждое сообщение из очереди "Order"
//		return nil
//	})
//	err = consumer.Run(ctx)
//
// Ограничения: одна регистрация на очередь в рамках Consumer;
// соединение живёт столько же, сколько владеющий им объект,
// переподключения нет.
package krolik
