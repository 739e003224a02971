package krolik

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Disposition — явный исход обработки сообщения.
type Disposition int

const (
	// DispositionAck — подтвердить сообщение.
	DispositionAck Disposition = iota

	// DispositionRequeue — вернуть сообщение в очередь.
	DispositionRequeue

	// DispositionReject — отбросить сообщение без возврата
	// (уходит в DLQ, если очередь настроена).
	DispositionReject
)

// String реализует fmt.Stringer.
func (d Disposition) String() string {
	switch d {
	case DispositionAck:
		return "ack"
	case DispositionRequeue:
		return "requeue"
	case DispositionReject:
		return "reject"
	default:
		return "unknown"
	}
}

// disposition выводит исход из результата обработчика:
// nil — ack, ErrReject — reject, любая другая ошибка — requeue.
func disposition(err error) Disposition {
	switch {
	case err == nil:
		return DispositionAck
	case errors.Is(err, ErrReject):
		return DispositionReject
	default:
		return DispositionRequeue
	}
}

// HandlerFunc — обработчик сообщений типа T.
// Вызывается последовательно, по одному сообщению за раз,
// на горутине, выполняющей Run.
type HandlerFunc[T any] func(ctx context.Context, msg *T) error

// Consumer принимает типизированные модели из очередей брокера.
//
// Соединение и канал открываются в конструкторе и принадлежат
// Consumer до Close. Обработчики регистрируются через Handle
// до запуска Run.
type Consumer struct {
	conn   *connection
	logger *slog.Logger

	mu      sync.Mutex
	started bool
	queues  map[string]struct{}
	subs    []*subscription
}

// subscription — одна зарегистрированная очередь с адаптером обработки.
type subscription struct {
	queue      string
	deliveries <-chan amqp.Delivery
	handle     func(ctx context.Context, raw amqp.Delivery)
}

// NewConsumer открывает соединение и канал к брокеру.
// Heartbeat по умолчанию — DefaultConsumerHeartbeat.
// Недоступный брокер — *ConnectionError.
func NewConsumer(cfg Config) (*Consumer, error) {
	cfg = cfg.withDefaults()

	heartbeat := cfg.Heartbeat
	if heartbeat == 0 {
		heartbeat = DefaultConsumerHeartbeat
	}

	conn, err := dialBroker(cfg, heartbeat)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		conn:   conn,
		logger: cfg.Logger,
		queues: make(map[string]struct{}),
	}, nil
}

// Handle регистрирует обработчик для типа T: объявляет очередь,
// выставляет QoS канала и подписывается на доставки. Функция,
// а не метод — у методов не бывает параметров типа.
//
// Очередь — имя типа T, либо cfg.Queue. На одну очередь допускается
// один обработчик в рамках Consumer; повторная регистрация, nil-функция,
// безымянный тип без cfg.Queue и вызов после Run — *ConfigurationError.
func Handle[T any](c *Consumer, fn HandlerFunc[T], cfg ...ConsumeConfig) error {
	var conf ConsumeConfig
	if len(cfg) > 0 {
		conf = cfg[0]
	}
	conf = conf.withDefaults()

	if fn == nil {
		return &ConfigurationError{Op: "register handler", Err: ErrNilHandler}
	}

	queue := conf.Queue
	if queue == "" {
		name, err := queueNameFor[T]()
		if err != nil {
			return &ConfigurationError{Op: "register handler", Err: err}
		}
		queue = name
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return &ConfigurationError{Op: "register handler for " + queue, Err: ErrConsumerStarted}
	}
	if _, ok := c.queues[queue]; ok {
		return &ConfigurationError{Op: "register handler for " + queue, Err: ErrDuplicateHandler}
	}

	ch := c.conn.Channel()
	if ch == nil {
		return &ConnectionError{Err: ErrClosed}
	}

	_, err := ch.QueueDeclare(
		queue,           // name
		!conf.Transient, // durable
		conf.AutoDelete, // delete when unused
		conf.Exclusive,  // exclusive
		false,           // no-wait
		conf.Args,       // arguments
	)
	if err != nil {
		return err
	}

	if err := ch.Qos(conf.PrefetchCount, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(
		queue, // queue
		"",    // consumer tag (auto-generated)
		false, // auto-ack (подтверждаем вручную)
		conf.Exclusive,
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	c.queues[queue] = struct{}{}
	c.subs = append(c.subs, &subscription{
		queue:      queue,
		deliveries: deliveries,
		handle:     adapter(c, queue, fn),
	})

	c.logger.Debug("handler registered",
		"queue", queue,
		"prefetch", conf.PrefetchCount,
		"durable", !conf.Transient,
	)

	return nil
}

// adapter — обработка одной доставки: разбор тела, вызов обработчика,
// явный исход. Нечитаемое или невалидное тело отбрасывается,
// до обработчика не доходит.
func adapter[T any](c *Consumer, queue string, fn HandlerFunc[T]) func(ctx context.Context, raw amqp.Delivery) {
	return func(ctx context.Context, raw amqp.Delivery) {
		msg := new(T)
		if err := Unmarshal(raw.Body, msg); err != nil {
			c.finish(queue, raw, DispositionReject, err)
			return
		}

		err := fn(ctx, msg)
		c.finish(queue, raw, disposition(err), err)
	}
}

// finish выполняет исход обработки и ведёт учёт.
func (c *Consumer) finish(queue string, raw amqp.Delivery, disp Disposition, cause error) {
	var err error
	switch disp {
	case DispositionAck:
		err = raw.Ack(false)
		ackedTotal.WithLabelValues(queue).Inc()
	case DispositionRequeue:
		err = raw.Nack(false, true)
		requeuedTotal.WithLabelValues(queue).Inc()
	case DispositionReject:
		err = raw.Nack(false, false)
		rejectedTotal.WithLabelValues(queue).Inc()
	}

	if cause != nil {
		c.logger.Error("message handling failed",
			"queue", queue,
			"disposition", disp.String(),
			"error", cause,
		)
	}
	if err != nil {
		c.logger.Warn("broker acknowledgement failed",
			"queue", queue,
			"disposition", disp.String(),
			"error", err,
		)
	}
}

// Run — блокирующий цикл приёма. Сообщения всех зарегистрированных
// очередей обрабатываются последовательно, обработчики выполняются
// на вызывающей горутине. Возвращается при отмене контекста, после
// Close (nil) или при потере соединения (*ConnectionError).
//
// Отмена контекста останавливает только цикл обработки; подписки
// освобождаются в Close. Штатная остановка — отменить контекст
// и затем закрыть Consumer: уже выбранная из потока доставка
// остаётся неподтверждённой и будет доставлена повторно.
func (c *Consumer) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return &ConfigurationError{Op: "run", Err: ErrConsumerStarted}
	}
	if len(c.subs) == 0 {
		c.mu.Unlock()
		return &ConfigurationError{Op: "run", Err: ErrNoHandlers}
	}
	c.started = true
	subs := make([]*subscription, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	type routed struct {
		sub *subscription
		raw amqp.Delivery
	}

	// Доставки всех подписок сливаются в один канал,
	// чтобы цикл обработки остался один.
	merged := make(chan routed)
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *subscription) {
			defer wg.Done()
			for raw := range sub.deliveries {
				select {
				case merged <- routed{sub: sub, raw: raw}:
				case <-ctx.Done():
					return
				}
			}
		}(sub)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	c.logger.Info("consumer started", "queues", len(subs))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case r, ok := <-merged:
			if !ok {
				if c.conn.closedByOwner() {
					// Остановка через Close — штатное завершение.
					return nil
				}
				return &ConnectionError{Err: ErrDeliveriesClosed}
			}
			consumedTotal.WithLabelValues(r.sub.queue).Inc()
			r.sub.handle(ctx, r.raw)
		}
	}
}

// Channel возвращает канал AMQP, которым владеет Consumer.
func (c *Consumer) Channel() *amqp.Channel {
	return c.conn.Channel()
}

// Close закрывает канал и соединение Consumer; блокирующий Run
// после этого завершается.
func (c *Consumer) Close() error {
	return c.conn.Close()
}
