package krolik

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Producer публикует типизированные модели в очереди брокера.
//
// Соединение и канал открываются в конструкторе и принадлежат
// Producer до Close. Канал один, использование последовательное.
type Producer struct {
	conn   *connection
	logger *slog.Logger
}

// NewProducer открывает соединение и канал к брокеру.
// Недоступный брокер — *ConnectionError.
func NewProducer(cfg Config) (*Producer, error) {
	cfg = cfg.withDefaults()

	heartbeat := cfg.Heartbeat
	if heartbeat == 0 {
		heartbeat = defaultClientHeartbeat
	}

	conn, err := dialBroker(cfg, heartbeat)
	if err != nil {
		return nil, err
	}

	return &Producer{
		conn:   conn,
		logger: cfg.Logger,
	}, nil
}

// Send публикует модель с параметрами по умолчанию: default exchange,
// ключ маршрутизации — имя очереди типа.
func (p *Producer) Send(ctx context.Context, msg any) error {
	return p.SendTo(ctx, msg, PublishConfig{})
}

// SendTo публикует модель с переопределением параметров публикации.
func (p *Producer) SendTo(ctx context.Context, msg any, cfg PublishConfig) error {
	ch := p.conn.Channel()
	if ch == nil {
		return &ConnectionError{Err: ErrClosed}
	}

	if err := Publish(ctx, ch, msg, cfg); err != nil {
		return err
	}

	queue := cfg.Queue
	if queue == "" {
		queue, _ = QueueNameOf(msg)
	}
	p.logger.Debug("published message", "queue", queue)
	return nil
}

// Channel возвращает канал AMQP, которым владеет Producer.
func (p *Producer) Channel() *amqp.Channel {
	return p.conn.Channel()
}

// Close закрывает канал и соединение Producer.
func (p *Producer) Close() error {
	return p.conn.Close()
}

// Publish валидирует, сериализует и публикует модель в указанный канал.
// Используется, когда канал открыт самим приложением; Producer.Send
// делегирует сюда. Ошибки брокера возвращаются без изменений.
func Publish(ctx context.Context, ch *amqp.Channel, msg any, cfg PublishConfig) error {
	routingKey, pub, err := buildPublishing(msg, cfg)
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(ctx, cfg.Exchange, routingKey, cfg.Mandatory, false, pub); err != nil {
		return err
	}

	publishedTotal.WithLabelValues(routingKey).Inc()
	return nil
}

// buildPublishing собирает ключ маршрутизации и amqp.Publishing.
func buildPublishing(msg any, cfg PublishConfig) (string, amqp.Publishing, error) {
	routingKey := cfg.Queue
	if routingKey == "" {
		name, err := QueueNameOf(msg)
		if err != nil {
			return "", amqp.Publishing{}, &ConfigurationError{Op: "publish", Err: err}
		}
		routingKey = name
	}

	body, err := Marshal(msg)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			vErr.Queue = routingKey
		}
		return "", amqp.Publishing{}, err
	}

	deliveryMode := amqp.Persistent
	if cfg.Transient {
		deliveryMode = amqp.Transient
	}

	return routingKey, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: deliveryMode,
		MessageId:    uuid.New().String(),
		Timestamp:    time.Now(),
		Headers:      cfg.Headers,
		Body:         body,
	}, nil
}
