package krolik

import (
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// defaultClientHeartbeat — heartbeat клиента amqp091 (как в amqp.Dial).
const defaultClientHeartbeat = 10 * time.Second

// connection — соединение и канал AMQP одного Producer или Consumer.
//
// Соединение принадлежит владельцу эксклюзивно: не разделяется,
// не переподключается; живёт от конструктора до Close.
type connection struct {
	addr   string
	logger *slog.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

// dialBroker устанавливает соединение и открывает канал.
// Недоступный брокер — *ConnectionError.
func dialBroker(cfg Config, heartbeat time.Duration) (*connection, error) {
	addr := cfg.uri()

	conn, err := amqp.DialConfig(addr, amqp.Config{
		Heartbeat: heartbeat,
		Dial:      amqp.DefaultDial(cfg.DialTimeout),
	})
	if err != nil {
		return nil, &ConnectionError{Addr: cfg.Host, Err: err}
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, &ConnectionError{Addr: cfg.Host, Err: err}
	}

	cfg.Logger.Debug("connected to broker", "host", cfg.Host, "vhost", cfg.VHost)

	return &connection{
		addr:    addr,
		logger:  cfg.Logger,
		conn:    conn,
		channel: ch,
	}, nil
}

// Channel возвращает канал AMQP. После Close возвращает nil.
func (c *connection) Channel() *amqp.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channel
}

// Close закрывает канал и соединение. Повторные вызовы — no-op.
func (c *connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, err)
		}
		c.channel = nil
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, err)
		}
		c.conn = nil
	}

	if len(errs) > 0 {
		return &ConnectionError{Err: errs[0]}
	}

	c.logger.Debug("connection closed")
	return nil
}

// closedByOwner сообщает, закрыл ли соединение сам владелец.
// Разрыв со стороны брокера сюда не попадает.
func (c *connection) closedByOwner() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
