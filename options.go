package krolik

import (
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Значения по умолчанию.
const (
	// DefaultPort — стандартный порт AMQP.
	DefaultPort = 5672

	// DefaultPrefetchCount — лимит неподтверждённых сообщений на канал.
	DefaultPrefetchCount = 3

	// DefaultConsumerHeartbeat — heartbeat для Consumer.
	// Producer использует значение клиента amqp091.
	DefaultConsumerHeartbeat = 6 * time.Minute

	// DefaultDialTimeout — таймаут установки соединения.
	DefaultDialTimeout = 30 * time.Second
)

// Config — параметры подключения Producer и Consumer.
// Нулевое значение поля означает значение по умолчанию.
type Config struct {
	// Host — адрес брокера. Обязательное поле.
	Host string

	// Port — порт брокера. По умолчанию 5672.
	Port int

	// Username и Password — учётные данные. По умолчанию guest/guest.
	Username string
	Password string

	// VHost — виртуальный хост. По умолчанию "/".
	VHost string

	// Heartbeat — интервал heartbeat. Ноль: для Consumer берётся
	// DefaultConsumerHeartbeat, для Producer — значение клиента.
	Heartbeat time.Duration

	// DialTimeout — таймаут установки TCP-соединения. По умолчанию 30s.
	DialTimeout time.Duration

	// Logger — логгер компонента. По умолчанию slog.Default().
	Logger *slog.Logger
}

// withDefaults возвращает копию конфигурации с заполненными
// значениями по умолчанию.
func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Username == "" {
		c.Username = "guest"
	}
	if c.Password == "" {
		c.Password = "guest"
	}
	if c.VHost == "" {
		c.VHost = "/"
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// uri собирает AMQP URI. Вызывается после withDefaults.
func (c Config) uri() string {
	u := amqp.URI{
		Scheme:   "amqp",
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
		Vhost:    c.VHost,
	}
	return u.String()
}

// PublishConfig — параметры одной публикации.
// Нулевое значение — публикация в default exchange с ключом
// маршрутизации, равным имени очереди типа.
type PublishConfig struct {
	// Queue переопределяет ключ маршрутизации.
	// По умолчанию — имя очереди типа сообщения.
	Queue string

	// Exchange — имя обменника. По умолчанию "" (default exchange,
	// маршрутизация напрямую в очередь по ключу).
	Exchange string

	// Mandatory — вернуть сообщение, если оно не попало ни в одну очередь.
	Mandatory bool

	// Transient — не переживать рестарт брокера.
	// По умолчанию сообщения публикуются как persistent.
	Transient bool

	// Headers — заголовки сообщения.
	Headers amqp.Table
}

// ConsumeConfig — параметры объявления очереди и подписки.
// Нулевое значение: exclusive=false, durable=true, auto_delete=false,
// prefetch_count=3 — как и задокументировано.
type ConsumeConfig struct {
	// Queue переопределяет имя очереди.
	// По умолчанию — имя типа сообщения.
	Queue string

	// Exclusive — очередь доступна только этому соединению.
	Exclusive bool

	// Transient — очередь не переживает рестарт брокера.
	// По умолчанию очереди durable.
	Transient bool

	// AutoDelete — удалить очередь после отключения последнего подписчика.
	AutoDelete bool

	// PrefetchCount — лимит неподтверждённых сообщений.
	// Значения <= 0 заменяются на DefaultPrefetchCount.
	PrefetchCount int

	// Args — аргументы объявления очереди (x-dead-letter-exchange и т.п.).
	Args amqp.Table
}

// withDefaults нормализует параметры подписки.
func (c ConsumeConfig) withDefaults() ConsumeConfig {
	if c.PrefetchCount <= 0 {
		c.PrefetchCount = DefaultPrefetchCount
	}
	return c
}
