package krolik

import (
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{Host: "localhost"}.withDefaults()

	if cfg.Port != 5672 {
		t.Errorf("expected port 5672, got %d", cfg.Port)
	}
	if cfg.Username != "guest" || cfg.Password != "guest" {
		t.Errorf("expected guest/guest, got %s/%s", cfg.Username, cfg.Password)
	}
	if cfg.VHost != "/" {
		t.Errorf("expected vhost /, got %q", cfg.VHost)
	}
	if cfg.DialTimeout != DefaultDialTimeout {
		t.Errorf("expected dial timeout %v, got %v", DefaultDialTimeout, cfg.DialTimeout)
	}
	if cfg.Logger == nil {
		t.Error("expected default logger")
	}
}

func TestConfig_WithDefaults_KeepsExplicit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := Config{
		Host:        "mq.internal",
		Port:        5673,
		Username:    "svc",
		Password:    "secret",
		VHost:       "prod",
		Heartbeat:   time.Minute,
		DialTimeout: 5 * time.Second,
		Logger:      logger,
	}.withDefaults()

	if cfg.Port != 5673 || cfg.Username != "svc" || cfg.Password != "secret" {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
	if cfg.VHost != "prod" || cfg.Heartbeat != time.Minute || cfg.DialTimeout != 5*time.Second {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
	if cfg.Logger != logger {
		t.Error("explicit logger overwritten")
	}
}

func TestConfig_URI(t *testing.T) {
	uri := Config{Host: "mq.internal", VHost: "prod"}.withDefaults().uri()

	parsed, err := amqp.ParseURI(uri)
	if err != nil {
		t.Fatalf("generated URI does not parse: %v", err)
	}
	if parsed.Host != "mq.internal" {
		t.Errorf("expected host mq.internal, got %q", parsed.Host)
	}
	if parsed.Port != 5672 {
		t.Errorf("expected port 5672, got %d", parsed.Port)
	}
	if parsed.Username != "guest" || parsed.Password != "guest" {
		t.Errorf("expected guest/guest, got %s/%s", parsed.Username, parsed.Password)
	}
	if parsed.Vhost != "prod" {
		t.Errorf("expected vhost prod, got %q", parsed.Vhost)
	}
}

func TestConsumeConfig_WithDefaults(t *testing.T) {
	tests := []struct {
		name     string
		prefetch int
		want     int
	}{
		{name: "zero", prefetch: 0, want: DefaultPrefetchCount},
		{name: "negative", prefetch: -1, want: DefaultPrefetchCount},
		{name: "explicit", prefetch: 10, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ConsumeConfig{PrefetchCount: tt.prefetch}.withDefaults()
			if cfg.PrefetchCount != tt.want {
				t.Errorf("expected prefetch %d, got %d", tt.want, cfg.PrefetchCount)
			}
		})
	}

	// Нулевая конфигурация — задокументированные значения по умолчанию.
	zero := ConsumeConfig{}.withDefaults()
	if zero.Exclusive || zero.Transient || zero.AutoDelete {
		t.Errorf("zero value must mean exclusive=false, durable=true, auto_delete=false: %+v", zero)
	}
}
