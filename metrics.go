package krolik

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики регистрируются в prometheus.DefaultRegisterer;
// приложение само решает, отдавать ли их через promhttp.
var (
	// publishedTotal — опубликованные сообщения по очередям.
	publishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "krolik",
		Name:      "published_total",
		Help:      "Messages published, by routing key.",
	}, []string{"queue"})

	// consumedTotal — принятые из очереди сообщения.
	consumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "krolik",
		Name:      "consumed_total",
		Help:      "Messages received from the broker, by queue.",
	}, []string{"queue"})

	// ackedTotal — подтверждённые сообщения.
	ackedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "krolik",
		Name:      "acked_total",
		Help:      "Messages acknowledged after successful handling, by queue.",
	}, []string{"queue"})

	// requeuedTotal — возвращённые в очередь после ошибки обработчика.
	requeuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "krolik",
		Name:      "requeued_total",
		Help:      "Messages returned to the queue after a handler error, by queue.",
	}, []string{"queue"})

	// rejectedTotal — отброшенные сообщения (невалидное тело или ErrReject).
	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "krolik",
		Name:      "rejected_total",
		Help:      "Messages rejected without requeue, by queue.",
	}, []string{"queue"})
)
