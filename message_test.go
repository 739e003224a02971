package krolik

import (
	"errors"
	"reflect"
	"testing"
)

type Order struct {
	ID    int     `json:"id" validate:"required"`
	Total float64 `json:"total" validate:"gte=0"`
}

type Invoice struct {
	Number string `json:"number" validate:"required"`
}

// QueueName переопределяет имя очереди для Invoice.
func (Invoice) QueueName() string { return "billing.invoices" }

type Shipment struct {
	Code string `json:"code" validate:"required"`
}

// QueueName на pointer receiver — должен работать и для значения.
func (*Shipment) QueueName() string { return "logistics.shipments" }

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Order
	}{
		{name: "simple", msg: Order{ID: 1, Total: 9.99}},
		{name: "zero total", msg: Order{ID: 42, Total: 0}},
		{name: "large values", msg: Order{ID: 1<<31 - 1, Total: 123456.78}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := Marshal(tt.msg)
			if err != nil {
				t.Fatalf("unexpected marshal error: %v", err)
			}

			var got Order
			if err := Unmarshal(body, &got); err != nil {
				t.Fatalf("unexpected unmarshal error: %v", err)
			}

			if !reflect.DeepEqual(got, tt.msg) {
				t.Errorf("round trip mismatch: got %+v, want %+v", got, tt.msg)
			}
		})
	}
}

func TestMarshal_InvalidModel(t *testing.T) {
	// ID обязателен: нулевое значение не проходит required.
	_, err := Marshal(Order{Total: 5})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	var fields FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("expected FieldErrors inside, got %v", vErr.Err)
	}
	// Ключ — из json-тега, не из имени поля Go.
	if _, ok := fields["id"]; !ok {
		t.Errorf("expected error for field %q, got %v", "id", fields)
	}
}

func TestMarshal_NegativeTotal(t *testing.T) {
	_, err := Marshal(Order{ID: 1, Total: -1})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUnmarshal_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{name: "truncated", body: []byte(`{"id":`)},
		{name: "not json", body: []byte(`hello`)},
		{name: "wrong field type", body: []byte(`{"id":"one","total":9.99}`)},
		{name: "invalid fields", body: []byte(`{"id":0,"total":9.99}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Order
			err := Unmarshal(tt.body, &got)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestQueueNameOf_Default(t *testing.T) {
	name, err := QueueNameOf(Order{ID: 1, Total: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Order" {
		t.Errorf("expected %q, got %q", "Order", name)
	}

	// Имя стабильно между вызовами и не зависит от указателя.
	again, _ := QueueNameOf(&Order{ID: 2, Total: 2})
	if again != name {
		t.Errorf("queue name not stable: %q vs %q", again, name)
	}
}

func TestQueueNameOf_Override(t *testing.T) {
	tests := []struct {
		name string
		msg  any
		want string
	}{
		{name: "value receiver", msg: Invoice{Number: "A-1"}, want: "billing.invoices"},
		{name: "value receiver via pointer", msg: &Invoice{Number: "A-1"}, want: "billing.invoices"},
		{name: "pointer receiver", msg: Shipment{Code: "S-1"}, want: "logistics.shipments"},
		{name: "pointer receiver via pointer", msg: &Shipment{Code: "S-1"}, want: "logistics.shipments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := QueueNameOf(tt.msg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.want {
				t.Errorf("expected %q, got %q", tt.want, name)
			}
		})
	}
}

func TestQueueName_SameForProducerAndConsumer(t *testing.T) {
	// Тип отображается ровно в одну очередь на обоих путях:
	// публикация (QueueNameOf) и регистрация обработчика (queueNameFor).
	producerSide, err := QueueNameOf(Shipment{Code: "S-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	consumerSide, err := queueNameFor[Shipment]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if producerSide != consumerSide {
		t.Errorf("same type resolves to two queues: producer %q, consumer %q", producerSide, consumerSide)
	}
	if producerSide != "logistics.shipments" {
		t.Errorf("expected %q, got %q", "logistics.shipments", producerSide)
	}
}

func TestQueueNameOf_UnnamedType(t *testing.T) {
	_, err := QueueNameOf(struct{ X int }{X: 1})
	if !errors.Is(err, ErrUnnamedType) {
		t.Errorf("expected ErrUnnamedType, got %v", err)
	}
}

func TestQueueNameFor(t *testing.T) {
	name, err := queueNameFor[Order]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Order" {
		t.Errorf("expected %q, got %q", "Order", name)
	}

	name, err = queueNameFor[Invoice]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "billing.invoices" {
		t.Errorf("expected %q, got %q", "billing.invoices", name)
	}

	if _, err := queueNameFor[struct{ X int }](); !errors.Is(err, ErrUnnamedType) {
		t.Errorf("expected ErrUnnamedType, got %v", err)
	}
}
