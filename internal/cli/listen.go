package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/shaiso/krolik"
)

// NewListenCmd создаёт команду прослушивания очереди.
func NewListenCmd(cfgFn func() krolik.Config) *cobra.Command {
	var prefetch int
	var exclusive, transient, autoDelete bool
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "listen QUEUE",
		Short: "Declare a queue and print message bodies",
		Long: `Объявляет очередь, подписывается и печатает тела сообщений
в stdout по одному на строку. Завершается по Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			consumer, err := krolik.NewConsumer(cfgFn())
			if err != nil {
				return err
			}
			defer consumer.Close()

			out := cmd.OutOrStdout()
			err = krolik.Handle(consumer, func(_ context.Context, msg *json.RawMessage) error {
				fmt.Fprintln(out, string(*msg))
				return nil
			}, krolik.ConsumeConfig{
				Queue:         args[0],
				Exclusive:     exclusive,
				Transient:     transient,
				AutoDelete:    autoDelete,
				PrefetchCount: prefetch,
			})
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				go func() {
					if err := http.ListenAndServe(metricsAddr, mux); err != nil {
						slog.Error("metrics server error", "error", err)
					}
				}()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = consumer.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVar(&prefetch, "prefetch", krolik.DefaultPrefetchCount, "Unacknowledged message limit")
	cmd.Flags().BoolVar(&exclusive, "exclusive", false, "Declare the queue exclusive to this connection")
	cmd.Flags().BoolVar(&transient, "transient", false, "Declare the queue non-durable")
	cmd.Flags().BoolVar(&autoDelete, "auto-delete", false, "Delete the queue when the last consumer disconnects")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}
