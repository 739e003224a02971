package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shaiso/krolik"
)

// NewSendCmd создаёт команду публикации сообщения.
func NewSendCmd(cfgFn func() krolik.Config) *cobra.Command {
	var body string
	var exchange string
	var transient bool

	cmd := &cobra.Command{
		Use:   "send QUEUE",
		Short: "Publish a JSON body to a queue",
		Long: `Публикует JSON-тело в очередь через default exchange.
Тело берётся из флага --body, иначе читается из stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := []byte(body)
			if body == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				payload = data
			}
			if !json.Valid(payload) {
				return errors.New("body is not valid JSON")
			}

			producer, err := krolik.NewProducer(cfgFn())
			if err != nil {
				return err
			}
			defer producer.Close()

			err = producer.SendTo(cmd.Context(), json.RawMessage(payload), krolik.PublishConfig{
				Queue:     args[0],
				Exchange:  exchange,
				Transient: transient,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), "Published to", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "Message body (default: read from stdin)")
	cmd.Flags().StringVar(&exchange, "exchange", "", "Exchange name (default: default exchange)")
	cmd.Flags().BoolVar(&transient, "transient", false, "Do not persist the message across broker restarts")

	return cmd
}
