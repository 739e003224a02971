// Krolik CLI — отладочная утилита для очередей RabbitMQ:
// публикация JSON-тел и прослушивание очередей.
//
// Использование:
//
//	krolik [--host HOST] [--port PORT] <command> [flags]
//
// Команды:
//
//	send    Публикация сообщения в очередь
//	listen  Прослушивание очереди
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/krolik"
	"github.com/shaiso/krolik/internal/cli"
	"github.com/shaiso/krolik/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	logger := telemetry.SetupLogger()

	var host string
	var port int
	var username, password, vhost string

	rootCmd := &cobra.Command{
		Use:           "krolik",
		Short:         "Krolik CLI — typed RabbitMQ messaging tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", "localhost", "Broker host")
	rootCmd.PersistentFlags().IntVar(&port, "port", krolik.DefaultPort, "Broker port")
	rootCmd.PersistentFlags().StringVar(&username, "user", "guest", "Broker username")
	rootCmd.PersistentFlags().StringVar(&password, "password", "guest", "Broker password")
	rootCmd.PersistentFlags().StringVar(&vhost, "vhost", "/", "Virtual host")

	cfgFn := func() krolik.Config {
		return krolik.Config{
			Host:     host,
			Port:     port,
			Username: username,
			Password: password,
			VHost:    vhost,
			Logger:   logger,
		}
	}

	rootCmd.AddCommand(
		cli.NewSendCmd(cfgFn),
		cli.NewListenCmd(cfgFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
