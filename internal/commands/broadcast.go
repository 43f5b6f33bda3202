package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/coleta-calendar/internal/app/bootstrap"
	"github.com/magabrotheeeer/coleta-calendar/internal/config"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	schedulerservice "github.com/magabrotheeeer/coleta-calendar/internal/services/scheduler"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage/backend"
)

// NewBroadcastCmd runs one broadcast in process and prints the result.
func NewBroadcastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "broadcast",
		Short: "Render the calendar and email it to every subscriber now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.MustLoad()
			log := sl.New(cfg.Env, os.Stderr)
			ctx := cmd.Context()

			store, err := backend.Open(ctx, cfg.Storage, log)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := bootstrap.Notifier(cfg, store, nil, log)
			if err != nil {
				return err
			}
			res, err := n.BroadcastCalendar(ctx)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}

// NewEnqueueCmd publishes a broadcast job for the sender worker.
func NewEnqueueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue",
		Short: "Ask the sender worker to broadcast the calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.MustLoad()
			log := sl.New(cfg.Env, os.Stderr)

			conn, err := rabbitmq.Connect(cmd.Context(), cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
			if err != nil {
				return err
			}
			defer conn.Close()
			ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
			if err != nil {
				return err
			}
			defer ch.Close()

			if err := schedulerservice.New(ch, cfg.Interval, log).Publish(schedulerservice.ReasonManual); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "broadcast job queued")
			return err
		},
	}
}
