package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"floodwatch/internal/config"
	"floodwatch/internal/logging"
	"floodwatch/internal/modules/alerts/types"
	"floodwatch/internal/mqtt"
	"floodwatch/internal/risk"
)

func newWatchCmd() *cobra.Command {
	var (
		broker string
		port   int
		topic  string
		region string
		level  string
		count  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print alerts as they are published over MQTT",
		Long: `Subscribe to the alert topic and print every alert. Connection
settings default to the MQTT_* environment of the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger := logging.New(cfg, version, appName)

			o := mqtt.OptionsFromConfig(cfg)
			if broker != "" {
				o.Broker = broker
			}
			if cmd.Flags().Changed("port") {
				o.Port = port
			}
			if topic != "" {
				o.Topic = strings.Trim(topic, "/")
			}
			if o.Broker == "" {
				return fmt.Errorf("no broker: set --broker or MQTT_BROKER")
			}
			o.ClientID = appName + "-" + uuid.NewString()[:8]

			var want risk.Level
			if level != "" {
				l, ok := risk.ParseLevel(level)
				if !ok {
					return fmt.Errorf("unknown level %q", level)
				}
				want = l
			}
			filter := "#"
			if region != "" {
				filter = types.Slug(region)
			}

			client, err := mqtt.NewClient(o, logger)
			if err != nil {
				return err
			}
			defer client.Disconnect()

			messages := make(chan types.Message, 64)
			err = client.Subscribe(cmd.Context(), filter, func(topic string, payload []byte) {
				var m types.Message
				if err := json.Unmarshal(payload, &m); err != nil {
					logger.Warn("undecodable alert", "topic", topic, "error", err)
					return
				}
				select {
				case messages <- m:
				default:
					logger.Warn("dropping alert, printer is behind", "topic", topic)
				}
			})
			if err != nil {
				return err
			}
			if err := client.Connect(cmd.Context()); err != nil {
				return err
			}
			logger.Info("watching", "topic", client.Topic(filter))

			seen := 0
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case m := <-messages:
					if want != "" && m.Level != want {
						continue
					}
					if err := printMessage(cmd, m, asJSON); err != nil {
						return err
					}
					seen++
					if count > 0 && seen >= count {
						return nil
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&broker, "broker", "", "broker host, overrides $MQTT_BROKER")
	cmd.Flags().IntVar(&port, "port", 1883, "broker port, overrides $MQTT_PORT")
	cmd.Flags().StringVar(&topic, "topic", "", "topic prefix, overrides $MQTT_TOPIC")
	cmd.Flags().StringVar(&region, "region", "", "only this region")
	cmd.Flags().StringVar(&level, "level", "", "only this level: Low, Moderate or High")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "exit after n alerts (0 watches until interrupted)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print each alert as a JSON line")
	return cmd
}

func printMessage(cmd *cobra.Command, m types.Message, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(m)
	}
	cmd.Printf("%s  %-18s %-14s %7.2f\n", m.Time.Local().Format("15:04:05"), m.Region, m.Label, m.Score)
	return nil
}
