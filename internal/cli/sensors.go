package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/smartfarm/backend/internal/client"
	"github.com/smartfarm/backend/internal/domain/farm"
	"github.com/smartfarm/backend/internal/infrastructure/mqttingest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSensorsCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sensors",
		Aliases: []string{"sensor", "s"},
		Short:   "Record and inspect sensor readings",
	}
	cmd.AddCommand(
		newSensorsRecordCmd(opts),
		newSensorsListCmd(opts),
		newSensorsLatestCmd(opts),
		newSensorsSimulateCmd(opts),
	)
	return cmd
}

func newSensorsRecordCmd(opts *Options) *cobra.Command {
	var (
		readingType string
		value       float64
		unit        string
		at          string
	)

	cmd := &cobra.Command{
		Use:     "record <field-id>",
		Short:   "Record one reading",
		Example: `  farmctl sensors record 6f1c... --type temperature --value 21.5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in := client.ReadingInput{FieldID: id, Type: readingType, Value: value, Unit: unit}
			if at != "" {
				ts, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at %q: want RFC 3339", at)
				}
				in.Timestamp = &ts
			}
			reading, err := opts.farm.RecordReading(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd, reading)
		},
	}
	cmd.Flags().StringVar(&readingType, "type", "", "Reading type (temperature, humidity, soilMoisture, light, ph, other)")
	cmd.Flags().Float64Var(&value, "value", 0, "Measured value")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit (defaults per type)")
	cmd.Flags().StringVar(&at, "at", "", "Measurement time, RFC 3339 (default now)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newSensorsListCmd(opts *Options) *cobra.Command {
	var q client.ReadingQuery

	cmd := &cobra.Command{
		Use:   "list <field-id>",
		Short: "List readings of a field, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			readings, err := opts.farm.ListReadings(cmd.Context(), id, q)
			if err != nil {
				return err
			}
			return printJSON(cmd, readings)
		},
	}
	cmd.Flags().StringVar(&q.Type, "type", "", "Only readings of this type")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "Maximum number of readings (server default when 0)")
	return cmd
}

func newSensorsLatestCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "latest <field-id>",
		Short: "Show the dashboard readings of a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			readings, err := opts.farm.LatestReadings(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd, readings)
		},
	}
}

type simulateOptions struct {
	broker   string
	clientID string
	topic    string
	interval time.Duration
	count    int
	types    []string
	min      float64
	max      float64
}

func newSensorsSimulateCmd(opts *Options) *cobra.Command {
	so := simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate <field-id>",
		Short: "Publish random readings for a field over MQTT",
		Long: `Publish random readings to the field's topic, one per type every
--interval, until --count rounds have been sent or the command is
interrupted. The field id replaces the + in --topic, which should match the
server's mqtt.topic. The server picks them up when its MQTT bridge is enabled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if mqttingest.FieldSegment(so.topic) < 0 {
				return fmt.Errorf("--topic %q needs a + segment for the field id", so.topic)
			}
			if so.min > so.max {
				return fmt.Errorf("--min %.2f is greater than --max %.2f", so.min, so.max)
			}
			types := make([]farm.ReadingType, 0, len(so.types))
			for _, s := range so.types {
				t, err := farm.ParseReadingType(s)
				if err != nil {
					return err
				}
				types = append(types, t)
			}

			clientID := so.clientID
			if clientID == "" {
				clientID = fmt.Sprintf("farmctl-sim-%d", time.Now().UnixNano())
			}
			pub, err := opts.NewPublisher(so.broker, clientID)
			if err != nil {
				return err
			}
			defer pub.Close()
			opts.logger.Info("Connected to MQTT broker", zap.String("broker", so.broker), zap.String("client_id", clientID))

			topic := mqttingest.TopicFor(so.topic, id)
			sent := 0
			publish := func() error {
				for _, t := range types {
					value := math.Round((so.min+rand.Float64()*(so.max-so.min))*100) / 100
					now := time.Now().UTC()
					data, err := json.Marshal(mqttingest.Payload{Type: string(t), Value: &value, Timestamp: &now})
					if err != nil {
						return err
					}
					if err := pub.Publish(topic, data); err != nil {
						return fmt.Errorf("publish to %s: %w", topic, err)
					}
					sent++
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s=%.2f\n", topic, t, value)
				}
				return nil
			}

			ticker := time.NewTicker(so.interval)
			defer ticker.Stop()
			for round := 1; ; round++ {
				if err := publish(); err != nil {
					return err
				}
				if so.count > 0 && round >= so.count {
					break
				}
				select {
				case <-cmd.Context().Done():
					opts.logger.Info("Simulation interrupted", zap.Int("published", sent))
					return nil
				case <-ticker.C:
				}
			}
			opts.logger.Info("Simulation finished", zap.Int("published", sent))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&so.broker, "broker", envOr("FARMCTL_BROKER", defaultBroker), "MQTT broker address (env FARMCTL_BROKER)")
	flags.StringVar(&so.clientID, "client-id", "", "MQTT client id (default generated)")
	flags.StringVar(&so.topic, "topic", mqttingest.DefaultTopic, "Topic filter, + is replaced by the field id")
	flags.DurationVar(&so.interval, "interval", 2*time.Second, "Delay between rounds")
	flags.IntVar(&so.count, "count", 0, "Rounds to publish, 0 runs until interrupted")
	flags.StringSliceVar(&so.types, "types", []string{"temperature", "humidity"}, "Reading types to publish")
	flags.Float64Var(&so.min, "min", 15, "Lowest simulated value")
	flags.Float64Var(&so.max, "max", 35, "Highest simulated value")
	return cmd
}
