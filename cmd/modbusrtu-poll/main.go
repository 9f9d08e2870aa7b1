package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	modbus "github.com/hadrnet/modbusrtu"
	"github.com/hadrnet/modbusrtu/packet"
	"github.com/hadrnet/modbusrtu/poller"
)

/*
Example `config.json` content to poll a device on /dev/ttyUSB0 for 2 holding registers every second

{
  "port": "/dev/ttyUSB0",
  "baud_rate": 9600,
  "unit_id": 1,
  "function_code": 3,
  "start_address": 0,
  "quantity": 2,
  "interval": "1s"
}
*/

type config struct {
	Port         string `json:"port"`
	BaudRate     int    `json:"baud_rate"`
	UnitID       uint8  `json:"unit_id"`
	FunctionCode uint8  `json:"function_code"`
	StartAddress uint16 `json:"start_address"`
	Quantity     uint16 `json:"quantity"`
	Interval     string `json:"interval"`
}

// usage: ./modbusrtu-poll -config=config.json
func main() {
	var configLoc string
	flag.StringVar(&configLoc, "config", "config.json", "path to json configuration")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	rawConfig, err := os.ReadFile(configLoc) // #nosec G304
	if err != nil {
		logger.Error("reading config.json failed", "err", err)
		return
	}

	var conf config
	if err := json.Unmarshal(rawConfig, &conf); err != nil {
		logger.Error("config json unmarshalling failed", "err", err)
		return
	}
	interval, err := time.ParseDuration(conf.Interval)
	if err != nil {
		logger.Error("parsing interval failed", "err", err)
		return
	}

	transport, err := modbus.OpenRTU(modbus.SerialConfig{
		PortName: conf.Port,
		BaudRate: conf.BaudRate,
	})
	if err != nil {
		logger.Error("opening serial port failed", "err", err)
		return
	}
	defer transport.Close()

	client := modbus.NewClient(transport)
	client.SetUnitID(conf.UnitID)

	op, err := operationFor(conf.FunctionCode, conf.StartAddress, conf.Quantity)
	if err != nil {
		logger.Error("unsupported configuration", "err", err)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	p := poller.New(client, op, poller.Config{Logger: logger, Interval: interval})
	go func() {
		for {
			select {
			case result := <-p.ResultChan:
				raw, err := json.Marshal(struct {
					Time  time.Time `json:"time"`
					Value any       `json:"value"`
				}{Time: result.Time, Value: result.Value})
				if err != nil {
					logger.Error("failed to marshal result", "err", err)
					continue
				}
				fmt.Printf("%s\n", raw)
			case <-ctx.Done():
				return
			}
		}
	}()

	if err = p.Poll(ctx); err != nil {
		logger.Error("polling ended with failure", "err", err)
		return
	}
	logger.Info("polling ended")
}

// operationFor builds the poller.Operation matching functionCode, one of the four read operations
// (FC 0x01-0x04) a config file can select for a simple monitoring job.
func operationFor(functionCode uint8, startAddress, quantity uint16) (poller.Operation, error) {
	switch functionCode {
	case packet.FunctionReadHoldingRegisters:
		return func(ctx context.Context, client *modbus.Client) (any, error) {
			result, err := client.ReadHoldingRegisters(ctx, startAddress, quantity)
			if err != nil {
				return nil, err
			}
			return result.Data, nil
		}, nil
	case packet.FunctionReadInputRegisters:
		return func(ctx context.Context, client *modbus.Client) (any, error) {
			result, err := client.ReadInputRegisters(ctx, startAddress, quantity)
			if err != nil {
				return nil, err
			}
			return result.Data, nil
		}, nil
	case packet.FunctionReadCoils:
		return func(ctx context.Context, client *modbus.Client) (any, error) {
			result, err := client.ReadCoils(ctx, startAddress, quantity)
			if err != nil {
				return nil, err
			}
			return result.Coils, nil
		}, nil
	case packet.FunctionReadDiscreteInputs:
		return func(ctx context.Context, client *modbus.Client) (any, error) {
			result, err := client.ReadDiscreteInputs(ctx, startAddress, quantity)
			if err != nil {
				return nil, err
			}
			return result.Inputs, nil
		}, nil
	default:
		return nil, fmt.Errorf("function code 0x%02x is not supported by this tool", functionCode)
	}
}
