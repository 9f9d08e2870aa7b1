package poller

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/hadrnet/modbusrtu"
	"github.com/hadrnet/modbusrtu/packet"
	"github.com/stretchr/testify/assert"
)

// fakeConn is a minimal io.ReadWriteCloser that replays one canned reply per Write, so a test client
// can poll repeatedly without a real RTU line.
type fakeConn struct {
	mu    sync.Mutex
	reply func(writeCount int) []byte
}

func (f *fakeConn) Write(b []byte) (int, error) {
	return len(b), nil
}

func (f *fakeConn) Read(b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data := f.reply(1)
	if len(data) == 0 {
		return 0, nil
	}
	return copy(b, data), nil
}

func (f *fakeConn) Close() error { return nil }

func withCRC(body []byte) []byte {
	crc := packet.CRC16(body)
	return append(append([]byte{}, body...), byte(crc), byte(crc>>8))
}

func readHoldingRegistersOp(startAddress, quantity uint16) Operation {
	return func(ctx context.Context, client *modbus.Client) (any, error) {
		result, err := client.ReadHoldingRegisters(ctx, startAddress, quantity)
		if err != nil {
			return nil, err
		}
		return result.Data, nil
	}
}

func TestPoller_Poll_collectsResults(t *testing.T) {
	reply := withCRC([]byte{0x01, 0x03, 0x02, 0x00, 0x2a})
	conn := &fakeConn{reply: func(int) []byte { return reply }}
	transport := modbus.NewTransport(conn, modbus.WithTransportTimeout(200*time.Millisecond))
	client := modbus.NewClient(transport)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	testTime := time.Unix(1615662935, 0).In(time.UTC)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	p := New(client, readHoldingRegistersOp(10, 1), Config{
		Logger:   logger,
		Interval: 20 * time.Millisecond,
		TimeNow:  func() time.Time { return testTime },
	})

	err := p.Poll(ctx)
	assert.NoError(t, err)

	result := <-p.ResultChan
	assert.Equal(t, testTime, result.Time)
	assert.Equal(t, []byte{0x00, 0x2a}, result.Value)

	stats := p.Statistics()
	assert.True(t, stats.RequestOKCount > 0)
	assert.Equal(t, uint64(0), stats.RequestErrCount)
}

func TestPoller_Poll_countsModbusErrors(t *testing.T) {
	// exception reply: illegal data address for FC03
	reply := withCRC([]byte{0x01, 0x83, 0x02})
	conn := &fakeConn{reply: func(int) []byte { return reply }}
	transport := modbus.NewTransport(conn, modbus.WithTransportTimeout(200*time.Millisecond))
	client := modbus.NewClient(transport)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	p := New(client, readHoldingRegistersOp(10, 1), Config{
		Logger:   logger,
		Interval: 15 * time.Millisecond,
		OnErrorFunc: func(err error) error {
			return err
		},
	})

	err := p.Poll(ctx)
	assert.NoError(t, err)

	stats := p.Statistics()
	assert.Equal(t, uint64(0), stats.RequestOKCount)
	assert.True(t, stats.RequestModbusErrCount > 0)
}

func TestPoller_Poll_suppressedErrorsDoNotCount(t *testing.T) {
	reply := withCRC([]byte{0x01, 0x83, 0x02})
	conn := &fakeConn{reply: func(int) []byte { return reply }}
	transport := modbus.NewTransport(conn, modbus.WithTransportTimeout(200*time.Millisecond))
	client := modbus.NewClient(transport)

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	p := New(client, readHoldingRegistersOp(10, 1), Config{
		Logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Interval: 15 * time.Millisecond,
		OnErrorFunc: func(err error) error {
			return nil
		},
	})

	err := p.Poll(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), p.Statistics().RequestErrCount)
}

func TestPoller_Poll_alreadyRunning(t *testing.T) {
	conn := &fakeConn{reply: func(int) []byte { return nil }}
	transport := modbus.NewTransport(conn, modbus.WithTransportTimeout(50*time.Millisecond))
	client := modbus.NewClient(transport)

	p := New(client, readHoldingRegistersOp(0, 1), Config{Interval: 10 * time.Millisecond})
	p.isRunning.Store(true)

	err := p.Poll(context.Background())
	assert.EqualError(t, err, "poller is already running")
}

func TestPoller_Poll_contextCancelledImmediately(t *testing.T) {
	conn := &fakeConn{reply: func(int) []byte { return nil }}
	transport := modbus.NewTransport(conn, modbus.WithTransportTimeout(50*time.Millisecond))
	client := modbus.NewClient(transport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(client, readHoldingRegistersOp(0, 1), Config{Interval: 10 * time.Millisecond})
	err := p.Poll(ctx)
	assert.NoError(t, err)
}

func TestPoller_Poll_retriesAfterRepeatedTimeouts(t *testing.T) {
	conn := &fakeConn{reply: func(int) []byte { return nil }}
	transport := modbus.NewTransport(conn, modbus.WithTransportTimeout(5*time.Millisecond))
	client := modbus.NewClient(transport)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	p := New(client, readHoldingRegistersOp(0, 1), Config{
		Logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Interval: 2 * time.Millisecond,
	})

	err := p.Poll(ctx)
	assert.NoError(t, err)
	assert.True(t, p.Statistics().RequestErrCount >= 5)
}
