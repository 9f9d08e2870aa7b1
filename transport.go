package modbus

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/hadrnet/modbusrtu/packet"
	"github.com/tarm/serial"
)

// errorBitmask is the high bit a slave sets on the function code byte of an exception reply.
const errorBitmask = uint8(0x80)

// defaultTransactionTimeout is the deadline covering one whole transact call (write, then read until a
// matching frame is assembled or the deadline elapses) when the caller does not configure one.
const defaultTransactionTimeout = 500 * time.Millisecond

// writeSettleDelay mirrors the delay the RTU devices this package was written against need between the
// request being written and the first byte of the reply appearing; starting to read immediately works on
// some adapters but not reliably on others.
const writeSettleDelay = 30 * time.Millisecond

// readChunkSize is how many bytes Transport asks the port for on each Read call while assembling a frame.
const readChunkSize = 256

// Transport owns one RTU serial connection: the byte sink/source, the receive buffer retained across
// transactions, and the per-transaction timeout. Exactly one transact call is ever in flight; callers
// that share a Transport across goroutines get that serialized for free, since transact locks mu for its
// whole duration.
type Transport struct {
	mu        sync.Mutex
	conn      io.ReadWriteCloser
	timeout   time.Duration
	buf       []byte
	hooks     Hooks
	isFlusher bool
}

// Hooks lets a caller observe the bytes a Transport writes and reads, and the frame it hands off to the
// parser, without interposing on the transact logic itself.
// NB: do not modify the given slice - it is not a copy.
type Hooks interface {
	BeforeWrite(toWrite []byte)
	AfterEachRead(received []byte, n int, err error)
	BeforeParse(received []byte)
}

// Flusher is implemented by byte sinks/sources that can discard unread/unwritten buffered data, such as
// a serial port. Transport calls it after a failed write or a fatal read error so the next transact call
// starts from a clean line.
type Flusher interface {
	Flush() error
}

// TransportOptionFunc configures a Transport at construction time.
type TransportOptionFunc func(t *Transport)

// WithTransportHooks sets the hooks a Transport calls around writes, reads, and parses.
func WithTransportHooks(hooks Hooks) TransportOptionFunc {
	return func(t *Transport) {
		t.hooks = hooks
	}
}

// WithTransportTimeout sets the deadline covering a whole transact call. The default is
// defaultTransactionTimeout.
func WithTransportTimeout(timeout time.Duration) TransportOptionFunc {
	return func(t *Transport) {
		t.timeout = timeout
	}
}

// NewTransport wraps an already-open byte sink/source (typically a serial port) in a Transport. Use
// OpenRTU to both open the port and wrap it in one call.
func NewTransport(conn io.ReadWriteCloser, opts ...TransportOptionFunc) *Transport {
	_, isFlusher := conn.(Flusher)

	t := &Transport{
		conn:      conn,
		timeout:   defaultTransactionTimeout,
		isFlusher: isFlusher,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// SerialConfig is the configuration surface for opening an RTU serial port. These values are opaque to
// the protocol engine; they are passed through to the underlying serial driver unchanged.
type SerialConfig struct {
	// PortName is the OS device path, e.g. "/dev/ttyUSB0" or "COM3".
	PortName string
	// BaudRate in bits per second.
	BaudRate int
	// DataBits is 7 or 8. Zero defaults to 8.
	DataBits byte
	// StopBits is 1 or 2. Zero defaults to 1.
	StopBits byte
	// Parity is ParityNone, ParityEven, or ParityOdd. Zero defaults to ParityNone.
	Parity Parity
	// ReadTimeout bounds a single read syscall on the port; it is unrelated to the per-transact timeout
	// set with WithTransportTimeout; it must be short enough that Transport's read loop can re-check its
	// own deadline between calls. Zero defaults to 100ms.
	ReadTimeout time.Duration
}

// Parity is the serial line parity setting.
type Parity byte

const (
	ParityNone = Parity(serial.ParityNone)
	ParityEven = Parity(serial.ParityEven)
	ParityOdd  = Parity(serial.ParityOdd)
)

// OpenRTU opens the serial port described by cfg and wraps it in a Transport.
func OpenRTU(cfg SerialConfig, opts ...TransportOptionFunc) (*Transport, error) {
	dataBits := cfg.DataBits
	if dataBits == 0 {
		dataBits = 8
	}
	stopBits := cfg.StopBits
	if stopBits == 0 {
		stopBits = 1
	}
	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 100 * time.Millisecond
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.PortName,
		Baud:        cfg.BaudRate,
		Size:        dataBits,
		StopBits:    serial.StopBits(stopBits),
		Parity:      serial.Parity(cfg.Parity),
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, &packet.ModbusError{Kind: packet.KindIO, Err: err}
	}
	return NewTransport(port, opts...), nil
}

// Close closes the underlying port.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}

// SetTimeout changes the deadline covering a whole transact call.
func (t *Transport) SetTimeout(timeout time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = timeout
}

// Timeout returns the deadline covering a whole transact call.
func (t *Transport) Timeout() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeout
}

// transact writes request and blocks until a frame whose unit id and function code (or its exception
// variant) match request is assembled, or the transaction deadline elapses. It returns the complete raw
// frame, CRC trailer included.
func (t *Transport) transact(ctx context.Context, request []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(request) < 2 {
		return nil, &packet.ModbusError{Kind: packet.KindInvalidArgument, Message: "modbus: request frame must contain at least a unit id and function code"}
	}
	expectedUnit := request[0]
	expectedFC := request[1] &^ errorBitmask

	if err := t.write(request); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(t.timeout)
	for {
		frame, err := t.tryExtract(expectedUnit, expectedFC)
		if err != nil {
			return nil, err
		}
		if frame != nil {
			if t.hooks != nil {
				t.hooks.BeforeParse(frame)
			}
			return frame, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, &packet.ModbusError{Kind: packet.KindTimeout, Message: fmt.Sprintf("modbus: timed out waiting for response to function code 0x%02x", expectedFC)}
		}
		if err := t.readMore(ctx, remaining); err != nil {
			return nil, err
		}
	}
}

// tryExtract scans the retained receive buffer for a frame matching expectedUnit/expectedFC, discarding
// or resynchronizing past anything else it finds along the way. It returns (nil, nil) when the buffer
// does not yet hold a complete matching frame and more bytes must be read.
//
// A CRC mismatch on a frame whose length was read off an intact length field is trusted immediately: the
// bad frame is dropped whole and KindCRC is raised right away, leaving whatever follows it (e.g. a
// well-formed reply already buffered behind it) for the next transact call to pick up - transact never
// silently swallows a CRC failure to go hunting for a later good frame in the same call.
func (t *Transport) tryExtract(expectedUnit, expectedFC uint8) ([]byte, error) {
	resyncing := false
	for {
		n, state := classifyFrame(t.buf)
		switch state {
		case needMoreBytes:
			// A stray byte earlier in this resync can make the shifted head misclassify as a longer
			// frame than what actually follows it (a byte-count field colliding with a real function
			// code is common for FC01-04 replies). Waiting on more I/O would stall forever since no
			// more bytes are coming to satisfy that bogus length; keep dropping forward instead. Only
			// treat this as a genuine "wait for more bytes" once the buffer is too short to even name a
			// function code at its own head.
			if resyncing && len(t.buf) > 1 {
				t.buf = t.buf[1:]
				continue
			}
			return nil, nil
		case unrecognizedFC:
			// Not a valid unit-id/function-code pair at the current head; the head byte is almost
			// certainly a stray or the result of a prior resync. Drop it and re-examine.
			resyncing = true
			t.buf = t.buf[1:]
			continue
		}
		if len(t.buf) < n {
			if resyncing && len(t.buf) > 1 {
				t.buf = t.buf[1:]
				continue
			}
			return nil, nil
		}

		candidate := t.buf[:n]
		crc := binary.LittleEndian.Uint16(candidate[n-2:])
		if crc != packet.CRC16(candidate[:n-2]) {
			t.buf = t.buf[n:]
			return nil, &packet.ModbusError{Kind: packet.KindCRC, Message: "modbus: crc16 mismatch in response frame"}
		}

		gotFC := candidate[1] &^ errorBitmask
		if candidate[0] != expectedUnit || gotFC != expectedFC {
			resyncing = true
			t.buf = t.buf[n:]
			continue
		}

		frame := make([]byte, n)
		copy(frame, candidate)
		t.buf = t.buf[n:]
		return frame, nil
	}
}

type classifyState int

const (
	needMoreBytes classifyState = iota
	unrecognizedFC
	classified
)

// classifyFrame decides how many bytes make up the candidate frame at the head of buf, based solely on
// the function code byte and whatever of the frame has arrived so far.
func classifyFrame(buf []byte) (n int, state classifyState) {
	if len(buf) < 2 {
		return 0, needMoreBytes
	}
	fc := buf[1]
	if fc&errorBitmask != 0 {
		return 5, classified
	}
	switch fc {
	case packet.FunctionReadCoils, packet.FunctionReadDiscreteInputs,
		packet.FunctionReadHoldingRegisters, packet.FunctionReadInputRegisters,
		packet.FunctionReadFileRecord, packet.FunctionWriteFileRecord,
		packet.FunctionReadWriteMultipleRegisters:
		if len(buf) < 3 {
			return 0, needMoreBytes
		}
		return 3 + int(buf[2]) + 2, classified
	case packet.FunctionWriteSingleCoil, packet.FunctionWriteSingleRegister,
		packet.FunctionWriteMultipleCoils, packet.FunctionWriteMultipleRegisters:
		return 8, classified
	case packet.FunctionMaskWriteRegister:
		return 10, classified
	case packet.FunctionReadFIFOQueue:
		if len(buf) < 4 {
			return 0, needMoreBytes
		}
		return 4 + (int(buf[2])<<8|int(buf[3])) + 2, classified
	default:
		return 0, unrecognizedFC
	}
}

func (t *Transport) write(data []byte) error {
	if t.hooks != nil {
		t.hooks.BeforeWrite(data)
	}
	if _, err := t.conn.Write(data); err != nil {
		_ = t.flush()
		return &packet.ModbusError{Kind: packet.KindIO, Err: err}
	}
	// Some RTU slaves need a moment between the request landing and the first reply byte leaving the
	// wire; reading immediately works on some adapters but not reliably on others.
	time.Sleep(writeSettleDelay)
	return nil
}

// readMore reads at least one chunk into the retained buffer, or returns a KindIO/KindTimeout error.
// budget bounds how long this call may block; it is always <= the transaction's overall remaining time.
func (t *Transport) readMore(ctx context.Context, budget time.Duration) error {
	chunk := make([]byte, readChunkSize)
	readDeadline := time.Now().Add(budget)
	for {
		select {
		case <-ctx.Done():
			return &packet.ModbusError{Kind: packet.KindTimeout, Err: ctx.Err()}
		default:
		}

		n, err := t.conn.Read(chunk)
		if t.hooks != nil {
			t.hooks.AfterEachRead(chunk[:n], n, err)
		}
		if n > 0 {
			t.buf = append(t.buf, chunk[:n]...)
			return nil
		}
		// os.ErrDeadlineExceeded/io.EOF mean "no bytes this call", not a broken connection: the serial
		// port's own read timeout elapsed, or it momentarily had nothing buffered.
		if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) && !errors.Is(err, io.EOF) {
			_ = t.flush()
			return &packet.ModbusError{Kind: packet.KindIO, Err: err}
		}
		if time.Now().After(readDeadline) {
			return &packet.ModbusError{Kind: packet.KindTimeout, Message: "modbus: no bytes received before transaction deadline"}
		}
	}
}

func (t *Transport) flush() error {
	if !t.isFlusher {
		return nil
	}
	return t.conn.(Flusher).Flush()
}
