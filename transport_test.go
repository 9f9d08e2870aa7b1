package modbus

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/hadrnet/modbusrtu/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type transportConnMock struct {
	mock.Mock
}

func (m *transportConnMock) Read(b []byte) (n int, err error) {
	args := m.Called(b)
	return args.Int(0), args.Error(1)
}

func (m *transportConnMock) Write(b []byte) (n int, err error) {
	args := m.Called(b)
	return args.Int(0), args.Error(1)
}

func (m *transportConnMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *transportConnMock) Flush() error {
	args := m.Called()
	return args.Error(0)
}

type transportHooksMock struct {
	mock.Mock
}

func (h *transportHooksMock) BeforeWrite(toWrite []byte) {
	h.Called(toWrite)
}

func (h *transportHooksMock) AfterEachRead(received []byte, n int, err error) {
	h.Called(received, n, err)
}

func (h *transportHooksMock) BeforeParse(received []byte) {
	h.Called(received)
}

// withCRC appends the little-endian CRC16 trailer to body, the way every RTU frame builder does.
func withCRC(body []byte) []byte {
	crc := packet.CRC16(body)
	return append(append([]byte{}, body...), byte(crc), byte(crc>>8))
}

// readCoilsRequestExample is the request used across transact tests: unit 0x20, FC01, address 0, qty 16.
func readCoilsRequestExample() []byte {
	return withCRC([]byte{0x20, 0x01, 0x00, 0x00, 0x00, 0x10})
}

// readCoilsResponseExample is the matching reply: 2 bytes of coil data.
func readCoilsResponseExample() []byte {
	return withCRC([]byte{0x20, 0x01, 0x02, 0x01, 0x02})
}

func TestNewTransport_withOptions(t *testing.T) {
	conn := new(transportConnMock)
	hooks := new(transportHooksMock)

	tr := NewTransport(conn, WithTransportHooks(hooks), WithTransportTimeout(2*time.Second))

	assert.Equal(t, hooks, tr.hooks)
	assert.Equal(t, 2*time.Second, tr.Timeout())
	assert.True(t, tr.isFlusher)
}

func TestNewTransport_defaults(t *testing.T) {
	conn := new(transportConnMock)
	tr := NewTransport(conn)

	assert.Equal(t, defaultTransactionTimeout, tr.Timeout())
	assert.Nil(t, tr.hooks)
}

func TestTransport_SetTimeout(t *testing.T) {
	tr := NewTransport(new(transportConnMock))
	tr.SetTimeout(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, tr.Timeout())
}

func TestTransport_Close(t *testing.T) {
	conn := new(transportConnMock)
	conn.On("Close").Once().Return(nil)

	tr := NewTransport(conn)
	assert.NoError(t, tr.Close())
	conn.AssertExpectations(t)
}

func TestTransport_transact_oneRead(t *testing.T) {
	conn := new(transportConnMock)
	hooks := new(transportHooksMock)
	request := readCoilsRequestExample()
	response := readCoilsResponseExample()

	conn.On("Write", request).Once().Return(len(request), nil)
	conn.On("Read", mock.Anything).Once().Return(len(response), nil).Run(func(args mock.Arguments) {
		copy(args.Get(0).([]byte), response)
	})
	hooks.On("BeforeWrite", request).Once()
	hooks.On("AfterEachRead", response, len(response), nil).Once()
	hooks.On("BeforeParse", response).Once()

	tr := NewTransport(conn, WithTransportHooks(hooks))
	got, err := tr.transact(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, response, got)
	assert.Empty(t, tr.buf)
	conn.AssertExpectations(t)
	hooks.AssertExpectations(t)
}

func TestTransport_transact_acrossTwoReads(t *testing.T) {
	conn := new(transportConnMock)
	request := readCoilsRequestExample()
	response := readCoilsResponseExample()

	conn.On("Write", request).Once().Return(len(request), nil)
	conn.On("Read", mock.Anything).Once().Return(4, nil).Run(func(args mock.Arguments) {
		copy(args.Get(0).([]byte), response[:4])
	})
	conn.On("Read", mock.Anything).Once().Return(len(response)-4, nil).Run(func(args mock.Arguments) {
		copy(args.Get(0).([]byte), response[4:])
	})

	tr := NewTransport(conn)
	got, err := tr.transact(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, response, got)
	conn.AssertExpectations(t)
}

func TestTransport_transact_toleratesDeadlineExceededAndEOF(t *testing.T) {
	conn := new(transportConnMock)
	request := readCoilsRequestExample()
	response := readCoilsResponseExample()

	conn.On("Write", request).Once().Return(len(request), nil)
	conn.On("Read", mock.Anything).Once().Return(0, io.EOF)
	conn.On("Read", mock.Anything).Once().Return(len(response), nil).Run(func(args mock.Arguments) {
		copy(args.Get(0).([]byte), response)
	})

	tr := NewTransport(conn)
	got, err := tr.transact(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, response, got)
	conn.AssertExpectations(t)
}

func TestTransport_transact_discardsMismatchedFrameThenMatches(t *testing.T) {
	conn := new(transportConnMock)
	request := readCoilsRequestExample()
	response := readCoilsResponseExample()

	// a stale, CRC-valid reply to some earlier Write Single Coil request arrives first.
	stale := withCRC([]byte{0x20, 0x05, 0x00, 0x01, 0xFF, 0x00})
	chunk := append(append([]byte{}, stale...), response...)

	conn.On("Write", request).Once().Return(len(request), nil)
	conn.On("Read", mock.Anything).Once().Return(len(chunk), nil).Run(func(args mock.Arguments) {
		copy(args.Get(0).([]byte), chunk)
	})

	tr := NewTransport(conn)
	got, err := tr.transact(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, response, got)
	conn.AssertExpectations(t)
}

func TestTransport_transact_resyncsPastStrayBytes(t *testing.T) {
	conn := new(transportConnMock)
	request := readCoilsRequestExample()
	response := readCoilsResponseExample()

	// 0x99 is arbitrary; 0x50 matches no function code and has no exception bit set, so the state
	// machine drops both leading bytes one at a time before it reaches the real frame.
	chunk := append([]byte{0x99, 0x50}, response...)

	conn.On("Write", request).Once().Return(len(request), nil)
	conn.On("Read", mock.Anything).Once().Return(len(chunk), nil).Run(func(args mock.Arguments) {
		copy(args.Get(0).([]byte), chunk)
	})

	tr := NewTransport(conn)
	got, err := tr.transact(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, response, got)
	conn.AssertExpectations(t)
}

func TestTransport_transact_exceptionVariantMatches(t *testing.T) {
	conn := new(transportConnMock)
	request := readCoilsRequestExample()
	exception := withCRC([]byte{0x20, 0x81, 0x02})

	conn.On("Write", request).Once().Return(len(request), nil)
	conn.On("Read", mock.Anything).Once().Return(len(exception), nil).Run(func(args mock.Arguments) {
		copy(args.Get(0).([]byte), exception)
	})

	tr := NewTransport(conn)
	got, err := tr.transact(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, exception, got)
	conn.AssertExpectations(t)
}

func TestTransport_transact_terminalCRCFailure(t *testing.T) {
	conn := new(transportConnMock)
	request := readCoilsRequestExample()
	response := readCoilsResponseExample()
	response[len(response)-1] ^= 0xFF // corrupt the CRC high byte

	conn.On("Write", request).Once().Return(len(request), nil)
	conn.On("Read", mock.Anything).Once().Return(len(response), nil).Run(func(args mock.Arguments) {
		copy(args.Get(0).([]byte), response)
	})

	tr := NewTransport(conn)
	got, err := tr.transact(context.Background(), request)

	assert.Nil(t, got)
	var target *packet.ModbusError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, packet.KindCRC, target.Kind)
	assert.Empty(t, tr.buf)
	conn.AssertExpectations(t)
}

// TestTransport_transact_crcFailureThenGoodFrameOnNextCall covers the CRC resync property: a CRC-corrupt
// FC03 reply immediately followed by a well-formed FC03 reply, delivered in one chunk, causes the first
// transact call to raise KindCRC; the good frame is left buffered for a second transact call to return.
func TestTransport_transact_crcFailureThenGoodFrameOnNextCall(t *testing.T) {
	conn := new(transportConnMock)
	request := withCRC([]byte{0x20, 0x03, 0x00, 0x00, 0x00, 0x01})
	good := withCRC([]byte{0x20, 0x03, 0x02, 0x00, 0x2A})
	bad := withCRC([]byte{0x20, 0x03, 0x02, 0x00, 0x2A})
	bad[len(bad)-1] ^= 0xFF // corrupt the CRC high byte; the byte-count field itself stays intact
	chunk := append(append([]byte{}, bad...), good...)

	conn.On("Write", request).Twice().Return(len(request), nil)
	conn.On("Read", mock.Anything).Once().Return(len(chunk), nil).Run(func(args mock.Arguments) {
		copy(args.Get(0).([]byte), chunk)
	})

	tr := NewTransport(conn)

	got, err := tr.transact(context.Background(), request)
	assert.Nil(t, got)
	var target *packet.ModbusError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, packet.KindCRC, target.Kind)
	assert.Equal(t, good, tr.buf)

	got, err = tr.transact(context.Background(), request)
	assert.NoError(t, err)
	assert.Equal(t, good, got)
	conn.AssertExpectations(t)
}

func TestTransport_transact_timeout(t *testing.T) {
	conn := new(transportConnMock)
	request := readCoilsRequestExample()

	conn.On("Write", request).Once().Return(len(request), nil)
	conn.On("Read", mock.Anything).Return(0, nil)

	tr := NewTransport(conn, WithTransportTimeout(10*time.Millisecond))
	got, err := tr.transact(context.Background(), request)

	assert.Nil(t, got)
	var target *packet.ModbusError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, packet.KindTimeout, target.Kind)
}

func TestTransport_transact_writeError(t *testing.T) {
	conn := new(transportConnMock)
	conn.On("Flush").Once().Return(nil)
	request := readCoilsRequestExample()

	conn.On("Write", request).Once().Return(0, errors.New("broken pipe"))

	tr := NewTransport(conn)
	got, err := tr.transact(context.Background(), request)

	assert.Nil(t, got)
	var target *packet.ModbusError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, packet.KindIO, target.Kind)
	conn.AssertExpectations(t)
}

func TestTransport_transact_readError(t *testing.T) {
	conn := new(transportConnMock)
	conn.On("Flush").Once().Return(nil)
	request := readCoilsRequestExample()

	conn.On("Write", request).Once().Return(len(request), nil)
	conn.On("Read", mock.Anything).Once().Return(0, io.ErrClosedPipe)

	tr := NewTransport(conn)
	got, err := tr.transact(context.Background(), request)

	assert.Nil(t, got)
	var target *packet.ModbusError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, packet.KindIO, target.Kind)
	conn.AssertExpectations(t)
}

func TestTransport_transact_contextCancelled(t *testing.T) {
	conn := new(transportConnMock)
	request := readCoilsRequestExample()

	conn.On("Write", request).Once().Return(len(request), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := NewTransport(conn)
	got, err := tr.transact(ctx, request)

	assert.Nil(t, got)
	var target *packet.ModbusError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, packet.KindTimeout, target.Kind)
	conn.AssertExpectations(t)
}

func TestTransport_transact_rejectsShortRequest(t *testing.T) {
	tr := NewTransport(new(transportConnMock))
	got, err := tr.transact(context.Background(), []byte{0x20})

	assert.Nil(t, got)
	assert.EqualError(t, err, "modbus: request frame must contain at least a unit id and function code")
}

func TestClassifyFrame(t *testing.T) {
	var testCases = []struct {
		name      string
		data      []byte
		expectN   int
		expectSt  classifyState
	}{
		{name: "too short to see the function code", data: []byte{0x20}, expectSt: needMoreBytes},
		{name: "exception bit set is always 5 bytes", data: []byte{0x20, 0x81}, expectN: 5, expectSt: classified},
		{name: "fixed 8 byte reply, write single coil", data: []byte{0x20, 0x05}, expectN: 8, expectSt: classified},
		{name: "fixed 10 byte reply, mask write register", data: []byte{0x20, 0x16}, expectN: 10, expectSt: classified},
		{name: "variable read coils reply needs byte count", data: []byte{0x20, 0x01}, expectSt: needMoreBytes},
		{name: "variable read coils reply with byte count known", data: []byte{0x20, 0x01, 0x02}, expectN: 7, expectSt: classified},
		{name: "variable read/write multiple registers reply", data: []byte{0x20, 0x17, 0x04}, expectN: 9, expectSt: classified},
		{name: "FIFO queue reply needs two byte-count bytes", data: []byte{0x20, 0x18, 0x00}, expectSt: needMoreBytes},
		{name: "FIFO queue reply with byte count known", data: []byte{0x20, 0x18, 0x00, 0x06}, expectN: 12, expectSt: classified},
		{name: "unrecognized function code", data: []byte{0x20, 0x7F}, expectSt: unrecognizedFC},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, st := classifyFrame(tc.data)
			assert.Equal(t, tc.expectSt, st)
			if tc.expectSt == classified {
				assert.Equal(t, tc.expectN, n)
			}
		})
	}
}
