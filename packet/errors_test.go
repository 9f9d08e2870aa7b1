package packet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModbusError_Error(t *testing.T) {
	err := NewInvalidArgumentError("quantity is out of range (%d-%d): %d", 1, 125, 200)
	assert.EqualError(t, err, "quantity is out of range (1-125): 200")

	wrapped := &ModbusError{Kind: KindIO, Err: errors.New("broken pipe")}
	assert.EqualError(t, wrapped, "modbus: io: broken pipe")

	bare := &ModbusError{Kind: KindTimeout}
	assert.EqualError(t, bare, "modbus: timeout")
}

func TestModbusError_Unwrap(t *testing.T) {
	cause := errors.New("broken pipe")
	wrapped := &ModbusError{Kind: KindIO, Err: cause}

	assert.ErrorIs(t, wrapped, cause)
}

func TestNewExceptionError(t *testing.T) {
	err := NewExceptionError(ExIllegalDataAddress)

	assert.Equal(t, KindException, err.Kind)
	assert.Equal(t, ExIllegalDataAddress, err.Code)
	assert.EqualError(t, err, "modbus: exception: Illegal Data Address")
}

func TestNewExceptionError_unknownCode(t *testing.T) {
	err := NewExceptionError(0x99)
	assert.EqualError(t, err, "modbus: exception: Modbus exception 0x99")
}

func TestAsRTUErrorPacket(t *testing.T) {
	var testCases = []struct {
		name   string
		when   []byte
		expect *ModbusError
	}{
		{
			name:   "ok, exception frame",
			when:   []byte{0x11, 0x81, 0x02, 0x00, 0x00},
			expect: NewExceptionError(ExIllegalDataAddress),
		},
		{
			name: "nok, not an exception frame (no error bit)",
			when: []byte{0x11, 0x01, 0x02, 0x00, 0x00},
		},
		{
			name: "nok, wrong length",
			when: []byte{0x11, 0x81, 0x02},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, AsRTUErrorPacket(tc.when))
		})
	}
}
