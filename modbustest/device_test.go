package modbustest

import (
	"context"
	"testing"
	"time"

	modbus "github.com/hadrnet/modbusrtu"
	"github.com/hadrnet/modbusrtu/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(device *Device) *modbus.Client {
	transport := modbus.NewTransport(device, modbus.WithTransportTimeout(200*time.Millisecond))
	return modbus.NewClient(transport)
}

func TestDevice_ReadHoldingRegisters(t *testing.T) {
	device := NewDevice(1)
	device.HoldingRegisters[0] = 0x0000
	device.HoldingRegisters[1] = 0x0001

	client := newTestClient(device)
	result, err := client.ReadHoldingRegisters(context.Background(), 0, 2)
	require.NoError(t, err)

	registers, err := result.AsRegisters(0)
	require.NoError(t, err)
	v0, err := registers.Uint16(0)
	require.NoError(t, err)
	v1, err := registers.Uint16(1)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0000), v0)
	assert.Equal(t, uint16(0x0001), v1)
}

func TestDevice_WriteThenReadCoils(t *testing.T) {
	device := NewDevice(1)
	client := newTestClient(device)

	_, err := client.WriteMultipleCoils(context.Background(), 0, []bool{true, false, true})
	require.NoError(t, err)

	result, err := client.ReadCoils(context.Background(), 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, result.Coils)
}

func TestDevice_WriteSingleRegister(t *testing.T) {
	device := NewDevice(1)
	client := newTestClient(device)

	_, err := client.WriteSingleRegister(context.Background(), 5, []byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), device.HoldingRegisters[5])
}

func TestDevice_UnknownFunctionCodeReturnsException(t *testing.T) {
	device := NewDevice(1)
	client := newTestClient(device)

	_, err := client.MaskWriteRegister(context.Background(), 0, 0xff, 0x00)
	var modbusErr *packet.ModbusError
	require.ErrorAs(t, err, &modbusErr)
	assert.Equal(t, packet.KindException, modbusErr.Kind)
	assert.Equal(t, packet.ExIllegalFunction, modbusErr.Code)
}

func TestDevice_IgnoresFramesForOtherUnitIDs(t *testing.T) {
	device := NewDevice(2)
	client := newTestClient(device)
	client.SetTimeout(30 * time.Millisecond)

	_, err := client.ReadHoldingRegisters(context.Background(), 0, 1)
	var modbusErr *packet.ModbusError
	require.ErrorAs(t, err, &modbusErr)
	assert.Equal(t, packet.KindTimeout, modbusErr.Kind)
}

func TestDevice_OnRequestHook(t *testing.T) {
	device := NewDevice(1)
	var captured []byte
	device.OnRequest = func(request []byte) {
		captured = append([]byte{}, request...)
	}

	client := newTestClient(device)
	_, err := client.ReadHoldingRegisters(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), captured[0])
	assert.Equal(t, packet.FunctionReadHoldingRegisters, captured[1])
}
