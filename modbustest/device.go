// Package modbustest provides an in-memory RTU slave device for exercising a Client/Transport in tests
// without a real serial line.
package modbustest

import (
	"encoding/binary"
	"sync"

	"github.com/hadrnet/modbusrtu/packet"
)

// Device is an io.ReadWriteCloser backed by a coil/register map. Writing an RTU request frame to it
// queues the matching RTU response frame for the next Read call, the way a real slave's UART would.
// Unsupported function codes produce a Modbus exception response (ExIllegalFunction) rather than an
// error, since on the wire that is exactly what a real device does. Addresses that were never populated
// read back as zero/false.
type Device struct {
	mu sync.Mutex

	// UnitID is the unit id this device answers to; requests addressed to any other unit id (and not the
	// broadcast id 0) are silently ignored, as a real RTU slave on the same line would ignore them.
	UnitID uint8

	Coils            map[uint16]bool
	DiscreteInputs   map[uint16]bool
	HoldingRegisters map[uint16]uint16
	InputRegisters   map[uint16]uint16

	// OnRequest, if set, is called with every request frame this device receives, in Write order.
	OnRequest func(request []byte)

	pending []byte
}

// NewDevice creates an empty Device answering to unitID with all maps initialized and ready to populate.
func NewDevice(unitID uint8) *Device {
	return &Device{
		UnitID:           unitID,
		Coils:            make(map[uint16]bool),
		DiscreteInputs:   make(map[uint16]bool),
		HoldingRegisters: make(map[uint16]uint16),
		InputRegisters:   make(map[uint16]uint16),
	}
}

// Write accepts one RTU request frame (CRC included) and queues its response for the next Read call. The
// frame's own CRC is not checked - Device assumes its caller (normally Transport) only ever writes frames
// it has itself just built.
func (d *Device) Write(b []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.OnRequest != nil {
		d.OnRequest(b)
	}
	if len(b) >= 1 && b[0] != d.UnitID && b[0] != 0 {
		return len(b), nil
	}
	d.pending = append(d.pending, d.handle(b)...)
	return len(b), nil
}

// Read drains the response queued by the most recent Write call. It returns (0, nil) - not an error -
// when nothing is queued, mirroring a serial port's own read timeout expiring with no bytes arrived.
func (d *Device) Read(b []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.pending) == 0 {
		return 0, nil
	}
	n := copy(b, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}

// Close is a no-op; Device holds no OS resources.
func (d *Device) Close() error {
	return nil
}

func (d *Device) handle(req []byte) []byte {
	if len(req) < 2 {
		return nil
	}
	unitID, fc := req[0], req[1]
	switch fc {
	case packet.FunctionReadCoils:
		return d.handleReadBits(unitID, req, d.Coils, packet.FunctionReadCoils)
	case packet.FunctionReadDiscreteInputs:
		return d.handleReadBits(unitID, req, d.DiscreteInputs, packet.FunctionReadDiscreteInputs)
	case packet.FunctionReadHoldingRegisters:
		return d.handleReadRegisters(unitID, req, d.HoldingRegisters, packet.FunctionReadHoldingRegisters)
	case packet.FunctionReadInputRegisters:
		return d.handleReadRegisters(unitID, req, d.InputRegisters, packet.FunctionReadInputRegisters)
	case packet.FunctionWriteSingleCoil:
		return d.handleWriteSingleCoil(unitID, req)
	case packet.FunctionWriteSingleRegister:
		return d.handleWriteSingleRegister(unitID, req)
	case packet.FunctionWriteMultipleCoils:
		return d.handleWriteMultipleCoils(unitID, req)
	case packet.FunctionWriteMultipleRegisters:
		return d.handleWriteMultipleRegisters(unitID, req)
	default:
		return exceptionFrame(unitID, fc, packet.ExIllegalFunction)
	}
}

func (d *Device) handleReadBits(unitID uint8, req []byte, bits map[uint16]bool, fc uint8) []byte {
	if len(req) < 8 {
		return exceptionFrame(unitID, fc, packet.ExIllegalDataValue)
	}
	startAddress := binary.BigEndian.Uint16(req[2:4])
	quantity := binary.BigEndian.Uint16(req[4:6])
	if quantity == 0 || quantity > packet.MaxCoilsInReadResponse {
		return exceptionFrame(unitID, fc, packet.ExIllegalDataValue)
	}

	byteLen := (int(quantity) + 7) / 8
	data := make([]byte, byteLen)
	for i := uint16(0); i < quantity; i++ {
		if bits[startAddress+i] {
			data[i/8] |= 1 << (i % 8)
		}
	}

	result := make([]byte, 3+byteLen)
	result[0] = unitID
	result[1] = fc
	result[2] = byte(byteLen)
	copy(result[3:], data)
	return appendCRC(result)
}

func (d *Device) handleReadRegisters(unitID uint8, req []byte, registers map[uint16]uint16, fc uint8) []byte {
	if len(req) < 8 {
		return exceptionFrame(unitID, fc, packet.ExIllegalDataValue)
	}
	startAddress := binary.BigEndian.Uint16(req[2:4])
	quantity := binary.BigEndian.Uint16(req[4:6])
	if quantity == 0 || quantity > packet.MaxRegistersInReadResponse {
		return exceptionFrame(unitID, fc, packet.ExIllegalDataValue)
	}

	data := make([]byte, int(quantity)*2)
	for i := uint16(0); i < quantity; i++ {
		binary.BigEndian.PutUint16(data[i*2:], registers[startAddress+i])
	}

	result := make([]byte, 3+len(data))
	result[0] = unitID
	result[1] = fc
	result[2] = byte(len(data))
	copy(result[3:], data)
	return appendCRC(result)
}

func (d *Device) handleWriteSingleCoil(unitID uint8, req []byte) []byte {
	if len(req) < 8 {
		return exceptionFrame(unitID, packet.FunctionWriteSingleCoil, packet.ExIllegalDataValue)
	}
	address := binary.BigEndian.Uint16(req[2:4])
	value := binary.BigEndian.Uint16(req[4:6])
	if value != 0xFF00 && value != 0x0000 {
		return exceptionFrame(unitID, packet.FunctionWriteSingleCoil, packet.ExIllegalDataValue)
	}
	d.Coils[address] = value == 0xFF00

	result := append([]byte{}, req[:6]...)
	result[0] = unitID
	return appendCRC(result)
}

func (d *Device) handleWriteSingleRegister(unitID uint8, req []byte) []byte {
	if len(req) < 8 {
		return exceptionFrame(unitID, packet.FunctionWriteSingleRegister, packet.ExIllegalDataValue)
	}
	address := binary.BigEndian.Uint16(req[2:4])
	value := binary.BigEndian.Uint16(req[4:6])
	d.HoldingRegisters[address] = value

	result := append([]byte{}, req[:6]...)
	result[0] = unitID
	return appendCRC(result)
}

func (d *Device) handleWriteMultipleCoils(unitID uint8, req []byte) []byte {
	if len(req) < 7 {
		return exceptionFrame(unitID, packet.FunctionWriteMultipleCoils, packet.ExIllegalDataValue)
	}
	startAddress := binary.BigEndian.Uint16(req[2:4])
	quantity := binary.BigEndian.Uint16(req[4:6])
	byteCount := int(req[6])
	if quantity == 0 || quantity > packet.MaxCoilsInWriteRequest || len(req) < 7+byteCount {
		return exceptionFrame(unitID, packet.FunctionWriteMultipleCoils, packet.ExIllegalDataValue)
	}
	data := req[7 : 7+byteCount]
	for i := uint16(0); i < quantity; i++ {
		d.Coils[startAddress+i] = data[i/8]&(1<<(i%8)) != 0
	}

	result := make([]byte, 6)
	result[0] = unitID
	result[1] = packet.FunctionWriteMultipleCoils
	binary.BigEndian.PutUint16(result[2:4], startAddress)
	binary.BigEndian.PutUint16(result[4:6], quantity)
	return appendCRC(result)
}

func (d *Device) handleWriteMultipleRegisters(unitID uint8, req []byte) []byte {
	if len(req) < 7 {
		return exceptionFrame(unitID, packet.FunctionWriteMultipleRegisters, packet.ExIllegalDataValue)
	}
	startAddress := binary.BigEndian.Uint16(req[2:4])
	quantity := binary.BigEndian.Uint16(req[4:6])
	byteCount := int(req[6])
	if quantity == 0 || quantity > packet.MaxRegistersInWriteRequest || byteCount != int(quantity)*2 || len(req) < 7+byteCount {
		return exceptionFrame(unitID, packet.FunctionWriteMultipleRegisters, packet.ExIllegalDataValue)
	}
	data := req[7 : 7+byteCount]
	for i := uint16(0); i < quantity; i++ {
		d.HoldingRegisters[startAddress+i] = binary.BigEndian.Uint16(data[i*2:])
	}

	result := make([]byte, 6)
	result[0] = unitID
	result[1] = packet.FunctionWriteMultipleRegisters
	binary.BigEndian.PutUint16(result[2:4], startAddress)
	binary.BigEndian.PutUint16(result[4:6], quantity)
	return appendCRC(result)
}

func exceptionFrame(unitID, fc, exceptionCode uint8) []byte {
	frame := []byte{unitID, fc | 0x80, exceptionCode, 0, 0}
	crc := packet.CRC16(frame[:3])
	frame[3], frame[4] = byte(crc), byte(crc>>8)
	return frame
}

func appendCRC(frame []byte) []byte {
	crc := packet.CRC16(frame)
	return append(frame, byte(crc), byte(crc>>8))
}
