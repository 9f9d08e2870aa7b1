// Package packet implements Modbus RTU application-data-unit framing: building
// request PDUs for the supported function codes and parsing response PDUs,
// including the CRC-16 trailer and the exception-response path.
package packet

import "encoding/binary"

const (
	functionCodeErrorBitmask = uint8(128)

	// rtuADUMaxLen is the largest a Modbus RTU ADU can ever be: 256 - unit id (1) - CRC (2) = 253 bytes
	// of PDU, plus the 3 bytes of framing.
	rtuADUMaxLen = 256

	// MaxCoilsInReadResponse is the largest quantity a Read Coils / Read Discrete Inputs request may ask for.
	MaxCoilsInReadResponse = uint16(2000)
	// MaxRegistersInReadResponse is the largest quantity a Read Holding/Input Registers request may ask for.
	MaxRegistersInReadResponse = uint16(125)
	// MaxCoilsInWriteRequest is the largest quantity a Write Multiple Coils request may set.
	MaxCoilsInWriteRequest = uint16(1968)
	// MaxRegistersInWriteRequest is the largest quantity a Write Multiple Registers request may set.
	MaxRegistersInWriteRequest = uint16(123)
	// MaxReadRegistersInReadWriteRequest is the read-side quantity limit for Read/Write Multiple Registers.
	MaxReadRegistersInReadWriteRequest = uint16(125)
	// MaxWriteRegistersInReadWriteRequest is the write-side quantity limit for Read/Write Multiple Registers.
	MaxWriteRegistersInReadWriteRequest = uint16(121)
	// MaxFileRecordLength is the largest quantity of words a single file-record sub-reference may carry.
	MaxFileRecordLength = uint16(120)
)

const (
	// FunctionReadCoils is function code for Read Coils (FC01)
	FunctionReadCoils = uint8(0x01)
	// FunctionReadDiscreteInputs is function code for Read Discrete Inputs (FC02)
	FunctionReadDiscreteInputs = uint8(0x02)
	// FunctionReadHoldingRegisters is function code for Read Holding Registers (FC03)
	FunctionReadHoldingRegisters = uint8(0x03)
	// FunctionReadInputRegisters is function code for Read Input Registers (FC04)
	FunctionReadInputRegisters = uint8(0x04)
	// FunctionWriteSingleCoil is function code for Write Single Coil (FC05)
	FunctionWriteSingleCoil = uint8(0x05)
	// FunctionWriteSingleRegister is function code for Write Single Register (FC06)
	FunctionWriteSingleRegister = uint8(0x06)
	// FunctionWriteMultipleCoils is function code for Write Multiple Coils (FC15/0x0F)
	FunctionWriteMultipleCoils = uint8(0x0F)
	// FunctionWriteMultipleRegisters is function code for Write Multiple Registers (FC16/0x10)
	FunctionWriteMultipleRegisters = uint8(0x10)
	// FunctionReadFileRecord is function code for Read File Record (FC20/0x14)
	FunctionReadFileRecord = uint8(0x14)
	// FunctionWriteFileRecord is function code for Write File Record (FC21/0x15)
	FunctionWriteFileRecord = uint8(0x15)
	// FunctionMaskWriteRegister is function code for Mask Write Register (FC22/0x16)
	FunctionMaskWriteRegister = uint8(0x16)
	// FunctionReadWriteMultipleRegisters is function code for Read/Write Multiple Registers (FC23/0x17)
	FunctionReadWriteMultipleRegisters = uint8(0x17)
	// FunctionReadFIFOQueue is function code for Read FIFO Queue (FC24/0x18)
	FunctionReadFIFOQueue = uint8(0x18)
)

// CRC16 calculates the Modbus 16 bit cyclic redundancy check over data.
//
// Polynomial: x16 + x15 + x2 + 1 (normal hex 0x8005, reversed 0xA001). Initial value: 0xFFFF.
// Bits are processed LSB-first and the result is sent over the wire low byte first.
//
// Example of frame in hexadecimal: 01 04 02 FF FF B8 80 (CRC-16 over `01 04 02 FF FF` gives 0x80B8,
// transmitted as `B8 80`).
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc&1 == 1 {
				crc = (crc >> 1) ^ 0xA001
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// appendCRC computes the CRC16 over frame[:len(frame)-2] and writes it, low byte first, into the
// trailing 2 bytes of frame. frame must already be sized to its final length.
func appendCRC(frame []byte) []byte {
	n := len(frame)
	crc := CRC16(frame[:n-2])
	frame[n-2] = uint8(crc)
	frame[n-1] = uint8(crc >> 8)
	return frame
}

func putReadRequestBytes(dst []byte, unitID uint8, functionCode uint8, startAddress uint16, quantity uint16) {
	dst[0] = unitID
	dst[1] = functionCode
	binary.BigEndian.PutUint16(dst[2:4], startAddress)
	binary.BigEndian.PutUint16(dst[4:6], quantity)
}

func validateUnitID(unitID uint8) error {
	if unitID < 1 || unitID > 247 {
		return NewInvalidArgumentError("unit id must be in range 1-247, got: %d", unitID)
	}
	return nil
}

func validateQuantity(quantity uint16, min uint16, max uint16) error {
	if quantity < min || quantity > max {
		return NewInvalidArgumentError("quantity is out of range (%d-%d): %d", min, max, quantity)
	}
	return nil
}
