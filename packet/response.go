package packet

import (
	"encoding/binary"
	"fmt"
)

// Response is common interface of modbus response packets
type Response interface {
	// FunctionCode returns function code of this response
	FunctionCode() uint8
	// Bytes returns packet as bytes form
	Bytes() []byte
}

// ParseRTUResponse parses data into the Response matching functionCode, dispatching to the per-FC
// parser. It exists for callers that want generic dispatch (e.g. a test harness echoing whatever the
// wire produced); Client always calls the specific Parse<Name>ResponseRTU function for the operation
// it issued, since it already knows which shape to expect.
func ParseRTUResponse(data []byte) (Response, error) {
	if len(data) < 4 {
		return nil, NewMalformedError("response data too short to be a Modbus RTU packet: %d bytes", len(data))
	}

	functionCode := data[1] &^ functionCodeErrorBitmask
	switch functionCode {
	case FunctionReadCoils:
		return ParseReadCoilsResponseRTU(data)
	case FunctionReadDiscreteInputs:
		return ParseReadDiscreteInputsResponseRTU(data)
	case FunctionReadHoldingRegisters:
		return ParseReadHoldingRegistersResponseRTU(data)
	case FunctionReadInputRegisters:
		return ParseReadInputRegistersResponseRTU(data)
	case FunctionWriteSingleCoil:
		return ParseWriteSingleCoilResponseRTU(data)
	case FunctionWriteSingleRegister:
		return ParseWriteSingleRegisterResponseRTU(data)
	case FunctionWriteMultipleCoils:
		return ParseWriteMultipleCoilsResponseRTU(data)
	case FunctionWriteMultipleRegisters:
		return ParseWriteMultipleRegistersResponseRTU(data)
	case FunctionMaskWriteRegister:
		return ParseMaskWriteRegisterResponseRTU(data)
	case FunctionReadWriteMultipleRegisters:
		return ParseReadWriteMultipleRegistersResponseRTU(data)
	case FunctionReadFileRecord:
		return ParseReadFileRecordResponseRTU(data)
	case FunctionWriteFileRecord:
		return ParseWriteFileRecordResponseRTU(data)
	case FunctionReadFIFOQueue:
		return ParseReadFIFOQueueResponseRTU(data)
	default:
		return nil, &ModbusError{
			Kind:    KindUnexpectedFunctionCode,
			Message: fmt.Sprintf("unknown function code parsed: %v", functionCode),
		}
	}
}

// checkResponsePreamble implements the shared preamble every RTU response parser runs before decoding
// its payload: minimum length, CRC, exception, then function-code match against expectedFC. It returns
// nil when the frame passes, so callers can go on to decode the PDU body.
//
// minLen is the minimum length at which the frame's own byte-count field (if any) can be trusted; it is
// not necessarily the frame's final length, since FC 0x01/0x02/0x03/0x04/0x14/0x15/0x17/0x18 carry a
// variable length body.
//
// The exception check runs before the minLen check: a slave's exception response is always exactly 5
// bytes (unit id, fc|0x80, exception code, crc lo, crc hi), which is shorter than minLen for most
// function codes, so enforcing minLen first would misreport a legitimate exception as a malformed frame.
func checkResponsePreamble(data []byte, expectedFC uint8, minLen int) error {
	if len(data) < 5 {
		return NewMalformedError("response for function code 0x%02x is too short: %d bytes", expectedFC, len(data))
	}
	n := len(data)
	packetCRC := binary.LittleEndian.Uint16(data[n-2:])
	if packetCRC != CRC16(data[:n-2]) {
		return ErrInvalidCRC
	}
	if data[1]&functionCodeErrorBitmask != 0 {
		return NewExceptionError(data[2])
	}
	if len(data) < minLen {
		return NewMalformedError("response for function code 0x%02x is too short: %d bytes", expectedFC, len(data))
	}
	if data[1] != expectedFC {
		return NewUnexpectedFunctionCodeError(expectedFC, data[1])
	}
	return nil
}

// isBitSet checks if N-th bit is set in data. NB: Bits are counted from `startBit` and left to right (bytes).
func isBitSet(data []byte, startBit uint16, bit uint16) (bool, error) {
	targetBit := int(bit) - int(startBit)
	if bit < startBit {
		return false, NewMalformedError("bit can not be before startBit")
	}
	if len(data)*8 <= targetBit {
		return false, NewMalformedError("bit value more than data contains bits")
	}
	nThByte := targetBit / 8
	nThBit := targetBit % 8
	b := data[nThByte]
	return b&(1<<nThBit) != 0, nil
}

// packBitsLSBFirst packs states (LSB-first within each byte, starting at the first state) into the
// fewest bytes needed to hold len(states) bits. Unused high bits of the last byte are zero.
func packBitsLSBFirst(states []bool) []byte {
	byteCount := (len(states) + 7) / 8
	out := make([]byte, byteCount)
	for i, on := range states {
		if !on {
			continue
		}
		out[i/8] |= 1 << uint(i%8)
	}
	return out
}

// unpackBitsLSBFirst unpacks up to quantity bits (LSB-first within each byte) from data.
func unpackBitsLSBFirst(data []byte, quantity uint16) []bool {
	out := make([]bool, quantity)
	for i := range out {
		b := data[i/8]
		out[i] = b&(1<<uint(i%8)) != 0
	}
	return out
}
