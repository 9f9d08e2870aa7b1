package packet

import (
	"encoding/binary"
	"fmt"
)

// ErrorKind enumerates the tagged failure modes a builder, parser, transport, or client façade can raise.
type ErrorKind uint8

const (
	// KindInvalidArgument means a builder rejected an out-of-range qty/addr/value/unit_id.
	KindInvalidArgument ErrorKind = iota + 1
	// KindIO means the underlying sink/source failed.
	KindIO
	// KindTimeout means the per-transaction deadline elapsed before a matching frame was assembled.
	KindTimeout
	// KindCRC means a candidate frame failed its CRC check and no further resync within the buffer was possible.
	KindCRC
	// KindException means the slave answered with fc|0x80 and an exception code.
	KindException
	// KindUnexpectedFunctionCode means a CRC-valid frame carried a function code that neither matched the
	// request nor was its exception variant.
	KindUnexpectedFunctionCode
	// KindMalformed means lengths or internal byte counts inside an otherwise CRC-valid frame are inconsistent.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindIO:
		return "io"
	case KindTimeout:
		return "timeout"
	case KindCRC:
		return "crc"
	case KindException:
		return "exception"
	case KindUnexpectedFunctionCode:
		return "unexpected function code"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// ModbusError is the tagged error variant raised by this package, the transport, and the client façade.
// Use errors.As to recover it and switch on Kind; for KindException, Code and Message carry the
// exception-code detail from §7 of the MODBUS Application Protocol.
type ModbusError struct {
	Kind ErrorKind

	// Code is the exception code (1..6, 8, 10, 11 per the MODBUS Application Protocol, or any other byte
	// value the slave sent).
	// Only meaningful when Kind == KindException.
	Code uint8

	Message string

	// Err is the underlying cause, when one exists (e.g. the io.Reader/io.Writer error for KindIO).
	Err error
}

// Error implements the error interface.
func (e *ModbusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("modbus: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("modbus: %s", e.Kind)
}

// Unwrap exposes the underlying cause, if any, to errors.Is/errors.As.
func (e *ModbusError) Unwrap() error {
	return e.Err
}

// NewInvalidArgumentError builds a KindInvalidArgument ModbusError with a formatted message.
func NewInvalidArgumentError(format string, args ...any) *ModbusError {
	return &ModbusError{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NewMalformedError builds a KindMalformed ModbusError with a formatted message.
func NewMalformedError(format string, args ...any) *ModbusError {
	return &ModbusError{Kind: KindMalformed, Message: fmt.Sprintf(format, args...)}
}

// NewUnexpectedFunctionCodeError builds a KindUnexpectedFunctionCode ModbusError.
func NewUnexpectedFunctionCodeError(expected uint8, got uint8) *ModbusError {
	return &ModbusError{
		Kind:    KindUnexpectedFunctionCode,
		Message: fmt.Sprintf("modbus: expected function code 0x%02x in response, got 0x%02x", expected, got),
	}
}

// ErrInvalidCRC is the KindCRC ModbusError returned when a candidate frame's trailer does not match
// the CRC16 computed over its body.
var ErrInvalidCRC = &ModbusError{Kind: KindCRC, Message: "modbus: crc16 mismatch in response frame"}

// exception codes, per MODBUS Application Protocol Specification V1.1b3, page 48-49.
const (
	// ExIllegalFunction is returned when the function code received in the query is not an allowable
	// action for the server.
	ExIllegalFunction = uint8(1)
	// ExIllegalDataAddress is returned when the combination of reference number and transfer length is invalid.
	ExIllegalDataAddress = uint8(2)
	// ExIllegalDataValue is returned when a value in the query data field is not allowable for the server.
	ExIllegalDataValue = uint8(3)
	// ExServerDeviceFailure is returned when an unrecoverable error occurred while the server attempted
	// the requested action.
	ExServerDeviceFailure = uint8(4)
	// ExAcknowledge is returned when the server accepted a long-running request and is still processing it.
	ExAcknowledge = uint8(5)
	// ExServerDeviceBusy is returned when the server is busy processing a long-duration command.
	ExServerDeviceBusy = uint8(6)
	// ExMemoryParityError indicates the extended file area failed a consistency check.
	ExMemoryParityError = uint8(8)
	// ExGatewayPathUnavailable indicates a misconfigured or overloaded gateway.
	ExGatewayPathUnavailable = uint8(10)
	// ExGatewayTargetDeviceFailedToRespond indicates no response was obtained from the target device.
	ExGatewayTargetDeviceFailedToRespond = uint8(11)
)

func exceptionMessage(code uint8) string {
	switch code {
	case ExIllegalFunction:
		return "Illegal Function"
	case ExIllegalDataAddress:
		return "Illegal Data Address"
	case ExIllegalDataValue:
		return "Illegal Data Value"
	case ExServerDeviceFailure:
		return "Slave Device Failure"
	case ExAcknowledge:
		return "Acknowledge"
	case ExServerDeviceBusy:
		return "Slave Device Busy"
	case ExMemoryParityError:
		return "Memory Parity Error"
	case ExGatewayPathUnavailable:
		return "Gateway Path Unavailable"
	case ExGatewayTargetDeviceFailedToRespond:
		return "Gateway Target Device Failed to Respond"
	default:
		return fmt.Sprintf("Modbus exception 0x%02X", code)
	}
}

// NewExceptionError builds a KindException ModbusError for the given exception code.
func NewExceptionError(code uint8) *ModbusError {
	msg := exceptionMessage(code)
	return &ModbusError{
		Kind:    KindException,
		Code:    code,
		Message: fmt.Sprintf("modbus: exception: %s", msg),
	}
}

// AsRTUErrorPacket reports whether data is a well-formed 5 byte RTU exception frame (unit id, fc|0x80,
// exception code, crc lo, crc hi) and, if so, returns the decoded ModbusError. It does not itself
// validate the CRC trailer — callers that read raw wire bytes should check CRC first.
func AsRTUErrorPacket(data []byte) *ModbusError {
	if len(data) != 5 {
		return nil
	}
	if data[1]&functionCodeErrorBitmask == 0 {
		return nil
	}
	return NewExceptionError(data[2])
}

// exceptionFrameCRCOK reports whether a 5 byte candidate exception frame's CRC trailer is valid.
func exceptionFrameCRCOK(data []byte) bool {
	if len(data) != 5 {
		return false
	}
	packetCRC := binary.LittleEndian.Uint16(data[3:5])
	return packetCRC == CRC16(data[:3])
}
