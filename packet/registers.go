package packet

import (
	"encoding/binary"
	"math"
	"strings"
)

// Registers provides convenient typed access to the word data returned by a register read, addressed
// by the same register address used in the original request (not byte offset).
type Registers struct {
	startAddress uint16
	endAddress   uint16 // end address is not addressable. endAddress-1 is last addressable register.
	data         []byte
}

// NewRegisters creates new instance of Registers over the raw big-endian word bytes returned by a
// Read Holding/Input Registers or Read/Write Multiple Registers response.
func NewRegisters(data []byte, startAddress uint16) (*Registers, error) {
	dataLen := len(data)
	if dataLen < 2 {
		return nil, NewMalformedError("register data must be at least 2 bytes, got %d", dataLen)
	}
	if dataLen%2 != 0 {
		return nil, NewMalformedError("register data length must be an even number of bytes, got %d", dataLen)
	}
	return &Registers{
		startAddress: startAddress,
		endAddress:   startAddress + uint16(dataLen/2),
		data:         data,
	}, nil
}

func (r Registers) register(address uint16) ([]byte, error) {
	if address < r.startAddress {
		return nil, NewMalformedError("address %d is under startAddress bounds", address)
	}
	if address >= r.endAddress {
		return nil, NewMalformedError("address %d is over startAddress+quantity bounds", address)
	}
	startIndex := (address - r.startAddress) * 2
	endIndex := startIndex + 2
	return r.data[startIndex:endIndex], nil
}

func (r Registers) doubleRegister(address uint16) ([]byte, error) {
	if address < r.startAddress {
		return nil, NewMalformedError("address %d is under startAddress bounds", address)
	}
	if address > (r.endAddress - 2) {
		return nil, NewMalformedError("address %d is over startAddress+quantity bounds", address)
	}
	startIndex := (address - r.startAddress) * 2
	endIndex := startIndex + 4
	return r.data[startIndex:endIndex], nil
}

// Bit checks if N-th bit is set in register. NB: Bits are counted from 0 and right to left.
func (r Registers) Bit(address uint16, bit uint8) (bool, error) {
	if bit > 15 {
		return false, NewMalformedError("bit value more than register (16bit) contains")
	}
	register, err := r.register(address)
	if err != nil {
		return false, err
	}
	nThByte := 1 // low byte of register
	if bit > 7 {
		bit -= 8
		nThByte = 0 // high byte of register
	}
	b := register[nThByte]
	return b&(1<<bit) != 0, nil
}

// Uint16 returns register data as uint16 from given address. NB: Uint16 size is 1 register (16bits, 2 bytes).
func (r Registers) Uint16(address uint16) (uint16, error) {
	b, err := r.register(address)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Int16 returns register data as int16 from given address. NB: Int16 size is 1 register (16bits, 2 bytes).
func (r Registers) Int16(address uint16) (int16, error) {
	b, err := r.register(address)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// Uint32 returns register data as uint32 from given address, big-endian high-word-first.
// NB: Uint32 size is 2 registers (32bits, 4 bytes).
func (r Registers) Uint32(address uint16) (uint32, error) {
	b, err := r.doubleRegister(address)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Int32 returns register data as int32 from given address, big-endian high-word-first.
// NB: Int32 size is 2 registers (32bits, 4 bytes).
func (r Registers) Int32(address uint16) (int32, error) {
	b, err := r.doubleRegister(address)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// Float32 returns register data as IEEE-754 float32 from given address, big-endian high-word-first.
// NB: Float32 size is 2 registers (32bits, 4 bytes).
func (r Registers) Float32(address uint16) (float32, error) {
	b, err := r.doubleRegister(address)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// String returns register data as a string starting from given address, length bytes long.
// Data is interpreted as ASCII, 0x0 (null) terminated.
func (r Registers) String(address uint16, length uint16) (string, error) {
	if address < r.startAddress {
		return "", NewMalformedError("address %d is under startAddress bounds", address)
	}
	startIndex := (address - r.startAddress) * 2
	endIndex := startIndex + length
	if int(endIndex) > len(r.data) {
		return "", NewMalformedError("address %d is over data bounds", address)
	}

	builder := new(strings.Builder)
	builder.Grow(int(length))
	for _, b := range r.data[startIndex:endIndex] {
		if b == 0 { // strings are terminated by first null
			break
		}
		builder.WriteByte(b)
	}
	return builder.String(), nil
}
