package packet

import "encoding/binary"

// ReadFIFOQueueResponseRTU is RTU Response for Read FIFO Queue (FC=24/0x18)
//
// Example packet (2 queued registers): 0x11 0x18 0x00 0x06 0x00 0x02 0x00 0x0a 0x00 0x0b 0xF4 0x52
// 0x11 - unit id (0)
// 0x18 - function code (1)
// 0x00 0x06 - byte count of the rest of the response (2,3)
// 0x00 0x02 - FIFO count, number of registers in the queue (4,5)
// 0x00 0x0a 0x00 0x0b - queued register data (6,7,8,9)
// CRC16 trails the frame
type ReadFIFOQueueResponseRTU struct {
	ReadFIFOQueueResponse
}

// ReadFIFOQueueResponse is Response for Read FIFO Queue (FC=24/0x18)
type ReadFIFOQueueResponse struct {
	UnitID    uint8
	ByteCount uint16
	FIFOCount uint16
	Data      []byte
}

// Bytes returns ReadFIFOQueueResponseRTU packet as bytes form
func (r ReadFIFOQueueResponseRTU) Bytes() []byte {
	result := make([]byte, 4+int(r.ByteCount)+2)
	bytes := r.ReadFIFOQueueResponse.bytes(result)
	return appendCRC(bytes)
}

// ParseReadFIFOQueueResponseRTU parses given bytes into ReadFIFOQueueResponseRTU
func ParseReadFIFOQueueResponseRTU(data []byte) (*ReadFIFOQueueResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionReadFIFOQueue, 8); err != nil {
		return nil, err
	}
	byteCount := binary.BigEndian.Uint16(data[2:4])
	if len(data) != 4+int(byteCount)+2 {
		return nil, NewMalformedError("response byte count %d does not match packet length %d", byteCount, len(data))
	}
	fifoCount := binary.BigEndian.Uint16(data[4:6])
	if int(fifoCount) > 31 {
		return nil, NewMalformedError("FIFO count %d exceeds the protocol maximum of 31 registers", fifoCount)
	}
	if int(byteCount) != 2+2*int(fifoCount) {
		return nil, NewMalformedError("byte count %d is inconsistent with FIFO count %d", byteCount, fifoCount)
	}
	return &ReadFIFOQueueResponseRTU{
		ReadFIFOQueueResponse: ReadFIFOQueueResponse{
			UnitID:    data[0],
			ByteCount: byteCount,
			FIFOCount: fifoCount,
			Data:      data[6 : 6+2*int(fifoCount)],
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r ReadFIFOQueueResponse) FunctionCode() uint8 {
	return FunctionReadFIFOQueue
}

// Bytes returns ReadFIFOQueueResponse packet as bytes form
func (r ReadFIFOQueueResponse) Bytes() []byte {
	return r.bytes(make([]byte, 4+len(r.Data)))
}

func (r ReadFIFOQueueResponse) bytes(bytes []byte) []byte {
	bytes[0] = r.UnitID
	bytes[1] = FunctionReadFIFOQueue
	binary.BigEndian.PutUint16(bytes[2:4], r.ByteCount)
	binary.BigEndian.PutUint16(bytes[4:6], r.FIFOCount)
	copy(bytes[6:], r.Data)
	return bytes
}

// AsRegisters returns the queued register data as Registers for more convenient typed access. Queued
// registers have no natural address of their own on the slave, so address 0 is used as the base.
func (r ReadFIFOQueueResponse) AsRegisters() (*Registers, error) {
	return NewRegisters(r.Data, 0)
}
