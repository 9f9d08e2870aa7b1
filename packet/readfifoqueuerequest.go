package packet

import "encoding/binary"

// ReadFIFOQueueRequestRTU is RTU Request for Read FIFO Queue (FC=24/0x18)
//
// Example packet: 0x11 0x18 0x04 0xde 0x07 0x87
// 0x11 - unit id (0)
// 0x18 - function code (1)
// 0x04 0xde - FIFO pointer address (2,3)
// 0x07 0x87 - CRC16 (4,5)
type ReadFIFOQueueRequestRTU struct {
	ReadFIFOQueueRequest
}

// ReadFIFOQueueRequest is Request for Read FIFO Queue (FC=24/0x18)
type ReadFIFOQueueRequest struct {
	UnitID             uint8
	FIFOPointerAddress uint16
}

// NewReadFIFOQueueRequestRTU creates new instance of Read FIFO Queue RTU request
func NewReadFIFOQueueRequestRTU(unitID uint8, fifoPointerAddress uint16) (*ReadFIFOQueueRequestRTU, error) {
	if err := validateUnitID(unitID); err != nil {
		return nil, err
	}
	return &ReadFIFOQueueRequestRTU{
		ReadFIFOQueueRequest: ReadFIFOQueueRequest{
			UnitID:             unitID,
			FIFOPointerAddress: fifoPointerAddress,
		},
	}, nil
}

// Bytes returns ReadFIFOQueueRequestRTU packet as bytes form
func (r ReadFIFOQueueRequestRTU) Bytes() []byte {
	result := make([]byte, 4+2)
	bytes := r.ReadFIFOQueueRequest.bytes(result)
	return appendCRC(bytes)
}

// ExpectedResponseLength returns the minimum length of bytes a valid response to this request would
// have; the actual frame is longer by 2 bytes per queued register, which the slave alone knows ahead of
// the read.
func (r ReadFIFOQueueRequestRTU) ExpectedResponseLength() int {
	return 1 + 1 + 2 + 2 + 2
}

// FunctionCode returns function code of this request
func (r ReadFIFOQueueRequest) FunctionCode() uint8 {
	return FunctionReadFIFOQueue
}

// Bytes returns ReadFIFOQueueRequest packet as bytes form
func (r ReadFIFOQueueRequest) Bytes() []byte {
	return r.bytes(make([]byte, 4))
}

func (r ReadFIFOQueueRequest) bytes(bytes []byte) []byte {
	bytes[0] = r.UnitID
	bytes[1] = FunctionReadFIFOQueue
	binary.BigEndian.PutUint16(bytes[2:4], r.FIFOPointerAddress)
	return bytes
}
