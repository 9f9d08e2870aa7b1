package packet

import "math"

// ReadDiscreteInputsRequestRTU is RTU Request for Read Discrete Inputs (FC=02)
//
// Example packet: 0x10 0x02 0x00 0x6B 0x00 0x03 0x4a 0x96
// 0x10 - unit id (0)
// 0x02 - function code (1)
// 0x00 0x6B - start address (2,3)
// 0x00 0x03 - discrete inputs quantity to return (4,5)
// 0x4a 0x96 - CRC16 (6,7)
type ReadDiscreteInputsRequestRTU struct {
	ReadDiscreteInputsRequest
}

// ReadDiscreteInputsRequest is Request for Read Discrete Inputs (FC=02)
type ReadDiscreteInputsRequest struct {
	UnitID       uint8
	StartAddress uint16
	Quantity     uint16
}

// NewReadDiscreteInputsRequestRTU creates new instance of Read Discrete Inputs RTU request
func NewReadDiscreteInputsRequestRTU(unitID uint8, startAddress uint16, quantity uint16) (*ReadDiscreteInputsRequestRTU, error) {
	if err := validateUnitID(unitID); err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity, 1, MaxCoilsInReadResponse); err != nil {
		return nil, err
	}
	return &ReadDiscreteInputsRequestRTU{
		ReadDiscreteInputsRequest: ReadDiscreteInputsRequest{
			UnitID:       unitID,
			StartAddress: startAddress,
			Quantity:     quantity,
		},
	}, nil
}

// Bytes returns ReadDiscreteInputsRequestRTU packet as bytes form
func (r ReadDiscreteInputsRequestRTU) Bytes() []byte {
	result := make([]byte, 6+2)
	bytes := r.ReadDiscreteInputsRequest.bytes(result)
	return appendCRC(bytes)
}

// ExpectedResponseLength returns length of bytes that valid response to this request would be
func (r ReadDiscreteInputsRequestRTU) ExpectedResponseLength() int {
	// response = 1 unitID + 1 functionCode + 1 coils byte count + N coils data + 2 CRC
	return 3 + r.coilByteLength() + 2
}

// FunctionCode returns function code of this request
func (r ReadDiscreteInputsRequest) FunctionCode() uint8 {
	return FunctionReadDiscreteInputs
}

func (r ReadDiscreteInputsRequest) coilByteLength() int {
	return int(math.Ceil(float64(r.Quantity) / 8))
}

// Bytes returns ReadDiscreteInputsRequest packet as bytes form
func (r ReadDiscreteInputsRequest) Bytes() []byte {
	return r.bytes(make([]byte, 6))
}

func (r ReadDiscreteInputsRequest) bytes(bytes []byte) []byte {
	putReadRequestBytes(bytes, r.UnitID, FunctionReadDiscreteInputs, r.StartAddress, r.Quantity)
	return bytes
}
