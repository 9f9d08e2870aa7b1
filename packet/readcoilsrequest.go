package packet

import "math"

// ReadCoilsRequestRTU is RTU Request for Read Coils function (FC=01)
//
// Example packet:  0x10 0x01 0x00 0x6B 0x00 0x03 0x0e 0x96
// 0x10 - unit id (0)
// 0x01 - function code (1)
// 0x00 0x6B - start address (2,3)
// 0x00 0x03 - coils quantity to return (4,5)
// 0x0e 0x96 - CRC16 (6,7)
type ReadCoilsRequestRTU struct {
	ReadCoilsRequest
}

// ReadCoilsRequest is Request for Read Coils function (FC=01)
type ReadCoilsRequest struct {
	UnitID       uint8
	StartAddress uint16
	Quantity     uint16
}

// NewReadCoilsRequestRTU creates new instance of Read Coils RTU request
func NewReadCoilsRequestRTU(unitID uint8, startAddress uint16, quantity uint16) (*ReadCoilsRequestRTU, error) {
	if err := validateUnitID(unitID); err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity, 1, MaxCoilsInReadResponse); err != nil {
		return nil, err
	}
	return &ReadCoilsRequestRTU{
		ReadCoilsRequest: ReadCoilsRequest{
			UnitID: unitID,
			// function code is added by Bytes()
			StartAddress: startAddress,
			Quantity:     quantity,
		},
	}, nil
}

// Bytes returns ReadCoilsRequestRTU packet as bytes form
func (r ReadCoilsRequestRTU) Bytes() []byte {
	result := make([]byte, 6+2)
	bytes := r.ReadCoilsRequest.bytes(result)
	return appendCRC(bytes)
}

// ExpectedResponseLength returns length of bytes that valid response to this request would be
func (r ReadCoilsRequestRTU) ExpectedResponseLength() int {
	// response = unitID + functionCode + byteCount + N coils data + CRC(2)
	return 5 + r.coilByteLength()
}

// FunctionCode returns function code of this request
func (r ReadCoilsRequest) FunctionCode() uint8 {
	return FunctionReadCoils
}

func (r ReadCoilsRequest) coilByteLength() int {
	return int(math.Ceil(float64(r.Quantity) / 8))
}

// Bytes returns ReadCoilsRequest packet as bytes form, without CRC
func (r ReadCoilsRequest) Bytes() []byte {
	return r.bytes(make([]byte, 6))
}

func (r ReadCoilsRequest) bytes(bytes []byte) []byte {
	putReadRequestBytes(bytes, r.UnitID, FunctionReadCoils, r.StartAddress, r.Quantity)
	return bytes
}
