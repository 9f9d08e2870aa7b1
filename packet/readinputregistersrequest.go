package packet

// ReadInputRegistersRequestRTU is RTU Request for Read Input Registers (FC=04)
//
// Example packet: 0x01 0x04 0x00 0x6B 0x00 0x01 0x40 0x16
// 0x01 - unit id (0)
// 0x04 - function code (1)
// 0x00 0x6B - start address (2,3)
// 0x00 0x01 - input registers quantity to return (4,5)
// 0x40 0x16 - CRC16 (6,7)
type ReadInputRegistersRequestRTU struct {
	ReadInputRegistersRequest
}

// ReadInputRegistersRequest is Request for Read Input Registers (FC=04)
type ReadInputRegistersRequest struct {
	UnitID       uint8
	StartAddress uint16
	Quantity     uint16
}

// NewReadInputRegistersRequestRTU creates new instance of Read Input Registers RTU request
func NewReadInputRegistersRequestRTU(unitID uint8, startAddress uint16, quantity uint16) (*ReadInputRegistersRequestRTU, error) {
	if err := validateUnitID(unitID); err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity, 1, MaxRegistersInReadResponse); err != nil {
		return nil, err
	}
	return &ReadInputRegistersRequestRTU{
		ReadInputRegistersRequest: ReadInputRegistersRequest{
			UnitID:       unitID,
			StartAddress: startAddress,
			Quantity:     quantity,
		},
	}, nil
}

// Bytes returns ReadInputRegistersRequestRTU packet as bytes form
func (r ReadInputRegistersRequestRTU) Bytes() []byte {
	result := make([]byte, 6+2)
	bytes := r.ReadInputRegistersRequest.bytes(result)
	return appendCRC(bytes)
}

// ExpectedResponseLength returns length of bytes that valid response to this request would be
func (r ReadInputRegistersRequestRTU) ExpectedResponseLength() int {
	// response = 1 unitID + 1 functionCode + 1 register byte count + N register data + 2 CRC
	return 5 + 2*int(r.Quantity)
}

// FunctionCode returns function code of this request
func (r ReadInputRegistersRequest) FunctionCode() uint8 {
	return FunctionReadInputRegisters
}

// Bytes returns ReadInputRegistersRequest packet as bytes form
func (r ReadInputRegistersRequest) Bytes() []byte {
	return r.bytes(make([]byte, 6))
}

func (r ReadInputRegistersRequest) bytes(bytes []byte) []byte {
	putReadRequestBytes(bytes, r.UnitID, FunctionReadInputRegisters, r.StartAddress, r.Quantity)
	return bytes
}
