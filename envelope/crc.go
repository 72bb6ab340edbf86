package envelope

import (
	"github.com/sigurn/crc16"
	"github.com/sigurn/crc8"
)

// CRC-8 of the referee system: polynomial 0x31, reflected, initial 0xFF
var crc8Params = crc8.Params{
	Poly:   0x31,
	Init:   0xff,
	RefIn:  true,
	RefOut: true,
	Check:  0x0b,
	Name:   "CRC-8/REFEREE",
}

// The CRC-16 of the referee system is CRC-16/MCRF4XX: polynomial 0x1021,
// reflected, initial 0xFFFF
var (
	crc8Table  = crc8.MakeTable(crc8Params)
	crc16Table = crc16.MakeTable(crc16.CRC16_MCRF4XX)
)

// CRC8 returns the header checksum of data
func CRC8(data []byte) uint8 {
	return crc8.Checksum(data, crc8Table)
}

// CRC16 returns the frame checksum of data
func CRC16(data []byte) uint16 {
	return crc16.Checksum(data, crc16Table)
}
