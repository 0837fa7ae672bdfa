/*
NAME
  header.go

DESCRIPTION
  header.go writes the fixed IEC 61937 burst preamble (Pa Pb Pc Pd) that
  every non-passthrough output chunk from the Wrapper begins with.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package wrapper

import (
	"encoding/binary"

	"github.com/ausocean/spdif/frame"
)

const (
	pa = 0xf872
	pb = 0x4e1f
)

// writeHeader writes the 8-byte burst preamble into dest[:8]: Pa, Pb, the
// payload type burst, and length (unit depends on the caller -- bits for
// every burst type except E-AC-3, which uses bytes).
func writeHeader(dest []byte, burst frame.BurstType, length int) {
	binary.LittleEndian.PutUint16(dest[0:2], pa)
	binary.LittleEndian.PutUint16(dest[2:4], pb)
	binary.LittleEndian.PutUint16(dest[4:6], uint16(burst))
	binary.LittleEndian.PutUint16(dest[6:8], uint16(length))
}
