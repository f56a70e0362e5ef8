package encode

import (
	"github.com/Eyevinn/mp4ff/avc"
)

// startCode is the position of one Annex B start code and of the NAL unit that follows it
type startCode struct {
	offset int
	nalu   int
}

func startCodes(stream []byte) []startCode {
	var codes []startCode
	for i := 0; i+2 < len(stream); i++ {
		if stream[i] != 0 || stream[i+1] != 0 || stream[i+2] != 1 {
			continue
		}

		offset := i
		if i > 0 && stream[i-1] == 0 {
			offset = i - 1
		}
		codes = append(codes, startCode{offset: offset, nalu: i + 3})
		i += 2
	}
	return codes
}

// SplitAccessUnits cuts an Annex B stream at its access unit delimiters. Every unit but the last is
// known to be complete, so the last is returned separately as rest. A stream with no delimiter is all rest.
func SplitAccessUnits(stream []byte) (units [][]byte, rest []byte) {
	var boundaries []int
	for _, code := range startCodes(stream) {
		if code.nalu < len(stream) && avc.GetNaluType(stream[code.nalu]) == avc.NALU_AUD {
			boundaries = append(boundaries, code.offset)
		}
	}
	if len(boundaries) == 0 {
		return nil, stream
	}

	start := 0
	for _, boundary := range boundaries[1:] {
		units = append(units, stream[start:boundary])
		start = boundary
	}
	return units, stream[start:]
}

// IsKeyframe reports whether an Annex B access unit holds an IDR slice
func IsKeyframe(unit []byte) bool {
	for _, nalu := range avc.ExtractNalusFromByteStream(unit) {
		if len(nalu) > 0 && avc.GetNaluType(nalu[0]) == avc.NALU_IDR {
			return true
		}
	}
	return false
}
