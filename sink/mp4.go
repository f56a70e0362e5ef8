package sink

import (
	"bufio"
	"encoding/binary"
	"os"
	"sync"
	"time"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/vkmedia/encode"
	"github.com/vkngwrapper/vkmedia/ports"
)

const defaultTimescale = 90000

// ErrNoSamples is returned from MP4.Close when no video was written
var ErrNoSamples = errors.New("no video samples")

type MP4Options struct {
	// Width and Height are used when the stream's SPS cannot be parsed
	Width  int
	Height int
	// Timescale defaults to 90kHz
	Timescale uint32
}

type videoSample struct {
	data       []byte
	keyframe   bool
	decodeTime uint64
	duration   uint32
}

// MP4 collects H.264 access units and writes them as a single-fragment MP4 on Close. Parameter sets are
// taken from the stream and moved into the avcC box.
type MP4 struct {
	path    string
	options MP4Options

	mutex          sync.Mutex
	sps            []byte
	pps            []byte
	samples        []videoSample
	nextDecodeTime uint64
	closed         bool
}

var _ ports.Sink = (*MP4)(nil)

func NewMP4(path string, options MP4Options) (*MP4, error) {
	if options.Timescale == 0 {
		options.Timescale = defaultTimescale
	}

	// Fail early rather than after a whole stream has been encoded
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	err = file.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "close %s", path)
	}

	return &MP4{path: path, options: options}, nil
}

func (m *MP4) ticks(d time.Duration) uint32 {
	return uint32(uint64(d) * uint64(m.options.Timescale) / uint64(time.Second))
}

// WriteSample takes an Annex B buffer of one or more access units. Each unit lasts sample.Duration.
func (m *MP4) WriteSample(sample ports.Sample) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return errors.New("sink has been closed")
	}
	if sample.Duration <= 0 {
		return errors.Newf("sample duration must be positive, got %s", sample.Duration)
	}

	units, rest := encode.SplitAccessUnits(sample.Data)
	if len(rest) > 0 {
		units = append(units, rest)
	}

	duration := m.ticks(sample.Duration)
	for _, unit := range units {
		data, keyframe := m.toAVCC(unit)
		if len(data) == 0 {
			continue
		}

		m.samples = append(m.samples, videoSample{
			data:       data,
			keyframe:   keyframe,
			decodeTime: m.nextDecodeTime,
			duration:   duration,
		})
		m.nextDecodeTime += uint64(duration)
	}
	return nil
}

// toAVCC converts one Annex B access unit to length-prefixed NAL units. Delimiters are dropped and the
// first SPS and PPS are kept for the sample description.
func (m *MP4) toAVCC(unit []byte) ([]byte, bool) {
	var out []byte
	keyframe := false

	for _, nalu := range avc.ExtractNalusFromByteStream(unit) {
		if len(nalu) == 0 {
			continue
		}

		switch avc.GetNaluType(nalu[0]) {
		case avc.NALU_AUD:
			continue
		case avc.NALU_SPS:
			if m.sps == nil {
				m.sps = append([]byte{}, nalu...)
			}
			continue
		case avc.NALU_PPS:
			if m.pps == nil {
				m.pps = append([]byte{}, nalu...)
			}
			continue
		case avc.NALU_IDR:
			keyframe = true
		}

		out = binary.BigEndian.AppendUint32(out, uint32(len(nalu)))
		out = append(out, nalu...)
	}
	return out, keyframe
}

func (m *MP4) dimensions() (int, int) {
	sps, err := avc.ParseSPSNALUnit(m.sps, false)
	if err != nil || sps.Width == 0 || sps.Height == 0 {
		return m.options.Width, m.options.Height
	}
	return int(sps.Width), int(sps.Height)
}

// Close writes the MP4 file. Calling it again does nothing.
func (m *MP4) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	if len(m.samples) == 0 {
		return errors.Wrap(ErrNoSamples, m.path)
	}
	if m.sps == nil || m.pps == nil {
		return errors.Newf("stream written to %s carried no parameter sets", m.path)
	}

	file, err := os.Create(m.path)
	if err != nil {
		return errors.Wrapf(err, "create %s", m.path)
	}
	writer := bufio.NewWriter(file)

	err = m.encode(writer)
	if err == nil {
		err = writer.Flush()
	}
	return errors.CombineErrors(err, file.Close())
}

func (m *MP4) encode(writer *bufio.Writer) error {
	const trackID = 1

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(m.options.Timescale, "video", "und")
	trak := init.Moov.Trak

	avcC, err := mp4.CreateAvcC([][]byte{m.sps}, [][]byte{m.pps}, true)
	if err != nil {
		return errors.Wrap(err, "create avcC")
	}

	width, height := m.dimensions()
	avc1 := mp4.CreateVisualSampleEntryBox("avc1", uint16(width), uint16(height), avcC)
	trak.Mdia.Minf.Stbl.Stsd.AddChild(avc1)
	trak.Tkhd.Width = mp4.Fixed32(width << 16)
	trak.Tkhd.Height = mp4.Fixed32(height << 16)

	frag, err := mp4.CreateFragment(1, trackID)
	if err != nil {
		return errors.Wrap(err, "create fragment")
	}

	for _, sample := range m.samples {
		flags := mp4.NonSyncSampleFlags
		if sample.keyframe {
			flags = mp4.SyncSampleFlags
		}

		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(sample.data)),
				Dur:   sample.duration,
			},
			DecodeTime: sample.decodeTime,
			Data:       sample.data,
		})
	}

	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "avc1", "mp41"})
	err = ftyp.Encode(writer)
	if err != nil {
		return errors.Wrap(err, "encode ftyp")
	}
	err = init.Moov.Encode(writer)
	if err != nil {
		return errors.Wrap(err, "encode moov")
	}
	err = frag.Encode(writer)
	return errors.Wrap(err, "encode fragment")
}
