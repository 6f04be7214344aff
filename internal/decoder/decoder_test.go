package decoder_test

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukov-alex/idgen/internal/decoder"
	"github.com/zhukov-alex/idgen/internal/snowflake"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newDecoder(t *testing.T) (*decoder.Decoder, *snowflake.Generator) {
	t.Helper()
	s := snowflake.NewStructureBuilder().
		TimestampBits(41).GeneratorIDBits(10).SequenceBits(13).
		Epoch(epoch).
		MustBuild()
	gen := snowflake.NewGeneratorBuilder().Structure(s).GeneratorID(17).MustBuild()
	return decoder.New(s), gen
}

func TestDecoder_Decode(t *testing.T) {
	d, gen := newDecoder(t)

	before := time.Now()
	id, err := gen.NextID()
	require.NoError(t, err)

	r := d.Decode(id)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, uint64(17), r.GeneratorID)
	assert.Equal(t, uint64(0), r.Sequence)
	assert.WithinDuration(t, before, r.Time, time.Second)
	assert.NotEmpty(t, r.Base58)
}

func TestDecoder_EncodingsRoundTrip(t *testing.T) {
	d, gen := newDecoder(t)
	id, err := gen.NextID()
	require.NoError(t, err)
	r := d.Decode(id)

	for format, encoded := range map[string]string{
		decoder.FormatBase2:  r.Base2,
		decoder.FormatBase36: r.Base36,
		decoder.FormatBase58: r.Base58,
		decoder.FormatBase64: r.Base64,
	} {
		got, err := decoder.Parse(format, encoded)
		require.NoError(t, err, format)
		assert.Equal(t, id, got, format)
	}
}

func TestDecoder_AboveMaxInt64(t *testing.T) {
	d, _ := newDecoder(t)

	id, err := decoder.Parse(decoder.FormatDecimal, "18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), id)

	r := d.Decode(id)
	assert.Equal(t, uint64(1023), r.GeneratorID)
	assert.Equal(t, uint64(8191), r.Sequence)
	assert.Empty(t, r.Base58)
}

func TestParse_Errors(t *testing.T) {
	_, err := decoder.Parse(decoder.FormatDecimal, "-5")
	assert.Error(t, err)
	_, err = decoder.Parse(decoder.FormatDecimal, "abc")
	assert.Error(t, err)
	_, err = decoder.Parse("roman", "XII")
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	d, _ := newDecoder(t)
	var buf bytes.Buffer
	require.NoError(t, decoder.Write(&buf, []decoder.Record{
		d.Decode(42),
		d.Decode(math.MaxUint64),
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "000000000000000042"))
	assert.Contains(t, lines[2], "18446744073709551615")
	assert.Contains(t, lines[2], " - ")
}
