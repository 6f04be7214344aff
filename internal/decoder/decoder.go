// Package decoder splits issued ids back into their fields.
package decoder

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"

	bw "github.com/bwmarrin/snowflake"

	"github.com/zhukov-alex/idgen/internal/service"
	"github.com/zhukov-alex/idgen/internal/snowflake"
)

const (
	FormatDecimal = "decimal"
	FormatBase2   = "base2"
	FormatBase32  = "base32"
	FormatBase36  = "base36"
	FormatBase58  = "base58"
	FormatBase64  = "base64"
)

// Record is one decoded id. Encodings are empty for ids above math.MaxInt64,
// which the signed encoders cannot represent.
type Record struct {
	ID          uint64
	Time        time.Time
	Ticks       uint64
	GeneratorID uint64
	Sequence    uint64
	Base2       string
	Base36      string
	Base58      string
	Base64      string
}

type Decoder struct {
	structure *snowflake.Structure
}

func New(s *snowflake.Structure) *Decoder {
	return &Decoder{structure: s}
}

// Parse reads an id written in format. Decimal input covers the full
// unsigned range; the other formats are limited to math.MaxInt64.
func Parse(format, s string) (uint64, error) {
	var (
		id  bw.ID
		err error
	)
	switch format {
	case "", FormatDecimal:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse decimal id %q: %w", s, err)
		}
		return v, nil
	case FormatBase2:
		id, err = bw.ParseBase2(s)
	case FormatBase32:
		id, err = bw.ParseBase32([]byte(s))
	case FormatBase36:
		id, err = bw.ParseBase36(s)
	case FormatBase58:
		id, err = bw.ParseBase58([]byte(s))
	case FormatBase64:
		id, err = bw.ParseBase64(s)
	default:
		return 0, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return 0, fmt.Errorf("parse %s id %q: %w", format, s, err)
	}
	if id < 0 {
		return 0, fmt.Errorf("parse %s id %q: negative value", format, s)
	}
	return uint64(id.Int64()), nil
}

func (d *Decoder) Decode(id uint64) Record {
	parts := d.structure.Decode(id)
	r := Record{
		ID:          id,
		Time:        d.structure.Time(parts),
		Ticks:       parts.Ticks,
		GeneratorID: parts.GeneratorID,
		Sequence:    parts.Sequence,
	}
	if id <= math.MaxInt64 {
		enc := bw.ParseInt64(int64(id))
		r.Base2 = enc.Base2()
		r.Base36 = enc.Base36()
		r.Base58 = enc.Base58()
		r.Base64 = enc.Base64()
	}
	return r
}

func Write(w io.Writer, records []Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tGENERATOR\tSEQUENCE\tBASE36\tBASE58\tBASE64")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
			service.FormatID(r.ID),
			r.Time.UTC().Format(time.RFC3339Nano),
			r.GeneratorID,
			r.Sequence,
			orDash(r.Base36),
			orDash(r.Base58),
			orDash(r.Base64),
		)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
