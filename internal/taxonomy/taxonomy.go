// Package taxonomy converts taxonomy paths to and from their text forms.
//
// A Path is ordered from the most general rank to the most specific one.
// Three dialects are supported:
//
//	Semicolon  "d__Fungi;p__Ascomycota"       (QIIME 2 taxonomy column)
//	Comma      "d__Fungi,p__Ascomycota"       (TSV output column)
//	Header     "tax=d__Fungi,p__Ascomycota;"  (embedded in a FASTA header)
//
// Labels are never trimmed, and Encode rejects labels holding a separator of
// the dialect, so every codec round-trips losslessly.
package taxonomy

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformed is returned for text that is not a valid taxonomy in a dialect.
var ErrMalformed = errors.New("malformed taxonomy")

// Path holds one label per rank.
type Path []string

// Depth is the number of ranks.
func (p Path) Depth() int { return len(p) }

// Clone returns an independent copy.
func (p Path) Clone() Path { return append(Path(nil), p...) }

// Codec converts between a Path and one textual dialect.
type Codec interface {
	Encode(Path) (string, error)
	Decode(string) (Path, error)
}

// Joined is a dialect that joins ranks with a single separator.
type Joined struct {
	Sep string
}

var (
	// Semicolon is the QIIME 2 taxonomy column dialect.
	Semicolon Codec = Joined{Sep: ";"}
	// Comma is the TSV output dialect.
	Comma Codec = Joined{Sep: ","}
	// Header is the FASTA header annotation dialect.
	Header Codec = HeaderCodec{}
)

func (j Joined) Encode(p Path) (string, error) {
	if len(p) == 0 {
		return "", errors.Wrap(ErrMalformed, "empty path")
	}
	if err := checkLabels(p, j.Sep); err != nil {
		return "", err
	}
	return strings.Join(p, j.Sep), nil
}

func (j Joined) Decode(s string) (Path, error) {
	if s == "" {
		return nil, errors.Wrap(ErrMalformed, "empty taxonomy")
	}
	return Path(strings.Split(s, j.Sep)), nil
}

// HeaderMarker starts the taxonomy inside a FASTA header.
const HeaderMarker = "tax="

// HeaderTerminator ends the taxonomy inside a FASTA header.
const HeaderTerminator = ";"

// HeaderCodec reads and writes taxonomy embedded in FASTA headers. Decode
// accepts the whole header text, e.g. "AB123;tax=d:Fungi,p:Ascomycota;", and
// ignores everything before the marker.
type HeaderCodec struct{}

func (HeaderCodec) Encode(p Path) (string, error) {
	if len(p) == 0 {
		return "", errors.Wrap(ErrMalformed, "empty path")
	}
	if err := checkLabels(p, ",", HeaderTerminator); err != nil {
		return "", err
	}
	return HeaderMarker + strings.Join(p, ",") + HeaderTerminator, nil
}

func (HeaderCodec) Decode(s string) (Path, error) {
	i := strings.Index(s, HeaderMarker)
	if i < 0 {
		return nil, errors.Wrapf(ErrMalformed, "no %q marker in %q", HeaderMarker, s)
	}
	body := s[i+len(HeaderMarker):]
	if !strings.HasSuffix(body, HeaderTerminator) {
		return nil, errors.Wrapf(ErrMalformed, "taxonomy in %q does not end with %q", s, HeaderTerminator)
	}
	body = strings.TrimSuffix(body, HeaderTerminator)
	if body == "" {
		return nil, errors.Wrapf(ErrMalformed, "empty taxonomy in %q", s)
	}
	return Path(strings.Split(body, ",")), nil
}

func checkLabels(p Path, seps ...string) error {
	for i, l := range p {
		for _, sep := range seps {
			if strings.Contains(l, sep) {
				return errors.Wrapf(ErrMalformed, "rank %d label %q contains %q", i, l, sep)
			}
		}
	}
	return nil
}

// EncodeAll encodes every path with c.
func EncodeAll(c Codec, paths []Path) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		s, err := c.Encode(p)
		if err != nil {
			return nil, errors.Wrapf(err, "path %d", i)
		}
		out[i] = s
	}
	return out, nil
}

// DecodeAll decodes every string with c.
func DecodeAll(c Codec, texts []string) ([]Path, error) {
	out := make([]Path, len(texts))
	for i, s := range texts {
		p, err := c.Decode(s)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		out[i] = p
	}
	return out, nil
}

// CommonDepth returns the depth shared by all paths, or an error naming the
// first path whose depth differs from the first one.
func CommonDepth(paths []Path) (int, error) {
	if len(paths) == 0 {
		return 0, errors.Wrap(ErrMalformed, "no taxonomy paths")
	}
	d := paths[0].Depth()
	for i, p := range paths {
		if p.Depth() != d {
			return 0, errors.Wrapf(ErrMalformed, "path %d has %d ranks, path 0 has %d", i, p.Depth(), d)
		}
	}
	return d, nil
}
