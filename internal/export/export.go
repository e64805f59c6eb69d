// Package export writes in-memory scene snapshots in one of the supported
// serialization formats.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vk/riggen/internal/inmemoryscene"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	JSON    Format = "json"
	YAML    Format = "yaml"
	MsgPack Format = "msgpack"
)

// ErrUnknownFormat is returned for format names not listed in Formats.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists every supported format.
var Formats = []Format{JSON, YAML, MsgPack}

// ParseFormat accepts a format name in any case; "yml" is an alias of yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case JSON, YAML, MsgPack:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Write encodes doc into w.
func Write(w io.Writer, f Format, doc inmemoryscene.Document) error {
	var err error
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	case MsgPack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		err = enc.Encode(doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", f, err)
	}
	return nil
}

// Read decodes a document written by Write.
func Read(r io.Reader, f Format) (inmemoryscene.Document, error) {
	var doc inmemoryscene.Document
	var err error
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(&doc)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case MsgPack:
		err = msgpack.NewDecoder(r).Decode(&doc)
	default:
		return doc, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	if err != nil {
		return doc, fmt.Errorf("import %s: %w", f, err)
	}
	return doc, nil
}
