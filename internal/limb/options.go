package limb

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vk/riggen/internal/naming"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Options are the generator options of a limb, keyed by name.
type Options map[string]cty.Value

// Decode copies the options into the `cty`-tagged fields of target, which
// must point to a struct. Tagged fields of embedded structs count as
// fields of target. Fields without a matching option keep their value, so
// callers preset defaults. An option with no matching field is an error.
func (o Options) Decode(target any) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("options target must be a non-nil pointer to a struct, got %T", target)
	}
	structVal := ptr.Elem()
	fields := map[string][]int{}
	taggedFields(structVal.Type(), nil, fields)

	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		idx, ok := fields[k]
		if !ok {
			return fmt.Errorf("unsupported option %q", k)
		}
		fieldVal := structVal.FieldByIndex(idx)
		want, err := gocty.ImpliedType(fieldVal.Interface())
		if err != nil {
			return fmt.Errorf("option %q: %w", k, err)
		}
		val, err := convert.Convert(o[k], want)
		if err != nil {
			return fmt.Errorf("option %q: cannot convert %s to %s: %w", k, o[k].Type().FriendlyName(), want.FriendlyName(), err)
		}
		if err := gocty.FromCtyValue(val, fieldVal.Addr().Interface()); err != nil {
			return fmt.Errorf("option %q: %w", k, err)
		}
	}
	return nil
}

func taggedFields(t reflect.Type, prefix []int, out map[string][]int) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int{}, prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			taggedFields(f.Type, index, out)
			continue
		}
		if tag := f.Tag.Get("cty"); tag != "" {
			out[strings.Split(tag, ",")[0]] = index
		}
	}
}

// Placement holds the options every paired limb understands.
type Placement struct {
	Side        string `cty:"side"`
	Symmetrical bool   `cty:"symmetrical"`
}

// DefaultPlacement is a symmetrical limb built on the left.
func DefaultPlacement() Placement {
	return Placement{Side: "left", Symmetrical: true}
}

// ParsedSide returns the side option as a naming.Side.
func (p Placement) ParsedSide() (naming.Side, error) {
	return naming.ParseSide(p.Side)
}
