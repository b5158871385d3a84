package document

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// flexInt decodes a JSON number, a numeric string, or null/"" as unset.
// Older clients stored form input verbatim. Fractions and values outside the
// int range decode as unset.
type flexInt struct {
	value *int
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		f.value = nil
		return nil
	}
	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	if n, err := strconv.Atoi(raw); err == nil {
		f.value = &n
		return nil
	}
	fl, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return crerr.Newf("not an integer: %s", data)
	}
	f.value = nil
	if fl == math.Trunc(fl) && fl >= math.MinInt32 && fl <= math.MaxInt32 {
		n := int(fl)
		f.value = &n
	}
	return nil
}

func (f flexInt) MarshalJSON() ([]byte, error) {
	if f.value == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(*f.value)), nil
}

func intOf(v *int) flexInt {
	if v == nil {
		return flexInt{}
	}
	n := *v
	return flexInt{value: &n}
}

// decodeList reads a JSON array, or an object keyed by array index as some
// real-time stores return for sparse arrays. null and missing values decode
// to an empty list; null entries come back as nil pointers.
func decodeList[T any](data []byte) ([]*T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '{' {
		var byIndex map[string]*T
		if err := sonic.Unmarshal(trimmed, &byIndex); err != nil {
			return nil, crerr.Wrap(err, "decode indexed document")
		}
		keys := make([]string, 0, len(byIndex))
		for k := range byIndex {
			keys = append(keys, k)
		}
		sort.SliceStable(keys, func(i, j int) bool {
			a, aerr := strconv.Atoi(keys[i])
			b, berr := strconv.Atoi(keys[j])
			if aerr != nil || berr != nil {
				return keys[i] < keys[j]
			}
			return a < b
		})
		out := make([]*T, 0, len(keys))
		for _, k := range keys {
			out = append(out, byIndex[k])
		}
		return out, nil
	}

	var out []*T
	if err := sonic.Unmarshal(trimmed, &out); err != nil {
		return nil, crerr.Wrap(err, "decode document list")
	}
	return out, nil
}

func encodeList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := sonic.Marshal(items)
	if err != nil {
		return nil, crerr.Wrap(err, "encode document list")
	}
	return data, nil
}
