package controller

import (
	"strings"

	"github.com/google/btree"
	"github.com/tidwall/match"
	"github.com/tidwall/resp"
)

func (c *Controller) cmdKeys(msg *Message) (res string, err error) {
	vs := msg.Values[1:]
	var ok bool
	var pattern string
	if vs, pattern, ok = tokenval(vs); !ok || pattern == "" || len(vs) != 0 {
		return "", errInvalidNumberOfArguments
	}

	var keys []string
	var everything bool
	var greater bool
	var greaterPivot string

	iterator := func(item btree.Item) bool {
		key := item.(*collectionT).Key
		var matched bool
		if everything {
			matched = true
		} else if greater {
			if !strings.HasPrefix(key, greaterPivot) {
				return false
			}
			matched = true
		} else {
			matched = match.Match(key, pattern)
		}
		if matched {
			keys = append(keys, key)
		}
		return true
	}
	if pattern == "*" {
		everything = true
		c.cols.Ascend(iterator)
	} else if strings.HasSuffix(pattern, "*") && !match.IsPattern(pattern[:len(pattern)-1]) {
		greater = true
		greaterPivot = pattern[:len(pattern)-1]
		c.cols.AscendGreaterOrEqual(&collectionT{Key: greaterPivot}, iterator)
	} else if match.IsPattern(pattern) {
		c.cols.Ascend(iterator)
	} else {
		// exact key
		if c.getCol(pattern) != nil {
			keys = append(keys, pattern)
		}
	}

	switch msg.OutputType {
	case JSON:
		b := []byte(`{"ok":true,"keys":[`)
		for i, key := range keys {
			if i > 0 {
				b = append(b, ',')
			}
			b = append(b, jsonString(key)...)
		}
		b = append(b, `],`...)
		b = append(b, jsonElapsed(msg.Start)...)
		res = string(append(b, '}'))
	case RESP:
		vals := make([]resp.Value, 0, len(keys))
		for _, key := range keys {
			vals = append(vals, resp.StringValue(key))
		}
		res, err = marshalRESP(resp.ArrayValue(vals))
	}
	return res, err
}
