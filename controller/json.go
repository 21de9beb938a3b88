package controller

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/tidwall/resp"
	"github.com/zycbobby/pqtree/controller/collection"
)

func jsonString(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] < ' ' || s[i] == '\\' || s[i] == '"' || s[i] > 126 {
			d, _ := json.Marshal(s)
			return string(d)
		}
	}
	b := make([]byte, len(s)+2)
	b[0] = '"'
	copy(b[1:], s)
	b[len(b)-1] = '"'
	return string(b)
}

func jsonElapsed(start time.Time) string {
	return `"elapsed":"` + time.Since(start).String() + `"`
}

func appendJSONPoint(b []byte, p collection.Point) []byte {
	b = append(b, '{')
	if p.ID != "" {
		b = append(b, `"id":`...)
		b = append(b, jsonString(p.ID)...)
		b = append(b, ',')
	}
	b = append(b, `"x":`...)
	b = strconv.AppendFloat(b, p.X, 'f', -1, 64)
	b = append(b, `,"y":`...)
	b = strconv.AppendFloat(b, p.Y, 'f', -1, 64)
	return append(b, '}')
}

func appendJSONRect(b []byte, x1, y1, x2, y2 float64) []byte {
	b = append(b, `{"x1":`...)
	b = strconv.AppendFloat(b, x1, 'f', -1, 64)
	b = append(b, `,"y1":`...)
	b = strconv.AppendFloat(b, y1, 'f', -1, 64)
	b = append(b, `,"x2":`...)
	b = strconv.AppendFloat(b, x2, 'f', -1, 64)
	b = append(b, `,"y2":`...)
	b = strconv.AppendFloat(b, y2, 'f', -1, 64)
	return append(b, '}')
}

func respPoint(p collection.Point) resp.Value {
	return resp.ArrayValue([]resp.Value{
		resp.StringValue(p.ID),
		resp.StringValue(ftoa(p.X)),
		resp.StringValue(ftoa(p.Y)),
	})
}

func respRect(x1, y1, x2, y2 float64) resp.Value {
	return resp.ArrayValue([]resp.Value{
		resp.StringValue(ftoa(x1)),
		resp.StringValue(ftoa(y1)),
		resp.StringValue(ftoa(x2)),
		resp.StringValue(ftoa(y2)),
	})
}

func respValuesSimpleMap(m map[string]interface{}) []resp.Value {
	var keys []string
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var vals []resp.Value
	for _, key := range keys {
		val := m[key]
		vals = append(vals, resp.StringValue(key))
		switch v := val.(type) {
		case int:
			vals = append(vals, resp.IntegerValue(v))
		case float64:
			vals = append(vals, resp.StringValue(ftoa(v)))
		case bool:
			if v {
				vals = append(vals, resp.StringValue("1"))
			} else {
				vals = append(vals, resp.StringValue("0"))
			}
		default:
			vals = append(vals, resp.StringValue(fmt.Sprint(v)))
		}
	}
	return vals
}

func marshalRESP(v resp.Value) (string, error) {
	data, err := v.MarshalRESP()
	if err != nil {
		return "", err
	}
	return string(data), nil
}
