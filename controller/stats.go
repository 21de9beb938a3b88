package controller

import (
	"encoding/json"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/btree"
	"github.com/tidwall/resp"
)

func (c *Controller) cmdStats(msg *Message) (res string, err error) {
	vs := msg.Values[1:]
	var ms = []map[string]interface{}{}
	if len(vs) == 0 {
		return "", errInvalidNumberOfArguments
	}
	var vals []resp.Value
	var key string
	var ok bool
	for {
		vs, key, ok = tokenval(vs)
		if !ok {
			break
		}
		col := c.getCol(key)
		if col != nil {
			m := make(map[string]interface{})
			m["num_points"] = col.Size()
			m["depth"] = col.Depth()
			m["in_memory_size"] = col.TotalWeight()
			switch msg.OutputType {
			case JSON:
				ms = append(ms, m)
			case RESP:
				vals = append(vals, resp.ArrayValue(respValuesSimpleMap(m)))
			}
		} else {
			switch msg.OutputType {
			case JSON:
				ms = append(ms, nil)
			case RESP:
				vals = append(vals, resp.NullValue())
			}
		}
	}
	switch msg.OutputType {
	case JSON:
		data, err := json.Marshal(ms)
		if err != nil {
			return "", err
		}
		res = `{"ok":true,"stats":` + string(data) + `,` + jsonElapsed(msg.Start) + `}`
	case RESP:
		res, err = marshalRESP(resp.ArrayValue(vals))
	}
	return res, err
}

func (c *Controller) cmdServer(msg *Message) (res string, err error) {
	if len(msg.Values) != 1 {
		return "", errInvalidNumberOfArguments
	}
	m := make(map[string]interface{})
	m["id"] = c.config.ServerID
	m["num_collections"] = c.cols.Len()
	points := 0
	sz := 0
	c.cols.Ascend(func(item btree.Item) bool {
		col := item.(*collectionT).Collection
		points += col.Count()
		sz += col.TotalWeight()
		return true
	})
	m["num_points"] = points
	m["in_memory_size"] = sz
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	m["heap_size"] = int(mem.HeapAlloc)
	m["uptime"] = int(time.Since(c.started).Seconds())
	m["read_only"] = c.config.ReadOnly
	m["num_connections"] = int(atomic.LoadInt64(&c.conns))
	m["total_commands"] = int(atomic.LoadUint64(&c.commands))

	switch msg.OutputType {
	case JSON:
		data, err := json.Marshal(m)
		if err != nil {
			return "", err
		}
		res = `{"ok":true,"stats":` + string(data) + `,` + jsonElapsed(msg.Start) + `}`
	case RESP:
		res, err = marshalRESP(resp.ArrayValue(respValuesSimpleMap(m)))
	}
	return res, err
}
