package controller

import (
	"strconv"

	"github.com/tidwall/resp"
	"github.com/zycbobby/pqtree/controller/collection"
)

func (c *Controller) cmdPoints(msg *Message) (res string, err error) {
	col, vs, err := c.readCollection(msg)
	if err != nil {
		return "", err
	}
	if len(vs) != 0 {
		return "", errInvalidNumberOfArguments
	}
	points := col.Points()
	switch msg.OutputType {
	case JSON:
		b := []byte(`{"ok":true,"points":[`)
		for i, p := range points {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendJSONPoint(b, p)
		}
		b = append(b, `],"count":`...)
		b = strconv.AppendInt(b, int64(len(points)), 10)
		b = append(b, ',')
		b = append(b, jsonElapsed(msg.Start)...)
		res = string(append(b, '}'))
	case RESP:
		vals := make([]resp.Value, 0, len(points))
		for _, p := range points {
			vals = append(vals, respPoint(p))
		}
		res, err = marshalRESP(resp.ArrayValue(vals))
	}
	return res, err
}

// cmdNearby runs a closed-disk query. A negative radius matches nothing.
func (c *Controller) cmdNearby(msg *Message) (res string, err error) {
	col, vs, err := c.readCollection(msg)
	if err != nil {
		return "", err
	}
	var x, y, r float64
	if vs, x, err = tokenfloat(vs); err != nil {
		return "", err
	}
	if vs, y, err = tokenfloat(vs); err != nil {
		return "", err
	}
	if vs, r, err = tokenfloat(vs); err != nil {
		return "", err
	}
	var countOnly bool
	if len(vs) > 0 {
		var arg string
		vs, arg, _ = tokenval(vs)
		if !lc(arg, "count") {
			return "", errInvalidArgument(arg)
		}
		if len(vs) != 0 {
			return "", errInvalidNumberOfArguments
		}
		countOnly = true
	}

	var count int
	var b []byte
	var vals []resp.Value
	if msg.OutputType == JSON {
		b = append(b, `{"ok":true`...)
		if !countOnly {
			b = append(b, `,"points":[`...)
		}
	}
	col.Nearby(x, y, r, func(p collection.Point, dist float64) bool {
		if !countOnly {
			switch msg.OutputType {
			case JSON:
				if count > 0 {
					b = append(b, ',')
				}
				b = appendJSONPoint(b, p)
				b = b[:len(b)-1]
				b = append(b, `,"distance":`...)
				b = strconv.AppendFloat(b, dist, 'f', -1, 64)
				b = append(b, '}')
			case RESP:
				vals = append(vals, resp.ArrayValue([]resp.Value{
					respPoint(p), resp.StringValue(ftoa(dist)),
				}))
			}
		}
		count++
		return true
	})

	switch msg.OutputType {
	case JSON:
		if !countOnly {
			b = append(b, ']')
		}
		b = append(b, `,"count":`...)
		b = strconv.AppendInt(b, int64(count), 10)
		b = append(b, ',')
		b = append(b, jsonElapsed(msg.Start)...)
		res = string(append(b, '}'))
	case RESP:
		if countOnly {
			res = ":" + strconv.Itoa(count) + "\r\n"
		} else {
			res, err = marshalRESP(resp.ArrayValue(vals))
		}
	}
	return res, err
}

func (c *Controller) cmdNodes(msg *Message) (res string, err error) {
	col, vs, err := c.readCollection(msg)
	if err != nil {
		return "", err
	}
	if len(vs) != 0 {
		return "", errInvalidNumberOfArguments
	}
	var b []byte
	var vals []resp.Value
	var count int
	if msg.OutputType == JSON {
		b = append(b, `{"ok":true,"nodes":[`...)
	}
	col.Nodes(func(info collection.NodeInfo) bool {
		switch msg.OutputType {
		case JSON:
			if count > 0 {
				b = append(b, ',')
			}
			b = append(b, `{"depth":`...)
			b = strconv.AppendInt(b, int64(info.Depth), 10)
			b = append(b, `,"point":`...)
			b = appendJSONPoint(b, info.Point)
			b = append(b, `,"region":`...)
			b = appendJSONRect(b, info.X1, info.Y1, info.X2, info.Y2)
			b = append(b, `,"quadrants":[`...)
			for i, q := range info.Quadrants {
				if i > 0 {
					b = append(b, ',')
				}
				b = strconv.AppendInt(b, int64(q), 10)
			}
			b = append(b, "]}"...)
		case RESP:
			qvals := make([]resp.Value, len(info.Quadrants))
			for i, q := range info.Quadrants {
				qvals[i] = resp.IntegerValue(q)
			}
			vals = append(vals, resp.ArrayValue([]resp.Value{
				resp.IntegerValue(info.Depth),
				respPoint(info.Point),
				respRect(info.X1, info.Y1, info.X2, info.Y2),
				resp.ArrayValue(qvals),
			}))
		}
		count++
		return true
	})
	switch msg.OutputType {
	case JSON:
		b = append(b, `],"count":`...)
		b = strconv.AppendInt(b, int64(count), 10)
		b = append(b, ',')
		b = append(b, jsonElapsed(msg.Start)...)
		res = string(append(b, '}'))
	case RESP:
		res, err = marshalRESP(resp.ArrayValue(vals))
	}
	return res, err
}
