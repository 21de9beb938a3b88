package controller

import (
	"strconv"

	"github.com/google/btree"
	"github.com/tidwall/resp"
	"github.com/zycbobby/pqtree/controller/collection"
)

func (c *Controller) cmdCreate(msg *Message) (res string, err error) {
	vs := msg.Values[1:]
	var ok bool
	var key string
	if vs, key, ok = tokenval(vs); !ok || key == "" {
		return "", errInvalidNumberOfArguments
	}
	var vals [6]float64
	for i := range vals {
		if vs, vals[i], err = tokenfloat(vs); err != nil {
			return "", err
		}
	}
	var id string
	if len(vs) > 0 {
		if vs, id, _ = tokenval(vs); len(vs) != 0 {
			return "", errInvalidNumberOfArguments
		}
	}
	if c.getCol(key) != nil {
		return "", errKeyExists
	}
	point := collection.Point{ID: id, X: vals[4], Y: vals[5]}
	c.setCol(key, collection.New(point, vals[0], vals[1], vals[2], vals[3]))
	return okMessage(msg), nil
}

func (c *Controller) cmdInsert(msg *Message) (res string, err error) {
	vs := msg.Values[1:]
	var ok bool
	var key string
	if vs, key, ok = tokenval(vs); !ok || key == "" {
		return "", errInvalidNumberOfArguments
	}
	var point collection.Point
	if vs, point.X, err = tokenfloat(vs); err != nil {
		return "", err
	}
	if vs, point.Y, err = tokenfloat(vs); err != nil {
		return "", err
	}
	if len(vs) > 0 {
		if vs, point.ID, _ = tokenval(vs); len(vs) != 0 {
			return "", errInvalidNumberOfArguments
		}
	}
	col := c.getCol(key)
	if col == nil {
		b := c.config.Bounds
		col = collection.New(point, b[0], b[1], b[2], b[3])
		c.setCol(key, col)
	} else {
		col.Insert(point)
	}
	switch msg.OutputType {
	case JSON:
		res = `{"ok":true,"count":` + strconv.Itoa(col.Count()) + `,` + jsonElapsed(msg.Start) + `}`
	case RESP:
		res = ":" + strconv.Itoa(col.Count()) + "\r\n"
	}
	return res, nil
}

func (c *Controller) cmdDrop(msg *Message) (res string, err error) {
	vs := msg.Values[1:]
	var ok bool
	var key string
	if vs, key, ok = tokenval(vs); !ok || key == "" || len(vs) != 0 {
		return "", errInvalidNumberOfArguments
	}
	col := c.deleteCol(key)
	switch msg.OutputType {
	case JSON:
		res = okMessage(msg)
	case RESP:
		if col != nil {
			res = ":1\r\n"
		} else {
			res = ":0\r\n"
		}
	}
	return res, nil
}

func (c *Controller) cmdFlushDB(msg *Message) (res string, err error) {
	if len(msg.Values) != 1 {
		return "", errInvalidNumberOfArguments
	}
	c.cols = btree.New(16)
	return okMessage(msg), nil
}

// readCollection parses a "COMMAND key" request and fetches the tree.
func (c *Controller) readCollection(msg *Message) (*collection.Collection, []string, error) {
	vs := msg.Values[1:]
	var ok bool
	var key string
	if vs, key, ok = tokenval(vs); !ok || key == "" {
		return nil, vs, errInvalidNumberOfArguments
	}
	col := c.getCol(key)
	if col == nil {
		return nil, vs, errKeyNotFound
	}
	return col, vs, nil
}

func (c *Controller) cmdSize(msg *Message) (res string, err error) {
	col, vs, err := c.readCollection(msg)
	if err != nil {
		return "", err
	}
	if len(vs) != 0 {
		return "", errInvalidNumberOfArguments
	}
	return intReply(msg, "size", col.Size()), nil
}

func (c *Controller) cmdDepth(msg *Message) (res string, err error) {
	col, vs, err := c.readCollection(msg)
	if err != nil {
		return "", err
	}
	if len(vs) != 0 {
		return "", errInvalidNumberOfArguments
	}
	return intReply(msg, "depth", col.Depth()), nil
}

func (c *Controller) cmdBounds(msg *Message) (res string, err error) {
	col, vs, err := c.readCollection(msg)
	if err != nil {
		return "", err
	}
	if len(vs) != 0 {
		return "", errInvalidNumberOfArguments
	}
	x1, y1, x2, y2 := col.Bounds()
	switch msg.OutputType {
	case JSON:
		b := []byte(`{"ok":true,"bounds":`)
		b = appendJSONRect(b, x1, y1, x2, y2)
		b = append(b, ',')
		b = append(b, jsonElapsed(msg.Start)...)
		res = string(append(b, '}'))
	case RESP:
		res, err = marshalRESP(respRect(x1, y1, x2, y2))
	}
	return res, err
}

func intReply(msg *Message, name string, n int) string {
	switch msg.OutputType {
	case JSON:
		return `{"ok":true,"` + name + `":` + strconv.Itoa(n) + `,` + jsonElapsed(msg.Start) + `}`
	case RESP:
		v, _ := resp.IntegerValue(n).MarshalRESP()
		return string(v)
	}
	return ""
}
