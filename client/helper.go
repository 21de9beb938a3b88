package client

import (
	"errors"
	"strconv"

	"github.com/garyburd/redigo/redis"
	"github.com/tidwall/gjson"
)

// Point represents a stored point.
type Point struct {
	ID   string
	X, Y float64
}

// Match is a point found by Nearby.
type Match struct {
	Point
	Distance float64
}

// Stats represents pqtree server statistics.
type Stats struct {
	ServerID       string
	NumCollections int
	NumPoints      int
	InMemorySize   int
	HeapSize       int
	Uptime         int
	ReadOnly       bool
}

// Ping checks that the server answers.
func (conn *Conn) Ping() error {
	pong, err := redis.String(conn.c.Do("PING"))
	if err != nil {
		return err
	}
	if pong != "PONG" {
		return errors.New("expected PONG, got " + pong)
	}
	return nil
}

// Create adds a tree at key anchored at p and covering (x1,y1)-(x2,y2).
func (conn *Conn) Create(key string, x1, y1, x2, y2 float64, p Point) error {
	args := []interface{}{key, x1, y1, x2, y2, p.X, p.Y}
	if p.ID != "" {
		args = append(args, p.ID)
	}
	_, err := redis.String(conn.c.Do("CREATE", args...))
	return err
}

// Insert adds p to the tree at key and returns the number of points in it.
func (conn *Conn) Insert(key string, p Point) (int, error) {
	args := []interface{}{key, p.X, p.Y}
	if p.ID != "" {
		args = append(args, p.ID)
	}
	return redis.Int(conn.c.Do("INSERT", args...))
}

// Size returns the number of points of the tree at key.
func (conn *Conn) Size(key string) (int, error) {
	return redis.Int(conn.c.Do("SIZE", key))
}

// Depth returns the number of levels of the tree at key.
func (conn *Conn) Depth(key string) (int, error) {
	return redis.Int(conn.c.Do("DEPTH", key))
}

// Bounds returns the root region of the tree at key.
func (conn *Conn) Bounds(key string) (x1, y1, x2, y2 float64, err error) {
	vals, err := redis.Strings(conn.c.Do("BOUNDS", key))
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if len(vals) != 4 {
		return 0, 0, 0, 0, errors.New("invalid bounds reply")
	}
	var b [4]float64
	for i, v := range vals {
		if b[i], err = strconv.ParseFloat(v, 64); err != nil {
			return 0, 0, 0, 0, err
		}
	}
	return b[0], b[1], b[2], b[3], nil
}

func parsePoint(reply interface{}) (Point, error) {
	vals, err := redis.Strings(reply, nil)
	if err != nil {
		return Point{}, err
	}
	if len(vals) != 3 {
		return Point{}, errors.New("invalid point reply")
	}
	p := Point{ID: vals[0]}
	if p.X, err = strconv.ParseFloat(vals[1], 64); err != nil {
		return p, err
	}
	if p.Y, err = strconv.ParseFloat(vals[2], 64); err != nil {
		return p, err
	}
	return p, nil
}

// Points returns every point of the tree at key in pre-order.
func (conn *Conn) Points(key string) ([]Point, error) {
	vals, err := redis.Values(conn.c.Do("POINTS", key))
	if err != nil {
		return nil, err
	}
	points := make([]Point, 0, len(vals))
	for _, v := range vals {
		p, err := parsePoint(v)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// Nearby returns the points within radius r of (x,y).
func (conn *Conn) Nearby(key string, x, y, r float64) ([]Match, error) {
	vals, err := redis.Values(conn.c.Do("NEARBY", key, x, y, r))
	if err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(vals))
	for _, v := range vals {
		pair, err := redis.Values(v, nil)
		if err != nil {
			return nil, err
		}
		if len(pair) != 2 {
			return nil, errors.New("invalid nearby reply")
		}
		var m Match
		if m.Point, err = parsePoint(pair[0]); err != nil {
			return nil, err
		}
		if m.Distance, err = redis.Float64(pair[1], nil); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// NearbyCount returns the number of points within radius r of (x,y).
func (conn *Conn) NearbyCount(key string, x, y, r float64) (int, error) {
	return redis.Int(conn.c.Do("NEARBY", key, x, y, r, "COUNT"))
}

// Keys returns the keys matching pattern in ascending order.
func (conn *Conn) Keys(pattern string) ([]string, error) {
	return redis.Strings(conn.c.Do("KEYS", pattern))
}

// Drop removes the tree at key and reports whether it existed.
func (conn *Conn) Drop(key string) (bool, error) {
	n, err := redis.Int(conn.c.Do("DROP", key))
	return n == 1, err
}

// Server returns server statistics. The reply is read in json mode.
func (conn *Conn) Server() (Stats, error) {
	var stats Stats
	if _, err := conn.c.Do("OUTPUT", "json"); err != nil {
		return stats, err
	}
	msg, err := redis.String(conn.c.Do("SERVER"))
	if _, rerr := conn.c.Do("OUTPUT", "resp"); err == nil {
		err = rerr
	}
	if err != nil {
		return stats, err
	}
	res := gjson.Parse(msg)
	if !res.Get("ok").Bool() {
		if e := res.Get("err").String(); e != "" {
			return stats, errors.New(e)
		}
		return stats, errors.New("not ok")
	}
	s := res.Get("stats")
	stats.ServerID = s.Get("id").String()
	stats.NumCollections = int(s.Get("num_collections").Int())
	stats.NumPoints = int(s.Get("num_points").Int())
	stats.InMemorySize = int(s.Get("in_memory_size").Int())
	stats.HeapSize = int(s.Get("heap_size").Int())
	stats.Uptime = int(s.Get("uptime").Int())
	stats.ReadOnly = s.Get("read_only").Bool()
	return stats, nil
}
