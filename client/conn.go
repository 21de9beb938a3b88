package client

import (
	"time"

	"github.com/garyburd/redigo/redis"
)

// Conn represents a connection to a pqtree server.
type Conn struct {
	c redis.Conn
}

// Dial connects to a pqtree server.
func Dial(addr string) (*Conn, error) {
	c, err := redis.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Conn{c: c}, nil
}

// DialTimeout connects to a pqtree server with a timeout that also applies
// to every read and write.
func DialTimeout(addr string, timeout time.Duration) (*Conn, error) {
	c, err := redis.Dial("tcp", addr,
		redis.DialConnectTimeout(timeout),
		redis.DialReadTimeout(timeout),
		redis.DialWriteTimeout(timeout),
	)
	if err != nil {
		return nil, err
	}
	return &Conn{c: c}, nil
}

// Close will close a connection.
func (conn *Conn) Close() error {
	conn.c.Do("QUIT")
	return conn.c.Close()
}

// Do sends a command to the server and returns the received reply.
func (conn *Conn) Do(command string, args ...interface{}) (interface{}, error) {
	return conn.c.Do(command, args...)
}
