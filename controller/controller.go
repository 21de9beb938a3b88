package controller

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/btree"
	"github.com/tidwall/redcon"
	"github.com/zycbobby/pqtree/controller/collection"
	"github.com/zycbobby/pqtree/core"
	"github.com/zycbobby/pqtree/log"
)

// OutputType is the reply format of a connection.
type OutputType int

const (
	RESP OutputType = iota
	JSON
)

// Message is a parsed command.
type Message struct {
	Command    string
	Values     []string
	OutputType OutputType
	Start      time.Time
}

type connContext struct {
	output        OutputType
	authenticated bool
}

type collectionT struct {
	Key        string
	Collection *collection.Collection
}

func (col *collectionT) Less(item btree.Item) bool {
	return col.Key < item.(*collectionT).Key
}

// Controller is a pqtree controller
type Controller struct {
	mu         sync.RWMutex
	log        *log.Logger
	cols       *btree.BTree
	config     Config
	configPath string
	started    time.Time

	srv      *redcon.Server
	conns    int64 // open connections
	commands uint64
}

// New creates a controller. An empty configPath runs with the defaults and
// disables CONFIG REWRITE.
func New(configPath string, logger *log.Logger) (*Controller, error) {
	if logger == nil {
		logger = log.Default
	}
	c := &Controller{
		log:        logger.Sub("controller"),
		cols:       btree.New(16),
		configPath: configPath,
		started:    time.Now(),
	}
	if err := c.loadConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

// ListenAndServe starts a new pqtree server
func ListenAndServe(host string, port int, configPath string) error {
	c, err := New(configPath, log.Default)
	if err != nil {
		return err
	}
	return c.ListenServeAndSignal(fmt.Sprintf("%s:%d", host, port), nil)
}

// ListenServeAndSignal serves on addr. When signal is not nil it receives
// nil once the listener is ready, or the listen error.
func (c *Controller) ListenServeAndSignal(addr string, signal chan error) error {
	c.log.Infof("Server started, pqtree version %s, git %s", core.Version, core.GitSHA)
	srv := redcon.NewServer(addr, c.handle, c.accept, c.closed)
	c.mu.Lock()
	c.srv = srv
	c.mu.Unlock()
	if signal == nil {
		signal = make(chan error, 1)
	}
	sig := make(chan error, 1)
	go func() {
		err := <-sig
		if err == nil {
			c.log.Infof("The server is now ready to accept connections at %s", addr)
		}
		signal <- err
	}()
	return srv.ListenServeAndSignal(sig)
}

// Close stops the server.
func (c *Controller) Close() error {
	c.mu.RLock()
	srv := c.srv
	c.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Close()
}

func (c *Controller) accept(conn redcon.Conn) bool {
	atomic.AddInt64(&c.conns, 1)
	conn.SetContext(&connContext{})
	c.log.Debugf("opened connection: %s", conn.RemoteAddr())
	return true
}

func (c *Controller) closed(conn redcon.Conn, err error) {
	atomic.AddInt64(&c.conns, -1)
	if err != nil {
		c.log.Debugf("closed connection: %s: %v", conn.RemoteAddr(), err)
		return
	}
	c.log.Debugf("closed connection: %s", conn.RemoteAddr())
}

func (c *Controller) setCol(key string, col *collection.Collection) {
	c.cols.ReplaceOrInsert(&collectionT{Key: key, Collection: col})
}

func (c *Controller) getCol(key string) *collection.Collection {
	item := c.cols.Get(&collectionT{Key: key})
	if item == nil {
		return nil
	}
	return item.(*collectionT).Collection
}

func (c *Controller) deleteCol(key string) *collection.Collection {
	i := c.cols.Delete(&collectionT{Key: key})
	if i == nil {
		return nil
	}
	return i.(*collectionT).Collection
}

func (c *Controller) handle(conn redcon.Conn, cmd redcon.Command) {
	ctx, _ := conn.Context().(*connContext)
	if ctx == nil {
		ctx = &connContext{}
		conn.SetContext(ctx)
	}
	atomic.AddUint64(&c.commands, 1)
	msg := &Message{
		Values:     make([]string, len(cmd.Args)),
		OutputType: ctx.output,
		Start:      time.Now(),
	}
	for i, arg := range cmd.Args {
		msg.Values[i] = string(arg)
	}
	msg.Command = strings.ToLower(msg.Values[0])
	if msg.Command == "config" && len(msg.Values) > 1 {
		msg.Command = "config " + strings.ToLower(msg.Values[1])
		msg.Values = msg.Values[1:]
	}
	if err := c.handleInputCommand(conn, ctx, msg); err != nil {
		c.log.Warnf("%s: %v", msg.Command, err)
		return
	}
	c.log.Elapsed(msg.Start, "%s", msg.Command)
}

func writeOutput(conn redcon.Conn, msg *Message, res string) {
	switch msg.OutputType {
	case JSON:
		conn.WriteBulkString(res)
	case RESP:
		conn.WriteRaw([]byte(res))
	}
}

func writeErr(conn redcon.Conn, msg *Message, err error) {
	switch msg.OutputType {
	case JSON:
		conn.WriteBulkString(`{"ok":false,"err":` + jsonString(err.Error()) + `,` + jsonElapsed(msg.Start) + `}`)
	case RESP:
		if err == errInvalidNumberOfArguments {
			conn.WriteError("ERR wrong number of arguments for '" + msg.Command + "' command")
			return
		}
		conn.WriteError("ERR " + err.Error())
	}
}

func okMessage(msg *Message) string {
	switch msg.OutputType {
	case JSON:
		return `{"ok":true,` + jsonElapsed(msg.Start) + `}`
	case RESP:
		return "+OK\r\n"
	}
	return ""
}

func (c *Controller) handleInputCommand(conn redcon.Conn, ctx *connContext, msg *Message) error {
	// Ping and quit need no pipeline.
	switch msg.Command {
	case "ping":
		switch msg.OutputType {
		case JSON:
			writeOutput(conn, msg, `{"ok":true,"ping":"pong",`+jsonElapsed(msg.Start)+`}`)
		case RESP:
			conn.WriteString("PONG")
		}
		return nil
	case "quit":
		writeOutput(conn, msg, okMessage(msg))
		conn.Close()
		return nil
	}

	if !ctx.authenticated || msg.Command == "auth" {
		c.mu.RLock()
		requirePass := c.config.RequirePass
		c.mu.RUnlock()
		if requirePass != "" {
			if msg.Command != "auth" {
				writeErr(conn, msg, errAuthRequired)
				return errAuthRequired
			}
			if len(msg.Values) != 2 {
				writeErr(conn, msg, errInvalidNumberOfArguments)
				return errInvalidNumberOfArguments
			}
			if requirePass != strings.TrimSpace(msg.Values[1]) {
				writeErr(conn, msg, errInvalidPassword)
				return errInvalidPassword
			}
			ctx.authenticated = true
			writeOutput(conn, msg, okMessage(msg))
			return nil
		} else if msg.Command == "auth" {
			writeErr(conn, msg, errInvalidPassword)
			return errInvalidPassword
		}
	}

	// choose the locking strategy
	switch msg.Command {
	default:
		c.mu.RLock()
		defer c.mu.RUnlock()
	case "create", "insert", "drop", "flushdb":
		// write operations
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.config.ReadOnly {
			writeErr(conn, msg, errReadOnly)
			return errReadOnly
		}
	case "config set", "config rewrite":
		// system operations
		c.mu.Lock()
		defer c.mu.Unlock()
	case "output":
		// this is local connection operation. Locks not needed.
	}

	res, err := c.command(ctx, msg)
	if err != nil {
		writeErr(conn, msg, err)
		return err
	}
	if res != "" {
		writeOutput(conn, msg, res)
	}
	return nil
}

func (c *Controller) command(ctx *connContext, msg *Message) (res string, err error) {
	switch msg.Command {
	default:
		err = errUnknownCommand(msg.Values[0])
	case "create":
		res, err = c.cmdCreate(msg)
	case "insert":
		res, err = c.cmdInsert(msg)
	case "drop":
		res, err = c.cmdDrop(msg)
	case "flushdb":
		res, err = c.cmdFlushDB(msg)
	case "size":
		res, err = c.cmdSize(msg)
	case "depth":
		res, err = c.cmdDepth(msg)
	case "bounds":
		res, err = c.cmdBounds(msg)
	case "points":
		res, err = c.cmdPoints(msg)
	case "nearby":
		res, err = c.cmdNearby(msg)
	case "nodes":
		res, err = c.cmdNodes(msg)
	case "keys":
		res, err = c.cmdKeys(msg)
	case "stats":
		res, err = c.cmdStats(msg)
	case "server":
		res, err = c.cmdServer(msg)
	case "output":
		res, err = c.cmdOutput(ctx, msg)
	case "config get":
		res, err = c.cmdConfigGet(msg)
	case "config set":
		res, err = c.cmdConfigSet(msg)
	case "config rewrite":
		res, err = c.cmdConfigRewrite(msg)
	}
	return
}

func (c *Controller) cmdOutput(ctx *connContext, msg *Message) (res string, err error) {
	vs := msg.Values[1:]
	var arg string
	var ok bool
	if len(vs) != 0 {
		if _, arg, ok = tokenval(vs); !ok || arg == "" || len(vs) != 1 {
			return "", errInvalidNumberOfArguments
		}
		switch strings.ToLower(arg) {
		default:
			return "", errInvalidArgument(arg)
		case "json":
			ctx.output = JSON
			msg.OutputType = JSON
		case "resp":
			ctx.output = RESP
			msg.OutputType = RESP
		}
		return okMessage(msg), nil
	}
	// return the output
	switch msg.OutputType {
	default:
		return "", nil
	case JSON:
		return `{"ok":true,"output":"json",` + jsonElapsed(msg.Start) + `}`, nil
	case RESP:
		return "$4\r\nresp\r\n", nil
	}
}
