package controller

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/resp"
)

var defaultBounds = [4]float64{0, 0, 1000, 1000}

// Config is a pqtree server config
type Config struct {
	ServerID    string     `json:"server_id,omitempty"`
	RequirePass string     `json:"requirepass,omitempty"`
	Bounds      [4]float64 `json:"bounds"`
	ReadOnly    bool       `json:"read_only,omitempty"`
}

func defaultConfig() Config {
	return Config{ServerID: randomKey(16), Bounds: defaultBounds}
}

func randomKey(n int) string {
	b := make([]byte, n)
	nn, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	if nn != n {
		panic("random failed")
	}
	return fmt.Sprintf("%x", b)
}

// loadConfig reads the config file. A missing file yields the defaults and
// is written on the next CONFIG REWRITE.
func (c *Controller) loadConfig() error {
	c.config = defaultConfig()
	if c.configPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, &c.config); err != nil {
		return fmt.Errorf("config %s: %v", c.configPath, err)
	}
	if c.config.ServerID == "" {
		c.config.ServerID = randomKey(16)
	}
	if c.config.Bounds[0] == c.config.Bounds[2] || c.config.Bounds[1] == c.config.Bounds[3] {
		c.log.Warnf("config %s: empty bounds %v, using defaults", c.configPath, c.config.Bounds)
		c.config.Bounds = defaultBounds
	}
	return nil
}

func (c *Controller) writeConfig() error {
	if c.configPath == "" {
		return fmt.Errorf("the server is running without a config file")
	}
	data, err := json.MarshalIndent(c.config, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(c.configPath, data, 0600)
}

func parseBounds(value string) (bounds [4]float64, err error) {
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == ' ' || r == ',' })
	if len(parts) != 4 {
		return bounds, fmt.Errorf("Invalid argument '%s' for CONFIG SET 'bounds'", value)
	}
	for i, part := range parts {
		if _, bounds[i], err = tokenfloat([]string{part}); err != nil {
			return bounds, fmt.Errorf("Invalid argument '%s' for CONFIG SET 'bounds'", value)
		}
	}
	return bounds, nil
}

func (c *Controller) setConfigProperty(name, value string) error {
	var invalid bool
	switch name {
	default:
		return fmt.Errorf("Unsupported CONFIG parameter: %s", name)
	case "requirepass":
		c.config.RequirePass = value
	case "bounds":
		bounds, err := parseBounds(value)
		if err != nil {
			return err
		}
		c.config.Bounds = bounds
	case "read-only":
		switch strings.ToLower(value) {
		case "yes", "1", "true":
			c.config.ReadOnly = true
		case "no", "0", "false":
			c.config.ReadOnly = false
		default:
			invalid = true
		}
	}
	if invalid {
		return fmt.Errorf("Invalid argument '%s' for CONFIG SET '%s'", value, name)
	}
	return nil
}

func (c *Controller) getConfigProperty(name string) (string, bool) {
	switch name {
	default:
		return "", false
	case "requirepass":
		return c.config.RequirePass, true
	case "bounds":
		b := c.config.Bounds
		return ftoa(b[0]) + " " + ftoa(b[1]) + " " + ftoa(b[2]) + " " + ftoa(b[3]), true
	case "read-only":
		if c.config.ReadOnly {
			return "yes", true
		}
		return "no", true
	}
}

func (c *Controller) cmdConfigGet(msg *Message) (res string, err error) {
	vs := msg.Values[1:]
	var ok bool
	var name string
	if vs, name, ok = tokenval(vs); !ok || name == "" || len(vs) != 0 {
		return "", errInvalidNumberOfArguments
	}
	value, ok := c.getConfigProperty(strings.ToLower(name))
	if !ok {
		return "", fmt.Errorf("Unsupported CONFIG parameter: %s", name)
	}
	switch msg.OutputType {
	case JSON:
		res = `{"ok":true,"properties":{` + jsonString(name) + `:` + jsonString(value) + `},` + jsonElapsed(msg.Start) + `}`
	case RESP:
		res, err = marshalRESP(resp.ArrayValue([]resp.Value{
			resp.StringValue(name), resp.StringValue(value),
		}))
	}
	return res, err
}

func (c *Controller) cmdConfigSet(msg *Message) (res string, err error) {
	vs := msg.Values[1:]
	var ok bool
	var name string
	if vs, name, ok = tokenval(vs); !ok || name == "" {
		return "", errInvalidNumberOfArguments
	}
	if err := c.setConfigProperty(strings.ToLower(name), strings.Join(vs, " ")); err != nil {
		return "", err
	}
	return okMessage(msg), nil
}

func (c *Controller) cmdConfigRewrite(msg *Message) (res string, err error) {
	if len(msg.Values) != 1 {
		return "", errInvalidNumberOfArguments
	}
	if err := c.writeConfig(); err != nil {
		c.log.Errorf("config rewrite: %v", err)
		return "", err
	}
	return okMessage(msg), nil
}
