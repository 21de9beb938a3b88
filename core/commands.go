package core

import (
	"encoding/json"
	"strings"
)

const (
	clear  = "\x1b[0m"
	bright = "\x1b[1m"
	gray   = "\x1b[90m"
	yellow = "\x1b[33m"
)

type Command struct {
	Name       string     `json:"-"`
	Summary    string     `json:"summary"`
	Complexity string     `json:"complexity"`
	Arguments  []Argument `json:"arguments"`
	Group      string     `json:"group"`
}

func (c Command) String() string {
	var s = c.Name
	for _, arg := range c.Arguments {
		s += " " + arg.String()
	}
	return s
}

func (c Command) TermOutput(indent string) string {
	line1 := bright + strings.Replace(c.String(), " ", " "+clear+gray, 1) + clear
	line2 := yellow + "summary: " + clear + c.Summary
	line3 := yellow + "complexity: " + clear + c.Complexity
	return indent + line1 + "\n" + indent + line2 + "\n" + indent + line3 + "\n"
}

type Argument struct {
	Command  string      `json:"command"`
	NameAny  interface{} `json:"name"`
	TypeAny  interface{} `json:"type"`
	Optional bool        `json:"optional"`
	Multiple bool        `json:"multiple"`
	Enum     []string    `json:"enum"`
}

func (a Argument) String() string {
	var s string
	if a.Command != "" {
		s += " " + a.Command
	}
	if len(a.Enum) > 0 {
		s += " " + strings.Join(a.Enum, "|")
	} else {
		names, _ := a.NameTypes()
		s += " " + strings.Join(names, " ")
		if a.Multiple {
			s += " ..."
		}
	}
	s = strings.TrimSpace(s)
	if a.Optional {
		s = "[" + s + "]"
	}
	return s
}

func parseAnyStringArray(any interface{}) []string {
	if str, ok := any.(string); ok {
		return []string{str}
	} else if any, ok := any.([]interface{}); ok {
		arr := []string{}
		for _, any := range any {
			if str, ok := any.(string); ok {
				arr = append(arr, str)
			}
		}
		return arr
	}
	return []string{}
}

func (a Argument) NameTypes() (names, types []string) {
	names = parseAnyStringArray(a.NameAny)
	types = parseAnyStringArray(a.TypeAny)
	if len(types) > len(names) {
		types = types[:len(names)]
	} else {
		for len(types) < len(names) {
			types = append(types, "")
		}
	}
	return
}

// Commands is the command table, keyed by upper case name.
var Commands = func() map[string]Command {
	var commands map[string]Command
	if err := json.Unmarshal([]byte(commandsJSON), &commands); err != nil {
		panic(err.Error())
	}
	for name, command := range commands {
		command.Name = strings.ToUpper(name)
		commands[name] = command
	}
	return commands
}()

var commandsJSON = `{
  "CREATE": {
    "summary": "Creates a tree rooted at a point with a bounding rectangle",
    "complexity": "O(1)",
    "arguments": [
      {"name": "key", "type": "string"},
      {"name": ["x1", "y1", "x2", "y2"], "type": ["double", "double", "double", "double"]},
      {"name": ["x", "y"], "type": ["double", "double"]},
      {"name": "id", "type": "string", "optional": true}
    ],
    "group": "tree"
  },
  "INSERT": {
    "summary": "Inserts a point, creating the tree with the default bounds when missing",
    "complexity": "O(D) where D is the depth of the insertion path",
    "arguments": [
      {"name": "key", "type": "string"},
      {"name": ["x", "y"], "type": ["double", "double"]},
      {"name": "id", "type": "string", "optional": true}
    ],
    "group": "tree"
  },
  "SIZE": {
    "summary": "Returns the number of points in a tree",
    "complexity": "O(N)",
    "arguments": [{"name": "key", "type": "string"}],
    "group": "tree"
  },
  "DEPTH": {
    "summary": "Returns the number of levels in a tree",
    "complexity": "O(N)",
    "arguments": [{"name": "key", "type": "string"}],
    "group": "tree"
  },
  "BOUNDS": {
    "summary": "Returns the root rectangle of a tree",
    "complexity": "O(1)",
    "arguments": [{"name": "key", "type": "string"}],
    "group": "tree"
  },
  "NODES": {
    "summary": "Dumps every node with its depth, region and occupied quadrants",
    "complexity": "O(N)",
    "arguments": [{"name": "key", "type": "string"}],
    "group": "tree"
  },
  "DROP": {
    "summary": "Removes a tree",
    "complexity": "O(1)",
    "arguments": [{"name": "key", "type": "string"}],
    "group": "keys"
  },
  "FLUSHDB": {
    "summary": "Removes all trees",
    "complexity": "O(1)",
    "arguments": [],
    "group": "keys"
  },
  "KEYS": {
    "summary": "Finds all keys matching the given pattern",
    "complexity": "O(N) where N is the number of keys",
    "arguments": [{"name": "pattern", "type": "pattern"}],
    "group": "keys"
  },
  "POINTS": {
    "summary": "Returns every point of a tree in pre-order",
    "complexity": "O(N)",
    "arguments": [{"name": "key", "type": "string"}],
    "group": "search"
  },
  "NEARBY": {
    "summary": "Searches for points within a radius of a center",
    "complexity": "O(N) worst case, pruned by region",
    "arguments": [
      {"name": "key", "type": "string"},
      {"name": ["x", "y", "radius"], "type": ["double", "double", "double"]},
      {"command": "COUNT", "name": [], "optional": true}
    ],
    "group": "search"
  },
  "STATS": {
    "summary": "Shows size and depth of one or more trees",
    "complexity": "O(N)",
    "arguments": [{"name": "key", "type": "string", "multiple": true}],
    "group": "server"
  },
  "SERVER": {
    "summary": "Shows server stats",
    "complexity": "O(N)",
    "arguments": [],
    "group": "server"
  },
  "CONFIG GET": {
    "summary": "Gets a config property",
    "complexity": "O(1)",
    "arguments": [{"name": "parameter", "type": "string", "enum": ["requirepass", "bounds", "read-only"]}],
    "group": "server"
  },
  "CONFIG SET": {
    "summary": "Sets a config property",
    "complexity": "O(1)",
    "arguments": [
      {"name": "parameter", "type": "string"},
      {"name": "value", "type": "string", "optional": true}
    ],
    "group": "server"
  },
  "CONFIG REWRITE": {
    "summary": "Writes the config to the config file",
    "complexity": "O(1)",
    "arguments": [],
    "group": "server"
  },
  "OUTPUT": {
    "summary": "Gets or sets the output format for the connection",
    "complexity": "O(1)",
    "arguments": [{"name": "type", "type": "string", "enum": ["json", "resp"], "optional": true}],
    "group": "connection"
  },
  "AUTH": {
    "summary": "Authenticates the connection",
    "complexity": "O(1)",
    "arguments": [{"name": "password", "type": "string"}],
    "group": "connection"
  },
  "PING": {
    "summary": "Pings the server",
    "complexity": "O(1)",
    "arguments": [],
    "group": "connection"
  },
  "QUIT": {
    "summary": "Closes the connection",
    "complexity": "O(1)",
    "arguments": [],
    "group": "connection"
  }
}`
