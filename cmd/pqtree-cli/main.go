package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/peterh/liner"
	"github.com/tidwall/gjson"
	"github.com/zycbobby/pqtree/client"
	"github.com/zycbobby/pqtree/core"
)

var historyFile = filepath.Join(userHomeDir(), ".pqtree_cli_history")

func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

var (
	hostname   = "127.0.0.1"
	port       = 9861
	oneCommand []string
)

func showHelp() bool {
	fmt.Fprintf(os.Stdout, "pqtree-cli %s (git:%s)\n\n", core.Version, core.GitSHA)
	fmt.Fprintf(os.Stdout, "Usage: pqtree-cli [OPTIONS] [cmd [arg [arg ...]]]\n")
	fmt.Fprintf(os.Stdout, " -h <hostname>      Server hostname (default: %s).\n", hostname)
	fmt.Fprintf(os.Stdout, " -p <port>          Server port (default: %d).\n", port)
	fmt.Fprintf(os.Stdout, "\n")
	return false
}

func parseArgs() bool {
	defer func() {
		if v := recover(); v != nil {
			if v, ok := v.(string); ok && v == "bad arg" {
				showHelp()
			}
		}
	}()

	args := os.Args[1:]
	readArg := func() string {
		if len(args) == 0 {
			panic("bad arg")
		}
		var narg = args[0]
		args = args[1:]
		return narg
	}
	badArg := func(arg string) bool {
		fmt.Fprintf(os.Stderr, "Unrecognized option or bad number of args for: '%s'\n", arg)
		return false
	}
	for len(args) > 0 {
		arg := readArg()
		if arg == "--help" {
			return showHelp()
		}
		if !strings.HasPrefix(arg, "-") {
			args = append([]string{arg}, args...)
			break
		}
		switch arg {
		default:
			return badArg(arg)
		case "-h":
			hostname = readArg()
		case "-p":
			n, err := strconv.ParseUint(readArg(), 10, 16)
			if err != nil {
				return badArg(arg)
			}
			port = int(n)
		}
	}
	oneCommand = args
	return true
}

func refusedErrorString(addr string) string {
	return fmt.Sprintf("Could not connect to pqtree at %s: Connection refused", addr)
}

var groupsM = make(map[string][]string)

func main() {
	if !parseArgs() {
		return
	}

	addr := fmt.Sprintf("%s:%d", hostname, port)
	conn, err := client.Dial(addr)
	if err != nil {
		if _, ok := err.(net.Error); ok {
			fmt.Fprintln(os.Stderr, refusedErrorString(addr))
		} else {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return
	}
	defer conn.Close()
	if _, err := conn.Do("OUTPUT", "json"); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return
	}

	if len(oneCommand) > 0 {
		if err := run(conn, oneCommand, true); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return
	}

	line := liner.NewLiner()
	defer line.Close()

	var commands []string
	for name, command := range core.Commands {
		commands = append(commands, name)
		groupsM[command.Group] = append(groupsM[command.Group], name)
	}
	sort.Strings(commands)
	var groups []string
	for group, arr := range groupsM {
		groups = append(groups, "@"+group)
		sort.Strings(arr)
		groupsM[group] = arr
	}
	sort.Strings(groups)

	line.SetMultiLineMode(false)
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(line string) (c []string) {
		if strings.HasPrefix(strings.ToLower(line), "help ") {
			nline := strings.TrimSpace(line[5:])
			candidates := commands
			lower := false
			if nline == "" || nline[0] == '@' {
				candidates = groups
				lower = true
			}
			for _, n := range candidates {
				if strings.HasPrefix(strings.ToLower(n), strings.ToLower(nline)) {
					if lower {
						n = strings.ToLower(n)
					}
					c = append(c, line[:len(line)-len(nline)]+n)
				}
			}
			return
		}
		for _, n := range commands {
			if strings.HasPrefix(strings.ToLower(n), strings.ToLower(line)) {
				c = append(c, n)
			}
		}
		return
	})
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
		} else {
			line.WriteHistory(f)
			f.Close()
		}
	}()
	for {
		command, err := line.Prompt(addr + "> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading line: %s\n", err.Error())
			continue
		}
		nohist := strings.HasPrefix(command, " ")
		command = strings.TrimSpace(command)
		if command == "" {
			if _, err := conn.Do("PING"); err != nil {
				fmt.Fprintln(os.Stderr, refusedErrorString(addr))
				return
			}
			continue
		}
		if !nohist {
			line.AppendHistory(command)
		}
		args, err := splitLine(command)
		if err != nil {
			fmt.Fprintf(os.Stderr, "(error) %s\n", err.Error())
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch strings.ToLower(args[0]) {
		case "exit", "quit":
			return
		case "raw":
			raw = true
			fmt.Fprintln(os.Stderr, "raw mode is ON")
			continue
		case "pretty":
			raw = false
			fmt.Fprintln(os.Stderr, "raw mode is OFF")
			continue
		case "help":
			help(strings.Join(args[1:], " "))
			continue
		}
		if err := run(conn, args, false); err != nil {
			if err != io.EOF {
				fmt.Fprintln(os.Stderr, err.Error())
			} else {
				fmt.Fprintln(os.Stderr, refusedErrorString(addr))
			}
			return
		}
	}
}

var raw bool

// splitLine splits a prompt line into arguments. A line starting with '#'
// is a comment and yields no arguments.
func splitLine(line string) ([]string, error) {
	return shlex.Split(line)
}

// run sends one command. Server side errors are printed, connection errors
// are returned.
func run(conn *client.Conn, args []string, oneShot bool) error {
	vals := make([]interface{}, len(args)-1)
	for i, arg := range args[1:] {
		vals[i] = arg
	}
	reply, err := conn.Do(args[0], vals...)
	if err != nil {
		if _, ok := err.(net.Error); ok || err == io.EOF {
			return err
		}
		fmt.Fprintf(os.Stderr, "(error) %s\n", err.Error())
		return nil
	}
	msg, ok := reply.([]byte)
	if !ok {
		fmt.Fprintln(os.Stdout, reply)
		return nil
	}
	if !oneShot && !gjson.GetBytes(msg, "ok").Bool() {
		fmt.Fprintln(os.Stderr, "(error) "+gjson.GetBytes(msg, "err").String())
		return nil
	}
	if !raw {
		var buf bytes.Buffer
		if err := json.Indent(&buf, msg, "", "  "); err == nil {
			msg = buf.Bytes()
		}
	}
	fmt.Fprintln(os.Stdout, string(msg))
	return nil
}

func help(arg string) {
	if arg == "" {
		fmt.Fprintf(os.Stderr, "pqtree-cli %s (git:%s)\n", core.Version, core.GitSHA)
		fmt.Fprintf(os.Stderr, `Type: "help @<group>" to get a list of commands in <group>`+"\n")
		fmt.Fprintf(os.Stderr, `      "help <command>" for help on <command>`+"\n")
		fmt.Fprintf(os.Stderr, `      "help <tab>" to get a list of possible help topics`+"\n")
		fmt.Fprintf(os.Stderr, `      "quit" to exit`+"\n")
		return
	}
	if strings.HasPrefix(arg, "@") {
		for _, command := range groupsM[arg[1:]] {
			fmt.Fprintf(os.Stderr, "%s\n", core.Commands[command].TermOutput("  "))
		}
		return
	}
	if command, ok := core.Commands[strings.ToUpper(arg)]; ok {
		fmt.Fprintf(os.Stderr, "%s\n", command.TermOutput("  "))
	}
}
