package controller

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var errInvalidNumberOfArguments = errors.New("invalid number of arguments")
var errKeyNotFound = errors.New("key not found")
var errKeyExists = errors.New("key already exists")
var errAuthRequired = errors.New("authentication required")
var errInvalidPassword = errors.New("invalid password")
var errReadOnly = errors.New("read only")

func errInvalidArgument(arg string) error {
	return fmt.Errorf("invalid argument '%s'", arg)
}

func errUnknownCommand(cmd string) error {
	return fmt.Errorf("unknown command '%s'", cmd)
}

func tokenval(vs []string) (nvs []string, token string, ok bool) {
	if len(vs) > 0 {
		token = vs[0]
		nvs = vs[1:]
		ok = true
	}
	return
}

func tokenfloat(vs []string) (nvs []string, f float64, err error) {
	var s string
	var ok bool
	if nvs, s, ok = tokenval(vs); !ok || s == "" {
		return nvs, 0, errInvalidNumberOfArguments
	}
	f, err = strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nvs, 0, errInvalidArgument(s)
	}
	return nvs, f, nil
}

func lc(s1, s2 string) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i := 0; i < len(s1); i++ {
		ch := s1[i]
		if ch >= 'A' && ch <= 'Z' {
			if ch+32 != s2[i] {
				return false
			}
		} else if ch != s2[i] {
			return false
		}
	}
	return true
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
