package main

import (
	"fmt"

	"github.com/spf13/pflag"
)

// onceString is a string flag that may appear at most once on the command
// line.
type onceString struct {
	value string
	set   bool
}

var _ pflag.Value = (*onceString)(nil)

func (o *onceString) String() string { return o.value }

func (o *onceString) Set(s string) error {
	if o.set {
		return fmt.Errorf("flag given more than once")
	}
	o.value, o.set = s, true
	return nil
}

func (o *onceString) Type() string { return "path" }

// required returns a usage error when the flag was not given.
func required(name string, o *onceString) error {
	if !o.set || o.value == "" {
		return usageError("missing required flag --%s", name)
	}
	return nil
}
