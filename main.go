package main

import (
	"github.com/BiAPoL/biapol-taurus/cmd"
	"github.com/BiAPoL/biapol-taurus/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
