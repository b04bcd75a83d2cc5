package main

import (
	"github.com/sctp-dsai/lessonctl/cmd"
)

func main() {
	cmd.Execute()
}
