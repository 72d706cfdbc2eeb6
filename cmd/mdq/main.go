package main

import (
	"os"

	"github.com/arfbllh/mdq/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
