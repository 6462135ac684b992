package main

import "github.com/radreport/radreport/internal/cli"

func main() {
	cli.Execute()
}
