package main

import "github.com/oshokin/guardian-eye/cmd/guardian-monitor/cmd"

func main() {
	cmd.Execute()
}
