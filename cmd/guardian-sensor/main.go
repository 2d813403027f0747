package main

import "github.com/oshokin/guardian-eye/cmd/guardian-sensor/cmd"

func main() {
	cmd.Execute()
}
