package main

import "github.com/oshokin/guardian-eye/cmd/guardian-server/cmd"

func main() {
	cmd.Execute()
}
