// Command cahc encrypts, decrypts and inspects CAHC envelopes.
package main

import "github.com/rbaliyan/config-cahc/cmd/cahc/cmd"

func main() {
	cmd.Execute()
}
