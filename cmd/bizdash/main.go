// bizdash - API server for the business dashboard frontend
package main

import "github.com/okian/bizdash/internal/cli"

func main() {
	cli.Execute()
}
