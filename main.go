// ./main.go
package main

import (
	"github.com/xkilldash9x/typewriter/cmd"
)

func main() {
	cmd.Execute()
}
