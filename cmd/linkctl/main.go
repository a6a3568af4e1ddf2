package main

import "github.com/Totarae/MultiLinkProxy/internal/cli"

func main() {
	cli.Execute()
}
