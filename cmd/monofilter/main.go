package main

import "github.com/setanarut/monofilter/internal/cli"

func main() {
	cli.Execute()
}
