package main

import (
	"fmt"
	"os"

	"github.com/jetsetilly/directvga/debugger"
	"github.com/jetsetilly/directvga/gui"
	"github.com/jetsetilly/directvga/gui/ebiten"
	"github.com/jetsetilly/directvga/gui/terminal"
)

func main() {
	opts, err := debugger.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Printf("*** %s\n", err)
		os.Exit(1)
	}

	var endGui chan bool
	var endDebugger chan bool
	var resultGui chan error
	var resultDebugger chan error

	// buffered channels. this means we don't have to worry about the gui closing
	// before the debugger and vice versa
	endGui = make(chan bool, 1)
	endDebugger = make(chan bool, 1)

	// similarly, the result channels are buffered because we don't know the
	// order in which the gui and debugger will end
	resultGui = make(chan error, 1)
	resultDebugger = make(chan error, 1)

	g := gui.NewGUI()

	go func() {
		resultDebugger <- debugger.Launch(endDebugger, g, opts)
		endGui <- true
	}()

	// the front end runs on the main goroutine
	switch opts.GUI {
	case "ebiten":
		resultGui <- ebiten.Launch(endGui, g)
	case "terminal":
		resultGui <- terminal.Launch(endGui, g)
	default:
		<-endGui
		resultGui <- nil
	}
	endDebugger <- true

	if err := <-resultGui; err != nil {
		fmt.Printf("*** %s\n", err)
	}
	if err := <-resultDebugger; err != nil {
		fmt.Printf("*** %s\n", err)
	}
}
