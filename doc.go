/*
Package shell is the multi-threaded skeleton of a desktop GUI
application: a program/main supervisor, an engine thread, and a UI
thread coordinated over a broadcast message bus.

# Overview

The three threads share nothing except a mutex-guarded State and the
bus. The coordinator creates the channel endpoints, spawns the workers,
and releases everyone together through a startup barrier so that no
thread pumps messages before every endpoint exists. Each thread then
loops: do one tick of work, drain all currently queued messages, repeat.

Messages carry their addressee in the type; a thread acts only on
messages addressed to it and discards the rest with a debug log.
Shutdown is cooperative: typed exit messages end the worker loops, and
the supervisor leaves its loop on a quit message. A panic in any worker
escalates to process termination: there is no thread-level restart.

# Quick Start

	state := shell.NewSharedState()
	c := shell.NewCoordinator(state,
	    shell.WithProgramWork(func(tc *shell.ThreadContext) {
	        // Runs on the calling goroutine each supervisor iteration;
	        // the window/frame loop hooks in here.
	    }),
	)

	// Ask the app to close from anywhere:
	sender := c.Sender()
	defer sender.Close()
	sender.Send(bus.QuitAppNoError{Reason: bus.QuitInteractionByUser})

	// Blocks until a quit message arrives.
	err := c.Run()

The bus package defines the message taxonomy and the broadcast channel;
the font package manages the lazily rebuilt font atlas; backend/opengl
owns the window and GPU textures; cmd/shell ties it all together.
*/
package shell
