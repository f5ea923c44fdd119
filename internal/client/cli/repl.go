package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Touch()
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	DeleteAccount(ctx context.Context, confirmed bool) error
	NewTrip(ctx context.Context) error
	Trips(ctx context.Context) error
	Open(ctx context.Context, ref string) error
	DeleteTrip(ctx context.Context, ref string, confirmed bool) error
	ShowState(ctx context.Context) error
	Ask(ctx context.Context, text string) error
}

type lineResult struct {
	line string
	err  error
}

// runREPL starts the read–eval–print loop of the trip planner.
//
// The first token of a line is matched against the commands below. Any
// other non-empty line is sent to the assistant as a chat message. Every
// line, command or not, counts as activity for the inactivity deadline.
// The loop exits on EOF, on "exit" or "quit", or when ctx is done.
//
//	Not logged in:
//	  - help             show available commands
//	  - login            authenticate
//	  - signup           create an account
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - help             show available commands
//	  - new              start a new trip
//	  - trips            list trips
//	  - open <n|id>      switch to a trip
//	  - delete <n|id>    delete a trip
//	  - state            show the current turn state
//	  - whoami           show the logged-in user
//	  - logout           log out
//	  - delete-account   delete the account
//	  - exit | quit      leave the program
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("trip %s> ", statusFn()))

		line, ok := nextLine(ctx, reader)
		if !ok {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		a.Touch()

		cmd, arg := parts[0], strings.Join(parts[1:], " ")

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Commands: new, trips, open <n|id>, delete <n|id>, state, whoami, logout, delete-account, exit")
				printlnFn("Anything else is sent to the assistant.")
			} else {
				printlnFn("Commands: login, signup, exit")
			}

		case "login":
			err = a.Login(ctx)

		case "signup", "register":
			err = a.Signup(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.Whoami(ctx)

		case "delete-account":
			err = a.DeleteAccount(ctx, false)

		case "new":
			err = a.NewTrip(ctx)

		case "trips", "list":
			err = a.Trips(ctx)

		case "open":
			err = a.Open(ctx, arg)

		case "delete":
			err = a.DeleteTrip(ctx, arg, false)

		case "state":
			err = a.ShowState(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			err = a.Ask(ctx, line)
		}

		if err != nil {
			printlnFn("Error:", userMessage(err))
		}
	}
}

// nextLine reads one line, giving up when ctx is done. The pending read is
// abandoned in that case; the process is about to exit anyway.
func nextLine(ctx context.Context, reader *bufio.Reader) (string, bool) {
	ch := make(chan lineResult, 1)
	go func() {
		line, err := readLine(reader)
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", false
	case r := <-ch:
		if r.err != nil {
			return "", false
		}
		return r.line, true
	}
}

func (a *App) status() string {
	u := a.session.User()
	if u == nil || !a.isLoggedIn() {
		return "(anonymous)"
	}
	s := u.Username
	if t := a.chat.View().Title; t != "" {
		s += " · " + t
	}
	return "(" + s + ")"
}

// Chat runs the interactive session until the user leaves.
func (a *App) Chat(ctx context.Context) error {
	printlnFn("Welcome to the trip planner (type 'help' for commands)")
	if !a.isLoggedIn() {
		printlnFn("Log in with 'login' or create an account with 'signup'.")
	} else {
		printlnFn("Hi " + a.session.User().DisplayName() + "! Tell me about the trip you have in mind.")
	}

	runREPL(ctx, a, a.status, a.reader)
	return nil
}
