package cli

import (
	"context"
	"errors"
	"io"
	"strings"
)

type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"signup":   {usage: "signup", run: (*App).signUp},
	"signin":   {usage: "signin", run: (*App).signIn},
	"login":    {usage: "login", run: (*App).signIn},
	"logout":   {usage: "logout", run: (*App).logout},
	"whoami":   {usage: "whoami", run: (*App).whoami},
	"rename":   {usage: "rename <username>", run: (*App).rename},
	"groups":   {usage: "groups [all]", run: (*App).groups},
	"addgroup": {usage: "addgroup <name>", run: (*App).addGroup},
	"delgroup": {usage: "delgroup <groupID>", run: (*App).deleteGroup},
	"lists":    {usage: "lists [groupID]", run: (*App).lists},
	"addlist":  {usage: "addlist <name> [groupID]", run: (*App).addList},
	"items":    {usage: "items <listID>", run: (*App).items},
	"additem":  {usage: "additem <listID> <name>", run: (*App).addItem},
	"purchase": {usage: "purchase <itemID> [undo]", run: (*App).purchase},
}

var helpOrder = []string{
	"signup", "signin", "logout", "whoami", "rename",
	"groups", "addgroup", "delgroup", "lists", "addlist", "items", "additem", "purchase",
}

var errUsage = errors.New("usage")

// repl reads one command per line and dispatches it. It returns on "exit",
// "quit" or end of input. Errors from commands are printed, never fatal.
func (a *App) repl(ctx context.Context) {
	for {
		a.printf("shoppi %s> ", a.status())

		line, err := a.reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			a.println()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			a.help()
			continue
		case "exit", "quit":
			a.println("Bye!")
			return
		}

		cmd, ok := commands[name]
		if !ok {
			a.println("Unknown command:", name)
			continue
		}

		if err := cmd.run(a, ctx, args); err != nil {
			if errors.Is(err, errUsage) {
				a.println("Usage:", cmd.usage)
				continue
			}
			a.println("Error:", err)
		}
	}
}

func (a *App) help() {
	a.println("Available commands:")
	for _, name := range helpOrder {
		a.println("  " + commands[name].usage)
	}
	a.println("  help, exit")
}
