// Package console drives a kitchen display from a terminal: it prints the current
// page whenever the ticket list changes and executes typed commands.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"pos/internal/core/domain/model/kitchen"
	"pos/internal/core/domain/model/order"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

// View is the kitchen display state the console renders.
type View interface {
	Toggle(ctx context.Context, id int) (order.Status, error)
	ActivePage(n int) kitchen.Page
	CompletedPage(n int) kitchen.Page
	LowStock() []string
}

type tab int

const (
	activeTab tab = iota
	completedTab
)

// Console is safe for concurrent use; renders triggered by live events and by
// commands never interleave.
type Console struct {
	view View

	mu   sync.Mutex
	out  io.Writer
	tab  tab
	page int
}

func New(view View, out io.Writer) *Console {
	return &Console{view: view, out: out, page: 1}
}

// Run reads commands from in until it is exhausted, ctx ends or quit is typed.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	c.Render()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := c.Exec(ctx, line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				c.printf("error: %v\n", err)
			}
		}
	}
}

// Exec runs one command:
//
//	toggle <id>        flip an order between pending and completed
//	active [page]      show active tickets
//	completed [page]   show completed tickets
//	quit
func (c *Console) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "toggle", "t":
		if len(fields) != 2 {
			return errors.New("usage: toggle <order id>")
		}
		id, err := strconv.Atoi(strings.TrimPrefix(fields[1], "#"))
		if err != nil {
			return fmt.Errorf("invalid order id %q", fields[1])
		}
		status, err := c.view.Toggle(ctx, id)
		if err != nil {
			return fmt.Errorf("order #%d unchanged: %w", id, err)
		}
		c.printf("order #%d is now %s\n", id, status)
		return nil

	case "active", "a":
		return c.show(activeTab, fields[1:])

	case "completed", "c":
		return c.show(completedTab, fields[1:])

	case "quit", "q", "exit":
		return ErrQuit
	}
	return fmt.Errorf("unknown command %q", fields[0])
}

func (c *Console) show(t tab, args []string) error {
	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = n
	}
	c.mu.Lock()
	c.tab, c.page = t, page
	c.mu.Unlock()

	c.Render()
	return nil
}

// Render prints the selected page. It is registered as the view change listener.
func (c *Console) Render() {
	c.mu.Lock()
	defer c.mu.Unlock()

	title := "ACTIVE"
	page := c.view.ActivePage(c.page)
	if c.tab == completedTab {
		title = "COMPLETED"
		page = c.view.CompletedPage(c.page)
	}
	c.page = page.Number

	var b strings.Builder
	fmt.Fprintf(&b, "== %s  page %d/%d  (%d orders) ==\n", title, page.Number, page.Count, page.Total)
	if len(page.Orders) == 0 {
		b.WriteString("  no orders\n")
	}
	for _, o := range page.Orders {
		fmt.Fprintf(&b, "#%d  %s", o.ID, strings.ToUpper(o.Status.String()))
		if !o.PlacedAt.IsZero() {
			fmt.Fprintf(&b, "  %s", o.PlacedAt.Local().Format("15:04"))
		}
		b.WriteString("\n")
		for _, g := range o.Groups {
			fmt.Fprintf(&b, "  %s\n", g.Title)
			for _, l := range g.Lines {
				fmt.Fprintf(&b, "    - %s\n", l)
			}
		}
	}
	if low := c.view.LowStock(); len(low) > 0 {
		fmt.Fprintf(&b, "LOW STOCK: %s\n", strings.Join(low, ", "))
	}
	_, _ = io.WriteString(c.out, b.String())
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, args...)
}
