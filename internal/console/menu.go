// Package console implements the interactive inventory menu.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/inventory/internal/middleware"
	"github.com/vyrodovalexey/inventory/internal/model"
	"github.com/vyrodovalexey/inventory/internal/store"
)

// ErrInvalidNumber is returned when a numeric prompt cannot be parsed.
var ErrInvalidNumber = errors.New("invalid number")

// Inventory is the store the menu operates on.
type Inventory interface {
	store.Store
	Save(ctx context.Context) error
}

// Menu options.
const (
	optionAdd    = "1"
	optionRemove = "2"
	optionUpdate = "3"
	optionSearch = "4"
	optionList   = "5"
	optionExit   = "6"
)

const menuText = `
Inventory Management System
1. Add new item
2. Remove item by ID
3. Update item stock or price
4. Search items by name
5. Show all items
6. Save and exit`

type command struct {
	name string
	run  middleware.Command
}

// Menu reads numbered options from in and writes results to out.
type Menu struct {
	inventory Inventory
	logger    *zap.Logger
	in        *bufio.Reader
	out       io.Writer
	chain     middleware.Middleware
	commands  map[string]command
}

// New creates a Menu over inventory.
func New(inventory Inventory, logger *zap.Logger, in io.Reader, out io.Writer) *Menu {
	m := &Menu{
		inventory: inventory,
		logger:    logger,
		in:        bufio.NewReader(in),
		out:       out,
		chain: middleware.Chain(
			middleware.Recovery(logger),
			middleware.AssignOperationID(),
			middleware.Metrics(),
			middleware.Logging(logger),
		),
	}

	m.commands = map[string]command{
		optionAdd:    {name: "add", run: m.add},
		optionRemove: {name: "remove", run: m.remove},
		optionUpdate: {name: "update", run: m.update},
		optionSearch: {name: "search", run: m.search},
		optionList:   {name: "list", run: m.list},
		optionExit:   {name: "save", run: m.save},
	}

	return m
}

// Run shows the menu until the operator saves and exits or the input ends.
// End of input is treated like option 6.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("menu: %w", err)
		}

		m.println(menuText)
		choice, err := m.prompt("Select an option: ")
		if errors.Is(err, io.EOF) {
			m.exit(ctx)
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading option: %w", err)
		}

		cmd, ok := m.commands[strings.TrimSpace(choice)]
		if !ok {
			m.println("Invalid option. Try again.")
			continue
		}

		if cmd.name == "save" {
			m.exit(ctx)
			return nil
		}
		if err := m.execute(ctx, cmd); errors.Is(err, io.EOF) {
			m.exit(ctx)
			return nil
		}
	}
}

// exit performs the final save. The menu stops whether or not it succeeds.
func (m *Menu) exit(ctx context.Context) {
	if err := m.execute(ctx, m.commands[optionExit]); err != nil {
		m.logger.Warn("exiting with unsaved inventory changes", zap.Error(err))
		m.println("Exiting without a confirmed save.")
	}
}

// execute runs cmd through the middleware chain and reports its error.
func (m *Menu) execute(ctx context.Context, cmd command) error {
	ctx = middleware.WithCommand(ctx, cmd.name)
	err := m.chain(cmd.run)(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		m.report(err)
	}
	return err
}

// report converts an error into an operator message.
func (m *Menu) report(err error) {
	switch {
	case errors.Is(err, store.ErrDuplicateID):
		m.println("Error: an item with that ID already exists.")
	case errors.Is(err, store.ErrNotFound):
		m.println("Error: item not found.")
	case errors.Is(err, ErrInvalidNumber), errors.Is(err, model.ErrNonFiniteCost),
		errors.Is(err, model.ErrInvalidText):
		m.printf("Error: %v.\n", err)
	case errors.Is(err, store.ErrIO):
		m.printf("Error saving inventory: %v\n", err)
	case errors.Is(err, middleware.ErrCommandPanic):
		m.println("Error: the command failed unexpectedly, see the log for details.")
	default:
		m.printf("Error: %v\n", err)
	}
}

func (m *Menu) add(ctx context.Context) error {
	id, err := m.prompt("Enter item ID: ")
	if err != nil {
		return err
	}
	name, err := m.prompt("Enter item name: ")
	if err != nil {
		return err
	}
	stockText, err := m.prompt("Enter stock quantity: ")
	if err != nil {
		return err
	}
	stock, err := parseStock(stockText)
	if err != nil {
		return err
	}
	costText, err := m.prompt("Enter price: ")
	if err != nil {
		return err
	}
	cost, err := parseCost(costText)
	if err != nil {
		return err
	}

	item := model.NewItem(id, name, stock, cost)
	if err := m.inventory.Add(ctx, &item); err != nil {
		return err
	}

	m.println("Item added successfully.")
	return nil
}

func (m *Menu) remove(ctx context.Context) error {
	id, err := m.prompt("Enter the ID of the item to remove: ")
	if err != nil {
		return err
	}

	if err := m.inventory.Remove(ctx, id); err != nil {
		return err
	}

	m.printf("Item %s removed successfully.\n", id)
	return nil
}

func (m *Menu) update(ctx context.Context) error {
	id, err := m.prompt("Enter the ID of the item to update: ")
	if err != nil {
		return err
	}

	var patch model.Patch

	stockText, err := m.prompt("Enter new stock (or press Enter to keep it): ")
	if err != nil {
		return err
	}
	if strings.TrimSpace(stockText) != "" {
		stock, err := parseStock(stockText)
		if err != nil {
			return err
		}
		patch = patch.WithStock(stock)
	}

	costText, err := m.prompt("Enter new price (or press Enter to keep it): ")
	if err != nil {
		return err
	}
	if strings.TrimSpace(costText) != "" {
		cost, err := parseCost(costText)
		if err != nil {
			return err
		}
		patch = patch.WithCost(cost)
	}

	item, err := m.inventory.Update(ctx, id, patch)
	if err != nil {
		return err
	}

	m.printf("Item %s updated successfully.\n", id)
	m.println(item.String())
	return nil
}

func (m *Menu) search(ctx context.Context) error {
	name, err := m.prompt("Enter the item name to search for: ")
	if err != nil {
		return err
	}

	items, err := m.inventory.Search(ctx, name)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		m.println("No items found with that name.")
		return nil
	}
	m.printItems(items)
	return nil
}

func (m *Menu) list(ctx context.Context) error {
	items, err := m.inventory.List(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		m.println("The inventory is empty.")
		return nil
	}
	m.printItems(items)
	return nil
}

func (m *Menu) save(ctx context.Context) error {
	if err := m.inventory.Save(ctx); err != nil {
		return err
	}

	m.println("Inventory saved. Exiting...")
	return nil
}

// prompt writes label and reads one line of any length. It returns io.EOF
// when the input is exhausted; a final line without a newline is still
// returned.
func (m *Menu) prompt(label string) (string, error) {
	m.printf("%s", label)

	line, err := m.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (m *Menu) printItems(items []model.Item) {
	for _, item := range items {
		m.println(item.String())
	}
}

func (m *Menu) println(s string) {
	_, _ = fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}

func parseStock(s string) (int, error) {
	stock, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: stock must be a whole number, got %q", ErrInvalidNumber, s)
	}
	return stock, nil
}

func parseCost(s string) (float64, error) {
	cost, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price must be a number, got %q", ErrInvalidNumber, s)
	}
	return cost, nil
}
