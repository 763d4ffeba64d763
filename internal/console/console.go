// Package console is the interactive terminal front end of the product manager.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	perrors "github.com/abgdnv/produtos/internal/errors"
	"github.com/abgdnv/produtos/internal/manager"
	"github.com/abgdnv/produtos/internal/product"
)

// EmptyList is printed instead of a table when there are no products.
const EmptyList = "Não há produtos cadastrados"

const helpText = `Comandos:
  list                 lista os produtos
  new                  inicia um novo cadastro
  edit <id>            edita um produto
  cancel               cancela a edição
  set <campo> <valor>  altera um campo (nome, descricao, preco)
  show                 mostra o formulário
  save                 cadastra ou atualiza o produto
  delete <id>          exclui um produto
  reload               recarrega a lista do servidor
  help                 mostra esta ajuda
  quit                 sai
`

// errQuit ends the command loop.
var errQuit = errors.New("quit")

// Console reads commands line by line and drives a manager.Manager.
type Console struct {
	m      *manager.Manager
	lines  chan string
	out    io.Writer
	logger *slog.Logger

	// done is closed when Run returns; the reader stops handing out lines.
	done     chan struct{}
	stopOnce sync.Once
	// readerDone is closed once the reader goroutine has exited.
	readerDone chan struct{}
}

var _ manager.Confirmer = (*Console)(nil)

// New creates a Console reading from in and writing to out. Reading starts right away.
func New(m *manager.Manager, in io.Reader, out io.Writer, logger *slog.Logger) *Console {
	c := &Console{
		m:      m,
		lines:      make(chan string),
		out:        out,
		logger:     logger.With("component", "console"),
		done:       make(chan struct{}),
		readerDone: make(chan struct{}),
	}
	go c.read(in)
	return c
}

// read feeds input lines to the command loop until input ends or Run returns.
// A Scan blocked on an idle terminal only returns with the next line or EOF.
func (c *Console) read(in io.Reader) {
	defer close(c.readerDone)
	defer close(c.lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case c.lines <- scanner.Text():
		case <-c.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		c.logger.Error("Failed to read input", "error", err)
	}
}

func (c *Console) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// next returns the next input line; false means input is exhausted.
func (c *Console) next(ctx context.Context) (string, bool, error) {
	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case line, ok := <-c.lines:
		return strings.TrimSpace(line), ok, nil
	}
}

// Run loads the products and executes commands until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	defer c.stop()
	c.reload(ctx)
	for {
		c.prompt()
		line, ok, err := c.next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if line == "" {
			continue
		}
		if err := c.Exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

func (c *Console) prompt() {
	mode := "novo"
	if id, editing := c.m.Editing(); editing {
		mode = "editando #" + strconv.FormatInt(id, 10)
	}
	c.printf("produtos [%s]> ", mode)
}

// Exec runs one command line. Operation failures are reported to the user, not returned.
func (c *Console) Exec(ctx context.Context, line string) error {
	cmd, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	args = strings.TrimSpace(args)
	switch strings.ToLower(cmd) {
	case "list", "ls":
		c.render()
	case "new":
		c.m.CancelEdit()
		c.println("Novo produto.")
	case "edit":
		id, ok := c.parseID(args)
		if !ok {
			return nil
		}
		if err := c.m.BeginEdit(id); err != nil {
			c.printf("Produto %d não encontrado.\n", id)
			return nil
		}
		c.show()
	case "cancel":
		c.m.CancelEdit()
		c.println("Edição cancelada.")
	case "set":
		c.set(args)
	case "show":
		c.show()
	case "save":
		c.save(ctx)
	case "delete", "rm":
		id, ok := c.parseID(args)
		if !ok {
			return nil
		}
		if _, err := c.m.Delete(ctx, id, c); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		c.render()
	case "reload":
		c.reload(ctx)
	case "help", "?":
		c.printf("%s", helpText)
	case "quit", "exit":
		return errQuit
	default:
		c.printf("Comando desconhecido: %q. Digite help.\n", cmd)
	}
	return nil
}

// Confirm implements manager.Confirmer by asking on the terminal. Anything but y/s is a no.
func (c *Console) Confirm(ctx context.Context, id int64) (bool, error) {
	c.printf("Você tem certeza? O produto %d será excluído e não será possível reverter esta ação. [y/N] ", id)
	line, ok, err := c.next(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, io.EOF
	}
	switch strings.ToLower(line) {
	case "y", "yes", "s", "sim":
		return true, nil
	default:
		c.println("Exclusão cancelada.")
		return false, nil
	}
}

func (c *Console) reload(ctx context.Context) {
	c.println("Carregando produtos...")
	if err := c.m.Load(ctx); err != nil {
		return
	}
	c.render()
}

func (c *Console) set(args string) {
	field, value, _ := strings.Cut(args, " ")
	value = strings.TrimSpace(value)
	d := c.m.Draft()
	switch strings.ToLower(field) {
	case product.FieldName, "name":
		d.Name = value
	case product.FieldDescription, "descrição", "description":
		d.Description = value
	case product.FieldPrice, "preço", "price":
		d.Price = value
	default:
		c.printf("Campo desconhecido: %q. Use nome, descricao ou preco.\n", field)
		return
	}
	c.m.SetDraft(d)
}

func (c *Console) save(ctx context.Context) {
	if _, err := c.m.Submit(ctx, c.m.Draft()); err != nil {
		var verr *perrors.ValidationError
		if errors.As(err, &verr) {
			for _, f := range verr.Fields {
				c.printf("  %s: %s\n", f.Field, f.Message)
			}
		}
		return
	}
	c.render()
}

func (c *Console) show() {
	d := c.m.Draft()
	if id, editing := c.m.Editing(); editing {
		c.printf("Editando produto %d\n", id)
	} else {
		c.println("Novo produto")
	}
	c.printf("  nome:      %s\n  descricao: %s\n  preco:     %s\n", d.Name, d.Description, d.Price)
}

func (c *Console) render() {
	if c.m.Loading() {
		c.println("Carregando produtos...")
		return
	}
	_ = RenderTable(c.out, c.m.Products())
}

func (c *Console) parseID(arg string) (int64, bool) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		c.printf("Id inválido: %q\n", arg)
		return 0, false
	}
	return id, true
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}

// RenderTable writes products as an aligned table with prices in BRL.
func RenderTable(w io.Writer, products []product.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, EmptyList)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNome\tDescrição\tPreço")
	for _, p := range products {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Description, product.FormatPrice(p.Price))
	}
	return tw.Flush()
}
