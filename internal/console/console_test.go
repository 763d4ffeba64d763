package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/produtos/internal/manager"
	"github.com/abgdnv/produtos/internal/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a minimal remote.Store keeping products in a slice.
type memStore struct {
	products []product.Product
	nextID   int64
	deletes  int
}

func (s *memStore) List(context.Context) ([]product.Product, error) {
	return append([]product.Product(nil), s.products...), nil
}

func (s *memStore) Create(_ context.Context, d product.Draft) (product.Product, error) {
	s.nextID++
	p := d.Product(s.nextID)
	s.products = append(s.products, p)
	return p, nil
}

func (s *memStore) Update(_ context.Context, id int64, d product.Draft) (product.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = d.Product(id)
		}
	}
	return d.Product(id), nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	s.deletes++
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			break
		}
	}
	return nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func run(t *testing.T, store *memStore, script ...string) (string, *manager.Manager) {
	t.Helper()
	m := manager.New(store, manager.Options{Logger: discard})
	var out bytes.Buffer
	c := New(m, strings.NewReader(strings.Join(script, "\n")+"\n"), &out, discard)
	require.NoError(t, c.Run(context.Background()))
	return out.String(), m
}

func TestConsole_EmptyList(t *testing.T) {
	out, _ := run(t, &memStore{}, "quit")

	assert.Contains(t, out, "Carregando produtos...")
	assert.Contains(t, out, EmptyList)
}

func TestConsole_CreateEditDelete(t *testing.T) {
	store := &memStore{}

	out, m := run(t, store,
		"set nome Mesa",
		"set descricao Mesa de madeira",
		"set preco 1234.5",
		"save",
		"edit 1",
		"set preco 149.90",
		"save",
		"delete 1",
		"n",
		"quit",
	)

	require.Len(t, m.Products(), 1)
	assert.Equal(t, product.Product{ID: 1, Name: "Mesa", Description: "Mesa de madeira", Price: "149.90"}, m.Products()[0])
	assert.Contains(t, out, "R$ 1.234,50")
	assert.Contains(t, out, "R$ 149,90")
	assert.Contains(t, out, "produtos [editando #1]>")
	assert.Contains(t, out, "Exclusão cancelada.")
	assert.Zero(t, store.deletes)
}

func TestConsole_ValidationMessages(t *testing.T) {
	out, m := run(t, &memStore{}, "set nome ab", "set preco 12.345", "save", "show", "quit")

	assert.Empty(t, m.Products())
	assert.Contains(t, out, "nome: "+product.MsgName)
	assert.Contains(t, out, "descricao: "+product.MsgDescription)
	assert.Contains(t, out, "preco: "+product.MsgPrice)
	// the draft survives the rejection
	assert.Contains(t, out, "nome:      ab")
}

func TestConsole_DeleteConfirmed(t *testing.T) {
	store := &memStore{products: []product.Product{{ID: 3, Name: "Cadeira", Description: "Cadeira de escritório", Price: "350"}}, nextID: 3}

	out, m := run(t, store, "delete 3", "y", "quit")

	assert.Empty(t, m.Products())
	assert.Equal(t, 1, store.deletes)
	assert.Contains(t, out, "Você tem certeza?")
	assert.Contains(t, out, EmptyList)
}

func TestConsole_BadInput(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		expected string
	}{
		{name: "unknown command", line: "frobnicate", expected: "Comando desconhecido"},
		{name: "invalid id", line: "edit abc", expected: "Id inválido"},
		{name: "unknown product", line: "edit 99", expected: "Produto 99 não encontrado."},
		{name: "unknown field", line: "set cor azul", expected: "Campo desconhecido"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, _ := run(t, &memStore{}, tc.line, "quit")
			assert.Contains(t, out, tc.expected)
		})
	}
}

func TestConsole_EndOfInput(t *testing.T) {
	// no quit: the loop ends when input is exhausted
	out, _ := run(t, &memStore{}, "help")
	assert.Contains(t, out, "Comandos:")
}

func TestConsole_ContextCancelled(t *testing.T) {
	m := manager.New(&memStore{}, manager.Options{Logger: discard})
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(m, pr, io.Discard, discard).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderTable(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, RenderTable(&out, []product.Product{
		{ID: 1, Name: "Mesa", Description: "Mesa de madeira", Price: "1999.9"},
		{ID: 12, Name: "Abajur", Description: "Abajur azul", Price: "n/a"},
	}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "R$ 1.999,90")
	assert.Contains(t, lines[2], "n/a")
}

func TestConsole_ReaderStopsAfterQuit(t *testing.T) {
	// given: input continues past the quit command
	m := manager.New(&memStore{}, manager.Options{Logger: discard})
	var out bytes.Buffer
	c := New(m, strings.NewReader("quit\nlist\nlist\nlist\n"), &out, discard)

	// when
	require.NoError(t, c.Run(context.Background()))

	// then
	require.Eventually(t, func() bool {
		select {
		case <-c.readerDone:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestConsole_ReaderStopsAfterCancel(t *testing.T) {
	// given
	m := manager.New(&memStore{}, manager.Options{Logger: discard})
	var out bytes.Buffer
	in, w := io.Pipe()
	c := New(m, in, &out, discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// when
	err := c.Run(ctx)

	// then: a line typed after the loop ended does not block the reader
	require.ErrorIs(t, err, context.Canceled)
	go func() { _, _ = w.Write([]byte("list\n")) }()
	require.Eventually(t, func() bool {
		select {
		case <-c.readerDone:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
	_ = w.Close()
}
