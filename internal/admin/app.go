// Package admin implements the lingobook administration commands: adding
// users and bulk-importing vocabulary and books on behalf of a user.
package admin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/lingobook/internal/common"
	"github.com/dmitrijs2005/lingobook/internal/server/models"
	"github.com/dmitrijs2005/lingobook/internal/server/services"
)

var ErrUsage = errors.New("usage error")

type UserRegistrar interface {
	Register(ctx context.Context, userName string, password []byte) (*models.User, error)
}

type VocabularyImporter interface {
	Import(ctx context.Context, userName string, r io.Reader, cfg services.ImportConfig) (*services.ImportResult, error)
}

type BookImporter interface {
	ImportText(ctx context.Context, userName, name, text string) (*models.Book, error)
	ImportURL(ctx context.Context, userName, rawURL string) (*models.Book, error)
}

type App struct {
	users    UserRegistrar
	importer VocabularyImporter
	books    BookImporter
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(users UserRegistrar, importer VocabularyImporter, books BookImporter, in io.Reader, out io.Writer) *App {
	return &App{users: users, importer: importer, books: books, reader: bufio.NewReader(in), out: out}
}

type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

const (
	userAddUsage     = "useradd [name]"
	importWordsUsage = "import-words [-sheet S] [-start-row N] [-columns A,B,C,D,E] <user> <file.xlsx>"
	importBookUsage  = "import-book [-name N] <user> <url|file>"
)

var commands = map[string]command{
	"useradd":      {userAddUsage, (*App).userAdd},
	"import-words": {importWordsUsage, (*App).importWords},
	"import-book":  {importBookUsage, (*App).importBook},
}

// SplitArgs separates the global config flags from the command and its
// arguments.
func SplitArgs(args []string) (global, rest []string) {
	for i, a := range args {
		if _, ok := commands[a]; ok || a == "help" {
			return args[:i], args[i:]
		}
	}
	return args, nil
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		a.printHelp()
		if len(args) == 0 {
			return ErrUsage
		}
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		a.printHelp()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return cmd.run(a, ctx, args[1:])
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "Available commands:")
	for _, name := range []string{"useradd", "import-words", "import-book"} {
		fmt.Fprintln(a.out, "  "+commands[name].usage)
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) userAdd(ctx context.Context, args []string) error {
	var (
		name string
		err  error
	)
	if len(args) > 0 {
		name = args[0]
	} else if name, err = GetSimpleText(a.reader, "Enter user name", a.out); err != nil {
		return err
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return fmt.Errorf("%w: passwords do not match", common.ErrorValidation)
	}

	u, err := a.users.Register(ctx, name, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "user %s created (%s)\n", u.UserName, u.UUID)
	return nil
}

func (a *App) importWords(ctx context.Context, args []string) error {
	cfg := services.DefaultImportConfig()
	fs := a.flagSet("import-words")
	fs.StringVar(&cfg.SheetName, "sheet", cfg.SheetName, "sheet name")
	fs.IntVar(&cfg.StartRow, "start-row", cfg.StartRow, "first data row (1-based)")
	columns := fs.String("columns", "", "column letters for word,transcription,translations,example,example translation")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: %s", ErrUsage, importWordsUsage)
	}
	if *columns != "" {
		if err := applyColumns(&cfg, *columns); err != nil {
			return err
		}
	}

	f, err := os.Open(fs.Arg(1))
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := a.importer.Import(ctx, fs.Arg(0), f, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "processed %d, created %d, updated %d, skipped %d\n",
		res.Processed, res.Created, res.Updated, res.Skipped)
	for _, e := range res.Errors {
		fmt.Fprintln(a.out, "  "+e)
	}
	return nil
}

// applyColumns assigns up to five comma-separated column letters in field
// order. An empty entry disables that column.
func applyColumns(cfg *services.ImportConfig, list string) error {
	dst := []*string{
		&cfg.WordColumn,
		&cfg.TranscriptionColumn,
		&cfg.TranslationsColumn,
		&cfg.ExampleColumn,
		&cfg.ExampleTranslationColumn,
	}
	parts := strings.Split(list, ",")
	if len(parts) > len(dst) {
		return fmt.Errorf("%w: at most %d columns", ErrUsage, len(dst))
	}
	for i := range dst {
		*dst[i] = ""
		if i < len(parts) {
			*dst[i] = strings.ToUpper(strings.TrimSpace(parts[i]))
		}
	}
	return nil
}

func (a *App) importBook(ctx context.Context, args []string) error {
	fs := a.flagSet("import-book")
	name := fs.String("name", "", "book name (defaults to the file name)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: %s", ErrUsage, importBookUsage)
	}
	user, src := fs.Arg(0), fs.Arg(1)

	var (
		book *models.Book
		err  error
	)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		book, err = a.books.ImportURL(ctx, user, src)
	} else {
		var text []byte
		if text, err = os.ReadFile(src); err != nil {
			return err
		}
		if *name == "" {
			*name = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		}
		book, err = a.books.ImportText(ctx, user, *name, string(text))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "book %d %q imported\n", book.ID, book.Name)
	return nil
}
