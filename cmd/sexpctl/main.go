// Command sexpctl is a small host-adapter demonstration: a CLI that
// exercises the sexp/sexpindex operations the way a database adapter
// would, without implementing a SQL surface of its own.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/alttpo/sexp-index"
	"github.com/alttpo/sexp-index/sexpindex"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "parse":
		err = runParse(args)
	case "print":
		err = runPrint(args)
	case "contains":
		err = runContains(args)
	case "match":
		err = runMatch(args)
	case "index":
		err = runIndex(args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "sexpctl:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: sexpctl parse|print|contains|match|index ...")
}

func runParse(args []string) error {
	fs := pflag.NewFlagSet("parse", pflag.ExitOnError)
	extended := fs.Bool("hash-extended", false, "also print hash_extended with seed 0")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text, err := readOperand(fs.Args())
	if err != nil {
		return err
	}
	v, err := sexp.Parse(text)
	if err != nil {
		return err
	}
	h, err := sexp.Hash(v)
	if err != nil {
		return err
	}
	fmt.Printf("hash: %d\n", h)
	if *extended {
		he, err := sexp.HashExtended(v, 0)
		if err != nil {
			return err
		}
		fmt.Printf("hash_extended: %d\n", he)
	}
	return nil
}

func runPrint(args []string) error {
	text, err := readOperand(args)
	if err != nil {
		return err
	}
	v, err := sexp.Parse(text)
	if err != nil {
		return err
	}
	printed, err := sexp.Print(v)
	if err != nil {
		return err
	}
	fmt.Println(printed)
	return nil
}

func runContains(args []string) error {
	fs := pflag.NewFlagSet("contains", pflag.ExitOnError)
	keyBased := fs.Bool("key", false, "use key-based containment instead of structural")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		return sexp.NewError(sexp.InvalidText, "contains requires container and needle operands")
	}
	container, err := sexp.Parse(rest[0])
	if err != nil {
		return err
	}
	needle, err := sexp.Parse(rest[1])
	if err != nil {
		return err
	}
	var ok bool
	if *keyBased {
		ok, err = sexp.ContainsKey(context.Background(), container, needle)
	} else {
		ok, err = sexp.Contains(context.Background(), container, needle)
	}
	if err != nil {
		return err
	}
	fmt.Println(ok)
	return nil
}

func runMatch(args []string) error {
	if len(args) < 2 {
		return sexp.NewError(sexp.InvalidText, "match requires expr and pattern operands")
	}
	expr, err := sexp.Parse(args[0])
	if err != nil {
		return err
	}
	pat, err := sexp.Parse(args[1])
	if err != nil {
		return err
	}
	res, err := sexp.Match(expr, pat)
	if err != nil {
		return err
	}
	fmt.Println(res.Matched)
	for name, v := range res.Captures {
		text, err := sexp.Print(v)
		if err != nil {
			return err
		}
		fmt.Printf("  ?%s = %s\n", name, text)
	}
	for name, vs := range res.RestCaptures {
		fmt.Printf("  ??%s = [", name)
		for i, v := range vs {
			if i > 0 {
				fmt.Print(" ")
			}
			text, err := sexp.Print(v)
			if err != nil {
				return err
			}
			fmt.Print(text)
		}
		fmt.Println("]")
	}
	return nil
}

func runIndex(args []string) error {
	if len(args) < 1 {
		return sexp.NewError(sexp.InvalidText, "index requires a subcommand: build or query")
	}
	switch args[0] {
	case "build":
		return runIndexBuild(args[1:])
	case "query":
		return runIndexQuery(args[1:])
	default:
		return sexp.NewError(sexp.InvalidText, "unknown index subcommand")
	}
}

// runIndexBuild reads one S-expression per line from stdin (or the file
// named by --file), extracts each line's value-side keys into an index the
// way a GIN build scan does, and reports how many documents it indexed.
func runIndexBuild(args []string) error {
	fs := pflag.NewFlagSet("index build", pflag.ExitOnError)
	file := fs.String("file", "", "read documents from this file instead of stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	ix := sexpindex.NewIndex()
	scanner := bufio.NewScanner(in)
	var id uint64
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := sexp.Parse(line)
		if err != nil {
			return err
		}
		if err := ix.Insert(context.Background(), id, v); err != nil {
			return err
		}
		id++
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return err
	}
	fmt.Printf("indexed %d documents\n", id)
	return nil
}

func runIndexQuery(args []string) error {
	fs := pflag.NewFlagSet("index query", pflag.ExitOnError)
	file := fs.String("file", "", "read documents from this file instead of stdin")
	keyBased := fs.Bool("key", false, "use key-based containment strategy")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 1 {
		return sexp.NewError(sexp.InvalidText, "index query requires a query operand")
	}

	in := os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	ix := sexpindex.NewIndex()
	scanner := bufio.NewScanner(in)
	var id uint64
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := sexp.Parse(line)
		if err != nil {
			return err
		}
		if err := ix.Insert(context.Background(), id, v); err != nil {
			return err
		}
		id++
	}

	strategy := sexpindex.StrategyStructural
	if *keyBased {
		strategy = sexpindex.StrategyKeyBased
	}
	query, err := sexp.Parse(rest[0])
	if err != nil {
		return err
	}
	matches, err := ix.Query(context.Background(), strategy, query)
	if err != nil {
		return err
	}
	for _, m := range matches {
		fmt.Println(m)
	}
	return nil
}

func readOperand(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
