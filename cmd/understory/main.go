package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jward/understory"
	"github.com/jward/understory/internal/store"
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "understory",
	Short:         "Stub-overlay resolution for Python analysis engines",
	Long:          "Understory resolves typeshed-style .pyi stubs, overlays them onto concrete module resolution, and can persist a version's stub index to SQLite for repeated lookups.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(viper.GetString("format"))
	},
	// No Run — prints help by default.
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("stubs-root", "", "stub repository root in the typeshed layout")
	flags.String("python", "3.7", "analyzed Python version (major.minor)")
	flags.String("db", "", "database path (default: .understory/index.db)")
	flags.String("format", "json", "output format: json|text")
	flags.Bool("verbose", false, "debug logging to stderr")

	viper.SetEnvPrefix("UNDERSTORY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"stubs-root", "python", "db", "format", "verbose"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(dirsCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(declsCmd)
}

// --- Configuration helpers ---

func stubsRoot() (string, error) {
	root := viper.GetString("stubs-root")
	if root == "" {
		return "", fmt.Errorf("no stub repository configured: set --stubs-root or UNDERSTORY_STUBS_ROOT")
	}
	return root, nil
}

func pythonVersion() (understory.Version, error) {
	return parsePythonVersion(viper.GetString("python"))
}

func parsePythonVersion(s string) (understory.Version, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return understory.Version{}, fmt.Errorf("invalid python version %q: expected major.minor", s)
	}
	maj, err := strconv.Atoi(major)
	if err != nil {
		return understory.Version{}, fmt.Errorf("invalid python version %q: %w", s, err)
	}
	min, err := strconv.Atoi(minor)
	if err != nil {
		return understory.Version{}, fmt.Errorf("invalid python version %q: %w", s, err)
	}
	return understory.Version{Major: maj, Minor: min}, nil
}

func newSession() (*understory.Session, error) {
	root, err := stubsRoot()
	if err != nil {
		return nil, err
	}
	var opts []understory.SessionOption
	if viper.GetBool("verbose") {
		logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
		})).With().Timestamp().Logger().Level(zerolog.DebugLevel)
		opts = append(opts, understory.WithLogger(logger))
	}
	return understory.NewSession(root, opts...), nil
}

func resolveDBPath() string {
	if db := viper.GetString("db"); db != "" {
		return db
	}
	return filepath.Join(".understory", "index.db")
}

// openStore opens an existing database for read commands.
func openStore() (*store.Store, error) {
	dbPath := resolveDBPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'understory index' first)", dbPath)
	}
	return store.NewStore(dbPath)
}

// --- dirs ---

var dirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Print the stub directories searched for a version",
	Long:  "Prints the ordered stub directory list for the configured Python version. Later directories override earlier ones on name collisions.",
	Args:  cobra.NoArgs,
	RunE:  runDirs,
}

func runDirs(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return outputError("dirs", err)
	}
	v, err := pythonVersion()
	if err != nil {
		return outputError("dirs", err)
	}

	var results []CLIDir
	for _, dir := range s.Directories(v) {
		info, err := os.Stat(dir)
		results = append(results, CLIDir{
			Path:   dir,
			Exists: err == nil && info.IsDir(),
		})
	}
	return outputResult(CLIResult{Command: "dirs", Results: results})
}

// --- index ---

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build a version's stub index and persist it",
	Long:  "Scans the stub repository for the configured Python version, parses every indexed stub, and writes the name index plus extracted declarations to the SQLite database.",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	s, err := newSession()
	if err != nil {
		return err
	}
	v, err := pythonVersion()
	if err != nil {
		return err
	}

	dbPath := resolveDBPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}
	db, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}

	if err := db.DeleteVersion(v.String()); err != nil {
		return fmt.Errorf("clearing previous index: %w", err)
	}

	idx := s.IndexFor(v)
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)

	parsed := 0
	for _, name := range names {
		entry := &store.Entry{Version: v.String(), Name: name, Path: idx[name]}
		if _, err := db.InsertEntry(entry); err != nil {
			return err
		}
		doc, ok := s.DocumentFor(entry.Path)
		if !ok {
			continue // vanished since the scan; the entry alone still resolves
		}
		parsed++
		if err := insertDecls(db, entry.ID, doc.Decls, nil); err != nil {
			return err
		}
	}

	if err := db.RecordIndexRun(&store.IndexRun{
		Version:   v.String(),
		Root:      s.Root(),
		Entries:   len(names),
		IndexedAt: time.Now(),
	}); err != nil {
		return err
	}
	if err := db.SetMetadata("stubs_root", s.Root()); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Indexed %d stub entries (%d parsed) for Python %s in %s\n",
		len(names), parsed, v, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	return nil
}

// insertDecls writes declarations for an entry, recursing one level into
// class bodies with the class name as parent.
func insertDecls(db *store.Store, entryID int64, decls []*understory.Declaration, parent *string) error {
	for _, d := range decls {
		row := &store.Decl{
			EntryID:    entryID,
			Name:       d.Name,
			Kind:       d.Kind.String(),
			Line:       d.Line,
			Col:        d.Col,
			Aliased:    d.Aliased,
			ParentName: parent,
		}
		if _, err := db.InsertDecl(row); err != nil {
			return err
		}
		if len(d.Children) > 0 {
			name := d.Name
			if err := insertDecls(db, entryID, d.Children, &name); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- lookup ---

var lookupCmd = &cobra.Command{
	Use:   "lookup NAME",
	Short: "Resolve an importable name to its stub file",
	Long:  "Resolves a top-level importable name through the persisted index when available, falling back to a live scan of the stub repository.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	name := args[0]
	v, err := pythonVersion()
	if err != nil {
		return outputError("lookup", err)
	}

	entry, err := lookupEntry(v, name)
	if err != nil {
		return outputError("lookup", err)
	}
	if entry == nil {
		return outputError("lookup", fmt.Errorf("no stub for %q under Python %s", name, v))
	}
	return outputResult(CLIResult{Command: "lookup", Results: []CLIEntry{*entry}})
}

// lookupEntry consults the database first and falls back to a live scan.
func lookupEntry(v understory.Version, name string) (*CLIEntry, error) {
	if db, err := openStore(); err == nil {
		defer db.Close()
		run, err := db.IndexRunByVersion(v.String())
		if err != nil {
			return nil, err
		}
		if run != nil {
			e, err := db.EntryByName(v.String(), name)
			if err != nil {
				return nil, err
			}
			if e == nil {
				return nil, nil
			}
			return &CLIEntry{Name: e.Name, Version: e.Version, Path: e.Path}, nil
		}
	}

	s, err := newSession()
	if err != nil {
		return nil, err
	}
	path, ok := s.IndexFor(v)[name]
	if !ok {
		return nil, nil
	}
	return &CLIEntry{Name: name, Version: v.String(), Path: path}, nil
}

// --- decls ---

var declsCmd = &cobra.Command{
	Use:   "decls NAME",
	Short: "List the declarations a stub provides",
	Long:  "Resolves a top-level importable name and lists the declarations its stub file provides, including one level of class members.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecls,
}

func runDecls(cmd *cobra.Command, args []string) error {
	name := args[0]
	v, err := pythonVersion()
	if err != nil {
		return outputError("decls", err)
	}

	// Prefer the persisted declarations when this version was indexed.
	if db, err := openStore(); err == nil {
		defer db.Close()
		run, runErr := db.IndexRunByVersion(v.String())
		if runErr == nil && run != nil {
			entry, err := db.EntryByName(v.String(), name)
			if err != nil {
				return outputError("decls", err)
			}
			if entry == nil {
				return outputError("decls", fmt.Errorf("no stub for %q under Python %s", name, v))
			}
			rows, err := db.DeclsByEntry(entry.ID)
			if err != nil {
				return outputError("decls", err)
			}
			results := make([]CLIDecl, 0, len(rows))
			for _, d := range rows {
				cli := CLIDecl{Name: d.Name, Kind: d.Kind, Line: d.Line, Col: d.Col, Aliased: d.Aliased}
				if d.ParentName != nil {
					cli.Parent = *d.ParentName
				}
				results = append(results, cli)
			}
			return outputResult(CLIResult{Command: "decls", Results: results})
		}
	}

	s, err := newSession()
	if err != nil {
		return outputError("decls", err)
	}
	path, ok := s.IndexFor(v)[name]
	if !ok {
		return outputError("decls", fmt.Errorf("no stub for %q under Python %s", name, v))
	}
	doc, ok := s.DocumentFor(path)
	if !ok {
		return outputError("decls", fmt.Errorf("stub for %q is unreadable: %s", name, path))
	}
	return outputResult(CLIResult{Command: "decls", Results: declsToCLI(doc.Decls, "")})
}

// declsToCLI flattens declarations, tagging class members with their parent.
func declsToCLI(decls []*understory.Declaration, parent string) []CLIDecl {
	var out []CLIDecl
	for _, d := range decls {
		out = append(out, CLIDecl{
			Name:    d.Name,
			Kind:    d.Kind.String(),
			Line:    d.Line,
			Col:     d.Col,
			Aliased: d.Aliased,
			Parent:  parent,
		})
		if len(d.Children) > 0 {
			out = append(out, declsToCLI(d.Children, d.Name)...)
		}
	}
	return out
}
