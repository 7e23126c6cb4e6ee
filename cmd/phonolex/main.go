package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/phenning/phonolex/pkg/db"
	"github.com/phenning/phonolex/pkg/g2p"
	"github.com/phenning/phonolex/pkg/lexfile"
	"github.com/phenning/phonolex/pkg/phonemize"
	"github.com/phenning/phonolex/pkg/pipeline"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	dbFlag := flag.String("db", "phonolex.db", "Path to SQLite pronunciation database")
	langFlag := flag.String("lang", "English", "Analyzer language (\"ja\" selects the kagome engine)")
	wordFlag := flag.String("word", "", "Word to resolve")
	roleFlag := flag.String("role", "", "Role tag for -word (e.g. a part-of-speech label)")
	exactFlag := flag.Bool("exact", false, "Disable transform fallbacks for -word")
	noWriteback := flag.Bool("no-writeback", false, "Do not persist freshly analyzed pronunciations")
	lexiconFlag := flag.String("lexicon", "", "Lexicon text file to preload into the in-memory cache")
	importFlag := flag.String("import", "", "Lexicon text file to bulk-import into the database")
	lexiconURL := flag.String("lexicon-url", "", "Download URL used when -lexicon is missing")
	urlFlag := flag.String("url", "", "URL of a document to phonemize word by word")
	workersFlag := flag.Int("workers", 4, "Workers for document mode")
	flag.Parse()

	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn, err := sql.Open("sqlite3", *dbFlag)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	if err := db.InitDB(conn); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Bulk import mode: load a lexicon artifact into the store and exit.
	if *importFlag != "" {
		importer := lexfile.NewImporter(conn)
		importer.Logger = log.Default()
		count, err := importer.ImportFile(*importFlag)
		if err != nil {
			log.Fatalf("Failed to import lexicon: %v", err)
		}
		fmt.Printf("Imported %d pronunciations from %s\n", count, *importFlag)
		return
	}

	analyzer, err := newAnalyzer(*langFlag)
	if err != nil {
		log.Fatalf("Failed to create analyzer: %v", err)
	}

	resolver := phonemize.NewResolver(db.NewStore(conn), analyzer)
	resolver.WriteBack = !*noWriteback
	resolver.Logger = log.Default()
	if !isJapanese(*langFlag) {
		resolver.Casing = phonemize.Lower
		resolver.Transforms = []phonemize.Transform{
			phonemize.StripAccents,
			phonemize.TrimPossessive,
		}
	}

	if *lexiconFlag != "" {
		if *lexiconURL != "" {
			if err := lexfile.EnsureLexicon(ctx, *lexiconFlag, *lexiconURL); err != nil {
				log.Printf("Warning: failed to fetch lexicon: %v. Continuing without it.", err)
			}
		}
		if f, err := os.Open(*lexiconFlag); err != nil {
			log.Printf("Warning: failed to open lexicon %s: %v", *lexiconFlag, err)
		} else {
			count, err := resolver.LoadLexicon(f)
			f.Close()
			if err != nil {
				log.Fatalf("Failed to load lexicon: %v", err)
			}
			fmt.Printf("Preloaded %d lexicon entries\n", count)
		}
	}

	switch {
	case *wordFlag != "":
		resolveWord(resolver, *wordFlag, phonemize.Role(*roleFlag), *exactFlag)
	case *urlFlag != "":
		phonemizeURL(ctx, resolver, *urlFlag, *workersFlag)
	default:
		log.Fatal("Please provide a -word, -url or -import")
	}
}

func isJapanese(lang string) bool {
	return lang == "ja" || lang == "Japanese"
}

func newAnalyzer(lang string) (phonemize.Analyzer, error) {
	if isJapanese(lang) {
		return g2p.NewKagome()
	}
	return g2p.NewGoruut(lang), nil
}

func resolveWord(resolver *phonemize.Resolver, word string, role phonemize.Role, exact bool) {
	var pron phonemize.Pronunciation
	var err error
	switch {
	case exact:
		pron, err = resolver.ResolveExact(word, role)
	case role != phonemize.RoleAny:
		pron, err = resolver.ResolveRole(word, role)
	default:
		pron, err = resolver.Resolve(word)
	}
	if err != nil {
		if err == phonemize.ErrNotFound {
			fmt.Printf("%s: not found\n", word)
			os.Exit(1)
		}
		log.Fatalf("Failed to resolve %q: %v", word, err)
	}
	fmt.Printf("%s\t%s\n", word, pron)
}

func phonemizeURL(ctx context.Context, resolver *phonemize.Resolver, pageURL string, workers int) {
	fmt.Printf("Fetching %s...\n", pageURL)

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to fetch URL: %v", err)
	}
	defer resp.Body.Close()

	article, err := readability.FromReader(resp.Body, req.URL)
	if err != nil {
		log.Fatalf("Failed to extract article: %v", err)
	}
	fmt.Printf("Extracted %q (%d chars)\n", article.Title, len(article.TextContent))

	ph := pipeline.NewPhonemizer(resolver)
	ph.Workers = workers
	ph.OnProgress = func(current, total int) {
		fmt.Printf("\rPhonemizing... %d/%d", current, total)
	}

	start := time.Now()
	results, err := ph.PhonemizeDocument(ctx, article.TextContent)
	if err != nil {
		log.Fatalf("Failed to phonemize document: %v", err)
	}
	fmt.Printf("\nDone in %v\n", time.Since(start))

	misses := 0
	for _, res := range results {
		if !res.Found {
			misses++
			continue
		}
		fmt.Printf("%s\t%s\n", res.Word, strings.Join(res.Phonemes, " "))
	}
	if misses > 0 {
		fmt.Printf("%d words had no pronunciation\n", misses)
	}
}
