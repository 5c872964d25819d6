// Command bridgenlp runs the annotation pipeline over text from a file or
// stdin and prints the combined result as JSON. HTML input is reduced to
// its text content first. Results can optionally be persisted to a SQLite
// annotation store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/dcondrey/BridgeNLP/pkg/bridge/adapters"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/config"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/document"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/pipeline"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/store"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/store/sqlite"
)

func main() {
	var (
		inputPath   = flag.String("input", "-", "input file path, or - for stdin")
		htmlInput   = flag.Bool("html", false, "treat input as HTML and extract its text")
		configPath  = flag.String("config", "", "optional YAML config file")
		phrasesPath = flag.String("phrases", "", "optional YAML phrase dictionary")
		lexiconPath = flag.String("lexicon", "", "optional YAML sentiment lexicon")
		dbPath      = flag.String("db", "", "optional SQLite path to persist the annotation")
		showMetrics = flag.Bool("metrics", false, "print pipeline metrics to stderr")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal("Failed to load config: ", err)
		}
		cfg = loaded
	} else {
		cfg.ApplyEnv()
		if err := cfg.Validate(); err != nil {
			log.Fatal("Invalid configuration: ", err)
		}
	}

	text, err := readInput(*inputPath, *htmlInput)
	if err != nil {
		log.Fatal("Failed to read input: ", err)
	}
	if strings.TrimSpace(text) == "" {
		log.Fatal("Input is empty")
	}

	phrases := defaultPhrases()
	if *phrasesPath != "" {
		phrases, err = adapters.LoadPhrases(*phrasesPath)
		if err != nil {
			log.Fatal("Failed to load phrases: ", err)
		}
	}
	positive, negative := defaultLexicon()
	if *lexiconPath != "" {
		positive, negative, err = adapters.LoadLexicon(*lexiconPath)
		if err != nil {
			log.Fatal("Failed to load lexicon: ", err)
		}
	}

	p, err := pipeline.New(cfg,
		adapters.NewPhraseMatcher(cfg, phrases),
		adapters.NewSentiment(cfg, positive, negative),
	)
	if err != nil {
		log.Fatal("Failed to build pipeline: ", err)
	}
	defer p.Close()

	ctx := context.Background()
	doc := document.New(text)
	res, err := p.FromDocument(ctx, doc)
	if err != nil {
		log.Fatal("Failed to process document: ", err)
	}

	out, err := json.MarshalIndent(res.ToJSON(), "", "  ")
	if err != nil {
		log.Fatal("Failed to encode result: ", err)
	}
	fmt.Println(string(out))

	if *dbPath != "" {
		st, err := sqlite.Open(ctx, *dbPath)
		if err != nil {
			log.Fatal("Failed to open store: ", err)
		}
		defer st.Close()
		ann := store.Annotation{
			DocID:     doc.ID(),
			Text:      text,
			Result:    res,
			CreatedAt: time.Now().UTC(),
		}
		if err := st.UpsertAnnotation(ctx, ann); err != nil {
			log.Fatal("Failed to persist annotation: ", err)
		}
		log.Printf("Stored annotation for document %s", doc.ID())
	}

	if *showMetrics {
		metrics, _ := json.Marshal(p.GetMetrics())
		fmt.Fprintln(os.Stderr, string(metrics))
	}
}

func readInput(path string, isHTML bool) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	text := string(data)
	if isHTML {
		text = extractText(text)
	}
	return text, nil
}

// extractText reduces an HTML document to its visible text content.
func extractText(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to the raw string if parsing fails
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}

// defaultPhrases is a tiny built-in dictionary used when no -phrases file
// is given, so the command produces useful output out of the box.
func defaultPhrases() []adapters.Phrase {
	return []adapters.Phrase{
		{Canonical: "machine learning", Category: "TOPIC", Variants: []string{"ml"}},
		{Canonical: "artificial intelligence", Category: "TOPIC", Variants: []string{"ai"}},
		{Canonical: "natural language processing", Category: "TOPIC", Variants: []string{"nlp"}},
	}
}

func defaultLexicon() (positive, negative []string) {
	positive = []string{"good", "great", "excellent", "amazing", "love", "useful", "fast"}
	negative = []string{"bad", "terrible", "awful", "hate", "broken", "slow", "useless"}
	return positive, negative
}
