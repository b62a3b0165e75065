// Command tokenrecover rebuilds a binary token registry by walking a
// binary save and its melted text equivalent side by side. The two
// token streams line up one to one, so every opaque binary id that
// faces a text string reveals that id's key name. The result is
// written as a YAML registry usable with savefile.WithDictionaryPath.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cartograf/pdxsave/pkg/clausewitz"
	"github.com/cartograf/pdxsave/pkg/savefile"
)

func main() {
	binaryPath := flag.String("binary", "", "path to the binary save")
	textPath := flag.String("text", "", "path to the melted text save")
	outPath := flag.String("out", "", "path to write the YAML token registry")
	flag.Parse()

	if *binaryPath == "" || *textPath == "" || *outPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	names, err := recoverTokens(*binaryPath, *textPath)
	if err != nil {
		log.Fatalf("Failed to recover tokens: %v", err)
	}
	log.Printf("Recovered %d token names", len(names))

	registry, err := clausewitz.NewDictionary(names).Marshal()
	if err != nil {
		log.Fatalf("Failed to marshal registry: %v", err)
	}
	if err := os.WriteFile(*outPath, registry, 0o644); err != nil {
		log.Fatalf("Failed to write registry: %v", err)
	}
}

func recoverTokens(binaryPath, textPath string) (map[uint16]string, error) {
	parser, err := savefile.NewParser()
	if err != nil {
		return nil, err
	}
	ctx := context.Background()

	binData, err := os.ReadFile(binaryPath)
	if err != nil {
		return nil, err
	}
	binSave, err := parser.Open(ctx, binData)
	if err != nil {
		return nil, fmt.Errorf("opening binary save: %w", err)
	}
	if !binSave.Format.Binary() {
		return nil, fmt.Errorf("expected a binary save, got %s", binSave.Format)
	}
	// The gamestate member repeats the metadata at its start; skip it
	// so the stream begins where the melted text does.
	binGamestate := binSave.Gamestate
	if bytes.HasPrefix(binGamestate, binSave.Meta) {
		binGamestate = binGamestate[len(binSave.Meta):]
	}

	textData, err := os.ReadFile(textPath)
	if err != nil {
		return nil, err
	}
	textSave, err := parser.Open(ctx, textData)
	if err != nil {
		return nil, fmt.Errorf("opening text save: %w", err)
	}
	if textSave.Format.Binary() {
		return nil, fmt.Errorf("expected a text save, got %s", textSave.Format)
	}

	binLexer := clausewitz.NewBinLexer(binGamestate)
	textLexer := clausewitz.NewTextLexer(string(textSave.Gamestate))

	names := make(map[uint16]string)
	for i := 0; ; i++ {
		binTok, binOK, err := binLexer.Next()
		if err != nil {
			return nil, fmt.Errorf("binary token %d: %w", i, err)
		}
		textTok, textOK := textLexer.Next()
		if !binOK || !textOK {
			break
		}
		if err := pair(binTok, textTok, names); err != nil {
			return nil, fmt.Errorf("unmatched at token %08d: %w", i, err)
		}
	}
	return names, nil
}

// pair checks that one binary token and one text token can describe
// the same value, recording key names for opaque binary ids.
func pair(bin clausewitz.BinToken, text clausewitz.TextToken, names map[uint16]string) error {
	switch bin.Kind {
	case clausewitz.BinEqual:
		if text.Kind == clausewitz.TextEqual {
			return nil
		}
	case clausewitz.BinOpenBracket:
		if text.Kind == clausewitz.TextOpenBracket {
			return nil
		}
	case clausewitz.BinCloseBracket:
		if text.Kind == clausewitz.TextCloseBracket {
			return nil
		}
	case clausewitz.BinOther:
		// an opaque id facing a text string is a recovered key name
		if text.Kind == clausewitz.TextStringQuoted || text.Kind == clausewitz.TextStringUnquoted {
			if _, seen := names[bin.ID]; !seen {
				names[bin.ID] = text.Text
				log.Printf("Token %5d: %s", bin.ID, text.Text)
			}
			return nil
		}
	default:
		// scalars melt to scalars; the melter renders numbers as
		// strings and vice versa freely, so any scalar pairing holds
		if isTextScalar(text.Kind) {
			return nil
		}
	}
	return fmt.Errorf("%s vs %s", bin, text)
}

func isTextScalar(kind clausewitz.TextTokenKind) bool {
	switch kind {
	case clausewitz.TextInt, clausewitz.TextUint, clausewitz.TextFloat,
		clausewitz.TextBool, clausewitz.TextStringQuoted, clausewitz.TextStringUnquoted:
		return true
	}
	return false
}
