package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redpanda-data/benthos/v4/public/service"
	_ "github.com/redpanda-data/benthos/v4/public/components/io"
	_ "github.com/redpanda-data/benthos/v4/public/components/pure"

	"github.com/cartograf/pdxsave/pkg/clausewitz"
	"github.com/cartograf/pdxsave/pkg/eu5"
	"github.com/cartograf/pdxsave/pkg/savefile"
	"github.com/cartograf/pdxsave/pkg/treequery"
)

// SaveProcessor is a Benthos processor that decodes Clausewitz save
// files into structured JSON messages.
type SaveProcessor struct {
	config  SaveConfig
	parser  *savefile.Parser
	logger  *service.Logger
	mParsed *service.MetricCounter
	mErrors *service.MetricCounter
}

// SaveConfig contains configuration parameters for the processor.
type SaveConfig struct {
	Game           string `json:"game" yaml:"game"`
	DictionaryPath string `json:"dictionary_path" yaml:"dictionary_path"`
	Output         string `json:"output" yaml:"output"`
	Section        string `json:"section" yaml:"section"`
}

func init() {
	err := service.RegisterProcessor(
		"pdxsave",
		saveProcessorConfig(),
		func(conf *service.ParsedConfig, mgr *service.Resources) (service.Processor, error) {
			return newSaveProcessorFromConfig(conf, mgr)
		},
	)
	if err != nil {
		panic(err)
	}
}

// saveProcessorConfig returns a config spec for a pdxsave processor.
func saveProcessorConfig() *service.ConfigSpec {
	return service.NewConfigSpec().
		Summary("Decodes Clausewitz-engine save files into structured JSON.").
		Description("This processor classifies a save container (text, binary, compressed), decodes the requested section, and emits it as a structured message.").
		Field(service.NewStringField("game").
			Description("Which game's typed records to use. Currently `eu5`, or `generic` for the untyped tree only.").
			Default("eu5")).
		Field(service.NewStringField("dictionary_path").
			Description("Path to the YAML token registry mapping binary token ids to names. Leave empty to rely on inline and lookup string keys only.").
			Default("")).
		Field(service.NewStringField("output").
			Description("What to emit: `meta` for the typed metadata record, or `tree` for the untyped tree of a text section.").
			Default("meta")).
		Field(service.NewStringField("section").
			Description("Which member to read in `tree` mode: `meta` or `gamestate`.").
			Default("meta")).
		Version("0.1.0")
}

func newSaveProcessorFromConfig(conf *service.ParsedConfig, mgr *service.Resources) (*SaveProcessor, error) {
	game, err := conf.FieldString("game")
	if err != nil {
		return nil, err
	}
	dictionaryPath, err := conf.FieldString("dictionary_path")
	if err != nil {
		return nil, err
	}
	output, err := conf.FieldString("output")
	if err != nil {
		return nil, err
	}
	section, err := conf.FieldString("section")
	if err != nil {
		return nil, err
	}

	switch game {
	case "eu5", "generic":
	default:
		return nil, fmt.Errorf("unknown game %q", game)
	}
	switch output {
	case "meta", "tree":
	default:
		return nil, fmt.Errorf("unknown output mode %q", output)
	}
	if dictionaryPath != "" {
		if _, err := os.Stat(dictionaryPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("token registry not found at path: %s", dictionaryPath)
		}
	}

	opts := []savefile.Option{}
	if dictionaryPath != "" {
		opts = append(opts, savefile.WithDictionaryPath(dictionaryPath))
	}
	parser, err := savefile.NewParser(opts...)
	if err != nil {
		return nil, err
	}

	metrics := mgr.Metrics()
	return &SaveProcessor{
		config: SaveConfig{
			Game:           game,
			DictionaryPath: dictionaryPath,
			Output:         output,
			Section:        section,
		},
		parser:  parser,
		logger:  mgr.Logger(),
		mParsed: metrics.NewCounter("pdxsave_parsed_messages"),
		mErrors: metrics.NewCounter("pdxsave_processing_errors"),
	}, nil
}

// Process decodes one save-file message.
func (p *SaveProcessor) Process(ctx context.Context, msg *service.Message) (service.MessageBatch, error) {
	data, err := msg.AsBytes()
	if err != nil {
		return p.fail(msg, fmt.Errorf("failed to get save data from message: %w", err))
	}
	if len(data) == 0 {
		return p.fail(msg, fmt.Errorf("empty save data provided"))
	}

	save, err := p.parser.Open(ctx, data)
	if err != nil {
		return p.fail(msg, fmt.Errorf("failed to open save of size %d bytes: %w", len(data), err))
	}
	p.logger.Debugf("Opened %s save of %d bytes", save.Format, len(data))

	var result any
	switch p.config.Output {
	case "meta":
		result, err = p.decodeMeta(save)
	case "tree":
		result, err = p.decodeTree(save)
	}
	if err != nil {
		return p.fail(msg, err)
	}

	p.mParsed.Incr(1)
	newMsg := service.NewMessage(nil)
	newMsg.SetStructured(result)
	newMsg.MetaSet("save_format", save.Format.String())
	msg.MetaWalk(func(key, value string) error {
		newMsg.MetaSet(key, value)
		return nil
	})
	return service.MessageBatch{newMsg}, nil
}

func (p *SaveProcessor) decodeMeta(save *savefile.Save) (any, error) {
	if p.config.Game != "eu5" {
		return nil, fmt.Errorf("output mode meta requires game eu5")
	}
	// Headerless saves carry no separate meta member; the metadata
	// fields sit at the top of the gamestate instead.
	section := save.Meta
	decoder := save.MetaDecoder()
	if len(section) == 0 {
		section = save.Gamestate
		decoder = save.GamestateDecoder()
	}
	var meta eu5.RawMeta
	var err error
	if save.Format.Binary() {
		meta, err = eu5.DecodeMeta(&decoder)
	} else {
		textDecoder := clausewitz.NewTextDecoder(string(section))
		meta, err = eu5.DecodeMetaText(&textDecoder)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return metaToMap(meta), nil
}

func (p *SaveProcessor) decodeTree(save *savefile.Save) (any, error) {
	if save.Format.Binary() {
		return nil, fmt.Errorf("output mode tree requires a text save")
	}
	section := save.Meta
	if p.config.Section == "gamestate" || len(section) == 0 {
		section = save.Gamestate
	}
	tree, err := clausewitz.ParseText(string(section))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s section: %w", p.config.Section, err)
	}
	return treequery.FromObject(tree), nil
}

func metaToMap(meta eu5.RawMeta) map[string]any {
	return map[string]any{
		"date":           meta.Date.String(),
		"playthrough_id": meta.PlaythroughID,
		"version":        meta.Version,
		"compatibility": map[string]any{
			"version":   meta.Compatibility.Version,
			"locations": meta.Compatibility.Locations,
		},
	}
}

func (p *SaveProcessor) fail(msg *service.Message, err error) (service.MessageBatch, error) {
	p.logger.Errorf("%v", err)
	p.mErrors.Incr(1)
	msg.SetError(err)
	return service.MessageBatch{msg}, nil
}

// Close the processor resources.
func (p *SaveProcessor) Close(ctx context.Context) error {
	return nil
}

func main() {
	service.RunCLI(context.Background())
}
