// Package batch implements the xmledit CLI's "edit" subcommand: a YAML
// document describing a sequence of Editor operations to apply to a parsed
// document, decoded with github.com/goccy/go-yaml (SPEC_FULL.md §A). It is
// a CLI-level convenience, not part of the core document model — the core
// xml package knows nothing about YAML or file batches.
package batch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	xmlmodel "github.com/arturoeanton/xmledit/xml"
)

// SerializerConfig mirrors xml.Config's fields in YAML-friendly form.
type SerializerConfig struct {
	PrettyPrint       bool   `yaml:"prettyPrint"`
	Indent            string `yaml:"indent"`
	PreserveComments  *bool  `yaml:"preserveComments"`
	PreserveInstructs *bool  `yaml:"preserveProcessingInstructions"`
	DefaultQuote      string `yaml:"defaultQuoteStyle"`
}

// Operation is a single batch-edit step.
type Operation struct {
	Op                 string `yaml:"op"`
	Path               string `yaml:"path"`
	Name               string `yaml:"name"`
	Value              string `yaml:"value"`
	Text               string `yaml:"text"`
	Quote              string `yaml:"quote"`
	PreserveWhitespace bool   `yaml:"preserveWhitespace"`
	BlankBefore        bool   `yaml:"blankBefore"`
	BlankAfter         bool   `yaml:"blankAfter"`
	Count              int    `yaml:"count"`
}

// Config is the top-level batch-edit document.
type Config struct {
	Serializer SerializerConfig `yaml:"serializer"`
	Operations []Operation      `yaml:"operations"`
}

// Parse decodes a batch-edit YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("batch: parsing config: %w", err)
	}
	return &cfg, nil
}

// SerializerOptions builds an xml.Config starting from base and layering
// c's overrides on top.
func (c *Config) SerializerOptions(base xmlmodel.Config) xmlmodel.Config {
	cfg := base.WithPrettyPrint(c.Serializer.PrettyPrint)
	if c.Serializer.Indent != "" {
		cfg = cfg.WithIndent(c.Serializer.Indent)
	}
	if c.Serializer.PreserveComments != nil {
		cfg = cfg.WithPreserveComments(*c.Serializer.PreserveComments)
	}
	if c.Serializer.PreserveInstructs != nil {
		cfg = cfg.WithPreserveProcessingInstructions(*c.Serializer.PreserveInstructs)
	}
	switch c.Serializer.DefaultQuote {
	case "single":
		cfg = cfg.WithDefaultQuoteStyle(xmlmodel.SingleQuote)
	case "double", "":
	default:
	}
	return cfg
}

// Apply runs every operation against doc in order, using ed for the
// mutations the Editor exposes. It stops at the first failing operation,
// leaving earlier operations' effects in place — batch application is not
// transactional across operations, only within each one (§7 "all editor
// mutations are atomic with respect to their arguments").
func Apply(doc *xmlmodel.Document, ed xmlmodel.Editor, ops []Operation) error {
	for i, op := range ops {
		if err := applyOne(doc, ed, op); err != nil {
			return fmt.Errorf("batch: operation %d (%s): %w", i, op.Op, err)
		}
	}
	return nil
}

func applyOne(doc *xmlmodel.Document, ed xmlmodel.Editor, op Operation) error {
	switch op.Op {
	case "setAttr":
		el, err := Resolve(doc, op.Path)
		if err != nil {
			return err
		}
		el.SetAttr(op.Name, op.Value, quoteStyles(op.Quote)...)
		return nil

	case "removeAttr":
		el, err := Resolve(doc, op.Path)
		if err != nil {
			return err
		}
		el.RemoveAttr(op.Name)
		return nil

	case "setText":
		el, err := Resolve(doc, op.Path)
		if err != nil {
			return err
		}
		if op.PreserveWhitespace {
			el.SetTextContentPreserveWhitespace(op.Text)
		} else {
			el.SetTextContent(op.Text)
		}
		return nil

	case "addElement":
		parent, err := Resolve(doc, op.Path)
		if err != nil {
			return err
		}
		_, err = ed.AddElement(parent, op.Name, xmlmodel.AddElementOptions{
			Text:        op.Text,
			BlankBefore: op.BlankBefore,
			BlankAfter:  op.BlankAfter,
		})
		return err

	case "removeElement":
		el, err := Resolve(doc, op.Path)
		if err != nil {
			return err
		}
		if !ed.RemoveElement(el) {
			return fmt.Errorf("could not remove element at %q", op.Path)
		}
		return nil

	case "commentOut":
		el, err := Resolve(doc, op.Path)
		if err != nil {
			return err
		}
		_, err = ed.CommentOutElement(el)
		return err

	default:
		return fmt.Errorf("unknown operation %q", op.Op)
	}
}

func quoteStyles(name string) []xmlmodel.QuoteStyle {
	switch name {
	case "single":
		return []xmlmodel.QuoteStyle{xmlmodel.SingleQuote}
	case "double":
		return []xmlmodel.QuoteStyle{xmlmodel.DoubleQuote}
	default:
		return nil
	}
}

// Resolve walks a slash-separated path of local element names from the
// document root, e.g. "config/servers/server" to the first matching
// descendant, with an optional "[n]" suffix on any segment selecting the
// n-th (0-based) matching sibling instead of the first. This is a
// fixed-shape convenience for the batch format and the CLI's query
// subcommand, not a general query language — XPath-style query is
// explicitly out of scope (spec.md §1).
func Resolve(doc *xmlmodel.Document, path string) (*xmlmodel.Element, error) {
	root := doc.RootElement()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return root, nil
	}

	cur := root
	for _, seg := range segments {
		name, idx, hasIdx := parseSegment(seg)
		if hasIdx {
			matches := cur.ChildElements(name)
			if idx < 0 || idx >= len(matches) {
				return nil, fmt.Errorf("no element %q[%d] under %q", name, idx, cur.Name.String())
			}
			cur = matches[idx]
			continue
		}
		next := cur.FirstChildElement(name)
		if next == nil {
			return nil, fmt.Errorf("no child element %q under %q", name, cur.Name.String())
		}
		cur = next
	}
	return cur, nil
}

func parseSegment(seg string) (name string, idx int, hasIdx bool) {
	open := strings.IndexByte(seg, '[')
	if open < 0 || !strings.HasSuffix(seg, "]") {
		return seg, 0, false
	}
	n, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil {
		return seg, 0, false
	}
	return seg[:open], n, true
}
