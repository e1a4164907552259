package format

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dhamidi/fieldpath/chain"
	"github.com/dhamidi/fieldpath/typemodel"
	"gopkg.in/yaml.v3"
)

// YAMLEncoder writes each chain as its own YAML document.
type YAMLEncoder struct {
	w          io.Writer
	model      typemodel.Model
	expression string
	chain      *chain.Chain
	written    bool
}

func NewYAMLEncoder(w io.Writer, m typemodel.Model) *YAMLEncoder {
	return &YAMLEncoder{w: w, model: m}
}

func (e *YAMLEncoder) Encode(expression string, c *chain.Chain) error {
	e.expression, e.chain = expression, c
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if e.written {
		if _, err := io.WriteString(e.w, "---\n"); err != nil {
			return err
		}
	}
	e.written = true
	_, err = e.w.Write(text)
	return err
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	if e.chain == nil {
		return nil, fmt.Errorf("no chain to encode")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(buildChainData(e.model, e.expression, e.chain)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
