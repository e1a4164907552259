package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dhamidi/fieldpath/chain"
	"github.com/dhamidi/fieldpath/typemodel"
)

type JSONEncoder struct {
	w          io.Writer
	model      typemodel.Model
	expression string
	chain      *chain.Chain
}

func NewJSONEncoder(w io.Writer, m typemodel.Model) *JSONEncoder {
	return &JSONEncoder{w: w, model: m}
}

func (e *JSONEncoder) Encode(expression string, c *chain.Chain) error {
	e.expression, e.chain = expression, c
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	if e.chain == nil {
		return nil, fmt.Errorf("no chain to encode")
	}
	return json.MarshalIndent(buildChainData(e.model, e.expression, e.chain), "", "  ")
}
