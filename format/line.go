package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/fieldpath/chain"
	"github.com/dhamidi/fieldpath/typemodel"
)

// LineEncoder writes a header line followed by one tab separated line per
// chain element:
//
//	chain	<expression>	<caller>	<type>	static|instance
//	this	<class>
//	outer	<inner>	<enclosing>	<depth>
//	field	<name>	<type>	<declaring>	<membering>	<visibility>	<modifiers>
type LineEncoder struct {
	w          io.Writer
	model      typemodel.Model
	expression string
	chain      *chain.Chain
}

func NewLineEncoder(w io.Writer, m typemodel.Model) *LineEncoder {
	return &LineEncoder{w: w, model: m}
}

func (e *LineEncoder) Encode(expression string, c *chain.Chain) error {
	e.expression, e.chain = expression, c
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	if e.chain == nil {
		return nil, fmt.Errorf("no chain to encode")
	}
	data := buildChainData(e.model, e.expression, e.chain)
	var sb strings.Builder

	context := "instance"
	if data.Static {
		context = "static"
	}
	fmt.Fprintf(&sb, "chain\t%s\t%s\t%s\t%s\n", data.Expression, data.Caller, data.Type, context)

	for _, el := range data.Elements {
		switch el.Kind {
		case "this":
			fmt.Fprintf(&sb, "this\t%s\n", el.Class)
		case "outer":
			fmt.Fprintf(&sb, "outer\t%s\t%s\t%d\n", el.Class, el.Enclosing, *el.Depth)
		case "field":
			f := el.Field
			fmt.Fprintf(&sb, "field\t%s\t%s\t%s\t%s\t%s\t%s\n",
				f.Name,
				f.Type,
				f.Declaring,
				el.Class,
				f.Visibility,
				modifiersStr(f.Modifiers),
			)
		}
	}
	return []byte(sb.String()), nil
}

func modifiersStr(mods []string) string {
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, ",")
}
