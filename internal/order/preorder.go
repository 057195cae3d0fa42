// Package order turns the mini-app pre-order payload into a staff message.
// The payload is untrusted: any field may be missing or of the wrong type.
package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

const TypePreorder = "preorder"

var (
	ErrMalformed   = errors.New("malformed order payload")
	ErrNotPreorder = errors.New("payload is not a preorder")
)

var decoder = sonic.Config{UseNumber: true}.Froze()

type Item struct {
	Name string
	Qty  string
	// Sum is empty when the payload has no line sum.
	Sum string
}

type Preorder struct {
	Phone       string
	DesiredTime string
	Comment     string
	Total       string
	Items       []Item
}

// Parse decodes raw and checks the discriminant. Valid JSON that is not an
// object is reported as ErrNotPreorder. Items that are not objects are dropped.
func Parse(raw string) (*Preorder, error) {
	var payload any
	if err := decoder.UnmarshalFromString(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	data, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not an object", ErrNotPreorder, payload)
	}

	if kind, _ := data["type"].(string); kind != TypePreorder {
		return nil, fmt.Errorf("%w: type %s", ErrNotPreorder, scalar(data["type"]))
	}

	p := &Preorder{
		Phone:       scalar(data["phone"]),
		DesiredTime: scalar(data["desired_time"]),
		Comment:     optional(data["comment"]),
		Total:       optional(data["total"]),
	}
	if p.Total == "" {
		p.Total = "0"
	}

	items, _ := data["items"].([]any)
	for _, raw := range items {
		it, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		p.Items = append(p.Items, Item{
			Name: scalar(it["name"]),
			Qty:  scalar(it["qty"]),
			Sum:  optional(it["sum"]),
		})
	}

	return p, nil
}

// scalar renders a payload value for display, "-" when absent or not
// representable.
func scalar(v any) string {
	if s := optional(v); s != "" {
		return s
	}
	return placeholder
}

func optional(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
