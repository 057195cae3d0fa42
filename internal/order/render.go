package order

import (
	"fmt"
	"strings"
)

const (
	placeholder = "-"
	noItems     = "(позиции не указаны)"
	header      = "🛒 НОВЫЙ ПРЕДЗАКАЗ (Mini App)"
)

// Line renders one item as "- name × qty = sum ₽"; the sum part is left out
// when the payload had none.
func (it Item) Line() string {
	line := fmt.Sprintf("- %s × %s", it.Name, it.Qty)
	if it.Sum != "" {
		line += fmt.Sprintf(" = %s ₽", it.Sum)
	}
	return line
}

// Render builds the staff message. who is the submitter as it should be shown.
func (p *Preorder) Render(who string) string {
	var b strings.Builder
	b.WriteString(header + "\n\n")
	fmt.Fprintf(&b, "От: %s\n", who)
	fmt.Fprintf(&b, "Телефон: %s\n", p.Phone)
	fmt.Fprintf(&b, "Время: %s\n\n", p.DesiredTime)

	if len(p.Items) == 0 {
		b.WriteString(noItems)
	}
	for i, it := range p.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(it.Line())
	}

	fmt.Fprintf(&b, "\n\nИтого: %s ₽", p.Total)
	if p.Comment != "" {
		fmt.Fprintf(&b, "\nКомментарий: %s", p.Comment)
	}
	return b.String()
}
