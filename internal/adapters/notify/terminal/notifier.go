package terminal

import (
	"fmt"
	"io"

	"github.com/egemenh/salestracker/internal/ports"
)

// Notifier rings the terminal bell when a background pass finds new sales,
// the desktop-notification equivalent for a terminal dashboard.
type Notifier struct {
	out io.Writer
}

var _ ports.Notifier = (*Notifier)(nil)

func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

func (n *Notifier) SalesArrived(int) {
	if n.out == nil {
		return
	}
	_, _ = fmt.Fprint(n.out, "\a")
}
