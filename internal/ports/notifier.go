package ports

// Notifier signals that new sales arrived during a background pass.
type Notifier interface {
	SalesArrived(count int)
}
