package order

// transitions is the full status machine. Shipped, delivered and cancelled
// admit nothing beyond what is listed; delivered and cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether from → to is a legal move.
func CanTransition(from, to OrderStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValidStatus reports whether s names a known order status.
func IsValidStatus(s OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}
