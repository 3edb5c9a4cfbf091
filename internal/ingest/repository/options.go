package repository

// Options locate the stock table.
type Options struct {
	Schema string
	Table  string
}
