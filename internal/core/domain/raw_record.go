package domain

// RawRecord is a source transaction as decoded from the wire: a JSON-like map whose numbers are
// kept as json.Number so canonicalization is lossless.
type RawRecord map[string]any

// String returns the string value of key, or "" when absent or not a string.
func (r RawRecord) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Bool returns the boolean value of key, or false when absent or not a bool.
func (r RawRecord) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// TxnID returns the source transaction id.
func (r RawRecord) TxnID() string { return r.String("transaction_id") }
